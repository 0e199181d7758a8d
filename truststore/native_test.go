package truststore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeNativeStore struct {
	addErr, closeErr error

	added  [][]byte
	closed int
}

func (f *fakeNativeStore) addCert(der []byte) error {
	f.added = append(f.added, der)
	return f.addErr
}

func (f *fakeNativeStore) close() error {
	f.closed++
	return f.closeErr
}

func TestWithStore(t *testing.T) {
	errDenied := errors.New("access denied")
	errAdd := errors.New("failed adding cert")
	errClose := errors.New("failed to close store")

	tests := []struct {
		name string

		openErr, addErr, closeErr error

		wantErr   error
		wantFatal bool
		wantCalls int
	}{
		{
			name: "installed",

			wantCalls: 1,
		},
		{
			name: "open-fails",

			openErr: errDenied,

			wantErr:   errDenied,
			wantFatal: true,
		},
		{
			name: "add-fails",

			addErr: errAdd,

			wantErr:   errAdd,
			wantCalls: 1,
		},
		{
			name: "close-fails",

			closeErr: errClose,

			wantErr:   errClose,
			wantCalls: 1,
		},
		{
			name: "add-and-close-fail",

			addErr:   errAdd,
			closeErr: errClose,

			wantErr:   errAdd,
			wantCalls: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := &fakeNativeStore{addErr: test.addErr, closeErr: test.closeErr}
			open := func() (nativeStore, error) {
				if test.openErr != nil {
					return nil, test.openErr
				}
				return store, nil
			}

			der := []byte{0x30, 0x00}
			err := withStore(open, func(s nativeStore) error {
				return s.addCert(der)
			})

			if test.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, test.wantErr)
			}
			if want, got := test.wantFatal, IsFatal(err); want != got {
				t.Errorf("want fatal %t, got %t (%v)", want, got, err)
			}

			if want, got := test.wantCalls, len(store.added); want != got {
				t.Errorf("want %d added certs, got %d", want, got)
			}
			if want, got := test.wantCalls, store.closed; want != got {
				t.Errorf("want store closed %d times, got %d", want, got)
			}
		})
	}
}
