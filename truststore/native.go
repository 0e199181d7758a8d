package truststore

// nativeStore is an open handle to an operating system certificate store.
type nativeStore interface {
	addCert(der []byte) error
	close() error
}

// withStore opens a store for the duration of fn and always closes it. Only
// a store that cannot be opened is fatal. A close failure is reported when
// fn succeeded.
func withStore(open func() (nativeStore, error), fn func(nativeStore) error) (err error) {
	store, err := open()
	if err != nil {
		return Error{Op: OpOpen, Fatal: err}
	}
	defer func() {
		if cerr := store.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(store)
}
