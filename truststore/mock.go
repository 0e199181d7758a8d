package truststore

import (
	"context"
	"slices"
	"sync"
)

var (
	mockMu  sync.Mutex
	MockCAs []*CA
)

func ResetMockCAs() {
	mockMu.Lock()
	defer mockMu.Unlock()

	MockCAs = []*CA{}
}

// Mock records installed CAs in MockCAs. Installing the same CA twice
// keeps a single record.
type Mock struct {
	// Outcomes, if set, is returned instead of an Installed outcome.
	Outcomes []Outcome

	// Err, if set, is returned after recording the CA.
	Err error
}

func (Mock) Description() string { return "Mock" }

func (m Mock) InstallCA(_ context.Context, ca *CA) ([]Outcome, error) {
	mockMu.Lock()
	if !slices.ContainsFunc(MockCAs, func(ca2 *CA) bool { return ca.UniqueName == ca2.UniqueName }) {
		MockCAs = append(MockCAs, ca)
	}
	mockMu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Outcomes != nil {
		return m.Outcomes, nil
	}
	return []Outcome{Installed(m.Description(), "")}, nil
}

func MockInstalled(ca *CA) bool {
	mockMu.Lock()
	defer mockMu.Unlock()

	return slices.ContainsFunc(MockCAs, func(ca2 *CA) bool { return ca.Equal(ca2.Certificate) })
}
