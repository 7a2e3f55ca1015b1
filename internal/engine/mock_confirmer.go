package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/shedtally/internal/grid"
)

// MockConfirmer answers save confirmations with a fixed response and records
// the advisories it was shown.
type MockConfirmer struct {
	Err    error
	Calls  []grid.Advisory
	Accept bool
	mu     sync.Mutex
}

// NewMockConfirmer creates a confirmer that always gives answer.
func NewMockConfirmer(accept bool) *MockConfirmer {
	return &MockConfirmer{Accept: accept}
}

// ConfirmSave implements Confirmer.
func (m *MockConfirmer) ConfirmSave(_ context.Context, advisory grid.Advisory) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, advisory)
	return m.Accept, m.Err
}

// CallCount returns how many confirmations were requested.
func (m *MockConfirmer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
