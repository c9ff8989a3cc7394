package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/financas/internal/report"
)

// MockWriter records pushes instead of calling the Sheets API.
type MockWriter struct {
	err   error
	calls []WriteCall
	mu    sync.Mutex
}

// WriteCall is one recorded Write.
type WriteCall struct {
	Error  error
	Tables []report.Table
}

// NewMockWriter returns a MockWriter whose writes succeed.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the tables and returns the configured error.
func (m *MockWriter) Write(_ context.Context, tables ...report.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, WriteCall{Tables: tables, Error: m.err})
	return m.err
}

// Calls returns a copy of every recorded Write.
func (m *MockWriter) Calls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Pushed returns the most recent table written under name.
func (m *MockWriter) Pushed(name string) (report.Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.calls) - 1; i >= 0; i-- {
		for _, t := range m.calls[i].Tables {
			if t.Name == name {
				return t, true
			}
		}
	}
	return report.Table{}, false
}

// SetWriteError makes every later Write fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reset forgets recorded calls and the configured error.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.err = nil
}

var _ TableWriter = (*MockWriter)(nil)
