package detect

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
type Mock struct {
	// DetectFunc is called when DetectLabels is invoked.
	DetectFunc func(ctx context.Context, image []byte) ([]Label, error)

	// CloseFunc is called when Close is invoked.
	CloseFunc func() error

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Time   time.Time
}

// NewMock creates a mock provider that returns a fixed label pair.
func NewMock() *Mock {
	return &Mock{
		DetectFunc: func(ctx context.Context, image []byte) ([]Label, error) {
			return []Label{
				{Name: "Cat", Confidence: 91.2},
				{Name: "Table", Confidence: 78.5},
			}, nil
		},
	}
}

// WithError returns a mock whose every detection fails with err.
func WithError(err error) *Mock {
	return &Mock{
		DetectFunc: func(ctx context.Context, image []byte) ([]Label, error) {
			return nil, err
		},
	}
}

// DetectLabels calls DetectFunc and records the call.
func (m *Mock) DetectLabels(ctx context.Context, image []byte) ([]Label, error) {
	m.record("DetectLabels")
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, image)
	}
	return nil, nil
}

// Close calls CloseFunc and records the call.
func (m *Mock) Close() error {
	m.record("Close")
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// record adds a call to the tracking list.
func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Time: time.Now()})
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Reset clears all recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
