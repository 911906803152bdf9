package hapbletest

import (
	"context"
	"sync"
)

// Peripheral is an in-memory hapble.Peripheral for exercising the
// Supervisor's retry and reconnect-coalescing behavior.
type Peripheral struct {
	ReconnectFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls int
}

func (p *Peripheral) Reconnect(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.ReconnectFunc == nil {
		return nil
	}
	return p.ReconnectFunc(ctx)
}

// Calls reports how many times Reconnect has been invoked.
func (p *Peripheral) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
