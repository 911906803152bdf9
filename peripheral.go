package hapble

import (
	"context"
	"sync"
)

// PeripheralLinkOptions configures a PeripheralLink.
type PeripheralLinkOptions struct {
	// MaxAttempts bounds retries shared by every Characteristic on this
	// link; zero means defaultMaxAttempts.
	MaxAttempts int
	LogFactory  LoggerFactory
}

// PeripheralLink serializes access to a single physical GATT link shared
// by multiple Characteristic façades, and coalesces their reconnects
// through one Supervisor (spec §5: "a peripheral's GATT bus accepts one
// outstanding operation at a time; concurrent callers queue rather than
// interleave, and a dropped link triggers at most one reconnect no
// matter how many characteristics were mid-transaction").
type PeripheralLink struct {
	peripheral Peripheral
	supervisor *Supervisor

	mu sync.Mutex // held for the duration of one characteristic's operation
}

// NewPeripheralLink builds a PeripheralLink over peripheral.
func NewPeripheralLink(peripheral Peripheral, opts PeripheralLinkOptions) *PeripheralLink {
	log := scopedLogger(opts.LogFactory, "hapble-peripheral")
	return &PeripheralLink{
		peripheral: peripheral,
		supervisor: NewSupervisor(SupervisorOptions{
			MaxAttempts: opts.MaxAttempts,
			Reconnect:   peripheral.Reconnect,
			Log:         log,
		}),
	}
}

// Do serializes op against every other caller sharing this link, and
// retries it through the shared Supervisor.
func (p *PeripheralLink) Do(ctx context.Context, op func(ctx context.Context) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.supervisor.Do(ctx, op)
}
