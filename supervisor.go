package hapble

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"github.com/pion/logging"
)

// defaultMaxAttempts bounds attempts when SupervisorOptions.MaxAttempts is
// zero: up to four transport failures in a row are retried.
// pyhomekit.HapCharacteristic.setup_tenacity uses max_attempts=2; callers
// that want that behavior set SupervisorOptions.MaxAttempts=2.
const defaultMaxAttempts = 5

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	// MaxAttempts bounds the number of attempts (the first try plus
	// retries). Zero means defaultMaxAttempts.
	MaxAttempts int
	// Reconnect re-establishes the GATT link. Required.
	Reconnect func(ctx context.Context) error
	// BackOff supplies the retry delay between attempts. Nil means a
	// backoff.NewExponentialBackOff(); tests typically pass
	// &backoff.ZeroBackOff{} to run without real delays.
	BackOff backoff.BackOff
	Log     logging.LeveledLogger
}

// Supervisor wraps transport-facing operations with bounded retries and
// reconnect-on-failure, per spec §4.E: only TransportError triggers a
// retry; every other error kind propagates on the first occurrence.
type Supervisor struct {
	maxAttempts uint64
	reconnect   func(ctx context.Context) error
	backOff     backoff.BackOff
	log         logging.LeveledLogger

	reconnecting chan struct{} // non-nil while a reconnect is in flight
}

// NewSupervisor builds a Supervisor. opts.Reconnect must be non-nil.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	log := opts.Log
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("hapble")
	}
	backOff := opts.BackOff
	if backOff == nil {
		backOff = backoff.NewExponentialBackOff()
	}
	return &Supervisor{
		maxAttempts: uint64(attempts),
		reconnect:   opts.Reconnect,
		backOff:     backOff,
		log:         log,
	}
}

// Do runs op, retrying on TransportError with a reconnect between
// attempts, up to MaxAttempts. Any other error returned by op propagates
// immediately without retry (spec §4.E, §7).
func (s *Supervisor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var attempt int
	policy := backoff.WithContext(backoff.WithMaxRetries(s.backOff, s.maxAttempts-1), ctx)

	err := backoff.Retry(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			// Application-level failure: do not retry (spec §4.E).
			return backoff.Permanent(err)
		}

		s.log.Warnf("hapble: attempt %d failed: %s; reconnecting", attempt, transportErr)
		if rErr := s.coalescedReconnect(ctx); rErr != nil {
			return backoff.Permanent(&TransportError{Op: "reconnect", Err: rErr})
		}
		return transportErr
	}, policy)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return &CancelledError{Op: "supervisor"}
	}
	return err
}

// coalescedReconnect ensures that if several goroutines observe a
// transport failure at once, only one of them calls Reconnect; the rest
// wait on that attempt's result (spec §5: "concurrent reconnect attempts
// must be coalesced").
func (s *Supervisor) coalescedReconnect(ctx context.Context) error {
	if s.reconnecting != nil {
		<-s.reconnecting
		return nil
	}
	done := make(chan struct{})
	s.reconnecting = done
	err := s.reconnect(ctx)
	close(done)
	s.reconnecting = nil
	return err
}
