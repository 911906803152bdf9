package hapble

import "crypto/rand"

// TransactionIDSource supplies transaction IDs for outbound requests. It
// is injected as a dependency (spec §9 design note) so tests can make
// transaction IDs deterministic without touching package state.
type TransactionIDSource interface {
	NextTransactionID() (byte, error)
}

// cryptoRandSource is the default TransactionIDSource, drawing a single
// random byte per call.
type cryptoRandSource struct{}

// DefaultTransactionIDSource draws transaction IDs from crypto/rand.
var DefaultTransactionIDSource TransactionIDSource = cryptoRandSource{}

func (cryptoRandSource) NextTransactionID() (byte, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
