// Package hapbletest provides an in-memory GATT transport for exercising
// the hapble package without a real Bluetooth stack, in the style of
// pion-stun's stuntest UDP server: a handler function stands in for the
// peripheral.
package hapbletest

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/hapble/hapble"
)

var (
	errNoResponseQueued  = errors.New("hapbletest: no response frame queued")
	errUnknownDescriptor = errors.New("hapbletest: no value registered for descriptor")
)

// Handler answers one inbound write with the frames a real peripheral
// would send back. A nil returned slice means "no response queued for
// this write" (the caller will Read separately); most tests return
// exactly one response frame per write.
type Handler func(frame []byte) (response []byte, err error)

// Characteristic is an in-memory hapble.Characteristic transport. Writes
// are handed to Handler; the frames it returns are queued for
// subsequent Reads, modeling a GATT notification/read-back.
type Characteristic struct {
	Handler Handler

	// Descriptors maps a descriptor UUID to the bytes Read on it; used
	// for the HAP characteristic-instance-ID descriptor.
	Descriptors map[uuid.UUID][]byte

	// FailWrites/FailReads, when non-nil, are returned from Write/Read
	// instead of invoking Handler, simulating a dropped GATT link.
	FailWrites error
	FailReads  error

	mu    sync.Mutex
	queue [][]byte
}

// NewCharacteristic builds a Characteristic with the given instance ID
// already resolvable through the HAP instance-ID descriptor.
func NewCharacteristic(cid uuid.UUID, handler Handler) *Characteristic {
	cidBytes, _ := cid.MarshalBinary()
	return &Characteristic{
		Handler:     handler,
		Descriptors: map[uuid.UUID][]byte{instanceIDDescriptorUUID: cidBytes},
	}
}

// instanceIDDescriptorUUID mirrors hapble's characteristicIDDescriptorUUID;
// duplicated here rather than exported from hapble, since the wire UUID
// is a BLE constant any conforming transport must already know.
var instanceIDDescriptorUUID = uuid.MustParse("DC46F0FE-81D2-4616-B5D9-6ABDD796939A")

func (c *Characteristic) Write(ctx context.Context, p []byte, withResponse bool) error {
	if c.FailWrites != nil {
		return c.FailWrites
	}
	if c.Handler == nil {
		return nil
	}
	resp, err := c.Handler(p)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	c.mu.Lock()
	c.queue = append(c.queue, resp)
	c.mu.Unlock()
	return nil
}

func (c *Characteristic) Read(ctx context.Context) ([]byte, error) {
	if c.FailReads != nil {
		return nil, c.FailReads
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return nil, errNoResponseQueued
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	return next, nil
}

func (c *Characteristic) Descriptor(ctx context.Context, id uuid.UUID) (hapble.Descriptor, error) {
	value, ok := c.Descriptors[id]
	if !ok {
		return nil, errUnknownDescriptor
	}
	return descriptor{value: value}, nil
}

// descriptor is the trivial hapble.Descriptor implementation: a fixed
// byte slice handed back verbatim on Read.
type descriptor struct {
	value []byte
}

func (d descriptor) Read(ctx context.Context) ([]byte, error) {
	return d.value, nil
}

// QueueRaw pushes a response frame directly, bypassing Handler — useful
// for tests that pre-script a sequence of continuation fragments.
func (c *Characteristic) QueueRaw(frame []byte) {
	c.mu.Lock()
	c.queue = append(c.queue, frame)
	c.mu.Unlock()
}
