package hapble

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// CharacteristicOptions configures a HapCharacteristic façade.
type CharacteristicOptions struct {
	// Catalog resolves TLV parameter names, converters, and status codes.
	// Required; callers typically pass haptables.Default().
	Catalog Catalog
	// MaxFrame bounds outbound frame size; zero means DefaultMaxFrame.
	MaxFrame int
	// TransactionIDs supplies transaction IDs; nil means DefaultTransactionIDSource.
	TransactionIDs TransactionIDSource
	// Link serializes this characteristic's operations against its
	// siblings on the same physical peripheral and supplies retry. If
	// nil, a private single-characteristic link is built from Reconnect.
	Link *PeripheralLink
	// Reconnect is used to build a private Link when Link is nil.
	Reconnect func(ctx context.Context) error
	// MaxAttempts bounds retries when Link is nil.
	MaxAttempts int
	LogFactory  LoggerFactory
}

// HapCharacteristic is the façade spec §4.F describes, named after
// pyhomekit's HapCharacteristic: it lazily resolves and caches a
// characteristic's instance ID and HAP signature, then exposes
// Read/Write operations that drive the Transaction Engine through the
// owning PeripheralLink's Supervisor.
type HapCharacteristic struct {
	transport Characteristic
	catalog   Catalog
	maxFrame  int
	tids      TransactionIDSource
	link      *PeripheralLink

	mu        sync.Mutex // guards cid/signature lazy-init
	cid       *uuid.UUID
	signature *CharacteristicDescriptor
}

// NewCharacteristic builds a HapCharacteristic façade over transport.
func NewCharacteristic(transport Characteristic, opts CharacteristicOptions) *HapCharacteristic {
	link := opts.Link
	if link == nil {
		link = NewPeripheralLink(noopPeripheral{reconnect: opts.Reconnect}, PeripheralLinkOptions{
			MaxAttempts: opts.MaxAttempts,
			LogFactory:  opts.LogFactory,
		})
	}
	tids := opts.TransactionIDs
	if tids == nil {
		tids = DefaultTransactionIDSource
	}
	return &HapCharacteristic{
		transport: transport,
		catalog:   opts.Catalog,
		maxFrame:  opts.MaxFrame,
		tids:      tids,
		link:      link,
	}
}

// noopPeripheral adapts a bare reconnect func into a Peripheral, for a
// HapCharacteristic that was not given a shared PeripheralLink.
type noopPeripheral struct {
	reconnect func(ctx context.Context) error
}

func (p noopPeripheral) Reconnect(ctx context.Context) error {
	if p.reconnect == nil {
		return nil
	}
	return p.reconnect(ctx)
}

// instanceID resolves and caches this characteristic's CID by reading
// the HAP instance-ID descriptor (spec §4.F: resolved once per lifetime
// of the façade, not once per operation).
func (c *HapCharacteristic) instanceID(ctx context.Context) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cid != nil {
		return *c.cid, nil
	}

	desc, err := c.transport.Descriptor(ctx, characteristicIDDescriptorUUID)
	if err != nil {
		return uuid.UUID{}, &TransportError{Op: "read_cid_descriptor", Err: err}
	}
	raw, err := desc.Read(ctx)
	if err != nil {
		return uuid.UUID{}, &TransportError{Op: "read_cid", Err: err}
	}
	cid, err := parseInstanceID(raw)
	if err != nil {
		return uuid.UUID{}, err
	}
	c.cid = &cid
	return cid, nil
}

// parseInstanceID decodes the little-endian instance ID value the HAP
// descriptor returns into a 16-byte UUID-shaped identifier, widening
// shorter encodings (HAP allows 2- or 8-byte instance IDs) with
// zero-padding in the high bytes (spec §3, "Instance ID").
func parseInstanceID(raw []byte) (uuid.UUID, error) {
	if len(raw) == 0 || len(raw) > uuidSize {
		return uuid.UUID{}, &MalformedResponseError{Reason: "instance id has unexpected length", Raw: raw}
	}
	var buf [uuidSize]byte
	copy(buf[:], raw) // little-endian value, low bytes first; zero-extend
	return uuid.UUID(buf), nil
}

func (c *HapCharacteristic) newTransaction() *Transaction {
	return NewTransaction(c.transport, TransactionOptions{MaxFrame: c.maxFrame, Catalog: c.catalog})
}

func (c *HapCharacteristic) nextHeader(ctx context.Context, op OpCode) (RequestHeader, error) {
	cid, err := c.instanceID(ctx)
	if err != nil {
		return RequestHeader{}, err
	}
	tid, err := c.tids.NextTransactionID()
	if err != nil {
		return RequestHeader{}, err
	}
	return RequestHeader{
		CidSid:        cid,
		OpCode:        op,
		Response:      true, // spec §9, resolved: this codec sets the response bit on requests too
		TransactionID: tid,
	}, nil
}

// ReadSignature performs a signature-read and caches the resulting
// descriptor for later value-read conversions (spec §4.F, §4.B).
func (c *HapCharacteristic) ReadSignature(ctx context.Context, op OpCode) (CharacteristicDescriptor, error) {
	var resp ParsedResponse
	err := c.link.Do(ctx, func(ctx context.Context) error {
		header, err := c.nextHeader(ctx, op)
		if err != nil {
			return err
		}
		resp, err = c.newTransaction().Read(ctx, header)
		return err
	})
	if err != nil {
		return CharacteristicDescriptor{}, err
	}
	c.mu.Lock()
	sig := resp.Descriptor
	c.signature = &sig
	c.mu.Unlock()
	return resp.Descriptor, nil
}

// Read performs a value-read, using the cached signature's format
// converter when one is available (spec §4.B: a value-read response
// body omits GATT_Presentation_Format_Descriptor, relying on a prior
// signature-read to have established it).
func (c *HapCharacteristic) Read(ctx context.Context, op OpCode) (ParsedResponse, error) {
	c.mu.Lock()
	var override Converter
	if c.signature != nil {
		override = c.signature.HAPFormatConverter
	}
	c.mu.Unlock()

	var resp ParsedResponse
	err := c.link.Do(ctx, func(ctx context.Context) error {
		header, err := c.nextHeader(ctx, op)
		if err != nil {
			return err
		}
		resp, err = c.newTransaction().Write(ctx, header, nil, override)
		return err
	})
	return resp, err
}

// Write performs a value-write with the given TLV body items.
func (c *HapCharacteristic) Write(ctx context.Context, op OpCode, body []BodyItem) (ParsedResponse, error) {
	var resp ParsedResponse
	err := c.link.Do(ctx, func(ctx context.Context) error {
		header, err := c.nextHeader(ctx, op)
		if err != nil {
			return err
		}
		resp, err = c.newTransaction().Write(ctx, header, body, nil)
		return err
	})
	return resp, err
}

// Setup replaces this façade's PeripheralLink with a private one built
// from the given retry bound and reconnect func, mirroring pyhomekit's
// setup_tenacity: a call site that needs a different retry budget than
// the façade's default for one operation or phase can reconfigure it ad
// hoc (spec §4.E supplement). The new link is not shared with sibling
// characteristics. Setup performs no signature read and no I/O.
func (c *HapCharacteristic) Setup(maxAttempts int, reconnect func(ctx context.Context) error) {
	c.link = NewPeripheralLink(noopPeripheral{reconnect: reconnect}, PeripheralLinkOptions{MaxAttempts: maxAttempts})
}
