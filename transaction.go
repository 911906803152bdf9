package hapble

import (
	"context"
)

// transactionState is the per-transaction state machine of spec §4.D:
//
//	Idle → Sending → [more fragments?] → Sending
//	            └→ AwaitingResponse → Parsing → Done
//	                                        ↘ Failed
type transactionState int

const (
	stateIdle transactionState = iota
	stateSending
	stateAwaitingResponse
	stateParsing
	stateDone
	stateFailed
)

// TransactionOptions configures a Transaction engine, mirroring the
// teacher's struct-of-options construction style.
type TransactionOptions struct {
	// MaxFrame bounds outbound frame size; zero means DefaultMaxFrame.
	MaxFrame int
	// Catalog resolves TLV parameter names/converters for the response
	// body. Required.
	Catalog Catalog
}

// Transaction issues a single HAP-BLE request and parses its response
// against a Characteristic transport (spec §4.D). It holds no state
// across calls to Write/Read; every call is a fresh logical transaction.
type Transaction struct {
	transport  Characteristic
	fragmenter Fragmenter
	catalog    Catalog
	state      transactionState
}

// NewTransaction builds a Transaction over the given Characteristic
// transport.
func NewTransaction(transport Characteristic, opts TransactionOptions) *Transaction {
	return &Transaction{
		transport:  transport,
		fragmenter: Fragmenter{MaxFrame: opts.MaxFrame},
		catalog:    opts.Catalog,
	}
}

// ParsedResponse is the result of a completed transaction: the decoded
// response header plus, for bodies that carry a signature or value, the
// structured descriptor (spec §4.D step 6).
type ParsedResponse struct {
	Header     ResponseHeader
	Descriptor CharacteristicDescriptor
	HasBody    bool
}

// Write sends a request (fragmenting the body if necessary), reads the
// response, and validates and parses it. It equals Read when body is
// empty (spec §4.D).
func (t *Transaction) Write(ctx context.Context, header RequestHeader, body []BodyItem, formatOverride Converter) (ParsedResponse, error) {
	t.state = stateSending
	frames := t.fragmenter.Fragment(header, body)
	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			t.state = stateFailed
			return ParsedResponse{}, &CancelledError{Op: "write"}
		}
		if err := t.transport.Write(ctx, frame, true); err != nil {
			t.state = stateFailed
			return ParsedResponse{}, &TransportError{Op: "request_write", Err: err}
		}
	}

	t.state = stateAwaitingResponse
	raw, err := t.readResponse(ctx)
	if err != nil {
		t.state = stateFailed
		return ParsedResponse{}, err
	}

	t.state = stateParsing
	resp, err := t.parseResponse(header, raw, formatOverride)
	if err != nil {
		t.state = stateFailed
		return ParsedResponse{}, err
	}
	t.state = stateDone
	return resp, nil
}

// Read is Write with an empty body list (spec §4.D).
func (t *Transaction) Read(ctx context.Context, header RequestHeader) (ParsedResponse, error) {
	return t.Write(ctx, header, nil, nil)
}

// readResponse performs the initial GATT read and, if the response
// indicates continuation, keeps reading and accumulating body bytes
// until a fragment arrives whose continuation bit is clear — the
// resolved form of the §9 open question on fragmented response reads.
func (t *Transaction) readResponse(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Op: "read_response"}
	}
	raw, err := t.transport.Read(ctx)
	if err != nil {
		return nil, &TransportError{Op: "read_response", Err: err}
	}
	if len(raw) < responseHeaderSize {
		return nil, &MalformedResponseError{Reason: "response shorter than header", Raw: raw}
	}
	hdr, err := DecodeResponseHeader(raw[:responseHeaderSize])
	if err != nil {
		return nil, err
	}
	if !hdr.Continuation {
		return raw, nil
	}

	// Accumulate continuation fragments. Each subsequent fragment is a
	// 3-byte header (control_field, transaction_id, status_code is
	// unused/zero on continuations) followed directly by more body
	// bytes, mirroring the outbound Fragmenter's continuation framing.
	body := append([]byte(nil), raw[responseHeaderSize:]...)
	for {
		if err := ctx.Err(); err != nil {
			return nil, &CancelledError{Op: "read_response"}
		}
		next, err := t.transport.Read(ctx)
		if err != nil {
			return nil, &TransportError{Op: "read_response", Err: err}
		}
		if len(next) < responseHeaderSize {
			return nil, &MalformedResponseError{Reason: "continuation fragment shorter than header", Raw: next}
		}
		nextHdr, err := DecodeResponseHeader(next[:responseHeaderSize])
		if err != nil {
			return nil, err
		}
		if nextHdr.TransactionID != hdr.TransactionID {
			return nil, &TransactionMismatchError{Want: hdr.TransactionID, Got: nextHdr.TransactionID}
		}
		body = append(body, next[responseHeaderSize:]...)
		if !nextHdr.Continuation {
			break
		}
	}

	full := make([]byte, 0, responseHeaderSize+len(body))
	full = append(full, raw[:responseHeaderSize]...)
	full = append(full, body...)
	return full, nil
}

func (t *Transaction) parseResponse(req RequestHeader, raw []byte, formatOverride Converter) (ParsedResponse, error) {
	hdr, err := DecodeResponseHeader(raw[:responseHeaderSize])
	if err != nil {
		return ParsedResponse{}, err
	}
	// Validate the control field against the request's (spec §4.D step
	// 3): this codec's convention sets the response bit on both request
	// and response headers (§9, resolved), so the two must agree.
	if hdr.Response != req.Response {
		return ParsedResponse{}, &MalformedResponseError{Reason: "unexpected control field", Raw: raw[:responseHeaderSize]}
	}
	if hdr.TransactionID != req.TransactionID {
		return ParsedResponse{}, &TransactionMismatchError{Want: req.TransactionID, Got: hdr.TransactionID}
	}
	if hdr.Status != StatusSuccess {
		name, message := t.catalog.Describe(hdr.Status)
		return ParsedResponse{}, &HapBleError{Code: hdr.Status, Name: name, Message: message}
	}

	if len(raw) == responseHeaderSize {
		return ParsedResponse{Header: hdr}, nil
	}
	if len(raw) < responseHeaderSize+2 {
		return ParsedResponse{}, &MalformedResponseError{Reason: "response body truncated before length prefix", Raw: raw}
	}
	declared := bodyLength(raw[responseHeaderSize : responseHeaderSize+2])
	body := raw[responseHeaderSize+2:]
	if int(declared) != len(body) {
		return ParsedResponse{}, &MalformedResponseError{Reason: "body_length does not match actual body size", Raw: raw}
	}

	desc, err := ParseSignature(body, t.catalog, formatOverride)
	if err != nil {
		return ParsedResponse{}, err
	}
	return ParsedResponse{Header: hdr, Descriptor: desc, HasBody: true}, nil
}
