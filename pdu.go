package hapble

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Control field bit positions (spec §3, §4.A). Bit numbering is LSB = bit0.
const (
	controlResponseBit     = 1 << 1
	controlContinuationBit = 1 << 7
)

// requestHeaderSize is the size of a first-fragment request header:
// control_field(1) + op_code(1) + transaction_id(1) + cid_sid(16).
const requestHeaderSize = 1 + 1 + 1 + uuidSize

// continuationHeaderSize is the size of a continuation request header:
// control_field(1) + transaction_id(1).
const continuationHeaderSize = 1 + 1

// responseHeaderSize is the size of a response header:
// control_field(1) + transaction_id(1) + status_code(1).
const responseHeaderSize = 3

const uuidSize = 16

// RequestHeader is the HAP-BLE PDU request header (spec §3). It is the
// in-memory representation used by the Fragmenter and Transaction Engine;
// EncodeRequestHeader/DecodeRequestHeader convert to and from wire bytes.
type RequestHeader struct {
	CidSid        uuid.UUID
	OpCode        OpCode
	Response      bool
	Continuation  bool
	TransactionID byte
}

func controlField(response, continuation bool) byte {
	var c byte
	if response {
		c |= controlResponseBit
	}
	if continuation {
		c |= controlContinuationBit
	}
	return c
}

// EncodeRequestHeader encodes h to wire bytes. A continuation header
// omits op_code and cid_sid and is 2 bytes; a first-fragment header is
// the full 19 bytes (spec §4.A).
func EncodeRequestHeader(h RequestHeader) []byte {
	if h.Continuation {
		return []byte{
			controlField(h.Response, true),
			h.TransactionID,
		}
	}
	buf := make([]byte, requestHeaderSize)
	buf[0] = controlField(h.Response, false)
	buf[1] = byte(h.OpCode)
	buf[2] = h.TransactionID
	cidBytes, _ := h.CidSid.MarshalBinary() // uuid.UUID never errors here
	copy(buf[3:], cidBytes)
	return buf
}

// DecodeRequestHeader decodes a request header previously produced by
// EncodeRequestHeader. continuation reports whether b is a continuation
// frame (2 bytes) or a first fragment (19 bytes); callers that already
// know which shape to expect can skip calling this and read the fields
// they need directly, but round-tripping through Decode is what the
// testable properties in spec §8 exercise.
func DecodeRequestHeader(b []byte) (RequestHeader, error) {
	if len(b) < continuationHeaderSize {
		return RequestHeader{}, &MalformedResponseError{Reason: "request header truncated", Raw: b}
	}
	cf := b[0]
	continuation := cf&controlContinuationBit != 0
	response := cf&controlResponseBit != 0
	if continuation {
		return RequestHeader{
			Response:      response,
			Continuation:  true,
			TransactionID: b[1],
		}, nil
	}
	if len(b) < requestHeaderSize {
		return RequestHeader{}, &MalformedResponseError{Reason: "request header truncated", Raw: b}
	}
	cid, err := uuid.FromBytes(b[3:requestHeaderSize])
	if err != nil {
		return RequestHeader{}, &MalformedResponseError{Reason: "invalid cid_sid: " + err.Error(), Raw: b}
	}
	return RequestHeader{
		CidSid:        cid,
		OpCode:        OpCode(b[1]),
		Response:      response,
		Continuation:  false,
		TransactionID: b[2],
	}, nil
}

// ResponseHeader is the HAP-BLE PDU response header (spec §3).
type ResponseHeader struct {
	Response      bool
	Continuation  bool
	TransactionID byte
	Status        StatusCode
}

// EncodeResponseHeader encodes h to its 3-byte wire form.
func EncodeResponseHeader(h ResponseHeader) []byte {
	return []byte{
		controlField(h.Response, h.Continuation),
		h.TransactionID,
		byte(h.Status),
	}
}

// DecodeResponseHeader decodes the first 3 bytes of a response PDU.
func DecodeResponseHeader(b []byte) (ResponseHeader, error) {
	if len(b) < responseHeaderSize {
		return ResponseHeader{}, &MalformedResponseError{Reason: "response header truncated", Raw: b}
	}
	cf := b[0]
	return ResponseHeader{
		Response:      cf&controlResponseBit != 0,
		Continuation:  cf&controlContinuationBit != 0,
		TransactionID: b[1],
		Status:        StatusCode(b[2]),
	}, nil
}

// bodyLength reads the 2-byte little-endian body_length prefix (spec §3).
func bodyLength(b []byte) uint16 {
	return binary.LittleEndian.Uint16(b)
}

// putBodyLength writes n as a 2-byte little-endian body_length prefix.
func putBodyLength(buf []byte, n uint16) {
	binary.LittleEndian.PutUint16(buf, n)
}
