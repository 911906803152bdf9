package hapble

// DefaultMaxFrame is the ATT MTU ceiling a single HAP-BLE write frame is
// held to unless a peripheral has negotiated a smaller MTU (spec §3, §9).
const DefaultMaxFrame = 512

// BodyItem is one TLV the caller wants encoded into a request body,
// before fragmentation (spec §4.C).
type BodyItem struct {
	Type  byte
	Value []byte
}

// Fragmenter splits a request header plus a sequence of TLV body items
// into one or more wire frames, each no larger than MaxFrame (spec §4.C).
type Fragmenter struct {
	// MaxFrame bounds the serialized size of every emitted frame. Zero
	// means DefaultMaxFrame.
	MaxFrame int
}

func (f Fragmenter) maxFrame() int {
	if f.MaxFrame <= 0 {
		return DefaultMaxFrame
	}
	return f.MaxFrame
}

// Fragment splits header+items into frames. The first frame carries the
// full header (19 bytes for a non-empty cid_sid) plus the 2-byte
// body_length of the *entire* reassembled body; every subsequent frame
// is a continuation (2-byte header, same TransactionID and Response
// bit) carrying only more raw body bytes, with no length field of its
// own — the receiver already knows the total from the first frame
// (spec §4.C).
func (f Fragmenter) Fragment(header RequestHeader, items []BodyItem) [][]byte {
	header.Continuation = false
	maxFrame := f.maxFrame()

	if len(items) == 0 {
		// No body at all: the 2-byte body_length prefix is omitted
		// entirely, not just zeroed (spec §3: "PDU Body (present when
		// body length > 0)").
		return [][]byte{EncodeRequestHeader(header)}
	}

	// Encode every item to its TLV bytes up front, splitting any value
	// longer than 255 bytes into same-type chunks so the 255-byte TLV
	// cap never has to be special-cased below (spec §4.A: "callers that
	// need longer values rely on the Fragmenter to split at 255-byte
	// boundaries").
	var body []byte
	for _, it := range items {
		v := it.Value
		if len(v) == 0 {
			body = append(body, EncodeTLV(it.Type, nil)...)
			continue
		}
		for len(v) > 0 {
			n := len(v)
			if n > maxTLVValue {
				n = maxTLVValue
			}
			body = append(body, EncodeTLV(it.Type, v[:n])...)
			v = v[n:]
		}
	}

	var frames [][]byte
	firstHeaderBytes := EncodeRequestHeader(header)
	firstBudget := maxFrame - len(firstHeaderBytes) - 2 // 2-byte total body length
	n := len(body)
	if n > firstBudget {
		n = firstBudget
	}
	if n < 0 {
		n = 0
	}
	frame := make([]byte, 0, len(firstHeaderBytes)+2+n)
	frame = append(frame, firstHeaderBytes...)
	lenPrefix := make([]byte, 2)
	putBodyLength(lenPrefix, uint16(len(body)))
	frame = append(frame, lenPrefix...)
	frame = append(frame, body[:n]...)
	frames = append(frames, frame)
	remaining := body[n:]

	contHeader := header
	contHeader.Continuation = true
	contHeaderBytes := EncodeRequestHeader(contHeader)
	contBudget := maxFrame - len(contHeaderBytes)

	for len(remaining) > 0 {
		n := len(remaining)
		if n > contBudget {
			n = contBudget
		}
		frame := make([]byte, 0, len(contHeaderBytes)+n)
		frame = append(frame, contHeaderBytes...)
		frame = append(frame, remaining[:n]...)
		frames = append(frames, frame)
		remaining = remaining[n:]
	}
	return frames
}
