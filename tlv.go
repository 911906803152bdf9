package hapble

// TLV is one decoded Type-Length-Value item from a PDU body (spec §3,
// §4.A). Length is redundant with len(Value) once decoded but is kept so
// callers can detect truncation the way the invariant in spec §3 requires
// ("every declared TLV length matches its slice length").
type TLV struct {
	Type   byte
	Length byte
	Value  []byte
}

// maxTLVValue is the largest value a single TLV can carry; longer values
// are split across successive same-type TLVs by the Fragmenter (spec §4.A).
const maxTLVValue = 255

// EncodeTLV emits a single [type, length, value...] item. It panics if
// len(value) > 255 — callers that need longer values must split at
// 255-byte boundaries themselves (the Fragmenter does this for them).
func EncodeTLV(t byte, value []byte) []byte {
	if len(value) > maxTLVValue {
		panic("hapble: TLV value exceeds 255 bytes, caller must split")
	}
	buf := make([]byte, 2+len(value))
	buf[0] = t
	buf[1] = byte(len(value))
	copy(buf[2:], value)
	return buf
}

// DecodeTLVStream parses b into a sequence of TLV items, failing with
// MalformedTLV if a declared length exceeds the remaining buffer (spec
// §4.A). It does not merge contiguous same-type items — that is
// mergeContiguous's job, used by the Signature/Value Parser.
func DecodeTLVStream(b []byte) ([]TLV, error) {
	var items []TLV
	for len(b) > 0 {
		if len(b) < 2 {
			return nil, &MalformedTLV{Reason: "truncated TLV header"}
		}
		t := b[0]
		l := b[1]
		if len(b) < 2+int(l) {
			return nil, &MalformedTLV{Reason: "declared length exceeds remaining buffer"}
		}
		value := b[2 : 2+int(l)]
		items = append(items, TLV{Type: t, Length: l, Value: value})
		b = b[2+int(l):]
	}
	return items, nil
}

// mergedTLV is the result of concatenating contiguous TLVs that share a
// type, reconstructing a value that was split across multiple 255-byte
// TLVs by the Fragmenter (spec §3: "the reader concatenates contiguous
// same-type items").
type mergedTLV struct {
	Type  byte
	Value []byte
}

// mergeContiguous walks items, concatenating the Value of any run of
// consecutive items sharing the same Type into a single mergedTLV.
func mergeContiguous(items []TLV) []mergedTLV {
	var merged []mergedTLV
	for _, it := range items {
		if n := len(merged); n > 0 && merged[n-1].Type == it.Type {
			merged[n-1].Value = append(merged[n-1].Value, it.Value...)
			continue
		}
		merged = append(merged, mergedTLV{Type: it.Type, Value: append([]byte(nil), it.Value...)})
	}
	return merged
}
