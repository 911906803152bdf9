package haptables

import (
	"encoding/binary"
	"math"

	"github.com/hapble/hapble"
)

// converters maps each known HAP format name to the function that turns
// its little-endian wire bytes into a Go value, grounded on pyhomekit's
// per-format decode branches in HapCharacteristic._signature_read.
var converters = map[string]hapble.Converter{
	"bool":   convertBool,
	"uint8":  convertUint8,
	"uint16": convertUint16,
	"uint32": convertUint32,
	"uint64": convertUint64,
	"int32":  convertInt32,
	"float":  convertFloat,
	"string": convertString,
	"tlv8":   convertTLV8,
}

func convertBool(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, &hapble.MalformedResponseError{Reason: "bool value must be 1 byte", Raw: b}
	}
	return b[0] != 0, nil
}

func convertUint8(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, &hapble.MalformedResponseError{Reason: "uint8 value must be 1 byte", Raw: b}
	}
	return uint8(b[0]), nil
}

func convertUint16(b []byte) (any, error) {
	if len(b) != 2 {
		return nil, &hapble.MalformedResponseError{Reason: "uint16 value must be 2 bytes", Raw: b}
	}
	return binary.LittleEndian.Uint16(b), nil
}

func convertUint32(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, &hapble.MalformedResponseError{Reason: "uint32 value must be 4 bytes", Raw: b}
	}
	return binary.LittleEndian.Uint32(b), nil
}

func convertUint64(b []byte) (any, error) {
	if len(b) != 8 {
		return nil, &hapble.MalformedResponseError{Reason: "uint64 value must be 8 bytes", Raw: b}
	}
	return binary.LittleEndian.Uint64(b), nil
}

func convertInt32(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, &hapble.MalformedResponseError{Reason: "int32 value must be 4 bytes", Raw: b}
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func convertFloat(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, &hapble.MalformedResponseError{Reason: "float value must be 4 bytes", Raw: b}
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func convertString(b []byte) (any, error) {
	return string(b), nil
}

func convertTLV8(b []byte) (any, error) {
	items, err := hapble.DecodeTLVStream(b)
	if err != nil {
		return nil, err
	}
	return items, nil
}
