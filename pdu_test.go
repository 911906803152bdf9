package hapble

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRequestHeaderRoundTrip(t *testing.T) {
	cid := uuid.New()
	h := RequestHeader{
		CidSid:        cid,
		OpCode:        0x01,
		Response:      true,
		TransactionID: 0x7A,
	}
	encoded := EncodeRequestHeader(h)
	require.Len(t, encoded, requestHeaderSize)

	decoded, err := DecodeRequestHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestEncodeRequestHeaderContinuationOmitsCidAndOp(t *testing.T) {
	h := RequestHeader{Response: true, Continuation: true, TransactionID: 0x10}
	encoded := EncodeRequestHeader(h)
	require.Len(t, encoded, continuationHeaderSize)

	decoded, err := DecodeRequestHeader(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Continuation)
	assert.Equal(t, byte(0x10), decoded.TransactionID)
}

func TestDecodeRequestHeaderTruncated(t *testing.T) {
	_, err := DecodeRequestHeader([]byte{0x02})
	assert.Error(t, err)
}

func TestEncodeDecodeResponseHeaderRoundTrip(t *testing.T) {
	h := ResponseHeader{Response: true, TransactionID: 0x7B, Status: StatusSuccess}
	encoded := EncodeResponseHeader(h)
	require.Len(t, encoded, responseHeaderSize)

	decoded, err := DecodeResponseHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestControlFieldBitPositions(t *testing.T) {
	// spec example: a signature-read response begins 0x02 — response bit
	// set, continuation clear.
	assert.Equal(t, byte(0x02), controlField(true, false))
	assert.Equal(t, byte(0x82), controlField(true, true))
	assert.Equal(t, byte(0x00), controlField(false, false))
}

func TestBodyLengthRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	putBodyLength(buf, 600)
	assert.Equal(t, uint16(600), bodyLength(buf))
}
