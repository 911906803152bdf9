package hapble

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hapble/hapble/haptables"
	"github.com/hapble/hapble/internal/hapbletest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionSignatureReadSingleFragment(t *testing.T) {
	cid := uuid.New()
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		hdr, err := DecodeRequestHeader(req)
		require.NoError(t, err)
		resp := EncodeResponseHeader(ResponseHeader{Response: true, TransactionID: hdr.TransactionID, Status: StatusSuccess})
		return resp, nil
	})

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default()})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicSignatureRead, Response: true, TransactionID: 0x7A}
	resp, err := tx.Read(context.Background(), header)
	require.NoError(t, err)
	assert.Equal(t, byte(0x7A), resp.Header.TransactionID)
	assert.False(t, resp.HasBody)
}

func TestTransactionValueWriteBodyLengthThree(t *testing.T) {
	cid := uuid.New()
	var seenBody []byte
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		hdr, err := DecodeRequestHeader(req)
		require.NoError(t, err)
		seenBody = req[requestHeaderSize+2:]
		resp := EncodeResponseHeader(ResponseHeader{Response: true, TransactionID: hdr.TransactionID, Status: StatusSuccess})
		return resp, nil
	})

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default()})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicWrite, Response: true, TransactionID: 0x10}
	_, err := tx.Write(context.Background(), header, []BodyItem{{Type: haptables.ParamValue, Value: []byte{0x01}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{haptables.ParamValue, 0x01, 0x01}, seenBody)
}

func TestTransactionFragmentedWrite600Bytes(t *testing.T) {
	cid := uuid.New()
	var totalReceived int
	var fragmentCount int
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		fragmentCount++
		hdr, err := DecodeRequestHeader(req)
		require.NoError(t, err)
		if !hdr.Continuation {
			totalReceived += len(req) - requestHeaderSize - 2
		} else {
			totalReceived += len(req) - continuationHeaderSize
		}
		resp := EncodeResponseHeader(ResponseHeader{Response: true, TransactionID: hdr.TransactionID, Status: StatusSuccess})
		return resp, nil
	})

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default(), MaxFrame: 100})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicWrite, Response: true, TransactionID: 0x20}
	value := make([]byte, 600)
	_, err := tx.Write(context.Background(), header, []BodyItem{{Type: haptables.ParamValue, Value: value}}, nil)
	require.NoError(t, err)
	assert.Greater(t, fragmentCount, 1)
	// 600 value bytes split into 255+255+90 chunks, each with its own
	// 2-byte TLV type/length header: 600 + 3*2 = 606.
	assert.Equal(t, 606, totalReceived)
}

func TestTransactionMismatchedTransactionID(t *testing.T) {
	cid := uuid.New()
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		resp := EncodeResponseHeader(ResponseHeader{Response: true, TransactionID: 0x7B, Status: StatusSuccess})
		resp = append(resp, 0, 0)
		return resp, nil
	})

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default()})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicRead, Response: true, TransactionID: 0x7A}
	_, err := tx.Read(context.Background(), header)
	require.Error(t, err)
	var mismatch *TransactionMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.Equal(t, byte(0x7A), mismatch.Want)
	assert.Equal(t, byte(0x7B), mismatch.Got)
}

func TestTransactionHapErrorStatus(t *testing.T) {
	cid := uuid.New()
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		hdr, err := DecodeRequestHeader(req)
		require.NoError(t, err)
		resp := EncodeResponseHeader(ResponseHeader{Response: true, TransactionID: hdr.TransactionID, Status: haptables.StatusInvalidRequest})
		resp = append(resp, 0, 0)
		return resp, nil
	})

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default()})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicRead, Response: true, TransactionID: 0x01}
	_, err := tx.Read(context.Background(), header)
	require.Error(t, err)
	var hapErr *HapBleError
	require.ErrorAs(t, err, &hapErr)
	assert.Equal(t, "Invalid-Request", hapErr.Name)
}

func TestTransactionFragmentedResponseReassembly(t *testing.T) {
	cid := uuid.New()
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		hdr, err := DecodeRequestHeader(req)
		require.NoError(t, err)
		tlv := EncodeTLV(haptables.ParamValue, []byte{0x2A})
		first := EncodeResponseHeader(ResponseHeader{Response: true, Continuation: true, TransactionID: hdr.TransactionID, Status: StatusSuccess})
		lenPrefix := make([]byte, 2)
		putBodyLength(lenPrefix, uint16(len(tlv)))
		first = append(first, lenPrefix...)
		first = append(first, tlv[:2]...)
		second := EncodeResponseHeader(ResponseHeader{Response: true, Continuation: false, TransactionID: hdr.TransactionID, Status: StatusSuccess})
		second = append(second, tlv[2:]...)
		transport.QueueRaw(second)
		return first, nil
	})

	converter, ok := haptables.Default().ConverterForFormat("uint8")
	require.True(t, ok)

	tx := NewTransaction(transport, TransactionOptions{Catalog: haptables.Default()})
	header := RequestHeader{CidSid: cid, OpCode: haptables.OpCharacteristicRead, Response: true, TransactionID: 0x05}
	resp, err := tx.Write(context.Background(), header, nil, converter)
	require.NoError(t, err)
	assert.True(t, resp.HasBody)
	assert.Equal(t, uint8(0x2A), resp.Descriptor.Extra["value"])
}
