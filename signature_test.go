package hapble

import (
	"testing"

	"github.com/hapble/hapble/haptables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignatureUInt8Value(t *testing.T) {
	var body []byte
	body = append(body, EncodeTLV(haptables.ParamGATTPresentationFormatDescriptor,
		[]byte{haptables.FormatUInt8, 0x00, haptables.UnitPercentage, 0x00, 0x00, 0x00, 0x00})...)
	body = append(body, EncodeTLV(haptables.ParamValue, []byte{42})...)

	desc, err := ParseSignature(body, haptables.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, "uint8", desc.HAPFormat)
	assert.Equal(t, "percentage", desc.HAPUnit)
	assert.Equal(t, uint8(42), desc.Extra["value"])
}

func TestParseSignatureDefersFormatDependentTLVsSeenBeforeFormat(t *testing.T) {
	var body []byte
	// Value arrives before the presentation format descriptor.
	body = append(body, EncodeTLV(haptables.ParamValue, []byte{7})...)
	body = append(body, EncodeTLV(haptables.ParamGATTPresentationFormatDescriptor,
		[]byte{haptables.FormatUInt8, 0x00, haptables.UnitUnitless, 0x00, 0x00, 0x00, 0x00})...)

	desc, err := ParseSignature(body, haptables.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), desc.Extra["value"])
}

func TestParseSignatureValidRangeSplitsInHalf(t *testing.T) {
	var body []byte
	body = append(body, EncodeTLV(haptables.ParamGATTPresentationFormatDescriptor,
		[]byte{haptables.FormatUInt8, 0x00, haptables.UnitUnitless, 0x00, 0x00, 0x00, 0x00})...)
	body = append(body, EncodeTLV(haptables.ParamGATTValidRange, []byte{0x00, 0x64})...)

	desc, err := ParseSignature(body, haptables.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), desc.MinValue)
	assert.Equal(t, uint8(100), desc.MaxValue)
}

func TestParseSignatureFormatDependentTLVWithNoFormatIsError(t *testing.T) {
	body := EncodeTLV(haptables.ParamValue, []byte{1})
	_, err := ParseSignature(body, haptables.Default(), nil)
	assert.Error(t, err)
}

func TestParseSignatureUnknownTypeIgnored(t *testing.T) {
	body := EncodeTLV(0x7F, []byte{0x01, 0x02})
	desc, err := ParseSignature(body, haptables.Default(), nil)
	require.NoError(t, err)
	assert.Empty(t, desc.HAPFormat)
}

func TestParseSignatureWithFormatOverrideSkipsFormatTLV(t *testing.T) {
	// A value-read response body carries no presentation format
	// descriptor; the caller supplies the converter learned from a prior
	// signature-read (spec §4.B).
	body := EncodeTLV(haptables.ParamValue, []byte{0x09, 0x00})
	desc, err := ParseSignature(body, haptables.Default(), nil)
	_ = desc
	require.Error(t, err) // no override and no format TLV: still an error

	converter, ok := haptables.Default().ConverterForFormat("uint16")
	require.True(t, ok)
	desc2, err := ParseSignature(body, haptables.Default(), converter)
	require.NoError(t, err)
	assert.Equal(t, uint16(9), desc2.Extra["value"])
}
