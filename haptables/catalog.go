package haptables

import "github.com/hapble/hapble"

// Table is the default HAP-standard hapble.Catalog: every TLV parameter,
// GATT format, GATT unit, and status code this package knows about.
// Callers that need accessory-specific extensions construct their own
// Catalog and can embed Table to inherit everything else.
type Table struct{}

// Default returns the shared HAP-standard Table. It holds no mutable
// state, so one instance is safe to use from every HapCharacteristic.
func Default() hapble.Catalog { return Table{} }

func (Table) NameForType(t byte) (string, bool) {
	name, ok := paramNames[t]
	return name, ok
}

func (Table) ConverterFor(paramName string) (hapble.Converter, bool) {
	switch paramName {
	case "characteristic_type", "service_type":
		return convertUUIDLike, true
	case "characteristic_instance_id", "service_instance_id":
		return convertUint16, true
	case "ttl":
		return convertUint8, true
	case "hap_service_properties":
		return convertUint16, true
	case "hap_valid_values_descriptor", "hap_valid_values_range_descriptor",
		"related_characteristics", "hap_linked_services",
		"gatt_user_description_descriptor", "characteristic_properties_descriptor",
		"additional_authorization_data", "origin":
		return convertTLV8OrRaw, true
	default:
		return nil, false
	}
}

func (Table) NameForFormatCode(code byte) (string, bool) {
	name, ok := formatNames[code]
	return name, ok
}

func (Table) ConverterForFormat(name string) (hapble.Converter, bool) {
	c, ok := converters[name]
	return c, ok
}

func (Table) NameForUnitCode(code byte) (string, bool) {
	name, ok := unitNames[code]
	return name, ok
}

func (Table) Describe(code hapble.StatusCode) (name, message string) {
	if entry, ok := statusNames[code]; ok {
		return entry.Name, entry.Message
	}
	return "Unknown", "unrecognized status code"
}

// convertUUIDLike passes characteristic/service type values through
// unconverted, as a copy of the raw bytes: HAP short-form types are
// 2 bytes, long-form types are 16, and this package leaves UUID
// reconstruction to the caller rather than guessing the form.
func convertUUIDLike(b []byte) (any, error) {
	return append([]byte(nil), b...), nil
}

// convertTLV8OrRaw decodes nested TLV8 structures where the HAP spec
// defines one, falling back to the raw bytes if the value doesn't
// parse as a TLV stream (some of these parameters are a bare list of
// 2-byte values rather than type-length-value items).
func convertTLV8OrRaw(b []byte) (any, error) {
	if items, err := hapble.DecodeTLVStream(b); err == nil {
		return items, nil
	}
	return append([]byte(nil), b...), nil
}
