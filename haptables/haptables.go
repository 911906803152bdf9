// Package haptables is the default HAP-standard Catalog implementation:
// the PDU opcode, status code, TLV parameter, GATT presentation format,
// and GATT unit tables that hapble.Catalog resolves against, grounded
// on the constants pyhomekit.ble imports from its sibling constants
// module and on the GATT Characteristic Presentation Format tables the
// Bluetooth SIG defines.
package haptables

import (
	"github.com/hapble/hapble"
)

// Operation codes (HAP-BLE PDU op_code field).
const (
	OpCharacteristicSignatureRead   hapble.OpCode = 0x01
	OpCharacteristicWrite           hapble.OpCode = 0x02
	OpCharacteristicRead            hapble.OpCode = 0x03
	OpCharacteristicTimedWrite      hapble.OpCode = 0x04
	OpCharacteristicExecuteWrite    hapble.OpCode = 0x05
	OpServiceSignatureRead          hapble.OpCode = 0x06
	OpCharacteristicConfiguration   hapble.OpCode = 0x07
	OpProtocolConfiguration         hapble.OpCode = 0x08
)

// Status codes (HAP-BLE PDU status_code field).
const (
	StatusSuccess                  hapble.StatusCode = 0x00
	StatusUnsupportedPDU           hapble.StatusCode = 0x01
	StatusMaxProcedures            hapble.StatusCode = 0x02
	StatusInsufficientAuthorization hapble.StatusCode = 0x03
	StatusInvalidInstanceID        hapble.StatusCode = 0x04
	StatusInsufficientAuthentication hapble.StatusCode = 0x05
	StatusInvalidRequest           hapble.StatusCode = 0x06
)

var statusNames = map[hapble.StatusCode]struct{ Name, Message string }{
	StatusSuccess:                    {"Success", "the request succeeded"},
	StatusUnsupportedPDU:             {"Unsupported-PDU", "the accessory does not support this PDU opcode"},
	StatusMaxProcedures:              {"Max-Procedures", "too many in-flight procedures"},
	StatusInsufficientAuthorization:  {"Insufficient-Authorization", "the requested operation requires pairing"},
	StatusInvalidInstanceID:          {"Invalid-Instance-ID", "the cid_sid did not resolve"},
	StatusInsufficientAuthentication: {"Insufficient-Authentication", "the requested operation requires a secure session"},
	StatusInvalidRequest:             {"Invalid-Request", "the request was malformed"},
}

// TLV parameter types carried in a signature-read or value-read response
// body.
const (
	ParamValue                             byte = 0x01
	ParamAdditionalAuthorizationData       byte = 0x02
	ParamOrigin                            byte = 0x03
	ParamCharacteristicType                byte = 0x04
	ParamCharacteristicInstanceID          byte = 0x05
	ParamServiceType                       byte = 0x06
	ParamServiceInstanceID                 byte = 0x07
	ParamTTL                               byte = 0x08
	ParamRelatedCharacteristics            byte = 0x09
	ParamCharacteristicPropertiesDescriptor byte = 0x0A
	ParamGATTUserDescriptionDescriptor      byte = 0x0B
	ParamGATTPresentationFormatDescriptor   byte = 0x0C
	ParamGATTValidRange                     byte = 0x0D
	ParamHAPStepValueDescriptor             byte = 0x0E
	ParamHAPServiceProperties               byte = 0x0F
	ParamHAPLinkedServices                  byte = 0x10
	ParamHAPValidValuesDescriptor           byte = 0x11
	ParamHAPValidValuesRangeDescriptor      byte = 0x12
)

var paramNames = map[byte]string{
	ParamValue:                              "value",
	ParamAdditionalAuthorizationData:        "additional_authorization_data",
	ParamOrigin:                             "origin",
	ParamCharacteristicType:                 "characteristic_type",
	ParamCharacteristicInstanceID:           "characteristic_instance_id",
	ParamServiceType:                        "service_type",
	ParamServiceInstanceID:                  "service_instance_id",
	ParamTTL:                                "ttl",
	ParamRelatedCharacteristics:             "related_characteristics",
	ParamCharacteristicPropertiesDescriptor: "characteristic_properties_descriptor",
	ParamGATTUserDescriptionDescriptor:      "gatt_user_description_descriptor",
	ParamGATTPresentationFormatDescriptor:   "gatt_presentation_format_descriptor",
	ParamGATTValidRange:                     "gatt_valid_range",
	ParamHAPStepValueDescriptor:             "hap_step_value_descriptor",
	ParamHAPServiceProperties:               "hap_service_properties",
	ParamHAPLinkedServices:                  "hap_linked_services",
	ParamHAPValidValuesDescriptor:           "hap_valid_values_descriptor",
	ParamHAPValidValuesRangeDescriptor:      "hap_valid_values_range_descriptor",
}

// GATT presentation format codes (Bluetooth SIG Assigned Numbers,
// Characteristic Presentation Format, format field).
const (
	FormatBool   byte = 0x01
	FormatUInt8  byte = 0x04
	FormatUInt16 byte = 0x06
	FormatUInt32 byte = 0x08
	FormatUInt64 byte = 0x0A
	FormatInt32  byte = 0x10
	FormatFloat  byte = 0x14
	FormatString byte = 0x19
	FormatTLV8   byte = 0x1B
	FormatData   byte = 0x1B // alias: HAP reuses the opaque-structure code for "data" and "tlv8"
)

var formatNames = map[byte]string{
	FormatBool:   "bool",
	FormatUInt8:  "uint8",
	FormatUInt16: "uint16",
	FormatUInt32: "uint32",
	FormatUInt64: "uint64",
	FormatInt32:  "int32",
	FormatFloat:  "float",
	FormatString: "string",
	FormatTLV8:   "tlv8",
}

// GATT unit codes, matched against the first unit byte (offset 2) of a
// GATT_Presentation_Format_Descriptor. These are this table's own
// one-byte codes, not the 16-bit Bluetooth SIG unit UUIDs.
const (
	UnitUnitless   byte = 0x00
	UnitCelsius    byte = 0x01
	UnitArcdegrees byte = 0x02
	UnitPercentage byte = 0x03
	UnitLux        byte = 0x04
	UnitSeconds    byte = 0x05
)

var unitNames = map[byte]string{
	UnitUnitless:   "unitless",
	UnitCelsius:    "celsius",
	UnitArcdegrees: "arcdegrees",
	UnitPercentage: "percentage",
	UnitLux:        "lux",
	UnitSeconds:    "seconds",
}
