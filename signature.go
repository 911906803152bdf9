package hapble

// CharacteristicDescriptor is the structured result of parsing a
// signature-read (or value-read) response body (spec §3, §4.B).
type CharacteristicDescriptor struct {
	HAPFormat          string
	HAPFormatConverter Converter
	HAPUnit            string
	MinValue           any
	MaxValue           any
	StepValue          any

	// Extra holds every other recognized parameter, keyed by its
	// canonical name lowercased, matching pyhomekit's behavior of
	// exposing every decoded attribute, not just the handful with
	// dedicated struct fields (SPEC_FULL §4.B supplement).
	Extra map[string]any
}

const (
	paramPresentationFormat = "gatt_presentation_format_descriptor"
	paramValidRange         = "gatt_valid_range"
	paramStepValue          = "hap_step_value_descriptor"
	paramValue              = "value"
)

// pendingTLV is a format-dependent TLV whose decoding must wait until
// GATT_Presentation_Format_Descriptor has been seen (spec §4.B edge case:
// "TLVs for Value/GATT_Valid_Range/HAP_Step_Value_Descriptor parsed
// before [the format TLV] must be re-decodable once the format is known,
// or the parser must defer them").
type pendingTLV struct {
	name  string
	value []byte
}

// ParseSignature interprets the TLV body of a signature-read (or,
// with formatOverride set, a value-read on a characteristic whose
// signature is already known) response into a CharacteristicDescriptor
// (spec §4.B).
func ParseSignature(body []byte, catalog Catalog, formatOverride Converter) (CharacteristicDescriptor, error) {
	items, err := DecodeTLVStream(body)
	if err != nil {
		return CharacteristicDescriptor{}, err
	}
	merged := mergeContiguous(items)

	desc := CharacteristicDescriptor{
		HAPFormatConverter: formatOverride,
		Extra:              map[string]any{},
	}
	var pending []pendingTLV

	for _, m := range merged {
		name, ok := catalog.NameForType(m.Type)
		if !ok {
			continue // unknown types are ignored, spec §4.B step 2
		}

		switch name {
		case paramPresentationFormat:
			if len(m.Value) != 7 {
				return CharacteristicDescriptor{}, &MalformedResponseError{
					Reason: "GATT_Presentation_Format_Descriptor must be 7 bytes",
					Raw:    m.Value,
				}
			}
			formatCode, unitCode := m.Value[0], m.Value[2]
			formatName, ok := catalog.NameForFormatCode(formatCode)
			if !ok {
				return CharacteristicDescriptor{}, &MalformedResponseError{
					Reason: "unknown HAP format code",
					Raw:    m.Value,
				}
			}
			converter, ok := catalog.ConverterForFormat(formatName)
			if !ok {
				return CharacteristicDescriptor{}, &MalformedResponseError{
					Reason: "no converter registered for HAP format " + formatName,
					Raw:    m.Value,
				}
			}
			unitName, _ := catalog.NameForUnitCode(unitCode)

			desc.HAPFormat = formatName
			desc.HAPFormatConverter = converter
			desc.HAPUnit = unitName
			desc.Extra["hap_format"] = formatName
			desc.Extra["hap_unit"] = unitName

		case paramValidRange, paramStepValue, paramValue:
			if desc.HAPFormatConverter == nil {
				// Defer until the format converter is known (spec §4.B
				// edge case / §9 design note).
				pending = append(pending, pendingTLV{name: name, value: m.Value})
				continue
			}
			if err := desc.applyFormatDependent(name, m.Value); err != nil {
				return CharacteristicDescriptor{}, err
			}

		default:
			converter, ok := catalog.ConverterFor(name)
			if !ok {
				return CharacteristicDescriptor{}, &MalformedResponseError{
					Reason: "no converter registered for parameter " + name,
					Raw:    m.Value,
				}
			}
			val, err := converter(m.Value)
			if err != nil {
				return CharacteristicDescriptor{}, err
			}
			desc.Extra[name] = val
		}
	}

	for _, p := range pending {
		if desc.HAPFormatConverter == nil {
			return CharacteristicDescriptor{}, &MalformedResponseError{
				Reason: "format-dependent TLV " + p.name + " with no GATT_Presentation_Format_Descriptor in stream",
			}
		}
		if err := desc.applyFormatDependent(p.name, p.value); err != nil {
			return CharacteristicDescriptor{}, err
		}
	}

	return desc, nil
}

func (d *CharacteristicDescriptor) applyFormatDependent(name string, value []byte) error {
	switch name {
	case paramValidRange:
		mid := len(value) / 2
		low, high := value[:mid], value[mid:]
		minVal, err := d.HAPFormatConverter(low)
		if err != nil {
			return err
		}
		maxVal, err := d.HAPFormatConverter(high)
		if err != nil {
			return err
		}
		d.MinValue = minVal
		d.MaxValue = maxVal
		d.Extra["min_value"] = minVal
		d.Extra["max_value"] = maxVal
	case paramStepValue:
		val, err := d.HAPFormatConverter(value)
		if err != nil {
			return err
		}
		d.StepValue = val
		d.Extra["hap_step_value_descriptor"] = val
	case paramValue:
		val, err := d.HAPFormatConverter(value)
		if err != nil {
			return err
		}
		d.Extra["value"] = val
	}
	return nil
}
