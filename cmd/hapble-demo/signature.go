package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hapble/hapble"
	"github.com/hapble/hapble/haptables"
	"github.com/hapble/hapble/internal/hapbletest"
	"github.com/spf13/cobra"
)

var signatureFormat string

func newSignatureReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signature-read",
		Short: "Perform a signature-read against a simulated characteristic",
		Long: `Build an in-memory peripheral that answers a signature-read with a
GATT_Presentation_Format_Descriptor of --format, then print the decoded
CharacteristicDescriptor.

Examples:
  # Read a simulated unitless uint8 characteristic
  hapble-demo signature-read --format uint8`,
		RunE: runSignatureRead,
	}
	cmd.Flags().StringVar(&signatureFormat, "format", "uint8", "HAP format name to simulate (bool|uint8|uint16|uint32|float|string)")
	return cmd
}

func runSignatureRead(cmd *cobra.Command, args []string) error {
	catalog := haptables.Default()
	formatCode, ok := reverseFormatLookup(signatureFormat)
	if !ok {
		return fmt.Errorf("unknown format %q", signatureFormat)
	}

	cid := uuid.New()
	transport := hapbletest.NewCharacteristic(cid, func(req []byte) ([]byte, error) {
		hdr, err := hapble.DecodeRequestHeader(req)
		if err != nil {
			return nil, err
		}
		body := hapble.EncodeTLV(haptables.ParamGATTPresentationFormatDescriptor,
			[]byte{formatCode, 0x00, haptables.UnitUnitless, 0x00, 0x00, 0x00, 0x00})
		resp := hapble.EncodeResponseHeader(hapble.ResponseHeader{
			Response:      true,
			TransactionID: hdr.TransactionID,
			Status:        hapble.StatusSuccess,
		})
		lenPrefix := []byte{byte(len(body)), 0}
		resp = append(resp, lenPrefix...)
		resp = append(resp, body...)
		return resp, nil
	})

	characteristic := hapble.NewCharacteristic(transport, hapble.CharacteristicOptions{Catalog: catalog})
	desc, err := characteristic.ReadSignature(cmd.Context(), haptables.OpCharacteristicSignatureRead)
	if err != nil {
		return err
	}

	fmt.Printf("HAP format: %s\n", desc.HAPFormat)
	fmt.Printf("HAP unit:   %s\n", desc.HAPUnit)
	return nil
}

func reverseFormatLookup(name string) (byte, bool) {
	switch name {
	case "bool":
		return haptables.FormatBool, true
	case "uint8":
		return haptables.FormatUInt8, true
	case "uint16":
		return haptables.FormatUInt16, true
	case "uint32":
		return haptables.FormatUInt32, true
	case "float":
		return haptables.FormatFloat, true
	case "string":
		return haptables.FormatString, true
	default:
		return 0, false
	}
}
