// Command hapble-demo drives a HapCharacteristic over an in-memory mock
// transport, to show the Transaction Engine and Signature Parser working
// end to end without a real BLE stack.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hapble-demo",
		Short: "Exercise the hapble client against an in-memory HAP-BLE peripheral",
	}
	root.AddCommand(newSignatureReadCmd())
	return root
}
