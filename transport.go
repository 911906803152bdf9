package hapble

import (
	"context"

	"github.com/google/uuid"
)

// Characteristic is the GATT transport surface the core requires for a
// single characteristic. Implementations are supplied by the caller; the
// core never scans, connects, or discovers on its own (spec §1, §6).
type Characteristic interface {
	// Write performs a blocking GATT write. withResponse requests
	// acknowledgement from the peripheral before Write returns.
	Write(ctx context.Context, p []byte, withResponse bool) error
	// Read performs a single blocking GATT read and returns its raw value.
	Read(ctx context.Context) ([]byte, error)
	// Descriptor returns the GATT descriptor with the given UUID, such as
	// the HAP characteristic-instance-ID descriptor.
	Descriptor(ctx context.Context, id uuid.UUID) (Descriptor, error)
}

// Descriptor is a single GATT descriptor attached to a Characteristic.
type Descriptor interface {
	Read(ctx context.Context) ([]byte, error)
}

// Peripheral is the shared BLE link a Characteristic's transport lives on.
// The core calls Reconnect only through the Supervisor (spec §4.E, §5);
// it never initiates scanning or pairing.
type Peripheral interface {
	Reconnect(ctx context.Context) error
}

// characteristicIDDescriptorUUID is the HAP-defined descriptor UUID used
// to read a characteristic's instance ID (spec §4.F). It is not part of
// the negotiable constant tables in catalog.go because the BLE spec fixes
// it. HapCharacteristic always reads this UUID; CharacteristicOptions has
// no field to substitute another.
var characteristicIDDescriptorUUID = uuid.MustParse("DC46F0FE-81D2-4616-B5D9-6ABDD796939A")
