// SPDX-License-Identifier: MIT

// Package hapble implements the client-side core of the HomeKit Accessory
// Protocol over Bluetooth Low Energy (HAP-BLE): PDU encoding/decoding,
// fragmentation, signature parsing, and a retrying transaction engine
// layered over a caller-supplied GATT transport.
//
// Definitions
//
// HAP Client: an entity that issues HAP-BLE requests (signature reads,
// characteristic reads, characteristic writes) to a peripheral accessory
// and interprets its responses.
//
// Characteristic: a GATT characteristic exposing HAP-defined data or
// behavior, addressed in HAP-BLE requests by its 16-byte characteristic
// instance ID (CID), not by its GATT handle.
//
// Transaction: one HAP-BLE request and its matching response, correlated
// by an 8-bit transaction ID chosen by the client.
package hapble
