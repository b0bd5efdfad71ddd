// Package panel defines the contract of the security-panel bus decoder and
// the status data model read by the bridge.
//
// The decoder itself (clock/data sampling, command framing, flag derivation)
// is an external collaborator behind the Interface type; this package ships a
// script-driven Simulator so binaries and tests run without hardware.
package panel
