// Package wifi manages the station connection: credential storage, the
// Idle/Connecting/Connected/Failed state machine and the bounded retry loop
// that drives a radio driver until it reports a link.
//
// The radio itself is an external collaborator described by the Radio
// interface. Real hardware, the simulator package and test fakes all plug in
// through it.
package wifi
