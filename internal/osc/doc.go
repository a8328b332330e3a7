// Package osc is the wire transport: a UDP OSC server feeding inbound
// messages into the address router, and an OSC client carrying replies and
// change events back to the controller surface.
//
// # Architecture
//
// Inbound, every registered router address gets its own dispatcher method.
// The handler's result tuple is sent back on the request's own address, so a
// client correlates replies by address, not by sequence numbers. Handler
// failures are reported on /live/error as a single string.
//
// Outbound, Emit serializes listener events. Arguments are normalized to
// OSC wire types before send: Go ints become int32, float64 becomes
// float32, nil marks an empty value slot.
package osc
