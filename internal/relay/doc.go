// Package relay fans chat envelopes out to connections grouped in named rooms.
//
// All room state is owned by a single Hub goroutine that handles one event
// (connect, inbound frame, disconnect) at a time, so the Registry and the
// per-connection room field carry no locks. Transports talk to the Hub
// through Connect, Receive and Disconnect and implement Peer for delivery.
package relay
