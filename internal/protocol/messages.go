// Package protocol defines the msgpack messages exchanged with the stream
// server. Every message is a map carrying a "type" discriminator so a
// receiver can Peek before decoding.
package protocol

import "errors"

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeOpen     = "open"
	TypeRead     = "read"
	TypeJump     = "jump"
	TypeSnapshot = "snapshot"

	// Server -> Client
	TypeData  = "data"
	TypeState = "state"
	TypeError = "error"
)

// MaxReadBytes caps a single Read request.
const MaxReadBytes = 1 << 20

var (
	ErrUnknownMessageType = errors.New("protocol: unknown message type")
	ErrMissingType        = errors.New("protocol: message has no type")
)

// Client -> Server Messages

// Open replaces the connection's generator. Seed and Stream are decimal or
// 0x-prefixed integers; empty Seed selects the fixed default initializer.
type Open struct {
	Type    string `msg:"type"`
	Variant string `msg:"variant"`
	Seed    string `msg:"seed,omitempty"`
	Stream  string `msg:"stream,omitempty"`
}

// Read asks for Count random bytes.
type Read struct {
	Type  string `msg:"type"`
	Count uint32 `msg:"count"`
}

// Jump moves the generator by Steps outputs; a leading '-' jumps backwards.
type Jump struct {
	Type  string `msg:"type"`
	Steps string `msg:"steps"`
}

// Snapshot asks for the generator's encoded state.
type Snapshot struct {
	Type string `msg:"type"`
}

// Server -> Client Messages

// Data answers a Read.
type Data struct {
	Type  string `msg:"type"`
	Bytes []byte `msg:"bytes"`
}

// State answers Open, Jump and Snapshot.
type State struct {
	Type    string `msg:"type"`
	Variant string `msg:"variant"`
	State   []byte `msg:"state"`
	Emitted uint64 `msg:"emitted"`
}

// Error message
type Error struct {
	Type    string `msg:"type"`
	Code    string `msg:"code"`
	Message string `msg:"message"`
}
