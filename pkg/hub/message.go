// Package hub fans status messages out to websocket subscribers over a
// channel-based broadcast loop.
package hub

import "github.com/gofiber/websocket/v2"

// MessageType distinguishes JSON status payloads from raw binary data.
type MessageType int

const (
	// JSONMessage carries pre-encoded JSON, sent as a text frame.
	JSONMessage MessageType = iota
	// BinaryMessage carries raw bytes such as JPEG frames.
	BinaryMessage
)

// Message is one broadcast unit.
type Message struct {
	Type MessageType
	Data []byte
}

// frameType maps the message type onto the websocket frame opcode.
func (m Message) frameType() int {
	if m.Type == BinaryMessage {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// NewJSONMessage wraps pre-encoded JSON bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps raw binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
