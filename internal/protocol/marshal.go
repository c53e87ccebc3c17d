package protocol

import (
	"bytes"
	"sync"

	"github.com/tinylib/msgp/msgp"
)

// Pool of buffers to avoid allocation and ensure thread safety
var bufferPool = sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

// Marshal serializes a message to msgpack format
func Marshal(v msgp.Encodable) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	writer := msgp.NewWriter(buf)
	if err := v.EncodeMsg(writer); err != nil {
		return nil, err
	}
	if err := writer.Flush(); err != nil {
		return nil, err
	}

	// Create a copy to avoid aliasing the pooled buffer
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unmarshal deserializes msgpack data into a message
func Unmarshal(data []byte, v msgp.Decodable) error {
	return v.DecodeMsg(msgp.NewReader(bytes.NewReader(data)))
}

// Peek returns the type discriminator without decoding the rest.
func Peek(data []byte) (string, error) {
	n, rest, err := msgp.ReadMapHeaderBytes(data)
	if err != nil {
		return "", err
	}
	for ; n > 0; n-- {
		var key []byte
		key, rest, err = msgp.ReadMapKeyZC(rest)
		if err != nil {
			return "", err
		}
		if string(key) == "type" {
			typ, _, err := msgp.ReadStringBytes(rest)
			return typ, err
		}
		if rest, err = msgp.Skip(rest); err != nil {
			return "", err
		}
	}
	return "", ErrMissingType
}

// Decode peeks at the type and decodes into the matching message.
func Decode(data []byte) (msgp.Decodable, error) {
	typ, err := Peek(data)
	if err != nil {
		return nil, err
	}

	var msg msgp.Decodable
	switch typ {
	case TypeOpen:
		msg = &Open{}
	case TypeRead:
		msg = &Read{}
	case TypeJump:
		msg = &Jump{}
	case TypeSnapshot:
		msg = &Snapshot{}
	case TypeData:
		msg = &Data{}
	case TypeState:
		msg = &State{}
	case TypeError:
		msg = &Error{}
	default:
		return nil, ErrUnknownMessageType
	}
	if err := Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
