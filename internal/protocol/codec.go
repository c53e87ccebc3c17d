package protocol

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

func writeString(en *msgp.Writer, key, val string) error {
	if err := en.WriteString(key); err != nil {
		return err
	}
	return en.WriteString(val)
}

func writeBytes(en *msgp.Writer, key string, val []byte) error {
	if err := en.WriteString(key); err != nil {
		return err
	}
	return en.WriteBytes(val)
}

// decodeMap walks a map header and hands each key to field. Keys field does
// not recognise must be skipped by field itself.
func decodeMap(dc *msgp.Reader, field func(key string) error) error {
	n, err := dc.ReadMapHeader()
	if err != nil {
		return err
	}
	for ; n > 0; n-- {
		raw, err := dc.ReadMapKeyPtr()
		if err != nil {
			return err
		}
		key := string(raw)
		if err := field(key); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// EncodeMsg implements msgp.Encodable.
func (m *Open) EncodeMsg(en *msgp.Writer) error {
	fields := uint32(2)
	if m.Seed != "" {
		fields++
	}
	if m.Stream != "" {
		fields++
	}
	if err := en.WriteMapHeader(fields); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	if err := writeString(en, "variant", m.Variant); err != nil {
		return err
	}
	if m.Seed != "" {
		if err := writeString(en, "seed", m.Seed); err != nil {
			return err
		}
	}
	if m.Stream != "" {
		if err := writeString(en, "stream", m.Stream); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsg implements msgp.Decodable.
func (m *Open) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "variant":
			m.Variant, err = dc.ReadString()
		case "seed":
			m.Seed, err = dc.ReadString()
		case "stream":
			m.Stream, err = dc.ReadString()
		default:
			err = dc.Skip()
		}
		return err
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *Read) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(2); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	if err := en.WriteString("count"); err != nil {
		return err
	}
	return en.WriteUint32(m.Count)
}

// DecodeMsg implements msgp.Decodable.
func (m *Read) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "count":
			m.Count, err = dc.ReadUint32()
		default:
			err = dc.Skip()
		}
		return err
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *Jump) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(2); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	return writeString(en, "steps", m.Steps)
}

// DecodeMsg implements msgp.Decodable.
func (m *Jump) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "steps":
			m.Steps, err = dc.ReadString()
		default:
			err = dc.Skip()
		}
		return err
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *Snapshot) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(1); err != nil {
		return err
	}
	return writeString(en, "type", m.Type)
}

// DecodeMsg implements msgp.Decodable.
func (m *Snapshot) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		if key == "type" {
			m.Type, err = dc.ReadString()
			return err
		}
		return dc.Skip()
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *Data) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(2); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	return writeBytes(en, "bytes", m.Bytes)
}

// DecodeMsg implements msgp.Decodable.
func (m *Data) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "bytes":
			m.Bytes, err = dc.ReadBytes(m.Bytes[:0])
		default:
			err = dc.Skip()
		}
		return err
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *State) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(4); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	if err := writeString(en, "variant", m.Variant); err != nil {
		return err
	}
	if err := writeBytes(en, "state", m.State); err != nil {
		return err
	}
	if err := en.WriteString("emitted"); err != nil {
		return err
	}
	return en.WriteUint64(m.Emitted)
}

// DecodeMsg implements msgp.Decodable.
func (m *State) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "variant":
			m.Variant, err = dc.ReadString()
		case "state":
			m.State, err = dc.ReadBytes(m.State[:0])
		case "emitted":
			m.Emitted, err = dc.ReadUint64()
		default:
			err = dc.Skip()
		}
		return err
	})
}

// EncodeMsg implements msgp.Encodable.
func (m *Error) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(3); err != nil {
		return err
	}
	if err := writeString(en, "type", m.Type); err != nil {
		return err
	}
	if err := writeString(en, "code", m.Code); err != nil {
		return err
	}
	return writeString(en, "message", m.Message)
}

// DecodeMsg implements msgp.Decodable.
func (m *Error) DecodeMsg(dc *msgp.Reader) error {
	return decodeMap(dc, func(key string) (err error) {
		switch key {
		case "type":
			m.Type, err = dc.ReadString()
		case "code":
			m.Code, err = dc.ReadString()
		case "message":
			m.Message, err = dc.ReadString()
		default:
			err = dc.Skip()
		}
		return err
	})
}
