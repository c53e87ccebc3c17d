package checkpoint

import (
	"bytes"
	"fmt"

	"github.com/tinylib/msgp/msgp"
)

const checkpointFields = 7

// EncodeMsg implements msgp.Encodable.
func (c *Checkpoint) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteMapHeader(checkpointFields); err != nil {
		return err
	}
	strs := []struct {
		key, val string
	}{
		{"id", c.ID},
		{"variant", c.Variant},
		{"seed", c.Seed},
		{"stream", c.Stream},
	}
	for _, f := range strs {
		if err := en.WriteString(f.key); err != nil {
			return err
		}
		if err := en.WriteString(f.val); err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
	}
	if err := en.WriteString("emitted"); err != nil {
		return err
	}
	if err := en.WriteUint64(c.Emitted); err != nil {
		return fmt.Errorf("emitted: %w", err)
	}
	if err := en.WriteString("created_at"); err != nil {
		return err
	}
	if err := en.WriteTime(c.CreatedAt); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	if err := en.WriteString("state"); err != nil {
		return err
	}
	if err := en.WriteBytes(c.State); err != nil {
		return fmt.Errorf("state: %w", err)
	}
	return nil
}

// DecodeMsg implements msgp.Decodable.
func (c *Checkpoint) DecodeMsg(dc *msgp.Reader) error {
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
		switch key {
		case "id":
			c.ID, err = dc.ReadString()
		case "variant":
			c.Variant, err = dc.ReadString()
		case "seed":
			c.Seed, err = dc.ReadString()
		case "stream":
			c.Stream, err = dc.ReadString()
		case "emitted":
			c.Emitted, err = dc.ReadUint64()
		case "created_at":
			c.CreatedAt, err = dc.ReadTime()
		case "state":
			c.State, err = dc.ReadBytes(c.State[:0])
		default:
			err = dc.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// Marshal encodes c as msgpack.
func Marshal(c *Checkpoint) ([]byte, error) {
	var buf bytes.Buffer
	w := msgp.NewWriter(&buf)
	if err := c.EncodeMsg(w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a checkpoint written by Marshal.
func Unmarshal(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := c.DecodeMsg(msgp.NewReader(bytes.NewReader(data))); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	return &c, nil
}
