package streamsrv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tinylib/msgp/msgp"

	"github.com/lox/pcgrand/internal/protocol"
	"github.com/lox/pcgrand/pcg"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum request size allowed from peer
	maxMessageSize = 4096
)

var ErrConnectionClosed = errors.New("streamsrv: connection closed")

// Connection represents a WebSocket connection to a client. The generator
// is touched only by the read loop.
type Connection struct {
	conn      *websocket.Conn
	send      chan []byte
	src       pcg.Source
	served    atomic.Uint64
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, src pcg.Source, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan []byte, 16),
		src:    src,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Served reports how many random bytes have been sent.
func (c *Connection) Served() uint64 {
	return c.served.Load()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// sendMessage queues msg for the write pump, blocking while the peer is
// slow so a reader cannot outrun its own backlog.
func (c *Connection) sendMessage(msg msgp.Encodable) error {
	data, err := protocol.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	}
}

// readPump handles incoming requests from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		if err := c.handleMessage(data); err != nil {
			return
		}
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// handleMessage answers one request. A non-nil error means the connection
// is gone.
func (c *Connection) handleMessage(data []byte) error {
	msg, err := protocol.Decode(data)
	if err != nil {
		return c.sendError("invalid_message", err.Error())
	}

	switch m := msg.(type) {
	case *protocol.Open:
		return c.handleOpen(m)
	case *protocol.Read:
		return c.handleRead(m)
	case *protocol.Jump:
		return c.handleJump(m)
	case *protocol.Snapshot:
		return c.sendState()
	default:
		return c.sendError("unexpected_message", fmt.Sprintf("%T is not a request", msg))
	}
}

func (c *Connection) handleOpen(m *protocol.Open) error {
	v := c.src.Variant()
	if m.Variant != "" {
		parsed, err := pcg.ParseVariant(m.Variant)
		if err != nil {
			return c.sendError("bad_variant", err.Error())
		}
		v = parsed
	}

	src, err := openSource(v, m.Seed, m.Stream)
	if err != nil {
		return c.sendError("bad_seed", err.Error())
	}

	c.src = src
	c.served.Store(0)
	c.logger.Debug("Generator opened", "variant", v, "seed", m.Seed, "stream", m.Stream)
	return c.sendState()
}

// openSource builds a generator from optional textual seed and stream.
func openSource(v pcg.Variant, seed, stream string) (pcg.Source, error) {
	if seed == "" {
		if stream != "" {
			return nil, errors.New("stream given without seed")
		}
		return pcg.Default(v)
	}
	s, err := pcg.ParseUint128(seed)
	if err != nil {
		return nil, err
	}
	st := pcg.DefaultStream(v)
	if stream != "" {
		if st, err = pcg.ParseUint128(stream); err != nil {
			return nil, err
		}
	}
	return pcg.New(v, s, st)
}

func (c *Connection) handleRead(m *protocol.Read) error {
	if m.Count > protocol.MaxReadBytes {
		return c.sendError("too_large", fmt.Sprintf("read of %d bytes exceeds %d", m.Count, protocol.MaxReadBytes))
	}
	buf := make([]byte, m.Count)
	c.src.Fill(buf)
	c.served.Add(uint64(m.Count))
	return c.sendMessage(&protocol.Data{Type: protocol.TypeData, Bytes: buf})
}

func (c *Connection) handleJump(m *protocol.Jump) error {
	delta, err := pcg.ParseOffset(m.Steps)
	if err != nil {
		return c.sendError("bad_steps", err.Error())
	}
	c.src.Jump(delta)
	return c.sendState()
}

func (c *Connection) sendState() error {
	state, err := c.src.MarshalBinary()
	if err != nil {
		return c.sendError("internal", err.Error())
	}
	return c.sendMessage(&protocol.State{
		Type:    protocol.TypeState,
		Variant: c.src.Variant().String(),
		State:   state,
		Emitted: c.served.Load(),
	})
}

func (c *Connection) sendError(code, message string) error {
	c.logger.Debug("Request rejected", "code", code, "error", message)
	return c.sendMessage(&protocol.Error{Type: protocol.TypeError, Code: code, Message: message})
}
