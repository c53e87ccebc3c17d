package streamsrv

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"

	"github.com/lox/pcgrand/internal/protocol"
	"github.com/lox/pcgrand/pcg"
)

func testServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()

	srv := NewServer(cfg, log.New(io.Discard))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req msgp.Encodable) msgp.Decodable {
	t.Helper()

	payload, err := protocol.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.Decode(data)
	require.NoError(t, err)
	return msg
}

func readBytes(t *testing.T, conn *websocket.Conn, n uint32) []byte {
	t.Helper()

	msg := roundTrip(t, conn, &protocol.Read{Type: protocol.TypeRead, Count: n})
	data, ok := msg.(*protocol.Data)
	require.True(t, ok, "expected data, got %T", msg)
	return data.Bytes
}

func TestHealth(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t, Config{})
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestOpenAndRead(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t, Config{})
	conn := dial(t, ts)

	msg := roundTrip(t, conn, &protocol.Open{Type: protocol.TypeOpen, Variant: "xsh-rr", Seed: "42", Stream: "54"})
	state, ok := msg.(*protocol.State)
	require.True(t, ok, "expected state, got %T", msg)
	assert.Equal(t, "xsh-rr", state.Variant)
	assert.Equal(t, uint64(0), state.Emitted)

	got := readBytes(t, conn, 11)
	want := make([]byte, 11)
	pcg.NewPCG32(42, 54).Fill(want)
	assert.Equal(t, want, got)

	msg = roundTrip(t, conn, &protocol.Snapshot{Type: protocol.TypeSnapshot})
	state, ok = msg.(*protocol.State)
	require.True(t, ok)
	assert.Equal(t, uint64(11), state.Emitted)

	// The snapshot resumes exactly where the connection stands.
	resumed, err := pcg.Restore(state.State)
	require.NoError(t, err)
	next := make([]byte, 8)
	resumed.Fill(next)
	assert.Equal(t, next, readBytes(t, conn, 8))
}

func TestConnectionsAreIndependent(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t, Config{Variant: pcg.DXSM})
	a := dial(t, ts)
	b := dial(t, ts)

	first := readBytes(t, a, 64)
	_ = readBytes(t, a, 64)
	assert.Equal(t, first, readBytes(t, b, 64), "both connections start from the default initializer")

	want := make([]byte, 64)
	pcg.DefaultPCG64(pcg.WithVariant(pcg.DXSM)).Fill(want)
	assert.Equal(t, want, first)
}

func TestEntropySeeding(t *testing.T) {
	t.Parallel()

	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}
	entropy := bytes.NewReader(seed)
	_, ts := testServer(t, Config{Entropy: entropy})
	a := dial(t, ts)
	b := dial(t, ts)

	assert.NotEqual(t, readBytes(t, a, 32), readBytes(t, b, 32))
}

func TestJump(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t, Config{})
	conn := dial(t, ts)
	roundTrip(t, conn, &protocol.Open{Type: protocol.TypeOpen, Variant: "xsl-rr", Seed: "42", Stream: "54"})

	msg := roundTrip(t, conn, &protocol.Jump{Type: protocol.TypeJump, Steps: "1000"})
	require.IsType(t, &protocol.State{}, msg)

	ref := pcg.NewPCG64(pcg.U128(42), pcg.U128(54))
	ref.Advance(pcg.U128(1000))
	want := make([]byte, 16)
	ref.Fill(want)
	assert.Equal(t, want, readBytes(t, conn, 16))

	// Jumping back over what was just read replays it.
	roundTrip(t, conn, &protocol.Jump{Type: protocol.TypeJump, Steps: "-2"})
	assert.Equal(t, want, readBytes(t, conn, 16))
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()

	_, ts := testServer(t, Config{})
	conn := dial(t, ts)

	tests := []struct {
		name string
		req  msgp.Encodable
		code string
	}{
		{"bad variant", &protocol.Open{Type: protocol.TypeOpen, Variant: "xorshift"}, "bad_variant"},
		{"bad seed", &protocol.Open{Type: protocol.TypeOpen, Seed: "banana"}, "bad_seed"},
		{"wide seed for 64-bit state", &protocol.Open{Type: protocol.TypeOpen, Variant: "xsh-rs", Seed: "0x1_0000_0000_0000_0000"}, "bad_seed"},
		{"stream without seed", &protocol.Open{Type: protocol.TypeOpen, Stream: "3"}, "bad_seed"},
		{"oversized read", &protocol.Read{Type: protocol.TypeRead, Count: protocol.MaxReadBytes + 1}, "too_large"},
		{"bad steps", &protocol.Jump{Type: protocol.TypeJump, Steps: "x"}, "bad_steps"},
		{"response as request", &protocol.Data{Type: protocol.TypeData}, "unexpected_message"},
		{"unknown type", &protocol.Snapshot{Type: "bogus"}, "invalid_message"},
	}

	for _, tt := range tests {
		msg := roundTrip(t, conn, tt.req)
		errMsg, ok := msg.(*protocol.Error)
		require.True(t, ok, "%s: expected error, got %T", tt.name, msg)
		assert.Equal(t, tt.code, errMsg.Code, tt.name)
	}

	// The connection survives rejected requests.
	assert.Len(t, readBytes(t, conn, 4), 4)
}

func TestStopClosesConnections(t *testing.T) {
	t.Parallel()

	srv, ts := testServer(t, Config{})
	conn := dial(t, ts)
	readBytes(t, conn, 1)
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Stop())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStartStopsOnContext(t *testing.T) {
	t.Parallel()

	srv := NewServer(Config{Addr: "127.0.0.1:0"}, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
