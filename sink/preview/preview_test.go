package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/pixel"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestBroadcast(t *testing.T) {
	s := New()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	frame := matrix.NewBuffer()
	frame.SetPoint(0, 1, pixel.Red)
	require.NoError(t, s.Draw(frame))

	f := readFrame(t, conn)
	assert.Equal(t, uint64(1), f.FrameID)
	assert.Equal(t, 8, f.Width)
	assert.Equal(t, 8, f.Height)
	require.Len(t, f.RGB, 8*8*3)
	assert.Equal(t, []byte{0xff, 0x00, 0x00}, f.RGB[3:6])
	assert.Equal(t, []byte{0x00, 0x00, 0x00}, f.RGB[0:3])

	// Late clients start with the last frame.
	late := dial(t, srv)
	f = readFrame(t, late)
	assert.Equal(t, uint64(1), f.FrameID)
}

func TestHealth(t *testing.T) {
	s := New()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	require.NoError(t, s.Draw(matrix.NewBuffer()))
	require.NoError(t, s.Draw(matrix.NewBuffer()))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health struct {
		FrameID uint64 `json:"frame_id"`
		Clients int    `json:"clients"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, uint64(2), health.FrameID)
	assert.Equal(t, 0, health.Clients)
}

func TestIndex(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "<canvas")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClose(t *testing.T) {
	s := New()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Clients())
	assert.ErrorIs(t, s.Draw(matrix.NewBuffer()), matrix.ErrSinkUnavailable)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
