// Package preview is a software matrix.Sink that streams frames to web
// browsers over websockets.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/matrix"
)

// WriteTimeout bounds the time spent sending one frame to one client.
var WriteTimeout = 200 * time.Millisecond

// Frame is the websocket message sent for every frame. RGB holds 3 bytes per
// pixel, row by row.
type Frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	RGB     []byte `json:"rgb"`
}

// Server keeps the connected clients and the last frame.
type Server struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	last      *Frame
	frameID   uint64
	startTime time.Time
	closed    bool
	upgrader  websocket.Upgrader
}

var _ matrix.Sink = (*Server)(nil)

// New preview server.
func New() *Server {
	return &Server{
		clients:   map[*websocket.Conn]bool{},
		startTime: time.Now(),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

func (s *Server) String() string { return "preview" }

// Handler serves the preview page on /, the frame stream on /frames and a
// status document on /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.HandleIndex)
	mux.HandleFunc("/frames", s.HandleFramesWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// ListenAndServe serves Handler on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	log.Info().Str("addr", addr).Msg("preview: listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Draw broadcasts the frame to every client. Slow or broken clients do not
// fail the draw.
func (s *Server) Draw(frame image.Image) error {
	b := frame.Bounds()
	f := &Frame{
		T:      time.Now().UnixNano(),
		Width:  b.Dx(),
		Height: b.Dy(),
		RGB:    make([]byte, 0, b.Dx()*b.Dy()*3),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(frame.At(x, y)).(color.RGBA)
			f.RGB = append(f.RGB, c.R, c.G, c.B)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return matrix.ErrSinkUnavailable
	}
	s.frameID++
	f.FrameID = s.frameID
	s.last = f

	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	for c := range s.clients {
		s.send(c, data)
	}
	return nil
}

func (s *Server) send(c *websocket.Conn, data []byte) {
	_ = c.SetWriteDeadline(time.Now().Add(WriteTimeout))
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug().Err(err).Str("client", c.RemoteAddr().String()).Msg("preview: write frame")
	}
}

// Close disconnects all clients.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for c := range s.clients {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(WriteTimeout))
		_ = c.Close()
		delete(s.clients, c)
	}
	return nil
}

// HandleFramesWS upgrades the request and streams frames, starting with the
// last one drawn.
func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.clients[conn] = true
	if s.last != nil {
		if data, err := json.Marshal(s.last); err == nil {
			s.send(conn, data)
		}
	}
	s.mu.Unlock()
	log.Debug().Str("client", conn.RemoteAddr().String()).Msg("preview: client connected")

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// HandleHealth reports the frame counter and the number of clients.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"clients":  len(s.clients),
		"closed":   s.closed,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleIndex serves the preview page.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>matrix preview</title>
<style>
body { background: #111; color: #ccc; font-family: sans-serif; }
canvas { background: #000; image-rendering: pixelated; }
</style>
</head>
<body>
<canvas id="matrix" width="320" height="320"></canvas>
<p id="status">connecting</p>
<script>
const canvas = document.getElementById("matrix");
const ctx = canvas.getContext("2d");
const status = document.getElementById("status");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/frames");
ws.onopen = () => { status.textContent = "connected"; };
ws.onclose = () => { status.textContent = "disconnected"; };
ws.onmessage = (ev) => {
  const f = JSON.parse(ev.data);
  const rgb = Uint8Array.from(atob(f.rgb), (c) => c.charCodeAt(0));
  const w = canvas.width / f.width, h = canvas.height / f.height;
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  for (let y = 0; y < f.height; y++) {
    for (let x = 0; x < f.width; x++) {
      const i = (y * f.width + x) * 3;
      ctx.fillStyle = "rgb(" + rgb[i] + "," + rgb[i + 1] + "," + rgb[i + 2] + ")";
      ctx.beginPath();
      ctx.arc(x * w + w / 2, y * h + h / 2, w * 0.4, 0, 2 * Math.PI);
      ctx.fill();
    }
  }
  status.textContent = "frame " + f.frame_id;
};
</script>
</body>
</html>
`
