package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/powerring/internal/app"
	"github.com/coreman2200/powerring/internal/config"
	diag "github.com/coreman2200/powerring/internal/diagnostics"
	"github.com/coreman2200/powerring/internal/led"
	"github.com/coreman2200/powerring/internal/render"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

var rgbOrder = led.Order{'R', 'G', 'B'}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Server publishes frames and diagnostics of one Core and accepts control
// messages for it.
type Server struct {
	core *app.Core
	log  zerolog.Logger

	// ConfigPath, when set, receives the effective config after every
	// control change.
	ConfigPath string
	Driver     string

	mu          sync.RWMutex
	cfg         config.Config
	clients     map[*client]bool
	diagClients map[*client]bool
	startTime   time.Time
	rgb         []byte
}

// NewServer hooks the server into core's frame and diagnostic callbacks. It
// must be called before core.Run.
func NewServer(core *app.Core, cfg config.Config, log zerolog.Logger) *Server {
	s := &Server{
		core:        core,
		log:         log,
		cfg:         cfg,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		startTime:   time.Now(),
	}
	core.OnFrame = s.broadcastFrame
	core.OnDiag = s.pushDiag
	return s
}

// Config returns the effective configuration.
func (s *Server) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) accept(w http.ResponseWriter, r *http.Request) *client {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade")
		return nil
	}
	c := &client{id: uuid.NewString(), conn: conn}
	s.log.Debug().Str("client", c.id).Str("path", r.URL.Path).Msg("client connected")
	return c
}

func (s *Server) register(c *client, set map[*client]bool) {
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()
}

// drain reads until the peer goes away, then forgets the client.
func (s *Server) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		s.mu.Unlock()
		c.conn.Close()
		s.log.Debug().Str("client", c.id).Msg("client gone")
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c := s.accept(w, r)
	if c == nil {
		return
	}
	// topology goes out before the first frame can
	s.sendTopology(c)
	s.register(c, s.clients)
	go s.drain(c, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c := s.accept(w, r)
	if c == nil {
		return
	}
	s.register(c, s.diagClients)
	go s.drain(c, s.diagClients)
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	c := s.accept(w, r)
	if c == nil {
		return
	}
	defer c.conn.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			s.pushDiag(diag.New(diag.Warn, diag.CodeControlInvalid, "Control message is not JSON").
				WithDetail(err.Error()).
				With("client", c.id))
			continue
		}
		s.apply(msg)
		s.sendStatus(c)
	}
}

type health struct {
	app.Status
	UptimeS float64 `json:"uptime_s"`
	Driver  string  `json:"driver"`
	Clients int     `json:"clients"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := health{
		Status:  s.core.Status(),
		UptimeS: time.Since(s.startTime).Seconds(),
		Driver:  s.Driver,
		Clients: len(s.clients),
	}
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) saveConfig() {
	if s.ConfigPath == "" {
		return
	}
	cfg := s.Config()
	if err := config.Save(s.ConfigPath, &cfg); err != nil {
		s.log.Warn().Err(err).Str("path", s.ConfigPath).Msg("config save failed")
	}
}

type topology struct {
	ClientID string    `json:"client_id"`
	Count    int       `json:"count"`
	Angles   []float64 `json:"angles"`
	Size     float64   `json:"size"`
	Raster   int       `json:"raster"`
	Driver   string    `json:"driver"`
}

func (s *Server) sendTopology(c *client) {
	s.mu.RLock()
	top := topology{
		ClientID: c.id,
		Count:    s.core.Eng.Ring.Len(),
		Angles:   s.core.Eng.Ring.Angles,
		Size:     s.cfg.Widget.Size,
		Raster:   s.cfg.Output.Raster,
		Driver:   s.Driver,
	}
	s.mu.RUnlock()
	b, _ := json.Marshal(top)
	_ = c.write(b)
}

func (s *Server) sendStatus(c *client) {
	b, _ := json.Marshal(s.core.Status())
	_ = c.write(b)
}

type frameMsg struct {
	T        int64            `json:"t"`
	FrameID  uint64           `json:"frame_id"`
	Commands []render.Command `json:"commands"`
	RGB      []byte           `json:"rgb"`
}

// broadcastFrame runs on the core loop.
func (s *Server) broadcastFrame(f render.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) == 0 {
		return
	}
	if n := len(f.LEDs) * 3; len(s.rgb) != n {
		s.rgb = make([]byte, n)
	}
	led.Encode(s.rgb, f.LEDs, rgbOrder)
	b, _ := json.Marshal(frameMsg{T: time.Now().UnixNano(), FrameID: f.Seq, Commands: f.Commands, RGB: s.rgb})
	for c := range s.clients {
		if err := c.write(b); err != nil {
			s.log.Debug().Err(err).Str("client", c.id).Msg("write frame")
		}
	}
}

func (s *Server) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.diagClients {
		_ = c.write(b)
	}
}
