// Package stream broadcasts tile frames to websocket subscribers.
package stream

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"atmos-ca/internal/atmos"

	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

// Frame is the wire form of one snapshot.
type Frame struct {
	Tick        uint64    `json:"tick"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Pressure    []float32 `json:"pressure"`
	Temperature []float32 `json:"temperature"`
	WindX       []int8    `json:"wind_x"`
	WindY       []int8    `json:"wind_y"`
	Active      int       `json:"active"`
	Moles       float32   `json:"moles"`
}

// NewFrame flattens snap into a Frame.
func NewFrame(snap *atmos.Snapshot) Frame {
	f := Frame{
		Tick:        snap.Tick,
		Width:       snap.Width,
		Height:      snap.Height,
		Pressure:    append([]float32(nil), snap.Pressure...),
		Temperature: append([]float32(nil), snap.Temperature...),
		WindX:       make([]int8, len(snap.Wind)),
		WindY:       make([]int8, len(snap.Wind)),
	}
	for i, w := range snap.Wind {
		f.WindX[i] = w.X
		f.WindY[i] = w.Y
	}
	f.Moles, f.Active = snap.Totals()
	return f
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans frames out to every connected subscriber. New subscribers get the
// most recent frame straight away.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu          sync.RWMutex
	subscribers map[uint64]*subscriber
	last        []byte

	nextID atomic.Uint64
}

// NewHub returns an empty hub. A nil logger discards output.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:      logger,
		subscribers: make(map[uint64]*subscriber),
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// ServeHTTP upgrades the request and keeps the subscriber until it hangs up.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	sub := &subscriber{conn: conn}
	id := h.nextID.Add(1)

	h.mu.Lock()
	h.subscribers[id] = sub
	last := h.last
	h.mu.Unlock()
	h.logger.Info("subscriber connected", "id", id, "remote", r.RemoteAddr)

	if last != nil {
		if err := sub.write(last); err != nil {
			h.drop(id)
			return
		}
	}

	// Subscribers only listen; reading drives close detection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) {
				h.logger.Debug("subscriber read failed", "id", id, "error", err)
			}
			break
		}
	}
	h.drop(id)
}

func (h *Hub) drop(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
		h.logger.Info("subscriber disconnected", "id", id)
	}
}

// Broadcast encodes f once and writes it to every subscriber. Subscribers
// that fail the write are dropped.
func (h *Hub) Broadcast(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.last = data
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Debug("broadcast failed", "id", id, "error", err)
			h.drop(id)
		}
	}
	return nil
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.mu.Lock()
		_ = sub.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		sub.mu.Unlock()
		_ = sub.conn.Close()
	}
}
