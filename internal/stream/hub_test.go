package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"atmos-ca/internal/atmos"

	"github.com/gorilla/websocket"
)

func testSnapshot(tick uint64) *atmos.Snapshot {
	return &atmos.Snapshot{
		Tick:        tick,
		Width:       2,
		Height:      1,
		Moles:       []float32{10, 30},
		Pressure:    []float32{50, 150},
		Temperature: []float32{293, 300},
		Active:      []bool{true, false},
		Wind:        []atmos.Wind{{X: 1}, {Y: -1}},
	}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(testSnapshot(7))
	if f.Tick != 7 || f.Width != 2 || f.Height != 1 {
		t.Fatalf("unexpected header %+v", f)
	}
	if f.Moles != 40 || f.Active != 1 {
		t.Fatalf("totals = %v/%d, want 40/1", f.Moles, f.Active)
	}
	if f.WindX[0] != 1 || f.WindY[1] != -1 {
		t.Fatalf("wind not flattened: %v %v", f.WindX, f.WindY)
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitSubscribers(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers() != n {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", h.Subscribers(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitSubscribers(t, hub, 2)

	if err := hub.Broadcast(NewFrame(testSnapshot(3))); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		var f Frame
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if f.Tick != 3 || len(f.Pressure) != 2 {
			t.Fatalf("unexpected frame %+v", f)
		}
	}
}

func TestLateSubscriberGetsLastFrame(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	if err := hub.Broadcast(NewFrame(testSnapshot(9))); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	conn := dial(t, srv)
	var f Frame
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Tick != 9 {
		t.Fatalf("tick = %d, want 9", f.Tick)
	}
}

func TestDisconnectDropsSubscriber(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	waitSubscribers(t, hub, 1)
	_ = conn.Close()
	waitSubscribers(t, hub, 0)
}
