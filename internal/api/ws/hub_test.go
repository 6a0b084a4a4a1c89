package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niveshlab/fundrank/backend/internal/contracts"
	"github.com/niveshlab/fundrank/backend/pkg/logger"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d, want %d", hub.Subscribers(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsRunEvent(t *testing.T) {
	hub := NewHub(&logger.Logger{})
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	hub.NotifyRunCompleted(&contracts.RankingRun{
		ID:          "abc123",
		Philosophy:  "buffett",
		GeneratedAt: time.Now().UTC(),
		Ranked: []contracts.RankedCompany{
			{Rank: 1, Symbol: "TCS"},
			{Rank: 2, Symbol: "INFY"},
		},
		Disqualified: []contracts.DisqualifiedCompany{{Symbol: "ZOMBIE"}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var event RunEvent
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != "run_completed" {
		t.Errorf("type = %s", event.Type)
	}
	if event.RunID != "abc123" || event.Philosophy != "buffett" {
		t.Errorf("event = %+v", event)
	}
	if event.Ranked != 2 || event.Disqualified != 1 {
		t.Errorf("counts = %d/%d, want 2/1", event.Ranked, event.Disqualified)
	}
	if event.TopSymbol != "TCS" {
		t.Errorf("top symbol = %s", event.TopSymbol)
	}
}

func TestHubRemovesDisconnectedSubscriber(t *testing.T) {
	hub := NewHub(&logger.Logger{})
	conn := dialHub(t, hub)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)

	// Broadcasting into an empty hub must not block or panic
	hub.NotifyRunCompleted(&contracts.RankingRun{ID: "after"})
}
