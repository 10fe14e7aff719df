package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roostlabs/roost/internal/catalog"
	"github.com/roostlabs/roost/internal/index"
)

const sampleCatalogFile = `# arena
bot spawn 1 Goblin 10 0 5 90
spawn 1 Barrel 1.5 0 -2 0 45 0
# hub
bot spawn 1 Guard 0 0 0
`

func newTestIndex(t *testing.T) *index.Database {
	t.Helper()

	db, err := index.OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	res := catalog.Parse([]byte(sampleCatalogFile))
	if err := db.IndexParse("spawns.spawn", 1700000000, res); err != nil {
		t.Fatalf("failed to index sample catalog: %v", err)
	}
	return db
}

func TestBuildSnapshot(t *testing.T) {
	db := newTestIndex(t)

	snap, err := BuildSnapshot(db)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}

	if len(snap.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(snap.Files))
	}
	file := snap.Files[0]
	if file.Path != "spawns.spawn" {
		t.Errorf("expected file path spawns.spawn, got %q", file.Path)
	}
	if file.RecordCount != 3 {
		t.Errorf("expected 3 records in file summary, got %d", file.RecordCount)
	}
	if file.Mtime != 1700000000 {
		t.Errorf("expected mtime 1700000000, got %d", file.Mtime)
	}

	if len(snap.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(snap.Records))
	}
	first := snap.Records[0]
	if first.Folder != "arena" || first.Kind != "actor" || first.Type != "Goblin" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.X != 10 || first.Orientation != 90 {
		t.Errorf("unexpected first record position: %+v", first)
	}
}

func TestSubscribeReceivesCurrentSnapshot(t *testing.T) {
	db := newTestIndex(t)
	hub := NewHub(nil)

	snap, err := BuildSnapshot(db)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	if err := hub.Publish(snap); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialWebsocket(t, srv.URL, "")

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}

	var msg SnapshotMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("failed to decode snapshot message: %v", err)
	}
	if msg.Type != "snapshot" {
		t.Errorf("expected message type snapshot, got %q", msg.Type)
	}
	if msg.Snapshot == nil || len(msg.Snapshot.Records) != 3 {
		t.Errorf("expected 3 records in snapshot, got %+v", msg.Snapshot)
	}
	if msg.ServerTime == 0 {
		t.Error("expected non-zero server time")
	}
}

func TestPublishBroadcastsToSubscribers(t *testing.T) {
	db := newTestIndex(t)
	hub := NewHub(nil)

	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialWebsocket(t, srv.URL, "")
	waitForSubscribers(t, hub, 1)

	snap, err := BuildSnapshot(db)
	if err != nil {
		t.Fatalf("BuildSnapshot failed: %v", err)
	}
	if err := hub.Publish(snap); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var msg SnapshotMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("failed to decode snapshot message: %v", err)
	}
	if msg.Snapshot == nil || len(msg.Snapshot.Files) != 1 {
		t.Errorf("expected 1 file in broadcast snapshot, got %+v", msg.Snapshot)
	}
}

func TestPingPong(t *testing.T) {
	hub := NewHub(nil)
	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialWebsocket(t, srv.URL, "")

	ping := ClientMessage{Type: "ping", SentAt: 12345}
	if err := conn.WriteJSON(ping); err != nil {
		t.Fatalf("failed to send ping: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong PongMessage
	if err := conn.ReadJSON(&pong); err != nil {
		t.Fatalf("failed to read pong: %v", err)
	}
	if pong.Type != "pong" {
		t.Errorf("expected message type pong, got %q", pong.Type)
	}
	if pong.SentAt != 12345 {
		t.Errorf("expected echoed sentAt 12345, got %d", pong.SentAt)
	}
	if pong.ServerTime == 0 {
		t.Error("expected non-zero server time")
	}
}

func TestUnsubscribeOnClose(t *testing.T) {
	hub := NewHub(nil)
	handler := NewHandler(hub, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialWebsocket(t, srv.URL, "")
	waitForSubscribers(t, hub, 1)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitForSubscribers(t, hub, 0)
}

func TestServerEndpoints(t *testing.T) {
	db := newTestIndex(t)
	hub := NewHub(nil)
	server := NewServer(ServerConfig{Hub: hub})

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		if err != nil {
			t.Fatalf("health request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("snapshot before publish", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/snapshot")
		if err != nil {
			t.Fatalf("snapshot request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected status 503 before first publish, got %d", resp.StatusCode)
		}
	})

	t.Run("snapshot after publish", func(t *testing.T) {
		snap, err := BuildSnapshot(db)
		if err != nil {
			t.Fatalf("BuildSnapshot failed: %v", err)
		}
		if err := hub.Publish(snap); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		resp, err := http.Get(srv.URL + "/snapshot")
		if err != nil {
			t.Fatalf("snapshot request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		var msg SnapshotMessage
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
			t.Fatalf("failed to decode snapshot body: %v", err)
		}
		if msg.Type != "snapshot" || len(msg.Snapshot.Records) != 3 {
			t.Errorf("unexpected snapshot body: %+v", msg)
		}
	})

	t.Run("websocket route", func(t *testing.T) {
		conn := dialWebsocket(t, srv.URL, "/ws")
		_, payload, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("failed to read snapshot over /ws: %v", err)
		}
		if !strings.Contains(string(payload), `"type":"snapshot"`) {
			t.Errorf("expected snapshot payload, got %s", payload)
		}
	})
}

func dialWebsocket(t *testing.T, baseURL, path string) *websocket.Conn {
	t.Helper()

	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.Path = path

	conn, resp, err := websocket.DefaultDialer.Dial(parsed.String(), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, got %d", want, hub.SubscriberCount())
}
