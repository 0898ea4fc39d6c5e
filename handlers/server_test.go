package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"dungeon-viewer/previewer/messages"
	"dungeon-viewer/previewer/models"
	"dungeon-viewer/previewer/persistence"
	"dungeon-viewer/previewer/services"
)

type envelope struct {
	Type    messages.MessageType `json:"type"`
	Payload json.RawMessage      `json:"payload"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	maps := services.NewMapService(persistence.NewMemoryStore(), logger)
	previews := services.NewPreviewService(maps, services.WithLogger(logger))
	srv := NewServer("127.0.0.1:0", previews, maps, logger)
	return srv, httptest.NewServer(srv.Handler())
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType messages.MessageType, payload interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(messages.BaseMessage{Type: msgType, Payload: payload}))
}

func receive(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func receiveError(t *testing.T, conn *websocket.Conn) messages.ErrorMessage {
	t.Helper()
	env := receive(t, conn)
	require.Equal(t, messages.MessageTypeError, env.Type)
	var e messages.ErrorMessage
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	return e
}

func TestPreviewOverWebsocket(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, ts := newTestServer(t)
	defer ts.Close()

	alice := dial(t, ts)
	defer alice.Close()
	bob := dial(t, ts)
	defer bob.Close()
	require.Eventually(t, func() bool { return srv.Clients().Count() == 2 }, 5*time.Second, 10*time.Millisecond)

	// Sample preview
	send(t, alice, messages.MessageTypePreview, messages.PreviewMessage{})
	env := receive(t, alice)
	require.Equal(t, messages.MessageTypePreviewResult, env.Type)
	var result messages.PreviewResultMessage
	require.NoError(t, json.Unmarshal(env.Payload, &result))
	assert.Equal(t, services.SampleMapName, result.Map)
	assert.Equal(t, models.SampleStats(), result.Stats)
	assert.Contains(t, strings.Join(result.Lines, "\n"), "Tiles: 287 (17.9%)")

	// Empty catalogue
	send(t, alice, messages.MessageTypeListMaps, nil)
	env = receive(t, alice)
	require.Equal(t, messages.MessageTypeMapList, env.Type)
	assert.JSONEq(t, `{"maps":[]}`, string(env.Payload))

	// Saving broadcasts to every client
	send(t, alice, messages.MessageTypeSaveMap, messages.SaveMapMessage{
		Name: "cellar",
		Rows: []string{"####", "#..#", "#++#", "####"},
	})
	for _, conn := range []*websocket.Conn{alice, bob} {
		env = receive(t, conn)
		require.Equal(t, messages.MessageTypeMapSaved, env.Type)
		var saved messages.MapSavedMessage
		require.NoError(t, json.Unmarshal(env.Payload, &saved))
		assert.Equal(t, "cellar", saved.Name)
		assert.Equal(t, 4, saved.Width)
		assert.Equal(t, 4, saved.Height)
	}

	// Bob previews the stored map
	send(t, bob, messages.MessageTypePreview, messages.PreviewMessage{Map: "cellar"})
	env = receive(t, bob)
	require.Equal(t, messages.MessageTypePreviewResult, env.Type)
	require.NoError(t, json.Unmarshal(env.Payload, &result))
	assert.Equal(t, "cellar", result.Map)
	assert.Equal(t, 16, result.Stats.OccupiedTiles)
	assert.Equal(t, 1, result.Stats.RoomCount)
}

func TestWebsocketErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, ts := newTestServer(t)
	defer ts.Close()

	conn := dial(t, ts)
	defer conn.Close()

	send(t, conn, messages.MessageTypePreview, messages.PreviewMessage{Map: "nowhere"})
	assert.Equal(t, messages.ErrCodeMapNotFound, receiveError(t, conn).Code)

	send(t, conn, messages.MessageTypeSaveMap, messages.SaveMapMessage{Name: "ragged", Rows: []string{"###", "#"}})
	e := receiveError(t, conn)
	assert.Equal(t, messages.ErrCodeInvalidMap, e.Code)
	assert.Contains(t, e.Message, "row 1")

	send(t, conn, "teleport", nil)
	assert.Equal(t, messages.ErrCodeUnknownType, receiveError(t, conn).Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, messages.ErrCodeBadMessage, receiveError(t, conn).Code)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, ts := newTestServer(t)
	ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
