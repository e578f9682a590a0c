package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/auth"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/codec"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/dispatch"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/store"
	"github.com/DuckHunt-discord/Coroned-event/corona"
	"github.com/DuckHunt-discord/Coroned-event/logger"
)

const testToken = "bridge-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine, err := corona.NewEngine(corona.DefaultConfig(), corona.WithSource(corona.NewScriptedSource()))
	require.NoError(t, err)
	d := dispatch.New(engine, store.NewMemoryService(engine.NewPlayer), dispatch.Options{})
	t.Cleanup(d.Close)

	hash, err := auth.HashToken(testToken, bcrypt.MinCost)
	require.NoError(t, err)
	bridges, err := auth.NewBridges(map[string]string{"discord": hash})
	require.NoError(t, err)

	g := New(bridges, d)
	srv := httptest.NewServer(http.HandlerFunc(g.HandleWebSocket))
	t.Cleanup(func() {
		g.Close()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	return websocket.DefaultDialer.Dial(url, header)
}

func roundTrip(t *testing.T, conn *websocket.Conn, req dispatch.Request) map[string]any {
	t.Helper()
	data, err := codec.EncodeRequest(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, data))
	return readFrame(t, conn)
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, typ)

	var env structpb.Struct
	require.NoError(t, proto.Unmarshal(data, &env))
	return env.AsMap()
}

func TestGateway_RejectsUnknownToken(t *testing.T) {
	srv := newTestServer(t)

	_, resp, err := dial(t, srv, "wrong")
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dial(t, srv, "")
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGateway_CommandRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	conn, _, err := dial(t, srv, testToken)
	require.NoError(t, err)
	defer conn.Close()

	m := roundTrip(t, conn, dispatch.Request{
		Seq:     1,
		Type:    dispatch.RequestCommand,
		Actor:   dispatch.Actor{ID: 138751484517941259, Name: "creeper"},
		Command: "work",
	})
	require.Equal(t, "1", m["seq"])
	require.NotEmpty(t, m["request_id"])
	require.NotContains(t, m, "error")
	outcomes := m["outcomes"].([]any)
	require.Len(t, outcomes, 1)
	require.Equal(t, "work", outcomes[0].(map[string]any)["action"])

	// same identity, answered in order
	m = roundTrip(t, conn, dispatch.Request{
		Seq:     2,
		Type:    dispatch.RequestCommand,
		Actor:   dispatch.Actor{ID: 138751484517941259},
		Command: "profile",
	})
	require.Equal(t, "2", m["seq"])
	msg := m["outcomes"].([]any)[0].(map[string]any)["message"].(string)
	require.Contains(t, msg, "Worked: 1 times")
}

func TestGateway_ErrorsAreReported(t *testing.T) {
	srv := newTestServer(t)
	conn, _, err := dial(t, srv, testToken)
	require.NoError(t, err)
	defer conn.Close()

	m := roundTrip(t, conn, dispatch.Request{
		Seq:     5,
		Type:    dispatch.RequestCommand,
		Actor:   dispatch.Actor{ID: 1},
		Command: "moonwalk",
	})
	require.Equal(t, "5", m["seq"])
	require.Contains(t, m["error"], "unknown command")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xff, 0x01}))
	m = readFrame(t, conn)
	require.Contains(t, m["error"], "malformed envelope")
}

func TestGateway_TokenInQuery(t *testing.T) {
	srv := newTestServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=" + testToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.Close()
}

func TestConnection_FullSendBufferClosesConnection(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &Connection{
		ID:     "conn_1",
		Send:   make(chan []byte, 1),
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Component("gateway"),
	}

	c.send(1, []byte{1})
	require.NoError(t, ctx.Err())
	require.Len(t, c.Send, 1)

	// the second response has nowhere to go, the bridge must resync
	c.send(2, []byte{2})
	require.ErrorIs(t, ctx.Err(), context.Canceled)
	require.Len(t, c.Send, 1)
}
