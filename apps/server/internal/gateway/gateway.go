package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/auth"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/codec"
	"github.com/DuckHunt-discord/Coroned-event/apps/server/internal/dispatch"
	"github.com/DuckHunt-discord/Coroned-event/logger"
)

const (
	readLimit    = 65536
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// bridges are servers, not browsers
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connection is one bridge session.
type Connection struct {
	ID     string
	Bridge string
	Conn   *websocket.Conn
	Send   chan []byte

	ctx     context.Context
	cancel  context.CancelFunc
	gateway *Gateway
	log     *logrus.Entry
}

// Gateway accepts bridge WebSocket connections and feeds their frames to
// the dispatcher.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	nextConnID  uint64

	bridges    *auth.Bridges
	dispatcher *dispatch.Dispatcher
	log        *logrus.Entry
}

// New creates a new Gateway instance.
func New(bridges *auth.Bridges, dispatcher *dispatch.Dispatcher) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		bridges:     bridges,
		dispatcher:  dispatcher,
		log:         logger.Component("gateway"),
	}
}

// HandleWebSocket authenticates the bridge and upgrades the connection.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	bridge, err := g.bridges.Authenticate(auth.RequestToken(r))
	if err != nil {
		g.log.WithField("remote", r.RemoteAddr).Warn("Rejected bridge connection")
		http.Error(w, "invalid bridge token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("Upgrade error")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:      connID,
		Bridge:  bridge,
		Conn:    conn,
		Send:    make(chan []byte, sendBuffer),
		ctx:     ctx,
		cancel:  cancel,
		gateway: g,
		log:     g.log.WithFields(logrus.Fields{"conn": connID, "bridge": bridge}),
	}
	g.connections[connID] = c
	total := len(g.connections)
	g.mu.Unlock()

	c.log.WithField("total", total).Info("Bridge connected")

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.gateway.removeConnection(c)
		c.cancel()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimit)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("Read error")
			}
			return
		}
		if messageType == websocket.BinaryMessage {
			c.handleFrame(message)
		}
	}
}

// handleFrame queues the request on the author's lane. Every frame gets
// exactly one response frame, echoing its seq.
func (c *Connection) handleFrame(data []byte) {
	req, err := codec.DecodeRequest(data)
	if err != nil {
		c.log.WithError(err).Debug("Bad frame")
		c.sendError(req.Seq, err)
		return
	}

	err = c.gateway.dispatcher.SubmitAsync(c.ctx, req, c.sendResponse)
	if err != nil {
		c.sendError(req.Seq, err)
	}
}

func (c *Connection) sendResponse(resp dispatch.Response) {
	data, err := codec.EncodeResponse(resp)
	if err != nil {
		c.log.WithError(err).Error("Encode response")
		return
	}
	c.send(resp.Seq, data)
}

func (c *Connection) sendError(seq uint64, cause error) {
	data, err := codec.EncodeError(seq, cause)
	if err != nil {
		c.log.WithError(err).Error("Encode error")
		return
	}
	c.send(seq, data)
}

// send queues a frame for the write pump. A bridge that cannot keep up is
// disconnected so it reconnects and resyncs instead of missing responses.
func (c *Connection) send(seq uint64, data []byte) {
	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	default:
		c.log.WithField("seq", seq).Warn("Send buffer full, closing connection")
		c.cancel()
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	c.log.WithField("total", len(g.connections)).Info("Bridge disconnected")
}

// Connections returns the number of connected bridges.
func (g *Gateway) Connections() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

// Close disconnects every bridge.
func (g *Gateway) Close() {
	g.mu.RLock()
	conns := make([]*Connection, 0, len(g.connections))
	for _, c := range g.connections {
		conns = append(conns, c)
	}
	g.mu.RUnlock()

	for _, c := range conns {
		c.cancel()
	}
}
