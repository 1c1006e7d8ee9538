package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "legal", "move", "apply", "evaluate", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code, as in ErrorResponse
}

// WSClient represents a connected WebSocket client.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for real-time analysis.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket-upgrade-failed")
		return
	}
	client := &WSClient{conn: conn, handlers: h, sendChan: make(chan WSResponse, 256)}
	go client.writePump()
	client.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer func() { close(c.sendChan); c.conn.Close() }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	if msg.Type == "ping" {
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
		return
	}
	if c.handlers.pool != nil {
		if !c.handlers.pool.TryAcquireFast() {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy", Code: "SERVER_BUSY"}
			return
		}
		defer c.handlers.pool.ReleaseFast()
	}

	log.Debug().Str("type", msg.Type).Str("id", msg.ID).Msg("ws-message")
	switch msg.Type {
	case "legal":
		var req LegalRequest
		if c.decode(msg, &req) {
			resp, err := c.handlers.legal(req)
			c.reply(msg, resp, err)
		}
	case "move":
		var req MoveRequest
		if c.decode(msg, &req) {
			resp, err := c.handlers.chooseMove(req)
			c.reply(msg, resp, err)
		}
	case "apply":
		var req ApplyRequest
		if c.decode(msg, &req) {
			resp, err := c.handlers.apply(req)
			c.reply(msg, resp, err)
		}
	case "evaluate":
		var req EvaluateRequest
		if c.decode(msg, &req) {
			resp, err := c.handlers.evaluate(req)
			c.reply(msg, resp, err)
		}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "UNKNOWN_TYPE"}
	}
}

func (c *WSClient) decode(msg WSMessage, v interface{}) bool {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "INVALID_JSON"}
		return false
	}
	return true
}

// reply sends the result of an operation, or its error with the same code
// the HTTP front-end would use.
func (c *WSClient) reply(msg WSMessage, v interface{}, err error) {
	if err != nil {
		_, code := errorStatus(err)
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: code}
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: v}
}
