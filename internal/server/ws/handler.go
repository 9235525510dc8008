// File: handler.go
// Title: WebSocket Action Handler
// Description: Runs action batches sent over a WebSocket and streams their
//              PRINT output back line by line. Batches from one connection
//              run in the order they arrive.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial handler

package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/interp"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/pkg/core/logging"
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is a client request
type Message struct {
	Type    string          `json:"type"` // "execute", "lookup", "stats", "ping"
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ExecutePayload carries either an action list or a script text
type ExecutePayload struct {
	Actions json.RawMessage `json:"actions,omitempty"`
	Script  string          `json:"script,omitempty"`
	Format  string          `json:"format,omitempty"`
}

// LookupPayload names the value to render
type LookupPayload struct {
	Identifier any `json:"identifier"`
}

// Response is a server message
type Response struct {
	Type    string      `json:"type"` // "hello", "output", "done", "value", "stats", "error", "pong"
	Payload interface{} `json:"payload,omitempty"`
}

// HelloPayload is sent once after the upgrade
type HelloPayload struct {
	ConnectionID string `json:"connection_id"`
	SessionID    string `json:"session_id"`
}

// OutputPayload is one printed line
type OutputPayload struct {
	BatchID string `json:"batch_id"`
	Line    string `json:"line"`
}

// DonePayload closes a batch
type DonePayload struct {
	BatchID    string        `json:"batch_id"`
	Executed   int           `json:"executed"`
	DurationMS int64         `json:"duration_ms"`
	Error      *ErrorPayload `json:"error,omitempty"`
}

// ValuePayload answers a lookup
type ValuePayload struct {
	Found bool   `json:"found"`
	Text  string `json:"text"`
}

// ErrorPayload represents an error
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves WebSocket connections against a host
type Handler struct {
	host         *session.Host
	logger       *logging.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewHandler creates a handler for host
func NewHandler(host *session.Host, readTimeout, writeTimeout time.Duration) *Handler {
	return &Handler{
		host:         host,
		logger:       logging.New("websocket"),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// ServeHTTP handles the upgrade and the connection
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	c := &connection{
		id:      uuid.New().String(),
		conn:    conn,
		handler: h,
	}
	c.serve(r.Context())
}

type connection struct {
	id      string
	conn    *websocket.Conn
	handler *Handler
	writeMu sync.Mutex
}

func (c *connection) serve(ctx context.Context) {
	defer c.conn.Close()

	h := c.handler
	h.logger.Info("WebSocket connection established",
		"connection_id", c.id,
		"remote", c.conn.RemoteAddr().String(),
	)

	c.extendDeadline()
	c.conn.SetPongHandler(func(string) error {
		c.extendDeadline()
		return nil
	})

	c.send(Response{Type: "hello", Payload: HelloPayload{ConnectionID: c.id, SessionID: h.host.ID()}})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "connection_id", c.id, "error", err)
			} else {
				h.logger.Info("WebSocket connection closed", "connection_id", c.id)
			}
			return
		}
		c.extendDeadline()

		switch msg.Type {
		case "ping":
			c.send(Response{Type: "pong"})
		case "execute":
			c.execute(ctx, msg.Payload)
		case "lookup":
			c.lookup(msg.Payload)
		case "stats":
			c.send(Response{Type: "stats", Payload: h.host.Stats()})
		default:
			c.sendError(mdwerror.New("unknown message type: " + msg.Type).WithCode(mdwerror.CodeInvalidInput))
		}
	}
}

func (c *connection) execute(ctx context.Context, raw json.RawMessage) {
	actions, err := c.handler.decodeExecute(raw)
	if err != nil {
		c.sendError(err)
		return
	}

	batchID := uuid.New().String()
	w := session.NewLineWriter(func(line string) error {
		return c.send(Response{Type: "output", Payload: OutputPayload{BatchID: batchID, Line: line}})
	})
	result := c.handler.host.ExecuteBatch(ctx, batchID, actions, w)
	w.Flush()

	done := DonePayload{
		BatchID:    result.BatchID,
		Executed:   result.Executed,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Err != nil {
		done.Error = errorPayload(result.Err)
	}
	c.send(Response{Type: "done", Payload: done})
}

func (c *connection) lookup(raw json.RawMessage) {
	var p LookupPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			c.sendError(mdwerror.Wrap(err, "invalid lookup payload").WithCode(mdwerror.CodeInvalidInput))
			return
		}
	}

	var id action.Identifier
	if p.Identifier != nil {
		parsed, err := action.IdentifierFromValue(p.Identifier)
		if err != nil {
			c.sendError(err)
			return
		}
		id = parsed
	}

	text, found, err := c.handler.host.Render(id)
	if err != nil && !mdwerror.HasCode(err, mdwerror.CodePathNotFound) {
		c.sendError(err)
		return
	}
	if !found {
		text = interp.NotFoundMessage(id)
	}
	c.send(Response{Type: "value", Payload: ValuePayload{Found: found, Text: text}})
}

func (h *Handler) decodeExecute(raw json.RawMessage) ([]action.Action, error) {
	var p ExecutePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, mdwerror.Wrap(err, "invalid execute payload").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ws.execute")
	}
	switch {
	case len(p.Actions) > 0:
		return h.host.Parse(p.Actions, action.FormatJSON)
	case p.Script != "":
		return h.host.Parse([]byte(p.Script), action.Format(p.Format))
	default:
		return nil, mdwerror.New("execute payload has neither actions nor script").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ws.execute")
	}
}

func (c *connection) extendDeadline() {
	if c.handler.readTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.handler.readTimeout))
	}
}

// send serializes writes; gorilla connections allow one concurrent writer
func (c *connection) send(resp Response) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.handler.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.handler.writeTimeout))
	}
	if err := c.conn.WriteJSON(resp); err != nil {
		c.handler.logger.Error("Failed to send WebSocket response", "connection_id", c.id, "error", err)
		return err
	}
	return nil
}

func (c *connection) sendError(err error) {
	c.send(Response{Type: "error", Payload: errorPayload(err)})
}

func errorPayload(err error) *ErrorPayload {
	code := mdwerror.GetCode(err)
	if code == "" {
		code = mdwerror.CodeInternal
	}
	return &ErrorPayload{Code: string(code), Message: err.Error()}
}
