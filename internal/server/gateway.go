// Package server exposes a game session over websockets. Frames are
// JSON messages with a type tag and a raw payload; the engine session
// stays the single authority on what a legal record group is.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cubatrice/engine/internal/engine"
	"github.com/cubatrice/engine/internal/entity"
	"github.com/cubatrice/engine/internal/state"
)

const writeTimeout = 5 * time.Second

// Message is the wire frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client frame types.
const (
	MsgSubmit   = "submit"
	MsgRollback = "rollback"
	MsgSnapshot = "snapshot"
)

// Server frame types.
const (
	MsgApplied    = "applied"
	MsgRolledBack = "rolled_back"
	MsgState      = "state"
	MsgError      = "error"
)

// RollbackRequest asks to undo the group currently on top of the log.
type RollbackRequest struct {
	Group entity.RecordID `json:"group"`
}

// AppliedEvent is broadcast to every connection when a group lands.
type AppliedEvent struct {
	Group      entity.RecordID `json:"group"`
	Phase      state.Phase     `json:"phase"`
	Confluence int             `json:"confluence"`
	Checksum   string          `json:"checksum"`
}

// ErrorReply carries a rejected request back to its sender.
type ErrorReply struct {
	Message string `json:"message"`
}

// PlayerView is the per-player slice of a state snapshot.
type PlayerView struct {
	Player     entity.PlayerID      `json:"player"`
	Faction    entity.FactionType   `json:"faction"`
	Cubes      entity.CubeRecord    `json:"cubes"`
	Colonies   []entity.ColonyID    `json:"colonies"`
	Converters []entity.ConverterID `json:"converters"`
}

// StateView is the snapshot sent to clients: derived, read-only data.
type StateView struct {
	Phase      state.Phase       `json:"phase"`
	Confluence int               `json:"confluence"`
	Final      bool              `json:"final"`
	Players    []PlayerView      `json:"players"`
	Applied    []entity.RecordID `json:"applied"`
	Checksum   string            `json:"checksum"`
}

// Gateway serves one session to any number of websocket clients.
type Gateway struct {
	session  *engine.Session
	logger   *zap.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*conn]struct{}
}

type conn struct {
	ws *websocket.Conn
	// writes are serialized; both request replies and broadcasts go
	// through Send.
	mu sync.Mutex
}

func (c *conn) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(msg)
}

// NewGateway wraps a session for websocket access.
func NewGateway(session *engine.Session, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		session: session,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*conn]struct{}),
	}
}

// Handler returns the websocket endpoint.
func (g *Gateway) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := g.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &conn{ws: ws}
		g.mu.Lock()
		g.conns[c] = struct{}{}
		g.mu.Unlock()
		g.logger.Info("client connected", zap.String("remote", r.RemoteAddr))

		defer func() {
			g.mu.Lock()
			delete(g.conns, c)
			g.mu.Unlock()
			ws.Close()
			g.logger.Info("client disconnected", zap.String("remote", r.RemoteAddr))
		}()

		for {
			var msg Message
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			g.dispatch(r.Context(), c, msg)
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, c *conn, msg Message) {
	switch msg.Type {
	case MsgSubmit:
		var group state.RecordGroup
		if err := json.Unmarshal(msg.Payload, &group); err != nil {
			g.replyError(c, "malformed record group: "+err.Error())
			return
		}
		next, err := g.session.Submit(ctx, group)
		if err != nil {
			g.replyError(c, err.Error())
			return
		}
		g.broadcast(MsgApplied, AppliedEvent{
			Group:      group.ID,
			Phase:      next.Phase,
			Confluence: next.Confluence,
			Checksum:   engine.Checksum(next),
		})

	case MsgRollback:
		var req RollbackRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			g.replyError(c, "malformed rollback request: "+err.Error())
			return
		}
		prev, err := g.session.Rollback(req.Group)
		if err != nil {
			g.replyError(c, err.Error())
			return
		}
		g.broadcast(MsgRolledBack, AppliedEvent{
			Group:      req.Group,
			Phase:      prev.Phase,
			Confluence: prev.Confluence,
			Checksum:   engine.Checksum(prev),
		})

	case MsgSnapshot:
		g.reply(c, MsgState, Snapshot(g.session.Snapshot()))

	default:
		g.replyError(c, "unknown message type: "+msg.Type)
	}
}

// Snapshot derives the client view of a state.
func Snapshot(s *state.GameState) StateView {
	view := StateView{
		Phase:      s.Phase,
		Confluence: s.Confluence,
		Final:      s.FinalConfluence(),
		Applied:    s.Applied,
		Checksum:   engine.Checksum(s),
	}
	for _, p := range s.Players() {
		faction, _ := s.PlayerFaction(p)
		view.Players = append(view.Players, PlayerView{
			Player:     p,
			Faction:    faction,
			Cubes:      s.PlayerCubes(p),
			Colonies:   s.PlayerColonies(p),
			Converters: s.PlayerConverters(p),
		})
	}
	return view
}

func (g *Gateway) reply(c *conn, kind string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("encode reply", zap.String("type", kind), zap.Error(err))
		return
	}
	if err := c.send(Message{Type: kind, Payload: body}); err != nil {
		g.logger.Debug("write reply", zap.Error(err))
	}
}

func (g *Gateway) replyError(c *conn, message string) {
	g.reply(c, MsgError, ErrorReply{Message: message})
}

func (g *Gateway) broadcast(kind string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("encode broadcast", zap.String("type", kind), zap.Error(err))
		return
	}
	msg := Message{Type: kind, Payload: body}

	g.mu.Lock()
	targets := make([]*conn, 0, len(g.conns))
	for c := range g.conns {
		targets = append(targets, c)
	}
	g.mu.Unlock()

	for _, c := range targets {
		if err := c.send(msg); err != nil {
			g.logger.Debug("write broadcast", zap.Error(err))
		}
	}
}
