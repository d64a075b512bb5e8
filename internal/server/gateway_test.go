package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/engine"
	"github.com/cubatrice/engine/internal/entity"
	"github.com/cubatrice/engine/internal/state"
)

func testStore() *data.Store {
	s := data.NewStore()
	s.InsertColony(entity.Colony{
		Name: "Redworld", ID: 1, Type: entity.BiomeDesert,
		Converter: entity.Converter{Arrow: entity.ArrowWhite, Outputs: []entity.Item{entity.CubesItem(entity.CubeFood, 1)}},
	})
	s.InsertStartingResources(entity.CaylionCore, []entity.Item{
		entity.CubesItem(entity.CubeFood, 3),
	})
	s.InsertStartingResources(entity.EniEtCore, []entity.Item{
		entity.CubesItem(entity.CubeShip, 2),
	})
	return s
}

func dialTestGateway(t *testing.T) (*engine.Session, *websocket.Conn) {
	t.Helper()
	session := engine.NewSession(testStore(), 3)
	srv := httptest.NewServer(NewGateway(session, nil).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return session, ws
}

func send(t *testing.T, ws *websocket.Conn, kind string, payload any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(Message{Type: kind, Payload: body}))
}

func recv(t *testing.T, ws *websocket.Conn) Message {
	t.Helper()
	var msg Message
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestGatewaySnapshot(t *testing.T) {
	_, ws := dialTestGateway(t)
	require.NoError(t, ws.WriteJSON(Message{Type: MsgSnapshot}))

	msg := recv(t, ws)
	require.Equal(t, MsgState, msg.Type)

	var view StateView
	require.NoError(t, json.Unmarshal(msg.Payload, &view))
	assert.Equal(t, state.PhaseInit, view.Phase)
	assert.Empty(t, view.Players)
	assert.NotEmpty(t, view.Checksum)
}

func TestGatewaySubmitBroadcastsApplied(t *testing.T) {
	session, ws := dialTestGateway(t)

	group := state.NewGroup(1,
		state.CreatePlayerRecord(0, entity.CaylionCore),
		state.CreatePlayerRecord(1, entity.EniEtCore),
	)
	send(t, ws, MsgSubmit, group)

	msg := recv(t, ws)
	require.Equal(t, MsgApplied, msg.Type)

	var event AppliedEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, entity.RecordID(1), event.Group)
	assert.Equal(t, state.PhaseInit, event.Phase)
	assert.Equal(t, engine.Checksum(session.Snapshot()), event.Checksum)
	assert.Len(t, session.Snapshot().Players(), 2)
}

func TestGatewayRejectsIllegalGroup(t *testing.T) {
	session, ws := dialTestGateway(t)

	send(t, ws, MsgSubmit, state.NewGroup(1, state.ChangePhaseRecord(state.PhaseEconomy)))

	msg := recv(t, ws)
	require.Equal(t, MsgError, msg.Type)

	var reply ErrorReply
	require.NoError(t, json.Unmarshal(msg.Payload, &reply))
	assert.Contains(t, reply.Message, "phase")
	assert.Empty(t, session.Log(), "rejected group never reaches the log")
}

func TestGatewayRollback(t *testing.T) {
	session, ws := dialTestGateway(t)

	send(t, ws, MsgSubmit, state.NewGroup(1, state.CreatePlayerRecord(0, entity.CaylionCore)))
	require.Equal(t, MsgApplied, recv(t, ws).Type)

	send(t, ws, MsgRollback, RollbackRequest{Group: 1})
	msg := recv(t, ws)
	require.Equal(t, MsgRolledBack, msg.Type)
	assert.Empty(t, session.Snapshot().Players())

	send(t, ws, MsgRollback, RollbackRequest{Group: 1})
	assert.Equal(t, MsgError, recv(t, ws).Type, "nothing left to undo")
}

func TestGatewayUnknownType(t *testing.T) {
	_, ws := dialTestGateway(t)
	require.NoError(t, ws.WriteJSON(Message{Type: "teleport"}))
	msg := recv(t, ws)
	require.Equal(t, MsgError, msg.Type)
}
