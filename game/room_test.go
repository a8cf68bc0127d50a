// File: game/room_test.go
package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient records everything the room sends it.
type mockClient struct {
	mu      sync.Mutex
	addr    string
	sent    []any
	closed  bool
	sendErr error
}

func newMockClient(addr string) *mockClient { return &mockClient{addr: addr} }

func (m *mockClient) Send(v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, v)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) RemoteAddr() string { return m.addr }

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockClient) assignment() (PlayerAssignmentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.sent {
		if msg, ok := v.(PlayerAssignmentMessage); ok {
			return msg, true
		}
	}
	return PlayerAssignmentMessage{}, false
}

func (m *mockClient) snapshots() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, v := range m.sent {
		if _, ok := v.(SnapshotMessage); ok {
			n++
		}
	}
	return n
}

const waitFor, pollEvery = 2 * time.Second, 10 * time.Millisecond

func spawnRoom(t *testing.T, mode Mode) (*bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine()
	t.Cleanup(func() { engine.Shutdown(time.Second) })
	cfg := utils.DefaultConfig()
	cfg.Seed = 5
	pid := engine.Spawn(bollywood.NewProps(NewGameActorProducer(engine, cfg, mode, nil)))
	require.NotNil(t, pid)
	return engine, pid
}

func askSnapshot(t *testing.T, engine *bollywood.Engine, pid *bollywood.PID) Snapshot {
	t.Helper()
	reply, err := engine.Ask(pid, GetSnapshotRequest{}, time.Second)
	require.NoError(t, err)
	snap, ok := reply.(Snapshot)
	require.True(t, ok, "unexpected reply %T", reply)
	return snap
}

func TestGameActor_AssignsPlayersThenSpectators(t *testing.T) {
	engine, room := spawnRoom(t, ModePvP)
	clients := []*mockClient{newMockClient("a"), newMockClient("b"), newMockClient("c")}
	for _, c := range clients {
		engine.Send(room, AssignPlayerToRoom{Client: c}, nil)
	}

	for i, want := range []int{1, 2, 0} {
		c := clients[i]
		require.Eventually(t, func() bool { _, ok := c.assignment(); return ok }, waitFor, pollEvery)
		msg, _ := c.assignment()
		assert.Equal(t, want, msg.Player, "client %s", c.addr)
		assert.Equal(t, ModePvP, msg.Mode)
		assert.Equal(t, room.String(), msg.RoomPID)
	}
	for _, c := range clients {
		assert.Eventually(t, func() bool { return c.snapshots() > 0 }, waitFor, pollEvery, "client %s gets snapshots", c.addr)
	}
	assert.Eventually(t, func() bool {
		reply, err := engine.Ask(room, GetSnapshotRequest{}, time.Second)
		snap, ok := reply.(Snapshot)
		return err == nil && ok && snap.Tick > 0
	}, waitFor, pollEvery)
}

func TestGameActor_AIModeLeavesNoHumanSlot(t *testing.T) {
	engine, room := spawnRoom(t, ModePvAI)
	human, extra := newMockClient("human"), newMockClient("extra")
	engine.Send(room, AssignPlayerToRoom{Client: human}, nil)
	engine.Send(room, AssignPlayerToRoom{Client: extra}, nil)

	require.Eventually(t, func() bool { _, ok := extra.assignment(); return ok }, waitFor, pollEvery)
	msg, _ := human.assignment()
	assert.Equal(t, 1, msg.Player)
	msg, _ = extra.assignment()
	assert.Equal(t, 0, msg.Player, "player 2 is the AI")
}

func TestGameActor_PauseCommand(t *testing.T) {
	engine, room := spawnRoom(t, ModePvP)
	player, spectator := newMockClient("p"), newMockClient("s")
	engine.Send(room, AssignPlayerToRoom{Client: player}, nil)
	engine.Send(room, AssignPlayerToRoom{Client: newMockClient("p2")}, nil)
	engine.Send(room, AssignPlayerToRoom{Client: spectator}, nil)

	engine.Send(room, PlayerCommand{Client: spectator, Command: ClientCommand{Type: CommandPause}}, nil)
	assert.Equal(t, StatusPlaying, askSnapshot(t, engine, room).Status, "spectators cannot pause")

	engine.Send(room, PlayerCommand{Client: player, Command: ClientCommand{Type: CommandPause}}, nil)
	assert.Equal(t, StatusPaused, askSnapshot(t, engine, room).Status)

	engine.Send(room, PlayerCommand{Client: player, Command: ClientCommand{Type: CommandResume}}, nil)
	assert.Equal(t, StatusPlaying, askSnapshot(t, engine, room).Status)
}

func TestGameActor_FailedWriteDisconnects(t *testing.T) {
	engine, room := spawnRoom(t, ModePvP)
	broken := newMockClient("broken")
	broken.sendErr = errors.New("write: broken pipe")
	engine.Send(room, AssignPlayerToRoom{Client: broken}, nil)

	assert.Eventually(t, broken.isClosed, waitFor, pollEvery)

	// The slot is free again.
	next := newMockClient("next")
	engine.Send(room, AssignPlayerToRoom{Client: next}, nil)
	require.Eventually(t, func() bool { _, ok := next.assignment(); return ok }, waitFor, pollEvery)
	msg, _ := next.assignment()
	assert.Equal(t, 1, msg.Player)
}

func spawnManager(t *testing.T) (*bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine()
	t.Cleanup(func() { engine.Shutdown(time.Second) })
	pid := engine.Spawn(bollywood.NewProps(NewRoomManagerProducer(engine, utils.DefaultConfig())))
	require.NotNil(t, pid)
	return engine, pid
}

func findRoom(t *testing.T, engine *bollywood.Engine, manager *bollywood.PID, mode Mode) *bollywood.PID {
	t.Helper()
	reply, err := engine.Ask(manager, FindRoomRequest{Mode: mode}, time.Second)
	require.NoError(t, err)
	resp, ok := reply.(AssignRoomResponse)
	require.True(t, ok, "unexpected reply %T", reply)
	require.NotNil(t, resp.RoomPID)
	return resp.RoomPID
}

func roomList(t *testing.T, engine *bollywood.Engine, manager *bollywood.PID) map[string]RoomSummary {
	t.Helper()
	reply, err := engine.Ask(manager, GetRoomListRequest{}, time.Second)
	require.NoError(t, err)
	resp, ok := reply.(RoomListResponse)
	require.True(t, ok, "unexpected reply %T", reply)
	return resp.Rooms
}

func TestRoomManager_StartsEmpty(t *testing.T) {
	engine, manager := spawnManager(t)
	assert.Empty(t, roomList(t, engine, manager))
}

func TestRoomManager_SharesPvPRooms(t *testing.T) {
	engine, manager := spawnManager(t)

	first := findRoom(t, engine, manager, ModePvP)
	second := findRoom(t, engine, manager, ModePvP)
	third := findRoom(t, engine, manager, ModePvP)
	assert.Equal(t, first, second, "two players share a room")
	assert.NotEqual(t, first, third)

	ai1 := findRoom(t, engine, manager, ModePvAI)
	ai2 := findRoom(t, engine, manager, ModePvAI)
	assert.NotEqual(t, ai1, ai2, "AI rooms are private")

	rooms := roomList(t, engine, manager)
	assert.Len(t, rooms, 4)
	assert.Equal(t, ModePvAI, rooms[ai1.String()].Mode)

	reply, err := engine.Ask(manager, GetRoomRequest{ID: first.String()}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, first, reply.(AssignRoomResponse).RoomPID)
}

func TestRoomManager_StopsEmptyRooms(t *testing.T) {
	engine, manager := spawnManager(t)
	room := findRoom(t, engine, manager, ModePvAI)
	c := newMockClient("solo")
	engine.Send(room, AssignPlayerToRoom{Client: c}, nil)
	require.Eventually(t, func() bool { _, ok := c.assignment(); return ok }, waitFor, pollEvery)

	engine.Send(room, PlayerDisconnect{Client: c}, nil)
	assert.Eventually(t, func() bool {
		reply, err := engine.Ask(manager, GetRoomListRequest{}, time.Second)
		resp, ok := reply.(RoomListResponse)
		return err == nil && ok && len(resp.Rooms) == 0
	}, waitFor, pollEvery)
	assert.True(t, c.isClosed())
}

func TestRoomManager_UnknownAskGetsError(t *testing.T) {
	engine, manager := spawnManager(t)
	reply, err := engine.Ask(manager, "hello", time.Second)
	require.NoError(t, err)
	_, isErr := reply.(error)
	assert.True(t, isErr)
}

func TestRoomManager_ReservationsSurviveStaleReports(t *testing.T) {
	engine, manager := spawnManager(t)

	first := findRoom(t, engine, manager, ModePvP)
	second := findRoom(t, engine, manager, ModePvP)
	require.Equal(t, first, second)

	// The room has only seen the first client so far.
	engine.Send(manager, RoomOccupancy{RoomPID: first, Players: 1, Clients: 1, Joined: 1}, nil)
	engine.Send(manager, GameRoomEmpty{RoomPID: first}, nil)

	rooms := roomList(t, engine, manager)
	require.Contains(t, rooms, first.String(), "a pending reservation keeps the room alive")
	assert.Equal(t, 2, rooms[first.String()].Players)

	third := findRoom(t, engine, manager, ModePvP)
	assert.NotEqual(t, first, third, "the reserved slot is not handed out twice")
}
