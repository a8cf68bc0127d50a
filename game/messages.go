// File: game/messages.go
package game

import (
	"github.com/lguibr/brickduel/bollywood"
)

// Client is one connected peer as the room actors see it. The server wraps a
// websocket connection and its codec behind it.
type Client interface {
	Send(v any) error
	Close() error
	RemoteAddr() string
}

// --- WebSocket Messages (Client <-> Server) ---

// Client command types.
const (
	CommandInput   = "input"
	CommandPause   = "pause"
	CommandResume  = "resume"
	CommandRestart = "restart"
)

// ClientCommand is what a client sends. For input commands the embedded
// InputMessage carries the payload.
type ClientCommand struct {
	Type string `json:"type"`
	InputMessage
}

// PlayerAssignmentMessage tells a client which paddle it controls. Player 0
// means spectator.
type PlayerAssignmentMessage struct {
	MessageType string `json:"messageType"` // "playerAssignment"
	Player      int    `json:"player"`
	Mode        Mode   `json:"mode"`
	RoomPID     string `json:"roomPID"`
}

// SnapshotMessage carries one tick's render state.
type SnapshotMessage struct {
	MessageType string   `json:"messageType"` // "snapshot"
	Snapshot    Snapshot `json:"snapshot"`
}

// GameOverMessage signals the end of the game.
type GameOverMessage struct {
	MessageType string   `json:"messageType"` // "gameOver"
	Winner      int      `json:"winner"`      // 0 for a tie
	FinalScores [2]int32 `json:"finalScores"`
	RoomPID     string   `json:"roomPID"`
}

// --- Internal Actor Messages ---

// GameTick is self-sent by the room's ticker.
type GameTick struct{}

// AssignPlayerToRoom hands a freshly connected client to a room.
type AssignPlayerToRoom struct {
	Client Client
}

// PlayerDisconnect is sent when a client's read loop ends or a write fails.
type PlayerDisconnect struct {
	Client Client
}

// PlayerCommand forwards a decoded client command to the room.
type PlayerCommand struct {
	Client  Client
	Command ClientCommand
}

// GetSnapshotRequest asks a room for its latest Snapshot (via Ask).
type GetSnapshotRequest struct{}

// AddClient registers a connection with the broadcaster.
type AddClient struct {
	Client Client
}

// RemoveClient unregisters a connection from the broadcaster.
type RemoveClient struct {
	Client Client
}

// SendToClient asks the broadcaster to write one message to one client.
type SendToClient struct {
	Client  Client
	Message any
}

// BroadcastSnapshot asks the broadcaster to fan a snapshot out.
type BroadcastSnapshot struct {
	Message SnapshotMessage
}

// --- Room Manager Messages ---

// FindRoomRequest asks the room manager for a room of the given mode (via Ask).
type FindRoomRequest struct {
	Mode Mode
}

// AssignRoomResponse answers FindRoomRequest. RoomPID is nil when no room
// could be provided.
type AssignRoomResponse struct {
	RoomPID *bollywood.PID
}

// GameRoomEmpty is sent by a room whose last client left.
type GameRoomEmpty struct {
	RoomPID *bollywood.PID
}

// RoomOccupancy is sent by a room whenever its client set changes.
type RoomOccupancy struct {
	RoomPID *bollywood.PID
	Players int // Human-controlled paddles taken
	Clients int // Players plus spectators
	Joined  int // Clients ever assigned, acknowledges reservations
}

// GetRoomListRequest asks for the active rooms (via Ask).
type GetRoomListRequest struct{}

// RoomSummary describes one room in RoomListResponse.
type RoomSummary struct {
	Mode    Mode `json:"mode"`
	Players int  `json:"players"`
	Clients int  `json:"clients"`
}

// RoomListResponse maps room PIDs to their summary.
type RoomListResponse struct {
	Rooms map[string]RoomSummary `json:"rooms"`
}

// GetRoomRequest looks a room up by its PID string (via Ask). The reply is
// AssignRoomResponse.
type GetRoomRequest struct {
	ID string
}
