// File: game/room_manager.go
package game

import (
	"fmt"

	"fortio.org/log"
	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/utils"
)

const maxRooms = 75 // Limit the number of concurrent rooms

// RoomInfo holds information about an active game room. Players and Clients
// are the room's last report; reservations it has not acknowledged yet are
// counted on top.
type RoomInfo struct {
	PID      *bollywood.PID
	Mode     Mode
	Players  int
	Clients  int
	reserved int // Clients sent to this room, ever
	joined   int // Clients the room reported as assigned, ever
}

func (r *RoomInfo) pending() int { return r.reserved - r.joined }

func (r *RoomInfo) players() int {
	if humanSlots(r.Mode) == 0 {
		return r.Players
	}
	return r.Players + r.pending()
}

func (r *RoomInfo) clients() int { return r.Clients + r.pending() }

// RoomManagerActor creates rooms on demand and stops them once empty. PvP
// rooms are shared until both paddles are taken; rooms with an AI opponent
// are private to the client that asked.
type RoomManagerActor struct {
	engine  *bollywood.Engine
	cfg     utils.Config
	rooms   map[string]*RoomInfo // Keyed by PID string
	selfPID *bollywood.PID
}

// NewRoomManagerProducer creates a producer for the RoomManagerActor.
func NewRoomManagerProducer(engine *bollywood.Engine, cfg utils.Config) bollywood.Producer {
	return func() bollywood.Actor {
		return &RoomManagerActor{
			engine: engine,
			cfg:    cfg,
			rooms:  make(map[string]*RoomInfo),
		}
	}
}

// Receive handles messages for the RoomManagerActor.
func (a *RoomManagerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errf("RoomManagerActor %s: panic: %v", a.selfPID, r)
			if ctx.IsRequest() {
				ctx.Reply(fmt.Errorf("room manager panicked: %v", r))
			}
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		log.Infof("RoomManagerActor %s: started", a.selfPID)

	case FindRoomRequest:
		resp := a.handleFindRoom(msg.Mode)
		if ctx.IsRequest() {
			ctx.Reply(resp)
		}

	case GetRoomRequest:
		var pid *bollywood.PID
		if info, ok := a.rooms[msg.ID]; ok {
			pid = info.PID
		}
		if ctx.IsRequest() {
			ctx.Reply(AssignRoomResponse{RoomPID: pid})
		}

	case RoomOccupancy:
		if info, ok := a.rooms[msg.RoomPID.String()]; ok {
			info.Players = msg.Players
			info.Clients = msg.Clients
			info.joined = msg.Joined
		}

	case GameRoomEmpty:
		a.handleGameRoomEmpty(msg.RoomPID)

	case GetRoomListRequest:
		if ctx.IsRequest() {
			ctx.Reply(a.roomList())
		} else {
			log.Warnf("RoomManagerActor %s: GetRoomListRequest not sent via Ask", a.selfPID)
		}

	case bollywood.Stopping:
		log.Infof("RoomManagerActor %s: stopping %d rooms", a.selfPID, len(a.rooms))
		for id, info := range a.rooms {
			a.engine.Stop(info.PID)
			delete(a.rooms, id)
		}

	case bollywood.Stopped:

	default:
		log.Warnf("RoomManagerActor %s: unknown message type %T", a.selfPID, msg)
		if ctx.IsRequest() {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

func humanSlots(mode Mode) int {
	n := 0
	for player := 1; player <= 2; player++ {
		if !mode.IsAI(player) {
			n++
		}
	}
	return n
}

func (a *RoomManagerActor) handleFindRoom(mode Mode) AssignRoomResponse {
	if mode == ModePvP {
		for _, info := range a.rooms {
			if info.Mode == ModePvP && info.players() < humanSlots(ModePvP) {
				info.reserved++
				return AssignRoomResponse{RoomPID: info.PID}
			}
		}
	}

	if len(a.rooms) >= maxRooms {
		log.Warnf("RoomManagerActor %s: max rooms (%d) reached, rejecting %s request", a.selfPID, maxRooms, mode)
		return AssignRoomResponse{}
	}

	pid := a.engine.Spawn(bollywood.NewProps(NewGameActorProducer(a.engine, a.cfg, mode, a.selfPID)))
	if pid == nil {
		log.Errf("RoomManagerActor %s: failed to spawn %s room", a.selfPID, mode)
		return AssignRoomResponse{}
	}
	info := &RoomInfo{PID: pid, Mode: mode, reserved: 1}
	a.rooms[pid.String()] = info
	log.S(log.Info, "Room created", log.Str("room", pid.String()), log.Str("mode", string(mode)), log.Any("rooms", len(a.rooms)))
	return AssignRoomResponse{RoomPID: pid}
}

func (a *RoomManagerActor) handleGameRoomEmpty(roomPID *bollywood.PID) {
	if roomPID == nil {
		return
	}
	id := roomPID.String()
	info, exists := a.rooms[id]
	if !exists {
		return
	}
	if info.clients() > 0 {
		// A client was sent here after the room's last occupancy report.
		return
	}
	log.Infof("RoomManagerActor %s: room %s empty, stopping", a.selfPID, id)
	delete(a.rooms, id)
	a.engine.Stop(info.PID)
}

func (a *RoomManagerActor) roomList() RoomListResponse {
	resp := RoomListResponse{Rooms: make(map[string]RoomSummary, len(a.rooms))}
	for id, info := range a.rooms {
		resp.Rooms[id] = RoomSummary{Mode: info.Mode, Players: info.players(), Clients: info.clients()}
	}
	return resp
}
