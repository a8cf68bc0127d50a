// File: game/game_actor.go
package game

import (
	"runtime/debug"
	"time"

	"fortio.org/log"
	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/utils"
)

// GameActor owns one room: its Game, the input buffer its clients feed and
// the player slots. Ticks, input and control all arrive as messages, so the
// Game is only ever touched from Receive.
type GameActor struct {
	engine         *bollywood.Engine
	cfg            utils.Config
	mode           Mode
	roomManagerPID *bollywood.PID
	selfPID        *bollywood.PID
	broadcasterPID *bollywood.PID

	game    *Game
	input   *InputBuffer
	clients map[Client]int // Player slot, 0 for spectators
	players [2]Client
	joined  int

	ticker       *time.Ticker
	stopTickerCh chan struct{}
	gameOverSent bool
}

// NewGameActorProducer creates a producer for a room of the given mode.
// roomManagerPID may be nil for a standalone room.
func NewGameActorProducer(engine *bollywood.Engine, cfg utils.Config, mode Mode, roomManagerPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &GameActor{
			engine:         engine,
			cfg:            cfg,
			mode:           mode,
			roomManagerPID: roomManagerPID,
			input:          NewInputBuffer(),
			clients:        make(map[Client]int),
			stopTickerCh:   make(chan struct{}),
		}
	}
}

// Receive handles messages for the GameActor.
func (a *GameActor) Receive(ctx bollywood.Context) {
	switch m := ctx.Message().(type) {
	case bollywood.Started:
		a.handleStart(ctx)

	case GameTick:
		a.handleTick()

	case AssignPlayerToRoom:
		a.handleAssign(m.Client)

	case PlayerDisconnect:
		a.handleDisconnect(m.Client)

	case PlayerCommand:
		a.handleCommand(m.Client, m.Command)

	case GetSnapshotRequest:
		if ctx.IsRequest() && a.game != nil {
			ctx.Reply(a.game.Snapshot())
		}

	case bollywood.Stopping:
		a.stopTicker()
		if a.broadcasterPID != nil {
			a.engine.Stop(a.broadcasterPID)
		}

	case bollywood.Stopped:
		log.LogVf("GameActor %s: stopped", a.selfPID)

	default:
		log.Warnf("GameActor %s: unknown message type %T", a.selfPID, m)
	}
}

func (a *GameActor) handleStart(ctx bollywood.Context) {
	a.selfPID = ctx.Self()
	a.game = NewGame(a.cfg, WithInput(a.input), WithMode(a.mode))
	a.broadcasterPID = a.engine.Spawn(bollywood.NewProps(NewBroadcasterProducer(a.selfPID)))
	a.ticker = time.NewTicker(a.cfg.GameTickPeriod)
	go a.runTickerLoop(a.selfPID)
	log.Infof("GameActor %s: started %s room", a.selfPID, a.mode)
}

// runTickerLoop sends GameTick messages to the actor's own mailbox at the
// configured period until the actor stops.
func (a *GameActor) runTickerLoop(self *bollywood.PID) {
	defer func() {
		if r := recover(); r != nil {
			log.Errf("GameActor %s: ticker panic: %v\n%s", self, r, debug.Stack())
		}
	}()
	for {
		select {
		case <-a.stopTickerCh:
			return
		case <-a.ticker.C:
			a.engine.Send(self, GameTick{}, nil)
		}
	}
}

func (a *GameActor) stopTicker() {
	if a.ticker == nil {
		return
	}
	a.ticker.Stop()
	select {
	case <-a.stopTickerCh:
	default:
		close(a.stopTickerCh)
	}
}

// handleTick advances the game by one fixed period and hands the snapshot to
// the broadcaster. The game over message goes out once per finished match.
func (a *GameActor) handleTick() {
	a.game.Tick(a.cfg.GameTickPeriod)
	snap := a.game.Snapshot()
	if a.broadcasterPID == nil {
		return
	}
	a.engine.Send(a.broadcasterPID, BroadcastSnapshot{Message: SnapshotMessage{MessageType: "snapshot", Snapshot: snap}}, a.selfPID)

	if snap.Status == StatusGameOver && !a.gameOverSent {
		a.gameOverSent = true
		over := GameOverMessage{MessageType: "gameOver", Winner: snap.Winner, RoomPID: a.selfPID.String()}
		for i, p := range snap.Paddles {
			if i < len(over.FinalScores) {
				over.FinalScores[i] = p.Score
			}
		}
		a.engine.Send(a.broadcasterPID, over, a.selfPID)
	}
}

// handleAssign gives the client the first free human paddle, or makes it a
// spectator when none is left.
func (a *GameActor) handleAssign(c Client) {
	if c == nil {
		return
	}
	if _, exists := a.clients[c]; exists {
		return
	}
	slot := 0
	for i := range a.players {
		player := i + 1
		if a.players[i] == nil && !a.mode.IsAI(player) {
			a.players[i] = c
			slot = player
			break
		}
	}
	a.clients[c] = slot
	a.joined++
	log.Infof("GameActor %s: client %s assigned player %d", a.selfPID, c.RemoteAddr(), slot)

	if a.broadcasterPID != nil {
		a.engine.Send(a.broadcasterPID, AddClient{Client: c}, a.selfPID)
		a.engine.Send(a.broadcasterPID, SendToClient{Client: c, Message: PlayerAssignmentMessage{
			MessageType: "playerAssignment",
			Player:      slot,
			Mode:        a.mode,
			RoomPID:     a.selfPID.String(),
		}}, a.selfPID)
	}
	a.reportOccupancy()
}

func (a *GameActor) handleDisconnect(c Client) {
	slot, exists := a.clients[c]
	if !exists {
		return
	}
	delete(a.clients, c)
	if slot > 0 {
		a.players[slot-1] = nil
		a.input.Release(slot)
	}
	if a.broadcasterPID != nil {
		a.engine.Send(a.broadcasterPID, RemoveClient{Client: c}, a.selfPID)
	}
	_ = c.Close()
	log.Infof("GameActor %s: client %s (player %d) left, %d remain", a.selfPID, c.RemoteAddr(), slot, len(a.clients))

	a.reportOccupancy()
	if len(a.clients) == 0 && a.roomManagerPID != nil {
		a.engine.Send(a.roomManagerPID, GameRoomEmpty{RoomPID: a.selfPID}, a.selfPID)
	}
}

// handleCommand applies a client command. Spectators may not steer or
// control the match.
func (a *GameActor) handleCommand(c Client, cmd ClientCommand) {
	slot, exists := a.clients[c]
	if !exists || slot == 0 {
		return
	}
	switch cmd.Type {
	case CommandInput, "":
		a.input.Apply(slot, cmd.InputMessage)
	case CommandPause:
		a.game.TogglePause()
	case CommandResume:
		a.game.Resume()
	case CommandRestart:
		a.game.Reset()
		a.gameOverSent = false
		log.Infof("GameActor %s: restarted by player %d", a.selfPID, slot)
	default:
		log.LogVf("GameActor %s: ignoring command %q from player %d", a.selfPID, cmd.Type, slot)
	}
}

func (a *GameActor) reportOccupancy() {
	if a.roomManagerPID == nil {
		return
	}
	players := 0
	for _, p := range a.players {
		if p != nil {
			players++
		}
	}
	a.engine.Send(a.roomManagerPID, RoomOccupancy{RoomPID: a.selfPID, Players: players, Clients: len(a.clients), Joined: a.joined}, a.selfPID)
}
