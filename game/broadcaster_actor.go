// File: game/broadcaster_actor.go
package game

import (
	"errors"
	"io"
	"net"
	"sync"

	"fortio.org/log"
	"github.com/lguibr/brickduel/bollywood"
)

// BroadcasterActor owns a room's client set and does all network writes, so
// a slow client never stalls the room's tick.
type BroadcasterActor struct {
	clients      map[Client]bool
	mu           sync.RWMutex // Protects the clients map for ClientCount
	selfPID      *bollywood.PID
	gameActorPID *bollywood.PID // Notified when a write fails
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer(gameActorPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients:      make(map[Client]bool),
			gameActorPID: gameActorPID,
		}
	}
}

// Receive handles messages for the BroadcasterActor.
func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case AddClient:
		if msg.Client != nil {
			a.mu.Lock()
			a.clients[msg.Client] = true
			a.mu.Unlock()
		}

	case RemoveClient:
		if msg.Client != nil {
			a.mu.Lock()
			delete(a.clients, msg.Client)
			a.mu.Unlock()
		}

	case SendToClient:
		if msg.Client != nil {
			a.send(ctx, []Client{msg.Client}, msg.Message)
		}

	case BroadcastSnapshot:
		a.broadcast(ctx, msg.Message)

	case GameOverMessage:
		log.S(log.Info, "Game over", log.Str("room", msg.RoomPID), log.Any("winner", msg.Winner), log.Any("scores", msg.FinalScores))
		a.broadcast(ctx, msg)

	case bollywood.Stopping:
		a.closeAllConnections()

	case bollywood.Stopped:

	default:
		log.Warnf("Broadcaster %s: unknown message type %T", a.selfPID, msg)
	}
}

// ClientCount returns the number of registered clients.
func (a *BroadcasterActor) ClientCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.clients)
}

func (a *BroadcasterActor) snapshotClients() []Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Client, 0, len(a.clients))
	for c := range a.clients {
		out = append(out, c)
	}
	return out
}

func (a *BroadcasterActor) broadcast(ctx bollywood.Context, v any) {
	a.send(ctx, a.snapshotClients(), v)
}

// send writes v to each client. Clients whose write fails are dropped and
// reported to the game actor.
func (a *BroadcasterActor) send(ctx bollywood.Context, clients []Client, v any) {
	var failed []Client
	for _, c := range clients {
		if err := c.Send(v); err != nil {
			if !isClosedErr(err) {
				log.Errf("Broadcaster %s: write to %s failed: %v", a.selfPID, c.RemoteAddr(), err)
			}
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}
	a.mu.Lock()
	for _, c := range failed {
		delete(a.clients, c)
	}
	a.mu.Unlock()
	if a.gameActorPID != nil {
		for _, c := range failed {
			ctx.Engine().Send(a.gameActorPID, PlayerDisconnect{Client: c}, a.selfPID)
		}
	}
}

func (a *BroadcasterActor) closeAllConnections() {
	a.mu.Lock()
	toClose := make([]Client, 0, len(a.clients))
	for c := range a.clients {
		toClose = append(toClose, c)
	}
	a.clients = make(map[Client]bool)
	a.mu.Unlock()

	if len(toClose) > 0 {
		log.Infof("Broadcaster %s: closing %d connections", a.selfPID, len(toClose))
	}
	for _, c := range toClose {
		_ = c.Close()
	}
}

func isClosedErr(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe)
}
