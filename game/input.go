package game

import (
	"sync"

	"github.com/lguibr/brickduel/utils"
)

// Input is what the game samples each tick, per player (1 or 2).
type Input interface {
	PressedKeys(player int) []string
	PointerX(player int) (float64, bool)
	// ConsumeAction reports a primary action and clears it, so one click
	// never fires twice.
	ConsumeAction(player int) bool
	// ConsumeTap returns a pending touch position and clears it.
	ConsumeTap(player int) (float64, bool)
}

// InputMessage is the client's input payload.
type InputMessage struct {
	Keys     []string `json:"keys"`
	PointerX *float64 `json:"pointerX,omitempty"`
	Action   bool     `json:"action,omitempty"`
	TapX     *float64 `json:"tapX,omitempty"`
}

type playerInput struct {
	keys     []string
	pointerX float64
	pointer  bool
	action   bool
	tapX     float64
	tap      bool
}

// InputBuffer holds the latest input per player. Writers (the network side)
// and the game loop may run on different goroutines.
type InputBuffer struct {
	mu      sync.Mutex
	players [2]playerInput
}

func NewInputBuffer() *InputBuffer {
	return &InputBuffer{}
}

func (b *InputBuffer) slot(player int) *playerInput {
	if player < 1 || player > len(b.players) {
		return nil
	}
	return &b.players[player-1]
}

// Apply merges a client message. Keys replace the previous set; pressing a
// steering key drops the pointer so the keyboard takes over. One-shot flags
// accumulate until consumed.
func (b *InputBuffer) Apply(player int, msg InputMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.slot(player)
	if in == nil {
		return
	}
	in.keys = append(in.keys[:0], msg.Keys...)
	for _, k := range msg.Keys {
		if utils.DirectionFromString(k) != "" {
			in.pointer = false
		}
	}
	if msg.PointerX != nil {
		in.pointerX, in.pointer = *msg.PointerX, true
	}
	if msg.Action {
		in.action = true
	}
	if msg.TapX != nil {
		in.tapX, in.tap = *msg.TapX, true
	}
}

// Release forgets everything about a player, e.g. on disconnect.
func (b *InputBuffer) Release(player int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if in := b.slot(player); in != nil {
		*in = playerInput{}
	}
}

func (b *InputBuffer) PressedKeys(player int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.slot(player)
	if in == nil {
		return nil
	}
	return append([]string(nil), in.keys...)
}

func (b *InputBuffer) PointerX(player int) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.slot(player)
	if in == nil {
		return 0, false
	}
	return in.pointerX, in.pointer
}

func (b *InputBuffer) ConsumeAction(player int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.slot(player)
	if in == nil || !in.action {
		return false
	}
	in.action = false
	return true
}

func (b *InputBuffer) ConsumeTap(player int) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	in := b.slot(player)
	if in == nil || !in.tap {
		return 0, false
	}
	in.tap = false
	return in.tapX, true
}

// Intent is what one player wants this tick.
type Intent struct {
	TargetX   float64 // Desired left edge of the paddle
	HasTarget bool
	MaxStep   float64 // 0 means teleport to TargetX
	Shoot     bool
}

// ReadIntent samples input for a human-controlled paddle. Keys move at
// PaddleSpeed; a pointer or tap centres the paddle under it; a tap also
// shoots.
func ReadIntent(in Input, p *Paddle, cfg utils.Config, dt float64) Intent {
	var intent Intent
	dir := 0.0
	for _, k := range in.PressedKeys(p.Player) {
		switch utils.DirectionFromString(k) {
		case "left":
			dir--
		case "right":
			dir++
		}
	}
	if dir != 0 {
		intent.TargetX = p.X + dir*cfg.PaddleSpeed*dt
		intent.HasTarget = true
	} else if x, ok := in.PointerX(p.Player); ok {
		intent.TargetX = x - p.Width/2
		intent.HasTarget = true
	}
	if x, ok := in.ConsumeTap(p.Player); ok {
		intent.TargetX = x - p.Width/2
		intent.HasTarget = true
		intent.Shoot = true
	}
	if in.ConsumeAction(p.Player) {
		intent.Shoot = true
	}
	return intent
}
