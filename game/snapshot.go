// File: game/snapshot.go
package game

import (
	"math"

	"fortio.org/log"
	"fortio.org/safecast"
)

// Snapshot is the per-tick, read-only view of a game handed to renderers.
// It shares no memory with the live game.
type Snapshot struct {
	Tick         uint64           `json:"tick"`
	Mode         Mode             `json:"mode"`
	Status       Status           `json:"status"`
	Winner       int              `json:"winner,omitempty"`
	FPS          float64          `json:"fps"`
	Time         float64          `json:"time"`
	Pattern      string           `json:"pattern"`
	CanvasWidth  float64          `json:"canvasWidth"`
	CanvasHeight float64          `json:"canvasHeight"`
	ActiveBricks int              `json:"activeBricks"`
	Balls        []BallView       `json:"balls"`
	Paddles      []PaddleView     `json:"paddles"`
	Bricks       []BrickView      `json:"bricks"`
	Fragments    []FragmentView   `json:"fragments"`
	Particles    []Particle       `json:"particles"`
	Projectiles  []ProjectileView `json:"projectiles"`
	Sounds       []string         `json:"sounds,omitempty"`
}

type BallView struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Radius    float64 `json:"radius"`
	Owner     int     `json:"owner"`
	LastHitBy int     `json:"lastHitBy"`
}

// PaddleView carries the flags the UI uses for score text and power-up
// indicators.
type PaddleView struct {
	Player              int     `json:"player"`
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	IsTopPaddle         bool    `json:"isTopPaddle"`
	IsFrozen            bool    `json:"isFrozen"`
	IsAshes             bool    `json:"isAshes"`
	IsWide              bool    `json:"isWide"`
	FrozenTimeRemaining float64 `json:"frozenTimeRemaining"`
	AshesTimeRemaining  float64 `json:"ashesTimeRemaining"`
	WideTimeRemaining   float64 `json:"wideTimeRemaining"`
	HasFreezeRay        bool    `json:"hasFreezeRay"`
	HasLaser            bool    `json:"hasLaser"`
	Score               int32   `json:"score"`
}

type BrickView struct {
	C       int     `json:"c"`
	R       int     `json:"r"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color"`
	PowerUp PowerUp `json:"powerUp"`
}

type FragmentView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

type ProjectileView struct {
	ID        int            `json:"id"`
	Kind      ProjectileKind `json:"kind"`
	Owner     int            `json:"owner"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	TipY      float64        `json:"tipY"`
	Alpha     float64        `json:"alpha"`
	HitTarget bool           `json:"hitTarget"`
	HitPaddle bool           `json:"hitPaddle"`
}

func viewPaddle(p *Paddle) PaddleView {
	return PaddleView{
		Player:              p.Player,
		X:                   p.X,
		Y:                   p.Y,
		Width:               p.Width,
		Height:              p.Height,
		IsTopPaddle:         p.IsTopPaddle,
		IsFrozen:            p.IsFrozen(),
		IsAshes:             p.IsAshes(),
		IsWide:              p.IsWide(),
		FrozenTimeRemaining: p.FrozenTimeRemaining(),
		AshesTimeRemaining:  p.AshesTimeRemaining(),
		WideTimeRemaining:   p.WideTimeRemaining(),
		HasFreezeRay:        p.HasFreezeRay,
		HasLaser:            p.HasLaser,
		Score:               scoreView(p.Score),
	}
}

// scoreView narrows a score to the wire width, clamping instead of wrapping.
func scoreView(score int) int32 {
	v, err := safecast.Convert[int32](score)
	if err == nil {
		return v
	}
	log.S(log.Warning, "Score out of range, clamping", log.Any("score", score), log.Any("err", err))
	if score < 0 {
		return math.MinInt32
	}
	return math.MaxInt32
}

// buildSnapshot copies the live state out of g.
func (g *Game) buildSnapshot(sounds []string) Snapshot {
	s := Snapshot{
		Tick:         g.state.Tick,
		Mode:         g.state.Mode,
		Status:       g.state.Status,
		Winner:       g.state.Winner,
		FPS:          g.state.FPS,
		Time:         g.now,
		Pattern:      g.grid.PatternName(),
		CanvasWidth:  g.cfg.CanvasWidth,
		CanvasHeight: g.cfg.CanvasHeight,
		ActiveBricks: g.grid.CountActiveBricks(),
		Sounds:       sounds,
	}

	for _, b := range g.balls {
		pos, _ := g.world.Position(b.Body)
		vel, _ := g.world.Velocity(b.Body)
		s.Balls = append(s.Balls, BallView{
			ID: b.ID, X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y,
			Radius: b.Radius, Owner: b.Owner, LastHitBy: b.LastHitBy,
		})
	}
	for _, p := range g.paddles {
		s.Paddles = append(s.Paddles, viewPaddle(p))
	}
	for _, b := range g.grid.ActiveBricks() {
		s.Bricks = append(s.Bricks, BrickView{
			C: b.C, R: b.R, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Color: b.Color, PowerUp: b.PowerUp,
		})
	}
	for _, f := range g.effects.Fragments {
		pos, ok := g.world.Position(f.Body)
		if !ok {
			continue
		}
		alpha := 1 - (g.now-f.CreatedAt)/g.cfg.FragmentMaxAge
		s.Fragments = append(s.Fragments, FragmentView{X: pos.X, Y: pos.Y, Size: f.Size, Color: f.Color, Alpha: alpha})
	}
	for _, p := range g.effects.Particles {
		s.Particles = append(s.Particles, *p)
	}
	for _, p := range g.projectiles {
		_, tipY := p.Tip()
		s.Projectiles = append(s.Projectiles, ProjectileView{
			ID: p.ID, Kind: p.Kind, Owner: p.Owner, X: p.X, Y: p.Y, TipY: tipY,
			Alpha: p.AlphaValue, HitTarget: p.HitTarget, HitPaddle: p.HitPaddle,
		})
	}
	return s
}

// Paddle returns the view of player's paddle, or false if there is none.
func (s Snapshot) Paddle(player int) (PaddleView, bool) {
	for _, p := range s.Paddles {
		if p.Player == player {
			return p, true
		}
	}
	return PaddleView{}, false
}
