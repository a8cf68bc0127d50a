// File: game/ball.go
package game

import (
	"math"
	"math/rand/v2"

	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

// Ball is the game-side record of a ball. Position and velocity live in the
// physics body; the record holds the discrete facts.
type Ball struct {
	ID        int            `json:"id"`
	Radius    float64        `json:"radius"`
	Owner     int            `json:"owner"`     // Player whose serve the ball belongs to
	LastHitBy int            `json:"lastHitBy"` // Player credited for bricks this ball breaks
	BaseSpeed float64        `json:"baseSpeed"`
	MaxSpeed  float64        `json:"maxSpeed"`
	Body      physics.BodyID `json:"-"`
}

// NewBall creates a ball record for the given owner. Its body is created by
// the game.
func NewBall(id, owner int, cfg utils.Config) *Ball {
	return &Ball{
		ID:        id,
		Radius:    cfg.BallRadius,
		Owner:     owner,
		LastHitBy: owner,
		BaseSpeed: math.Min(cfg.BallBaseSpeed, cfg.BallMaxSpeed),
		MaxSpeed:  cfg.BallMaxSpeed,
	}
}

// ServePosition is where the ball restarts: above the bottom paddle for
// player 1, below the top paddle for player 2.
func (b *Ball) ServePosition(cfg utils.Config) (x, y float64) {
	x = cfg.CanvasWidth / 2
	if b.Owner == 1 {
		return x, cfg.CanvasHeight - cfg.ServeOffset
	}
	return x, cfg.ServeOffset
}

// ServeVelocity picks a random direction within maxAngle of vertical,
// heading away from the owner's paddle, at base speed.
func (b *Ball) ServeVelocity(rng *rand.Rand, maxAngle float64) (vx, vy float64) {
	angle := (rng.Float64()*2 - 1) * maxAngle
	vx = b.BaseSpeed * math.Sin(angle)
	vy = b.BaseSpeed * math.Cos(angle)
	if b.Owner == 1 {
		vy = -vy
	}
	return vx, vy
}

// NormalizedVelocity rescales (vx, vy) to the ball's base speed. ok is false
// when the vector is too short to carry a direction.
func (b *Ball) NormalizedVelocity(vx, vy, minSpeed float64) (nx, ny float64, ok bool) {
	speed := math.Hypot(vx, vy)
	if speed < minSpeed || speed == 0 {
		return 0, 0, false
	}
	scale := b.BaseSpeed / speed
	return vx * scale, vy * scale, true
}

// Serve (re)places the ball at its serve spot with a fresh velocity and gives
// the credit back to its owner.
func (b *Ball) Serve(world World, cfg utils.Config, rng *rand.Rand) {
	x, y := b.ServePosition(cfg)
	vx, vy := b.ServeVelocity(rng, cfg.ServeMaxAngle)
	b.LastHitBy = b.Owner
	if b.Body == 0 || !world.Contains(b.Body) {
		b.Body = world.AddBody(physics.Circle(x, y, b.Radius), false, physics.LabelBall, b, physics.WithVelocity(vx, vy))
		return
	}
	_ = world.SetPosition(b.Body, x, y)
	_ = world.SetVelocity(b.Body, vx, vy)
}
