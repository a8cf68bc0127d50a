// File: game/projectile.go
package game

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

type ProjectileKind int

const (
	FreezeRay ProjectileKind = iota
	LaserBeam
)

func (k ProjectileKind) String() string {
	if k == LaserBeam {
		return "laser"
	}
	return "freezeRay"
}

func (k ProjectileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ProjectileKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case FreezeRay.String():
		*k = FreezeRay
	case LaserBeam.String():
		*k = LaserBeam
	default:
		return fmt.Errorf("unknown projectile kind %q", text)
	}
	return nil
}

// Projectile travels in a straight vertical line from its shooter's face to
// the opposing paddle's face. It is simulated outside the physics world and
// tests for a hit once, when its travel completes.
//
// States: traveling (Progress < 1), resolved (the completion tick sets
// HitTarget), fading (AlphaValue decays), expired (IsExpired). Callers remove
// expired projectiles.
type Projectile struct {
	ID            int            `json:"id"`
	Kind          ProjectileKind `json:"kind"`
	X             float64        `json:"x"` // Fixed column of the beam
	Y             float64        `json:"y"` // Origin
	TargetY       float64        `json:"targetY"`
	Owner         int            `json:"owner"`
	Progress      float64        `json:"progress"`
	TotalDistance float64        `json:"totalDistance"`
	Speed         float64        `json:"speed"`
	HitTarget     bool           `json:"hitTarget"`
	HitPaddle     bool           `json:"hitPaddle"`
	AlphaValue    float64        `json:"alphaValue"`
	IsExpired     bool           `json:"isExpired"`
	CreatedAt     float64        `json:"createdAt"`

	effectSeconds  float64
	fadeStep       float64
	halfWidth      float64
	bodiesToRemove []physics.BodyID
}

// ProjectileOutcome reports what an Update resolved. Only the completion tick
// has Resolved set.
type ProjectileOutcome struct {
	Resolved  bool
	HitPaddle bool
	Bricks    []*Brick // Bricks a laser destroyed; their bodies are queued
}

// NewProjectile fires kind from shooter's face toward target's face.
func NewProjectile(id int, kind ProjectileKind, shooter, target *Paddle, cfg utils.Config, now float64) *Projectile {
	p := &Projectile{
		ID:         id,
		Kind:       kind,
		X:          shooter.Center(),
		Y:          shooter.Face(),
		TargetY:    target.Face(),
		Owner:      shooter.Player,
		Speed:      cfg.ProjectileSpeed,
		AlphaValue: 1,
		CreatedAt:  now,
		fadeStep:   cfg.ProjectileFadeStep,
		halfWidth:  cfg.ProjectileHalfWidth,
	}
	p.TotalDistance = math.Max(math.Abs(p.TargetY-p.Y), 1)
	if kind == LaserBeam {
		p.effectSeconds = cfg.AshesSeconds
	} else {
		p.effectSeconds = cfg.FreezeSeconds
	}
	return p
}

// Tip is the current end of the beam.
func (p *Projectile) Tip() (x, y float64) {
	return p.X, p.Y + (p.TargetY-p.Y)*p.Progress
}

// Update advances the projectile by dt seconds. target is the opposing
// paddle; grid is only consulted by a laser that missed the paddle.
func (p *Projectile) Update(dt float64, target *Paddle, grid *BrickGrid) ProjectileOutcome {
	var out ProjectileOutcome
	if p.IsExpired {
		return out
	}
	if p.HitTarget {
		p.AlphaValue -= p.fadeStep
		if p.AlphaValue <= 0 {
			p.AlphaValue = 0
			p.IsExpired = true
		}
		return out
	}

	p.Progress = math.Min(1, p.Progress+p.Speed*dt/p.TotalDistance)
	if p.Progress < 1 {
		return out
	}

	out.Resolved = true
	switch {
	case target != nil && !target.IsAshes() && target.SpanContains(p.X):
		if p.Kind == LaserBeam {
			target.TurnToAshes(p.effectSeconds)
		} else {
			target.Freeze(p.effectSeconds)
		}
		p.HitPaddle = true
		out.HitPaddle = true
	case p.Kind == LaserBeam && grid != nil:
		out.Bricks = p.sweepBricks(grid)
	}
	p.HitTarget = true
	return out
}

// sweepBricks destroys every active brick overlapping the beam column and
// queues their bodies for removal after the physics step.
func (p *Projectile) sweepBricks(grid *BrickGrid) []*Brick {
	beam := cp.BB{
		L: p.X - p.halfWidth,
		R: p.X + p.halfWidth,
		B: math.Min(p.Y, p.TargetY),
		T: math.Max(p.Y, p.TargetY),
	}
	var hit []*Brick
	for _, b := range grid.ActiveBricks() {
		if !beam.Intersects(b.Rect().BB()) {
			continue
		}
		if body, ok := grid.Deactivate(b); ok {
			p.bodiesToRemove = append(p.bodiesToRemove, body)
			hit = append(hit, b)
		}
	}
	return hit
}

// DrainBodiesToRemove hands over the queued bodies and empties the queue.
// The game loop is its only consumer.
func (p *Projectile) DrainBodiesToRemove() []physics.BodyID {
	drained := p.bodiesToRemove
	p.bodiesToRemove = nil
	return drained
}
