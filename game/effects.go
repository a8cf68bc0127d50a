// File: game/effects.go
package game

import (
	"math"
	"math/rand/v2"

	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

const fragmentMass = 0.1

// Fragment is cosmetic debris from a destroyed brick. It has a body that
// collides with nothing.
type Fragment struct {
	ID        int            `json:"id"`
	Body      physics.BodyID `json:"-"`
	Color     string         `json:"color"`
	Size      float64        `json:"size"`
	CreatedAt float64        `json:"createdAt"`
}

// Particle is a spark drawn on hits. It never touches the physics world.
type Particle struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Life      float64 `json:"life"` // 1 when spawned, 0 when gone
	Color     string  `json:"color"`
	CreatedAt float64 `json:"createdAt"`
}

// capOldest keeps the newest max items of a creation-ordered slice and
// passes the evicted ones to evict.
func capOldest[T any](items []T, max int, evict func(T)) []T {
	if max < 0 {
		max = 0
	}
	if len(items) <= max {
		return items
	}
	drop := len(items) - max
	if evict != nil {
		for _, item := range items[:drop] {
			evict(item)
		}
	}
	return append(items[:0], items[drop:]...)
}

// Effects owns fragments and particles. Both are swept and capped by the
// game every tick.
type Effects struct {
	cfg       utils.Config
	world     World
	rng       *rand.Rand
	Fragments []*Fragment
	Particles []*Particle
	nextID    int
}

func NewEffects(cfg utils.Config, world World, rng *rand.Rand) *Effects {
	return &Effects{cfg: cfg, world: world, rng: rng}
}

// SpawnFragments creates FragmentsPerBrick bodies at (x, y), each pushed
// outwards in a random direction.
func (e *Effects) SpawnFragments(x, y float64, color string, now float64) {
	size := e.cfg.FragmentSize
	for i := 0; i < e.cfg.FragmentsPerBrick; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := e.cfg.FragmentImpulse * (0.5 + e.rng.Float64())
		body := e.world.AddBody(
			physics.Box(physics.Rect{X: x - size/2, Y: y - size/2, W: size, H: size}),
			false, physics.LabelFragment, nil,
			physics.NonColliding(), physics.WithMass(fragmentMass),
		)
		_ = e.world.ApplyImpulse(body, math.Cos(angle)*speed*fragmentMass, math.Sin(angle)*speed*fragmentMass)
		e.nextID++
		e.Fragments = append(e.Fragments, &Fragment{ID: e.nextID, Body: body, Color: color, Size: size, CreatedAt: now})
	}
	e.capFragments()
}

// capFragments evicts the oldest fragments over MaxFragments. RemoveBody is
// deferred by the world when called from a collision callback.
func (e *Effects) capFragments() {
	e.Fragments = capOldest(e.Fragments, e.cfg.MaxFragments, func(f *Fragment) { e.world.RemoveBody(f.Body) })
}

// SpawnParticles scatters n sparks from (x, y).
func (e *Effects) SpawnParticles(x, y float64, color string, n int, now float64) {
	for i := 0; i < n; i++ {
		angle := e.rng.Float64() * 2 * math.Pi
		speed := e.cfg.ParticleSpeed * (0.3 + 0.7*e.rng.Float64())
		e.Particles = append(e.Particles, &Particle{
			X: x, Y: y,
			VX: math.Cos(angle) * speed, VY: math.Sin(angle) * speed,
			Life: 1, Color: color, CreatedAt: now,
		})
	}
	e.Particles = capOldest(e.Particles, e.cfg.MaxParticles, nil)
}

// Sweep ages out fragments and particles past their lifetime or off the
// canvas and integrates particles by dt. Spawning already keeps both
// populations within their caps, oldest first.
func (e *Effects) Sweep(now, dt float64) {
	kept := e.Fragments[:0]
	for _, f := range e.Fragments {
		if now-f.CreatedAt >= e.cfg.FragmentMaxAge || !e.onCanvas(f.Body) {
			e.world.RemoveBody(f.Body)
			continue
		}
		kept = append(kept, f)
	}
	e.Fragments = kept
	e.capFragments()

	live := e.Particles[:0]
	for _, p := range e.Particles {
		p.X += p.VX * dt
		p.Y += p.VY * dt
		if e.cfg.ParticleMaxAge > 0 {
			p.Life = 1 - (now-p.CreatedAt)/e.cfg.ParticleMaxAge
		}
		if p.Life <= 0 {
			continue
		}
		live = append(live, p)
	}
	e.Particles = capOldest(live, e.cfg.MaxParticles, nil)
}

func (e *Effects) onCanvas(body physics.BodyID) bool {
	pos, ok := e.world.Position(body)
	if !ok {
		return false
	}
	return pos.X >= 0 && pos.X <= e.cfg.CanvasWidth && pos.Y >= 0 && pos.Y <= e.cfg.CanvasHeight
}

// Clear drops every effect and its bodies.
func (e *Effects) Clear() {
	for _, f := range e.Fragments {
		e.world.RemoveBody(f.Body)
	}
	e.Fragments = nil
	e.Particles = nil
}
