// File: game/grid.go
package game

import (
	"math/rand/v2"

	"fortio.org/log"
	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

// rowColors is cycled by row index.
var rowColors = []string{"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#3498db", "#9b59b6"}

// BrickGrid owns every brick record and the lifecycle of their bodies.
// Records are allocated once; patterns only change their state.
type BrickGrid struct {
	cfg     utils.Config
	world   World
	rng     *rand.Rand
	bricks  [][]*Brick // bricks[c][r]
	pattern int
}

// NewBrickGrid allocates the records. No pattern is applied yet.
func NewBrickGrid(cfg utils.Config, world World, rng *rand.Rand) *BrickGrid {
	g := &BrickGrid{cfg: cfg, world: world, rng: rng}
	g.bricks = make([][]*Brick, cfg.BrickColumns)
	for c := range g.bricks {
		g.bricks[c] = make([]*Brick, cfg.BrickRows)
		for r := range g.bricks[c] {
			g.bricks[c][r] = &Brick{C: c, R: r, Width: cfg.BrickWidth, Height: cfg.BrickHeight}
		}
	}
	return g
}

func (g *BrickGrid) Columns() int { return len(g.bricks) }
func (g *BrickGrid) Rows() int    { return g.cfg.BrickRows }

// Brick returns the canonical record at (c, r).
func (g *BrickGrid) Brick(c, r int) (*Brick, bool) {
	if c < 0 || c >= len(g.bricks) || r < 0 || r >= len(g.bricks[c]) {
		return nil, false
	}
	return g.bricks[c][r], true
}

// Bricks exposes the records column by column, for rendering.
func (g *BrickGrid) Bricks() [][]*Brick { return g.bricks }

// CountActiveBricks is a pure read over Status.
func (g *BrickGrid) CountActiveBricks() int {
	n := 0
	for _, column := range g.bricks {
		for _, b := range column {
			if b.Status == BrickActive {
				n++
			}
		}
	}
	return n
}

// ActiveBricks returns the active records in column-major order.
func (g *BrickGrid) ActiveBricks() []*Brick {
	active := make([]*Brick, 0, g.CountActiveBricks())
	for _, column := range g.bricks {
		for _, b := range column {
			if b.Status == BrickActive {
				active = append(active, b)
			}
		}
	}
	return active
}

func (g *BrickGrid) PatternIndex() int { return g.pattern }

func (g *BrickGrid) PatternName() string { return Patterns[g.pattern].Name }

// NextPattern advances to the following layout, wrapping around.
func (g *BrickGrid) NextPattern() {
	g.ApplyPattern((g.pattern + 1) % len(Patterns))
}

// ApplyPattern resets every brick and lays out pattern index. Afterwards each
// active brick owns exactly one static body and inactive bricks own none.
// Must not run during a physics step.
func (g *BrickGrid) ApplyPattern(index int) {
	if index < 0 || index >= len(Patterns) {
		log.Warnf("Unknown brick pattern %d, using %s", index, Patterns[0].Name)
		index = 0
	}
	g.pattern = index
	cols, rows := g.Columns(), g.Rows()

	for _, column := range g.bricks {
		for _, b := range column {
			g.deactivate(b)
			b.PowerUp = PowerUpNone
		}
	}

	mask := Patterns[index].Layout(cols, rows, g.rng)
	for c, column := range g.bricks {
		for r, b := range column {
			if mask[r][c] {
				b.Status = BrickActive
			}
		}
	}

	g.assignPowerUps()

	for c, column := range g.bricks {
		for r, b := range column {
			b.X = g.cfg.BrickOffsetLeft + float64(c)*(g.cfg.BrickWidth+g.cfg.BrickPadding)
			b.Y = g.cfg.BrickOffsetTop + float64(r)*(g.cfg.BrickHeight+g.cfg.BrickPadding)
			b.Width, b.Height = g.cfg.BrickWidth, g.cfg.BrickHeight
			b.Color = rowColors[r%len(rowColors)]
			if b.Status == BrickActive {
				g.world.RemoveBody(b.Body)
				b.Body = g.world.AddBody(physics.Box(b.Rect()), true, physics.LabelBrick, brickRef{C: c, R: r})
			}
		}
	}
	log.LogVf("Applied brick pattern %q: %d active bricks", Patterns[index].Name, g.CountActiveBricks())
}

// assignPowerUps tags PowerUpsPerKind distinct active bricks per kind.
func (g *BrickGrid) assignPowerUps() {
	candidates := g.ActiveBricks()
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	next := 0
	for _, kind := range powerUpKinds {
		for n := 0; n < g.cfg.PowerUpsPerKind && next < len(candidates); n++ {
			candidates[next].PowerUp = kind
			next++
		}
	}
}

// Deactivate marks an active brick destroyed and detaches its body, which
// the caller is responsible for removing. ok is false when the brick was
// already inactive.
func (g *BrickGrid) Deactivate(b *Brick) (body physics.BodyID, ok bool) {
	if b.Status != BrickActive {
		return 0, false
	}
	b.Status = BrickInactive
	body, b.Body = b.Body, 0
	return body, true
}

// ClearAll removes every brick without awarding anything.
func (g *BrickGrid) ClearAll() {
	for _, column := range g.bricks {
		for _, b := range column {
			g.deactivate(b)
		}
	}
}

func (g *BrickGrid) deactivate(b *Brick) {
	b.Status = BrickInactive
	g.world.RemoveBody(b.Body)
	b.Body = 0
}
