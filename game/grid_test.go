// File: game/grid_test.go
package game

import (
	"testing"

	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T) (*BrickGrid, *physics.World, utils.Config) {
	t.Helper()
	cfg := utils.DefaultConfig()
	world := physics.NewWorld(physics.DefaultSettings())
	grid := NewBrickGrid(cfg, world, NewRand(7))
	return grid, world, cfg
}

// assertBodiesMatchStatus checks that active bricks own a live body and
// inactive ones own none.
func assertBodiesMatchStatus(t *testing.T, grid *BrickGrid, world *physics.World) {
	t.Helper()
	for _, column := range grid.Bricks() {
		for _, b := range column {
			if b.IsActive() {
				assert.True(t, world.Contains(b.Body), "active brick (%d,%d) must own a body", b.C, b.R)
			} else {
				assert.Zero(t, b.Body, "inactive brick (%d,%d) must not own a body", b.C, b.R)
			}
		}
	}
	assert.Equal(t, grid.CountActiveBricks(), world.BodyCount(physics.LabelBrick))
}

func TestBrickGrid_StandardPattern(t *testing.T) {
	grid, world, cfg := newTestGrid(t)
	grid.ApplyPattern(0)

	assert.Equal(t, "standard", grid.PatternName())
	assert.Equal(t, cfg.BrickRows*cfg.BrickColumns, grid.CountActiveBricks())
	assertBodiesMatchStatus(t, grid, world)

	b, ok := grid.Brick(0, 0)
	require.True(t, ok)
	assert.Equal(t, cfg.BrickOffsetLeft, b.X)
	assert.Equal(t, cfg.BrickOffsetTop, b.Y)

	b, ok = grid.Brick(2, 1)
	require.True(t, ok)
	assert.Equal(t, cfg.BrickOffsetLeft+2*(cfg.BrickWidth+cfg.BrickPadding), b.X)
	assert.Equal(t, cfg.BrickOffsetTop+1*(cfg.BrickHeight+cfg.BrickPadding), b.Y)

	_, ok = grid.Brick(cfg.BrickColumns, 0)
	assert.False(t, ok)
	_, ok = grid.Brick(0, -1)
	assert.False(t, ok)
}

func TestBrickGrid_EveryPatternKeepsBodiesInSync(t *testing.T) {
	grid, world, _ := newTestGrid(t)
	for i, pattern := range Patterns {
		t.Run(pattern.Name, func(t *testing.T) {
			grid.ApplyPattern(i)
			assert.Equal(t, i, grid.PatternIndex())
			assert.Positive(t, grid.CountActiveBricks())
			assertBodiesMatchStatus(t, grid, world)
		})
	}
}

func TestBrickGrid_PowerUpsAreDistinct(t *testing.T) {
	grid, _, cfg := newTestGrid(t)
	grid.ApplyPattern(0)

	counts := map[PowerUp]int{}
	for _, b := range grid.ActiveBricks() {
		counts[b.PowerUp]++
	}
	for _, kind := range powerUpKinds {
		assert.Equal(t, cfg.PowerUpsPerKind, counts[kind], "power-up %s", kind)
	}
	assert.Equal(t, grid.CountActiveBricks()-len(powerUpKinds)*cfg.PowerUpsPerKind, counts[PowerUpNone])
}

func TestBrickGrid_NextPatternWraps(t *testing.T) {
	grid, _, _ := newTestGrid(t)
	grid.ApplyPattern(len(Patterns) - 1)
	grid.NextPattern()
	assert.Equal(t, 0, grid.PatternIndex())

	grid.ApplyPattern(99)
	assert.Equal(t, 0, grid.PatternIndex(), "unknown patterns fall back to the first")
}

func TestBrickGrid_DeactivateOnce(t *testing.T) {
	grid, world, _ := newTestGrid(t)
	grid.ApplyPattern(0)
	b, _ := grid.Brick(3, 2)
	want := b.Body

	body, ok := grid.Deactivate(b)
	assert.True(t, ok)
	assert.Equal(t, want, body)
	assert.Zero(t, b.Body)
	assert.True(t, world.Contains(body), "the caller removes the body")

	_, ok = grid.Deactivate(b)
	assert.False(t, ok)
	world.RemoveBody(body)
	assertBodiesMatchStatus(t, grid, world)
}

func TestBrickGrid_ClearAll(t *testing.T) {
	grid, world, _ := newTestGrid(t)
	grid.ApplyPattern(0)
	grid.ClearAll()
	assert.Zero(t, grid.CountActiveBricks())
	assert.Zero(t, world.BodyCount(physics.LabelBrick))
	assert.Empty(t, grid.ActiveBricks())
}

func TestPatterns_LayoutShape(t *testing.T) {
	rng := NewRand(1)
	for _, pattern := range Patterns {
		mask := pattern.Layout(10, 6, rng)
		require.Len(t, mask, 6, pattern.Name)
		for _, row := range mask {
			assert.Len(t, row, 10, pattern.Name)
		}
	}
}
