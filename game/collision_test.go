// File: game/collision_test.go
package game

import (
	"testing"

	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	cfg      utils.Config
	world    *physics.World
	grid     *BrickGrid
	paddles  [2]*Paddle
	effects  *Effects
	sounds   *SoundQueue
	ball     *Ball
	resolver *CollisionResolver
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	cfg := utils.DefaultConfig()
	rng := NewRand(11)
	f := &resolverFixture{
		cfg:    cfg,
		world:  physics.NewWorld(physics.DefaultSettings()),
		sounds: NewSoundQueue(0),
	}
	f.grid = NewBrickGrid(cfg, f.world, rng)
	f.grid.ApplyPattern(0)
	for i := range f.paddles {
		f.paddles[i] = NewPaddle(i+1, cfg)
		f.paddles[i].SyncBody(f.world)
	}
	f.effects = NewEffects(cfg, f.world, rng)
	f.ball = NewBall(1, 1, cfg)
	f.ball.Serve(f.world, cfg, rng)
	f.resolver = NewCollisionResolver(cfg, f.world, f.grid, f.paddles, f.effects, f.sounds, func() float64 { return 1 })
	return f
}

func (f *resolverFixture) ballRef() physics.BodyRef {
	return physics.BodyRef{ID: f.ball.Body, Label: physics.LabelBall, Owner: f.ball}
}

func (f *resolverFixture) brickContact(b *Brick, bodyID physics.BodyID) physics.Contact {
	return physics.Contact{
		A: physics.BodyRef{ID: bodyID, Label: physics.LabelBrick, Owner: brickRef{C: b.C, R: b.R}},
		B: f.ballRef(),
	}
}

func (f *resolverFixture) paddleContact(p *Paddle) physics.Contact {
	return physics.Contact{
		A: f.ballRef(),
		B: physics.BodyRef{ID: p.Body, Label: physics.LabelPaddle, Owner: p},
	}
}

func TestResolver_BrickDestroyedExactlyOnce(t *testing.T) {
	f := newResolverFixture(t)
	brick, _ := f.grid.Brick(0, 0)
	brick.PowerUp = PowerUpNone
	body := brick.Body
	contact := f.brickContact(brick, body)

	assert.True(t, f.resolver.Resolve(contact))
	for i := 0; i < 3; i++ {
		assert.False(t, f.resolver.Resolve(contact), "duplicate contact %d must be rejected", i)
	}

	assert.Equal(t, BrickInactive, brick.Status)
	assert.Zero(t, brick.Body)
	assert.False(t, f.world.Contains(body))
	assert.Equal(t, f.cfg.BrickScore, f.paddles[0].Score)
	assert.Zero(t, f.paddles[1].Score)
	assert.Equal(t, f.cfg.BrickRows*f.cfg.BrickColumns-1, f.grid.CountActiveBricks())
	assert.Equal(t, f.grid.CountActiveBricks(), f.world.BodyCount(physics.LabelBrick))
	assert.Len(t, f.effects.Fragments, f.cfg.FragmentsPerBrick)
	assert.Equal(t, []string{SoundBrick}, f.sounds.Drain())
}

func TestResolver_ScoreGoesToLastHitter(t *testing.T) {
	f := newResolverFixture(t)
	f.ball.LastHitBy = 2
	brick, _ := f.grid.Brick(4, 3)
	brick.PowerUp = PowerUpNone

	require.True(t, f.resolver.Resolve(f.brickContact(brick, brick.Body)))
	assert.Zero(t, f.paddles[0].Score)
	assert.Equal(t, f.cfg.BrickScore, f.paddles[1].Score)
}

func TestResolver_StaleBodyIsIgnored(t *testing.T) {
	f := newResolverFixture(t)
	brick, _ := f.grid.Brick(1, 1)
	stale := brick.Body
	// A new layout gives the brick a fresh body; the old id is stale.
	f.grid.ApplyPattern(0)
	require.NotEqual(t, stale, brick.Body)

	assert.False(t, f.resolver.Resolve(f.brickContact(brick, stale)))
	assert.True(t, brick.IsActive())
	assert.Zero(t, f.paddles[0].Score)
}

func TestResolver_GrantsPowerUp(t *testing.T) {
	testCases := []struct {
		name    string
		powerUp PowerUp
		check   func(t *testing.T, p *Paddle)
	}{
		{"FreezeRay", PowerUpFreezeRay, func(t *testing.T, p *Paddle) { assert.True(t, p.HasFreezeRay) }},
		{"Laser", PowerUpLaser, func(t *testing.T, p *Paddle) { assert.True(t, p.HasLaser) }},
		{"Wide", PowerUpWide, func(t *testing.T, p *Paddle) { assert.True(t, p.IsWide()) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newResolverFixture(t)
			brick, _ := f.grid.Brick(5, 5)
			brick.PowerUp = tc.powerUp

			require.True(t, f.resolver.Resolve(f.brickContact(brick, brick.Body)))
			tc.check(t, f.paddles[0])
			assert.Contains(t, f.sounds.Drain(), SoundPowerUp)
		})
	}
}

func TestResolver_PaddleContact(t *testing.T) {
	f := newResolverFixture(t)
	f.ball.LastHitBy = 1

	assert.True(t, f.resolver.Resolve(f.paddleContact(f.paddles[1])))
	assert.Equal(t, 2, f.ball.LastHitBy)
	assert.Len(t, f.effects.Particles, f.cfg.ParticlesPerHit)
	assert.Equal(t, []string{SoundPaddle}, f.sounds.Drain())
}

func TestResolver_AshesPaddleIsNotSolid(t *testing.T) {
	f := newResolverFixture(t)
	f.ball.LastHitBy = 1
	f.paddles[1].TurnToAshes(5)

	assert.False(t, f.resolver.Resolve(f.paddleContact(f.paddles[1])))
	assert.Equal(t, 1, f.ball.LastHitBy)
	assert.Empty(t, f.sounds.Drain())
}

func TestResolver_UnrelatedContactIsSolid(t *testing.T) {
	f := newResolverFixture(t)
	contact := physics.Contact{
		A: physics.BodyRef{ID: 90, Label: physics.LabelPaddle},
		B: physics.BodyRef{ID: 91, Label: physics.LabelWall},
	}
	assert.True(t, f.resolver.Resolve(contact))
}
