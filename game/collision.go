// File: game/collision.go
package game

import (
	"fortio.org/log"
	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

// CollisionResolver turns contacts reported by the physics world into game
// state changes. It runs synchronously inside World.Step.
type CollisionResolver struct {
	cfg     utils.Config
	world   World
	grid    *BrickGrid
	paddles [2]*Paddle
	effects *Effects
	sound   SoundPlayer
	clock   func() float64
}

// NewCollisionResolver wires a resolver. clock returns the current game time
// in seconds, used to stamp fragments and particles.
func NewCollisionResolver(cfg utils.Config, world World, grid *BrickGrid, paddles [2]*Paddle, effects *Effects, sound SoundPlayer, clock func() float64) *CollisionResolver {
	return &CollisionResolver{
		cfg:     cfg,
		world:   world,
		grid:    grid,
		paddles: paddles,
		effects: effects,
		sound:   sound,
		clock:   clock,
	}
}

// Resolve handles one new contact. The result tells the physics world
// whether to treat the pair as solid.
func (cr *CollisionResolver) Resolve(contact physics.Contact) bool {
	if ballRef, brickRef, ok := contact.Match(physics.LabelBall, physics.LabelBrick); ok {
		return cr.ballBrick(ballRef, brickRef)
	}
	if ballRef, paddleRef, ok := contact.Match(physics.LabelBall, physics.LabelPaddle); ok {
		return cr.ballPaddle(ballRef, paddleRef)
	}
	if ballRef, _, ok := contact.Match(physics.LabelBall, physics.LabelWall); ok {
		return cr.ballWall(ballRef)
	}
	return true
}

func (cr *CollisionResolver) paddleFor(player int) *Paddle {
	if player < 1 || player > len(cr.paddles) {
		return nil
	}
	return cr.paddles[player-1]
}

func (cr *CollisionResolver) ballBrick(ballRef, brickSide physics.BodyRef) bool {
	ball, ok := ballRef.Owner.(*Ball)
	if !ok || ball == nil {
		log.Warnf("Ball-brick contact without a ball record (body %d), skipping", ballRef.ID)
		return true
	}
	ref, ok := brickSide.Owner.(brickRef)
	if !ok {
		log.Warnf("Ball-brick contact without grid coordinates (body %d), skipping", brickSide.ID)
		return true
	}
	brick, ok := cr.grid.Brick(ref.C, ref.R)
	if !ok {
		log.Warnf("Ball-brick contact with out of range brick (%d,%d), skipping", ref.C, ref.R)
		return true
	}
	if brick.Status != BrickActive {
		// Stale: a contact earlier in this step already broke it.
		return false
	}
	if brick.Body != brickSide.ID {
		log.Warnf("Brick (%d,%d) owns body %d but the contact names body %d, skipping", ref.C, ref.R, brick.Body, brickSide.ID)
		return false
	}

	brick.Status = BrickInactive

	scorer := cr.paddleFor(ball.LastHitBy)
	if scorer != nil {
		scorer.AddScore(cr.cfg.BrickScore)
		cr.grant(scorer, brick.PowerUp)
	} else {
		log.Warnf("Ball %d has no paddle for lastHitBy=%d, brick (%d,%d) scores nothing", ball.ID, ball.LastHitBy, ref.C, ref.R)
	}

	now := cr.clock()
	if pos, ok := cr.world.Position(brick.Body); ok {
		cr.effects.SpawnFragments(pos.X, pos.Y, brick.Color, now)
	}

	cr.world.RemoveBody(brick.Body)
	brick.Body = 0

	cr.sound.Play(SoundBrick)
	return true
}

// grant applies a brick's power-up to the paddle that broke it.
func (cr *CollisionResolver) grant(p *Paddle, powerUp PowerUp) {
	switch powerUp {
	case PowerUpFreezeRay:
		p.ActivateFreezeRay()
	case PowerUpLaser:
		p.ActivateLaser()
	case PowerUpWide:
		p.MakeWide(cr.cfg.WideSeconds)
	default:
		return
	}
	cr.sound.Play(SoundPowerUp)
}

func (cr *CollisionResolver) ballPaddle(ballRef, paddleSide physics.BodyRef) bool {
	ball, ok := ballRef.Owner.(*Ball)
	paddle, okPaddle := paddleSide.Owner.(*Paddle)
	if !ok || !okPaddle || ball == nil || paddle == nil {
		log.Warnf("Ball-paddle contact with missing records (bodies %d, %d), skipping", ballRef.ID, paddleSide.ID)
		return true
	}
	if paddle.IsAshes() {
		return false
	}
	ball.LastHitBy = paddle.Player
	cr.sound.Play(SoundPaddle)
	if pos, ok := cr.world.Position(ballRef.ID); ok {
		cr.effects.SpawnParticles(pos.X, pos.Y, "#ffffff", cr.cfg.ParticlesPerHit, cr.clock())
	}
	return true
}

func (cr *CollisionResolver) ballWall(ballRef physics.BodyRef) bool {
	cr.sound.Play(SoundWall)
	if pos, ok := cr.world.Position(ballRef.ID); ok {
		cr.effects.SpawnParticles(pos.X, pos.Y, "#95a5a6", cr.cfg.ParticlesPerHit/2, cr.clock())
	}
	return true
}
