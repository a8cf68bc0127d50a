// File: game/game.go
package game

import (
	"math/rand/v2"
	"time"

	"fortio.org/log"
	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

// Game is the explicit context of one match: it owns the physics world and
// every record, and runs the per-tick pipeline. It is not safe for
// concurrent use; a GameActor serialises access.
type Game struct {
	cfg         utils.Config
	world       *physics.World
	grid        *BrickGrid
	paddles     [2]*Paddle
	balls       []*Ball
	effects     *Effects
	projectiles []*Projectile
	resolver    *CollisionResolver
	state       *State
	input       Input
	ai          ReactiveAI
	cues        *SoundQueue
	sound       SoundPlayer
	rng         *rand.Rand
	now         float64

	nextProjectileID int
	pendingRemovals  []physics.BodyID
	snapshot         Snapshot
}

// Option configures a Game at construction.
type Option func(*Game)

// WithInput sets the input source for human players.
func WithInput(in Input) Option {
	return func(g *Game) { g.input = in }
}

// WithSound adds a player that hears every cue, besides the snapshot queue.
func WithSound(player SoundPlayer) Option {
	return func(g *Game) {
		if player != nil {
			g.sound = soundFanout{g.cues, player}
		}
	}
}

func WithMode(mode Mode) Option {
	return func(g *Game) { g.state.Mode = mode }
}

// WithRand replaces the seeded random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

type soundFanout []SoundPlayer

func (f soundFanout) Play(name string) {
	for _, p := range f {
		p.Play(name)
	}
}

// NewRand returns the random source used for a room: seeded from seed, or
// randomly when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewGame builds a match ready to tick: walls, paddles, the first brick
// pattern and both balls served.
func NewGame(cfg utils.Config, opts ...Option) *Game {
	g := &Game{
		cfg:   cfg,
		state: NewState(ModePvP),
		cues:  NewSoundQueue(cfg.SoundCuesPerTickCap),
		ai:    ReactiveAI{MaxSpeed: cfg.AIMaxSpeed, DeadZone: cfg.AIDeadZone},
	}
	g.sound = g.cues
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewRand(cfg.Seed)
	}
	if g.input == nil {
		g.input = NewInputBuffer()
	}

	g.world = physics.NewWorld(physics.Settings{
		Iterations: cfg.PhysicsIterations,
		Elasticity: cfg.BodyElasticity,
		Friction:   cfg.BodyFriction,
	})
	// Side walls reach far above and below the canvas so a ball leaving
	// vertically is never lost sideways.
	wallHeight := 3 * cfg.CanvasHeight
	g.world.AddStaticBoundary(physics.Rect{X: -wallThickness, Y: -cfg.CanvasHeight, W: wallThickness, H: wallHeight}, physics.LabelWall)
	g.world.AddStaticBoundary(physics.Rect{X: cfg.CanvasWidth, Y: -cfg.CanvasHeight, W: wallThickness, H: wallHeight}, physics.LabelWall)

	for i := range g.paddles {
		g.paddles[i] = NewPaddle(i+1, cfg)
		g.paddles[i].SyncBody(g.world)
	}

	g.effects = NewEffects(cfg, g.world, g.rng)
	g.grid = NewBrickGrid(cfg, g.world, g.rng)
	g.grid.ApplyPattern(0)

	g.balls = []*Ball{NewBall(1, 1, cfg), NewBall(2, 2, cfg)}
	for _, b := range g.balls {
		b.Serve(g.world, cfg, g.rng)
	}

	g.resolver = NewCollisionResolver(cfg, g.world, g.grid, g.paddles, g.effects, g.sound, g.Now)
	g.world.OnCollisionStart(g.resolver.Resolve)

	g.snapshot = g.buildSnapshot(nil)
	return g
}

const wallThickness = 20

// Tick runs one frame. While not playing only frame bookkeeping and the
// snapshot refresh happen.
func (g *Game) Tick(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}
	g.state.RecordFrame(secs)
	if !g.state.IsPlaying() {
		g.snapshot = g.buildSnapshot(g.cues.Drain())
		return
	}
	g.now += secs

	intents := g.sampleInput(secs)
	g.updatePaddles(intents, secs)
	g.updateProjectiles(secs)
	g.sweep(secs)
	g.world.Step(secs * 1000)
	g.drainRemovals()
	g.checkOutOfBounds()
	g.normalizeBallSpeeds()
	g.checkClearance()
	g.checkWinner()

	g.snapshot = g.buildSnapshot(g.cues.Drain())
}

func (g *Game) sampleInput(dt float64) [2]Intent {
	var intents [2]Intent
	for i, p := range g.paddles {
		if g.state.Mode.IsAI(p.Player) {
			intents[i] = g.ai.Decide(p, g.opponent(p), g.ballStates(), g.cfg.CanvasWidth, dt)
			continue
		}
		intents[i] = ReadIntent(g.input, p, g.cfg, dt)
	}
	return intents
}

func (g *Game) updatePaddles(intents [2]Intent, dt float64) {
	for i, p := range g.paddles {
		p.UpdateTimers(dt)
		if p.CanAct() {
			intent := intents[i]
			if intent.HasTarget {
				if intent.MaxStep > 0 {
					p.MoveToward(intent.TargetX, intent.MaxStep)
				} else {
					p.MoveTo(intent.TargetX)
				}
			}
			if intent.Shoot {
				g.Shoot(p.Player)
			}
		}
		p.SyncBody(g.world)
	}
}

func (g *Game) updateProjectiles(dt float64) {
	for _, proj := range g.projectiles {
		owner := g.Paddle(proj.Owner)
		target := g.opponent(owner)
		out := proj.Update(dt, target, g.grid)
		if !out.Resolved {
			continue
		}
		tipX, tipY := proj.Tip()
		switch {
		case out.HitPaddle && proj.Kind == LaserBeam:
			g.sound.Play(SoundAshesHit)
			g.effects.SpawnParticles(tipX, tipY, "#e67e22", g.cfg.ParticlesPerHit, g.now)
		case out.HitPaddle:
			g.sound.Play(SoundFreezeHit)
			g.effects.SpawnParticles(tipX, tipY, "#74b9ff", g.cfg.ParticlesPerHit, g.now)
		}
		for _, b := range out.Bricks {
			owner.AddScore(g.cfg.BrickScore)
			c := b.Rect().Center()
			g.effects.SpawnFragments(c.X, c.Y, b.Color, g.now)
			g.sound.Play(SoundBrick)
		}
	}
}

// sweep drops expired projectiles and caps every ephemeral collection,
// oldest first.
func (g *Game) sweep(dt float64) {
	kept := g.projectiles[:0]
	for _, proj := range g.projectiles {
		if proj.IsExpired {
			g.pendingRemovals = append(g.pendingRemovals, proj.DrainBodiesToRemove()...)
			continue
		}
		kept = append(kept, proj)
	}
	g.projectiles = capOldest(kept, g.cfg.MaxProjectiles, func(proj *Projectile) {
		g.pendingRemovals = append(g.pendingRemovals, proj.DrainBodiesToRemove()...)
	})
	g.effects.Sweep(g.now, dt)
}

// drainRemovals removes bodies queued by lasers. The game is the only
// consumer of the queues.
func (g *Game) drainRemovals() {
	for _, proj := range g.projectiles {
		g.pendingRemovals = append(g.pendingRemovals, proj.DrainBodiesToRemove()...)
	}
	for _, id := range g.pendingRemovals {
		g.world.RemoveBody(id)
	}
	g.pendingRemovals = g.pendingRemovals[:0]
}

func (g *Game) checkOutOfBounds() {
	for _, b := range g.balls {
		pos, ok := g.world.Position(b.Body)
		switch {
		case !ok:
			log.Warnf("Ball %d lost its body, serving again", b.ID)
		case pos.Y < 0:
			g.paddles[0].AddScore(g.cfg.GoalScore)
			g.sound.Play(SoundScore)
		case pos.Y > g.cfg.CanvasHeight:
			g.paddles[1].AddScore(g.cfg.GoalScore)
			g.sound.Play(SoundScore)
		case pos.X < -b.Radius || pos.X > g.cfg.CanvasWidth+b.Radius:
			log.Warnf("Ball %d escaped sideways at (%.1f, %.1f), serving again", b.ID, pos.X, pos.Y)
		default:
			continue
		}
		b.Serve(g.world, g.cfg, g.rng)
	}
}

// normalizeBallSpeeds makes the game the only authority on ball speed:
// every ball leaves the tick at exactly its base speed.
func (g *Game) normalizeBallSpeeds() {
	for _, b := range g.balls {
		vel, ok := g.world.Velocity(b.Body)
		if !ok {
			continue
		}
		vx, vy, ok := b.NormalizedVelocity(vel.X, vel.Y, g.cfg.MinNormalizeSpeed)
		if !ok {
			vx, vy = b.ServeVelocity(g.rng, g.cfg.ServeMaxAngle)
		}
		_ = g.world.SetVelocity(b.Body, vx, vy)
	}
}

func (g *Game) checkClearance() {
	if g.grid.CountActiveBricks() > 0 {
		return
	}
	for _, p := range g.paddles {
		p.AddScore(g.cfg.ClearBonus)
	}
	g.sound.Play(SoundClear)
	g.grid.NextPattern()
	log.Infof("Grid cleared, next pattern %q", g.grid.PatternName())
}

func (g *Game) checkWinner() {
	if g.cfg.WinningScore <= 0 {
		return
	}
	s1, s2 := g.paddles[0].Score, g.paddles[1].Score
	if s1 < g.cfg.WinningScore && s2 < g.cfg.WinningScore {
		return
	}
	winner := 0
	if s1 > s2 {
		winner = 1
	} else if s2 > s1 {
		winner = 2
	}
	g.state.End(winner)
	g.sound.Play(SoundGameOver)
	log.Infof("Game over: %d-%d, winner %d", s1, s2, winner)
}

// Shoot fires the paddle's armed weapon, preferring the freeze ray. It
// returns false when nothing was fired.
func (g *Game) Shoot(player int) bool {
	p := g.Paddle(player)
	if p == nil || !p.CanAct() {
		return false
	}
	var kind ProjectileKind
	switch {
	case p.HasFreezeRay:
		kind = FreezeRay
		p.HasFreezeRay = false
		g.sound.Play(SoundFreezeRay)
	case p.HasLaser:
		kind = LaserBeam
		p.HasLaser = false
		g.sound.Play(SoundLaser)
	default:
		return false
	}
	g.nextProjectileID++
	g.projectiles = append(g.projectiles, NewProjectile(g.nextProjectileID, kind, p, g.opponent(p), g.cfg, g.now))
	return true
}

// Reset starts a new round between ticks: scores and paddles reset, effects
// cleared, the first pattern laid out again and both balls served.
func (g *Game) Reset() {
	for _, p := range g.paddles {
		p.Reset()
		p.SyncBody(g.world)
	}
	for _, proj := range g.projectiles {
		g.pendingRemovals = append(g.pendingRemovals, proj.DrainBodiesToRemove()...)
	}
	g.projectiles = nil
	g.drainRemovals()
	g.effects.Clear()
	g.grid.ApplyPattern(0)
	for _, b := range g.balls {
		b.Serve(g.world, g.cfg, g.rng)
	}
	g.cues.Drain()
	g.state.Restart()
	g.snapshot = g.buildSnapshot(nil)
}

// Pause, Resume and TogglePause rebuild the snapshot so readers see the new
// status before the next tick.
func (g *Game) Pause() {
	g.state.Pause()
	g.snapshot = g.buildSnapshot(nil)
}

func (g *Game) Resume() {
	g.state.Resume()
	g.snapshot = g.buildSnapshot(nil)
}

func (g *Game) TogglePause() {
	g.state.TogglePause()
	g.snapshot = g.buildSnapshot(nil)
}

// Paddle returns player's paddle (1 or 2), or nil.
func (g *Game) Paddle(player int) *Paddle {
	if player < 1 || player > len(g.paddles) {
		return nil
	}
	return g.paddles[player-1]
}

func (g *Game) opponent(p *Paddle) *Paddle {
	if p == nil {
		return nil
	}
	return g.Paddle(3 - p.Player)
}

func (g *Game) ballStates() []BallState {
	states := make([]BallState, 0, len(g.balls))
	for _, b := range g.balls {
		pos, okPos := g.world.Position(b.Body)
		vel, okVel := g.world.Velocity(b.Body)
		if okPos && okVel {
			states = append(states, BallState{X: pos.X, Y: pos.Y, VX: vel.X, VY: vel.Y})
		}
	}
	return states
}

// Now is the game time in seconds; it stops while paused.
func (g *Game) Now() float64 { return g.now }

func (g *Game) Config() utils.Config       { return g.cfg }
func (g *Game) World() *physics.World      { return g.world }
func (g *Game) Grid() *BrickGrid           { return g.grid }
func (g *Game) Balls() []*Ball             { return g.balls }
func (g *Game) Projectiles() []*Projectile { return g.projectiles }
func (g *Game) Effects() *Effects          { return g.effects }
func (g *Game) State() *State              { return g.state }
func (g *Game) Input() Input               { return g.input }

// Snapshot returns the view built at the end of the last tick.
func (g *Game) Snapshot() Snapshot { return g.snapshot }
