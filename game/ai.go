package game

import "math"

// BallState is a ball's kinematic state as seen by the AI and snapshots.
type BallState struct {
	X  float64
	Y  float64
	VX float64
	VY float64
}

// ReactiveAI steers toward the nearest ball heading its way and fires a
// loaded weapon when the opponent sits in line.
type ReactiveAI struct {
	MaxSpeed float64 // Pixels per second
	DeadZone float64 // Ignore offsets smaller than this
}

// Decide returns the intent for paddle p.
func (ai ReactiveAI) Decide(p, opponent *Paddle, balls []BallState, canvasWidth, dt float64) Intent {
	targetCenter := canvasWidth / 2
	best := math.Inf(1)
	for _, b := range balls {
		approaching := (p.IsTopPaddle && b.VY < 0) || (!p.IsTopPaddle && b.VY > 0)
		if !approaching {
			continue
		}
		if d := math.Abs(b.Y - p.Face()); d < best {
			best = d
			targetCenter = b.X
		}
	}

	intent := Intent{MaxStep: ai.MaxSpeed * dt}
	if math.Abs(targetCenter-p.Center()) > ai.DeadZone {
		intent.TargetX = targetCenter - p.Width/2
		intent.HasTarget = true
	}
	armed := p.HasFreezeRay || p.HasLaser
	intent.Shoot = armed && opponent != nil && !opponent.IsAshes() && opponent.SpanContains(p.Center())
	return intent
}
