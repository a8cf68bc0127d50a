// File: game/paddle.go
package game

import (
	"github.com/lguibr/brickduel/physics"
	"github.com/lguibr/brickduel/utils"
)

// Paddle is one player's paddle. X is authoritative on the game side;
// the kinematic body follows it every tick.
type Paddle struct {
	Player       int            `json:"player"`
	X            float64        `json:"x"`
	Y            float64        `json:"y"`
	Width        float64        `json:"width"`
	Height       float64        `json:"height"`
	BaseWidth    float64        `json:"baseWidth"`
	IsTopPaddle  bool           `json:"isTopPaddle"`
	Status       PaddleStatus   `json:"status"`
	Wide         WideModifier   `json:"wide"`
	HasFreezeRay bool           `json:"hasFreezeRay"`
	HasLaser     bool           `json:"hasLaser"`
	Score        int            `json:"score"`
	Body         physics.BodyID `json:"-"`

	bodyWidth   float64 // Width the current body was built with
	canvasWidth float64
	wideWidth   float64
}

// NewPaddle creates player 1's paddle at the bottom or player 2's at the top,
// centred horizontally.
func NewPaddle(player int, cfg utils.Config) *Paddle {
	p := &Paddle{
		Player:      player,
		Width:       cfg.PaddleWidth,
		Height:      cfg.PaddleHeight,
		BaseWidth:   cfg.PaddleWidth,
		IsTopPaddle: player == 2,
		canvasWidth: cfg.CanvasWidth,
		wideWidth:   cfg.PaddleWideWidth,
	}
	if p.IsTopPaddle {
		p.Y = cfg.PaddleMargin
	} else {
		p.Y = cfg.CanvasHeight - cfg.PaddleMargin - cfg.PaddleHeight
	}
	p.X = (cfg.CanvasWidth - p.Width) / 2
	return p
}

// Reset restores the paddle for a new round. Identity and body survive.
func (p *Paddle) Reset() {
	p.Width = p.BaseWidth
	p.X = (p.canvasWidth - p.Width) / 2
	p.Status = PaddleStatus{}
	p.Wide = WideModifier{}
	p.HasFreezeRay = false
	p.HasLaser = false
	p.Score = 0
}

func (p *Paddle) IsFrozen() bool { return p.Status.Kind == StatusFrozen }
func (p *Paddle) IsAshes() bool  { return p.Status.Kind == StatusAshes }
func (p *Paddle) IsWide() bool   { return p.Wide.Active() }

func (p *Paddle) FrozenTimeRemaining() float64 {
	if !p.IsFrozen() {
		return 0
	}
	return p.Status.Remaining
}

func (p *Paddle) AshesTimeRemaining() float64 {
	if !p.IsAshes() {
		return 0
	}
	return p.Status.Remaining
}

func (p *Paddle) WideTimeRemaining() float64 { return p.Wide.Remaining }

// CanAct reports whether the paddle may move and shoot.
func (p *Paddle) CanAct() bool { return p.Status.Kind == StatusNormal }

// Freeze stops the paddle for seconds. It replaces an Ashes status.
func (p *Paddle) Freeze(seconds float64) {
	p.Status = PaddleStatus{Kind: StatusFrozen, Remaining: seconds}
}

// TurnToAshes disables the paddle and makes it non-collidable for seconds.
// It replaces a Frozen status.
func (p *Paddle) TurnToAshes(seconds float64) {
	p.Status = PaddleStatus{Kind: StatusAshes, Remaining: seconds}
}

// MakeWide widens the paddle around its centre and (re)starts the timer.
func (p *Paddle) MakeWide(seconds float64) {
	p.Wide.Remaining = seconds
	p.setWidth(p.wideWidth)
}

// ActivateFreezeRay arms the freeze ray. Re-arming is harmless.
func (p *Paddle) ActivateFreezeRay() { p.HasFreezeRay = true }

// ActivateLaser arms the laser. Re-arming is harmless.
func (p *Paddle) ActivateLaser() { p.HasLaser = true }

// AddScore adds points; negative amounts are ignored since scores never drop
// within a round.
func (p *Paddle) AddScore(points int) {
	if points > 0 {
		p.Score += points
	}
}

// UpdateTimers counts every timer down by dt seconds.
func (p *Paddle) UpdateTimers(dt float64) {
	p.Status.tick(dt)
	if p.Wide.Active() {
		p.Wide.Remaining -= dt
		if p.Wide.Remaining <= 0 {
			p.Wide = WideModifier{}
			p.setWidth(p.BaseWidth)
		}
	}
}

func (p *Paddle) setWidth(width float64) {
	center := p.Center()
	p.Width = width
	p.MoveTo(center - width/2)
}

// MoveTo teleports the paddle's left edge to x, clamped to the canvas.
func (p *Paddle) MoveTo(x float64) {
	p.X = utils.Clamp(x, 0, p.canvasWidth-p.Width)
}

// MoveToward moves the left edge toward x by at most maxStep.
func (p *Paddle) MoveToward(x, maxStep float64) {
	delta := utils.Clamp(x-p.X, -maxStep, maxStep)
	p.MoveTo(p.X + delta)
}

func (p *Paddle) Center() float64 { return p.X + p.Width/2 }

// Face is the y coordinate of the side that faces the field.
func (p *Paddle) Face() float64 {
	if p.IsTopPaddle {
		return p.Y + p.Height
	}
	return p.Y
}

// SpanContains reports whether x lies strictly inside [X, X+Width].
func (p *Paddle) SpanContains(x float64) bool {
	return x > p.X && x < p.X+p.Width
}

// Rect is the paddle's current box.
func (p *Paddle) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// SyncBody keeps the kinematic body in step with the record, rebuilding it
// when the width changed. Must not run during a physics step.
func (p *Paddle) SyncBody(world World) {
	if p.Body != 0 && world.Contains(p.Body) && p.bodyWidth == p.Width {
		c := p.Rect().Center()
		_ = world.SetPosition(p.Body, c.X, c.Y)
		return
	}
	world.RemoveBody(p.Body)
	p.Body = world.AddBody(physics.Box(p.Rect()), false, physics.LabelPaddle, p, physics.Kinematic())
	p.bodyWidth = p.Width
}
