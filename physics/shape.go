package physics

import "github.com/jakecoffman/cp"

// Label classifies a body for collision dispatch.
type Label string

const (
	LabelBall     Label = "ball"
	LabelBrick    Label = "brick"
	LabelPaddle   Label = "paddle"
	LabelWall     Label = "wall"
	LabelFragment Label = "fragment"
)

// collisionType maps a label onto the cp collision type used by the handlers.
func (l Label) collisionType() cp.CollisionType {
	switch l {
	case LabelBall:
		return 1
	case LabelBrick:
		return 2
	case LabelPaddle:
		return 3
	case LabelWall:
		return 4
	case LabelFragment:
		return 5
	}
	return 0
}

// Rect is an axis aligned rectangle in canvas coordinates (y grows downwards).
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// BB converts the rectangle into a cp bounding box. L/B hold the minimum
// coordinates and R/T the maximum ones.
func (r Rect) BB() cp.BB {
	return cp.BB{L: r.X, B: r.Y, R: r.X + r.W, T: r.Y + r.H}
}

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// Shape describes the geometry of a body at creation time.
type Shape struct {
	Kind   ShapeKind
	Center cp.Vector
	Width  float64
	Height float64
	Radius float64
}

// Box builds a rectangular shape from its top-left corner and size.
func Box(r Rect) Shape {
	return Shape{Kind: ShapeBox, Center: r.Center(), Width: r.W, Height: r.H}
}

// Circle builds a circular shape centred on (cx, cy).
func Circle(cx, cy, radius float64) Shape {
	return Shape{Kind: ShapeCircle, Center: cp.Vector{X: cx, Y: cy}, Radius: radius}
}

// Bounds returns the shape's bounding rectangle.
func (s Shape) Bounds() Rect {
	if s.Kind == ShapeCircle {
		return Rect{X: s.Center.X - s.Radius, Y: s.Center.Y - s.Radius, W: 2 * s.Radius, H: 2 * s.Radius}
	}
	return Rect{X: s.Center.X - s.Width/2, Y: s.Center.Y - s.Height/2, W: s.Width, H: s.Height}
}

type bodyOptions struct {
	mass        float64
	kinematic   bool
	noCollision bool
	elasticity  *float64
	friction    *float64
	velocity    cp.Vector
}

// BodyOption customises a body created with World.AddBody.
type BodyOption func(*bodyOptions)

// Kinematic makes a non-static body immune to forces; it moves only when
// repositioned. Paddles use it.
func Kinematic() BodyOption {
	return func(o *bodyOptions) { o.kinematic = true }
}

// WithMass sets the mass of a dynamic body.
func WithMass(mass float64) BodyOption {
	return func(o *bodyOptions) {
		if mass > 0 {
			o.mass = mass
		}
	}
}

// WithMaterial overrides the world's default elasticity and friction.
func WithMaterial(elasticity, friction float64) BodyOption {
	return func(o *bodyOptions) {
		o.elasticity = &elasticity
		o.friction = &friction
	}
}

// NonColliding filters the body out of every collision. Cosmetic debris uses it.
func NonColliding() BodyOption {
	return func(o *bodyOptions) { o.noCollision = true }
}

// WithVelocity sets the initial velocity of a dynamic body.
func WithVelocity(vx, vy float64) BodyOption {
	return func(o *bodyOptions) { o.velocity = cp.Vector{X: vx, Y: vy} }
}
