// File: physics/world.go
package physics

import (
	"errors"
	"fmt"
	"math"

	"fortio.org/log"
	"github.com/jakecoffman/cp"
)

// ErrUnknownBody is returned when an id does not name a live body.
var ErrUnknownBody = errors.New("unknown body")

// BodyID is the handle the world hands out for every body. Zero is never a
// valid id, so records use it as "no body".
type BodyID uint64

// BodyRef is what a collision listener learns about one side of a contact.
type BodyRef struct {
	ID    BodyID
	Label Label
	Owner interface{}
}

// Contact is a pair of bodies that started touching during a Step.
type Contact struct {
	A, B BodyRef
}

// Match returns the two sides ordered as (first, second) when the contact
// joins the given labels in either order.
func (c Contact) Match(first, second Label) (BodyRef, BodyRef, bool) {
	switch {
	case c.A.Label == first && c.B.Label == second:
		return c.A, c.B, true
	case c.B.Label == first && c.A.Label == second:
		return c.B, c.A, true
	}
	return BodyRef{}, BodyRef{}, false
}

// CollisionListener receives every new contact. Returning false tells the
// solver to ignore the pair until it separates.
type CollisionListener func(Contact) bool

// Settings tunes the underlying space.
type Settings struct {
	Iterations int
	Elasticity float64
	Friction   float64
}

func DefaultSettings() Settings {
	return Settings{Iterations: 10, Elasticity: 1, Friction: 0}
}

type entry struct {
	id     BodyID
	label  Label
	owner  interface{}
	body   *cp.Body // nil for shapes attached to the space's static body
	shape  *cp.Shape
	static bool
	center cp.Vector // position of static shapes, which never move
}

// World wraps a gravity-free cp.Space and keeps the side tables that map
// physics shapes back to game records.
type World struct {
	space     *cp.Space
	settings  Settings
	nextID    BodyID
	entries   map[BodyID]*entry
	byShape   map[*cp.Shape]BodyID
	contacts  *ContactTracker
	listeners []CollisionListener
	stepping  bool
}

// collidingPairs lists the label pairs that report contacts. Ball against
// ball still bounces through cp's default handler but reports nothing.
var collidingPairs = [][2]Label{
	{LabelBall, LabelBrick},
	{LabelBall, LabelPaddle},
	{LabelBall, LabelWall},
}

// NewWorld creates an empty world.
func NewWorld(settings Settings) *World {
	if settings.Iterations <= 0 {
		settings.Iterations = DefaultSettings().Iterations
	}
	space := cp.NewSpace()
	space.Iterations = uint(settings.Iterations)
	space.SetGravity(cp.Vector{})

	w := &World{
		space:    space,
		settings: settings,
		entries:  make(map[BodyID]*entry),
		byShape:  make(map[*cp.Shape]BodyID),
		contacts: NewContactTracker(),
	}
	for _, pair := range collidingPairs {
		handler := space.NewCollisionHandler(pair[0].collisionType(), pair[1].collisionType())
		handler.BeginFunc = w.beginContact
		handler.SeparateFunc = w.separateContact
	}
	return w
}

// OnCollisionStart subscribes a listener to new contacts. Listeners run
// synchronously inside Step in subscription order.
func (w *World) OnCollisionStart(listener CollisionListener) {
	w.listeners = append(w.listeners, listener)
}

// AddStaticBoundary adds an immovable box, typically a side wall.
func (w *World) AddStaticBoundary(rect Rect, label Label) BodyID {
	return w.AddBody(Box(rect), true, label, nil)
}

// AddBody creates a body with a single shape and returns its handle. owner is
// stored in the side table and handed back on contacts.
func (w *World) AddBody(shape Shape, isStatic bool, label Label, owner interface{}, opts ...BodyOption) BodyID {
	o := bodyOptions{mass: 1}
	for _, opt := range opts {
		opt(&o)
	}

	e := &entry{label: label, owner: owner, static: isStatic, center: shape.Center}
	if isStatic {
		e.shape = w.staticShape(shape)
	} else {
		e.body = w.newBody(shape, o)
		e.shape = w.bodyShape(e.body, shape)
	}

	elasticity, friction := w.settings.Elasticity, w.settings.Friction
	if o.elasticity != nil {
		elasticity = *o.elasticity
	}
	if o.friction != nil {
		friction = *o.friction
	}
	e.shape.SetElasticity(elasticity)
	e.shape.SetFriction(friction)
	e.shape.SetCollisionType(label.collisionType())
	if o.noCollision {
		e.shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, 0, 0))
	}

	w.nextID++
	e.id = w.nextID
	w.entries[e.id] = e
	w.byShape[e.shape] = e.id

	// The space is locked during Step; bodies created by listeners join it
	// once the step completes.
	if w.stepping {
		w.space.AddPostStepCallback(func(_ *cp.Space, _, _ interface{}) {
			w.attach(e)
		}, postStepKey{id: e.id, op: opAttach}, nil)
	} else {
		w.attach(e)
	}
	return e.id
}

type postStepOp int

const (
	opAttach postStepOp = iota
	opDetach
)

// postStepKey keeps cp's one-callback-per-key rule from merging an attach
// and a detach of the same body.
type postStepKey struct {
	id BodyID
	op postStepOp
}

func (w *World) attach(e *entry) {
	if e.body != nil {
		w.space.AddBody(e.body)
	}
	w.space.AddShape(e.shape)
}

func (w *World) staticShape(shape Shape) *cp.Shape {
	static := w.space.StaticBody
	if shape.Kind == ShapeCircle {
		return cp.NewCircle(static, shape.Radius, shape.Center)
	}
	return cp.NewBox2(static, shape.Bounds().BB(), 0)
}

func (w *World) newBody(shape Shape, o bodyOptions) *cp.Body {
	var body *cp.Body
	if o.kinematic {
		body = cp.NewKinematicBody()
	} else {
		// Infinite moment: bodies in this game never spin.
		body = cp.NewBody(o.mass, math.Inf(1))
	}
	body.SetPosition(shape.Center)
	if !o.kinematic {
		body.SetVelocityVector(o.velocity)
	}
	return body
}

func (w *World) bodyShape(body *cp.Body, shape Shape) *cp.Shape {
	if shape.Kind == ShapeCircle {
		return cp.NewCircle(body, shape.Radius, cp.Vector{})
	}
	return cp.NewBox(body, shape.Width, shape.Height, 0)
}

// Step advances the simulation once. Contacts are delivered to the listeners
// before Step returns, and removals requested meanwhile are complete too.
func (w *World) Step(dtMillis float64) {
	if dtMillis <= 0 {
		return
	}
	w.stepping = true
	defer func() { w.stepping = false }()
	w.space.Step(dtMillis / 1000)
}

// RemoveBody removes a body. Unknown or already removed ids are ignored.
// During Step the side table entry goes away at once, so later contacts
// involving the body resolve as stale, and the cp removal runs as a
// post-step callback of the same Step.
func (w *World) RemoveBody(id BodyID) {
	e, ok := w.entries[id]
	if !ok {
		return
	}
	delete(w.entries, id)
	delete(w.byShape, e.shape)
	w.contacts.ForgetBody(id)

	if w.stepping {
		w.space.AddPostStepCallback(func(_ *cp.Space, _, _ interface{}) {
			w.detach(e)
		}, postStepKey{id: e.id, op: opDetach}, nil)
		return
	}
	w.detach(e)
}

func (w *World) detach(e *entry) {
	if w.space.ContainsShape(e.shape) {
		w.space.RemoveShape(e.shape)
	}
	if e.body != nil && w.space.ContainsBody(e.body) {
		w.space.RemoveBody(e.body)
	}
}

func (w *World) lookup(id BodyID) (*entry, error) {
	e, ok := w.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	return e, nil
}

// Position returns the centre of a body.
func (w *World) Position(id BodyID) (cp.Vector, bool) {
	e, ok := w.entries[id]
	if !ok {
		return cp.Vector{}, false
	}
	if e.body == nil {
		return e.center, true
	}
	return e.body.Position(), true
}

// SetPosition teleports a dynamic or kinematic body.
func (w *World) SetPosition(id BodyID, x, y float64) error {
	e, err := w.lookup(id)
	if err != nil {
		return err
	}
	if e.body == nil {
		return fmt.Errorf("body %d is static and cannot move", id)
	}
	e.body.SetPosition(cp.Vector{X: x, Y: y})
	return nil
}

// Velocity returns the velocity of a body; static bodies report zero.
func (w *World) Velocity(id BodyID) (cp.Vector, bool) {
	e, ok := w.entries[id]
	if !ok {
		return cp.Vector{}, false
	}
	if e.body == nil {
		return cp.Vector{}, true
	}
	return e.body.Velocity(), true
}

// SetVelocity sets the velocity used by the next Step.
func (w *World) SetVelocity(id BodyID, vx, vy float64) error {
	e, err := w.lookup(id)
	if err != nil {
		return err
	}
	if e.body == nil {
		return fmt.Errorf("body %d is static and has no velocity", id)
	}
	e.body.SetVelocity(vx, vy)
	return nil
}

// ApplyImpulse pushes a dynamic body through its centre.
func (w *World) ApplyImpulse(id BodyID, ix, iy float64) error {
	e, err := w.lookup(id)
	if err != nil {
		return err
	}
	if e.body == nil {
		return fmt.Errorf("body %d is static and cannot take impulses", id)
	}
	e.body.ApplyImpulseAtWorldPoint(cp.Vector{X: ix, Y: iy}, e.body.Position())
	return nil
}

// Owner returns the record registered with the body.
func (w *World) Owner(id BodyID) (interface{}, bool) {
	e, ok := w.entries[id]
	if !ok {
		return nil, false
	}
	return e.owner, true
}

// Label returns the label registered with the body.
func (w *World) Label(id BodyID) (Label, bool) {
	e, ok := w.entries[id]
	if !ok {
		return "", false
	}
	return e.label, true
}

// Contains reports whether id names a live body.
func (w *World) Contains(id BodyID) bool {
	_, ok := w.entries[id]
	return ok
}

// BodyCount counts live bodies with the given label.
func (w *World) BodyCount(label Label) int {
	n := 0
	for _, e := range w.entries {
		if e.label == label {
			n++
		}
	}
	return n
}

func (w *World) ref(shape *cp.Shape) (BodyRef, bool) {
	id, ok := w.byShape[shape]
	if !ok {
		return BodyRef{}, false
	}
	e := w.entries[id]
	return BodyRef{ID: id, Label: e.label, Owner: e.owner}, true
}

func (w *World) beginContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	shapeA, shapeB := arb.Shapes()
	a, okA := w.ref(shapeA)
	b, okB := w.ref(shapeB)
	if !okA || !okB {
		// One side was removed earlier in this step.
		log.LogVf("Ignoring contact with a removed body (%v, %v)", okA, okB)
		return false
	}
	if !w.contacts.Begin(NewContactKey(a.ID, b.ID)) {
		return true
	}

	accept := true
	contact := Contact{A: a, B: b}
	for _, listener := range w.listeners {
		if !listener(contact) {
			accept = false
		}
	}
	return accept
}

func (w *World) separateContact(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	shapeA, shapeB := arb.Shapes()
	a, okA := w.byShape[shapeA]
	b, okB := w.byShape[shapeB]
	if okA && okB {
		w.contacts.End(NewContactKey(a, b))
	}
}
