package game

import (
	"github.com/jakecoffman/cp"
	"github.com/lguibr/brickduel/physics"
)

// World is the part of the physics adapter that entity code touches.
// *physics.World implements it; Step and subscriptions stay with Game.
type World interface {
	AddBody(shape physics.Shape, isStatic bool, label physics.Label, owner interface{}, opts ...physics.BodyOption) physics.BodyID
	RemoveBody(id physics.BodyID)
	Contains(id physics.BodyID) bool
	Owner(id physics.BodyID) (interface{}, bool)
	Position(id physics.BodyID) (cp.Vector, bool)
	SetPosition(id physics.BodyID, x, y float64) error
	Velocity(id physics.BodyID) (cp.Vector, bool)
	SetVelocity(id physics.BodyID, vx, vy float64) error
	ApplyImpulse(id physics.BodyID, ix, iy float64) error
}
