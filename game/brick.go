// File: game/brick.go
package game

import (
	"fmt"

	"github.com/lguibr/brickduel/physics"
)

// PowerUp is the effect a brick grants to the player who breaks it.
type PowerUp int

const (
	PowerUpNone PowerUp = iota
	PowerUpFreezeRay
	PowerUpLaser
	PowerUpWide
)

// powerUpKinds is the assignment order used on every pattern.
var powerUpKinds = []PowerUp{PowerUpFreezeRay, PowerUpLaser, PowerUpWide}

func (p PowerUp) String() string {
	switch p {
	case PowerUpFreezeRay:
		return "freezeRay"
	case PowerUpLaser:
		return "laser"
	case PowerUpWide:
		return "wide"
	}
	return "none"
}

// MarshalText lets power-ups travel as their names in JSON snapshots.
func (p PowerUp) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PowerUp) UnmarshalText(text []byte) error {
	for _, kind := range append([]PowerUp{PowerUpNone}, powerUpKinds...) {
		if kind.String() == string(text) {
			*p = kind
			return nil
		}
	}
	return fmt.Errorf("unknown power-up %q", text)
}

// Brick statuses. Status is the only destruction flag.
const (
	BrickInactive = 0
	BrickActive   = 1
)

// Brick is one grid cell. Body is non-zero exactly when Status is BrickActive.
type Brick struct {
	C       int            `json:"c"`
	R       int            `json:"r"`
	Status  int            `json:"status"`
	Color   string         `json:"color"`
	PowerUp PowerUp        `json:"powerUp"`
	X       float64        `json:"x"`
	Y       float64        `json:"y"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Body    physics.BodyID `json:"-"`
}

func (b *Brick) IsActive() bool { return b.Status == BrickActive }

func (b *Brick) Rect() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height}
}

// brickRef is the owner stored in the physics side table for brick bodies.
// Only the coordinates are kept; the record is fetched from the grid.
type brickRef struct {
	C, R int
}
