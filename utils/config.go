// File: utils/config.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrConfig is wrapped by every validation and load failure.
var ErrConfig = errors.New("invalid config")

// Config holds all configurable game parameters.
// Distances are pixels, speeds pixels per second, durations seconds
// unless the field is a time.Duration.
type Config struct {
	// Timing
	GameTickPeriod time.Duration `json:"gameTickPeriod"` // Time between game state updates
	Seed           uint64        `json:"seed"`           // 0 picks a random seed per room

	// Canvas
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`

	// Brick grid
	BrickRows       int     `json:"brickRows"`
	BrickColumns    int     `json:"brickColumns"`
	BrickWidth      float64 `json:"brickWidth"`
	BrickHeight     float64 `json:"brickHeight"`
	BrickPadding    float64 `json:"brickPadding"`
	BrickOffsetTop  float64 `json:"brickOffsetTop"`
	BrickOffsetLeft float64 `json:"brickOffsetLeft"`
	PowerUpsPerKind int     `json:"powerUpsPerKind"` // Bricks tagged per power-up kind on every pattern

	// Ball
	BallRadius        float64 `json:"ballRadius"`
	BallBaseSpeed     float64 `json:"ballBaseSpeed"`
	BallMaxSpeed      float64 `json:"ballMaxSpeed"`
	MinNormalizeSpeed float64 `json:"minNormalizeSpeed"` // Below this the ball gets a fresh direction instead of a rescale
	ServeOffset       float64 `json:"serveOffset"`       // Distance of the serve spot from the owner's edge
	ServeMaxAngle     float64 `json:"serveMaxAngle"`     // Radians from vertical

	// Paddle
	PaddleWidth     float64 `json:"paddleWidth"`
	PaddleHeight    float64 `json:"paddleHeight"`
	PaddleWideWidth float64 `json:"paddleWideWidth"`
	PaddleMargin    float64 `json:"paddleMargin"` // Gap between the paddle's outer face and the canvas edge
	PaddleSpeed     float64 `json:"paddleSpeed"`  // Keyboard movement speed

	// Power-up effects
	FreezeSeconds float64 `json:"freezeSeconds"`
	AshesSeconds  float64 `json:"ashesSeconds"`
	WideSeconds   float64 `json:"wideSeconds"`

	// Projectiles
	ProjectileSpeed     float64 `json:"projectileSpeed"`
	ProjectileFadeStep  float64 `json:"projectileFadeStep"`
	ProjectileHalfWidth float64 `json:"projectileHalfWidth"` // Half width of the laser's brick sweep column

	// Cosmetic effects
	FragmentsPerBrick   int     `json:"fragmentsPerBrick"`
	FragmentSize        float64 `json:"fragmentSize"`
	FragmentMaxAge      float64 `json:"fragmentMaxAge"`
	FragmentImpulse     float64 `json:"fragmentImpulse"`
	ParticlesPerHit     int     `json:"particlesPerHit"`
	ParticleMaxAge      float64 `json:"particleMaxAge"`
	ParticleSpeed       float64 `json:"particleSpeed"`
	MaxFragments        int     `json:"maxFragments"`
	MaxParticles        int     `json:"maxParticles"`
	MaxProjectiles      int     `json:"maxProjectiles"`
	PhysicsIterations   int     `json:"physicsIterations"`
	BodyElasticity      float64 `json:"bodyElasticity"`
	BodyFriction        float64 `json:"bodyFriction"`
	SoundCuesPerTickCap int     `json:"soundCuesPerTickCap"`

	// Scoring
	BrickScore   int `json:"brickScore"`
	GoalScore    int `json:"goalScore"`
	ClearBonus   int `json:"clearBonus"`
	WinningScore int `json:"winningScore"` // 0 disables game over

	// AI
	AIMaxSpeed float64 `json:"aiMaxSpeed"`
	AIDeadZone float64 `json:"aiDeadZone"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	canvasWidth, canvasHeight := 800.0, 600.0
	rows, cols := 6, 10
	brickWidth, brickHeight, padding := 64.0, 20.0, 10.0
	gridWidth := float64(cols)*brickWidth + float64(cols-1)*padding
	gridHeight := float64(rows)*brickHeight + float64(rows-1)*padding

	return Config{
		GameTickPeriod: 16 * time.Millisecond,

		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,

		BrickRows:       rows,
		BrickColumns:    cols,
		BrickWidth:      brickWidth,
		BrickHeight:     brickHeight,
		BrickPadding:    padding,
		BrickOffsetTop:  (canvasHeight - gridHeight) / 2, // 215
		BrickOffsetLeft: (canvasWidth - gridWidth) / 2,   // 35
		PowerUpsPerKind: 2,

		BallRadius:        8,
		BallBaseSpeed:     300,
		BallMaxSpeed:      600,
		MinNormalizeSpeed: 1e-6,
		ServeOffset:       50,
		ServeMaxAngle:     0.7,

		PaddleWidth:     100,
		PaddleHeight:    12,
		PaddleWideWidth: 150,
		PaddleMargin:    18,
		PaddleSpeed:     480,

		FreezeSeconds: 10,
		AshesSeconds:  5,
		WideSeconds:   10,

		ProjectileSpeed:     600,
		ProjectileFadeStep:  0.05,
		ProjectileHalfWidth: 3,

		FragmentsPerBrick:   6,
		FragmentSize:        5,
		FragmentMaxAge:      1.5,
		FragmentImpulse:     40,
		ParticlesPerHit:     8,
		ParticleMaxAge:      0.6,
		ParticleSpeed:       120,
		MaxFragments:        120,
		MaxParticles:        200,
		MaxProjectiles:      10,
		PhysicsIterations:   10,
		BodyElasticity:      1,
		BodyFriction:        0,
		SoundCuesPerTickCap: 16,

		BrickScore:   5,
		GoalScore:    10,
		ClearBonus:   50,
		WinningScore: 0,

		AIMaxSpeed: 360,
		AIDeadZone: 6,
	}
}

// LoadConfig overlays the JSON or TOML file at path onto DefaultConfig.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := decodeConfig(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parsing %q: %v", ErrConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeConfig picks the format from the extension: .toml files use TOML
// (keys match field names case-insensitively, durations as "16ms"), anything
// else is JSON. Unknown TOML keys are rejected.
func decodeConfig(path string, data []byte, cfg *Config) error {
	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		return json.Unmarshal(data, cfg)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys %v", undecoded)
	}
	return nil
}

// Validate checks the geometric and timing constraints the game relies on.
func (c Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.GameTickPeriod > 0, "gameTickPeriod must be positive, got %v", c.GameTickPeriod)
	check(c.CanvasWidth > 0 && c.CanvasHeight > 0, "canvas must have a positive size, got %vx%v", c.CanvasWidth, c.CanvasHeight)
	check(c.BrickRows > 0 && c.BrickColumns > 0, "brick grid must have rows and columns, got %dx%d", c.BrickRows, c.BrickColumns)
	check(c.BrickWidth > 0 && c.BrickHeight > 0, "bricks must have a positive size")
	gridRight := c.BrickOffsetLeft + float64(c.BrickColumns)*(c.BrickWidth+c.BrickPadding) - c.BrickPadding
	check(gridRight <= c.CanvasWidth, "brick grid (right edge %.1f) does not fit the canvas width %.1f", gridRight, c.CanvasWidth)
	check(c.BallRadius > 0, "ballRadius must be positive")
	check(c.BallBaseSpeed > 0, "ballBaseSpeed must be positive")
	check(c.BallMaxSpeed >= c.BallBaseSpeed, "ballMaxSpeed %.1f is below ballBaseSpeed %.1f", c.BallMaxSpeed, c.BallBaseSpeed)
	check(c.PaddleWidth > 0 && c.PaddleWidth <= c.CanvasWidth, "paddleWidth must fit the canvas")
	check(c.PaddleWideWidth >= c.PaddleWidth && c.PaddleWideWidth <= c.CanvasWidth, "paddleWideWidth must be between paddleWidth and the canvas width")
	check(c.ServeOffset > c.PaddleMargin+c.PaddleHeight+c.BallRadius, "serveOffset %.1f puts the ball inside the paddle lane", c.ServeOffset)
	check(c.ProjectileSpeed > 0, "projectileSpeed must be positive")
	check(c.ProjectileFadeStep > 0, "projectileFadeStep must be positive")
	check(c.MaxFragments >= 0 && c.MaxParticles >= 0 && c.MaxProjectiles >= 0, "population caps cannot be negative")
	check(c.PowerUpsPerKind >= 0, "powerUpsPerKind cannot be negative")
	check(c.WinningScore >= 0, "winningScore cannot be negative")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(problems...))
	}
	return nil
}
