package game

import "fmt"

// Mode selects who controls each paddle.
type Mode string

const (
	ModePvP  Mode = "pvp"  // Two humans
	ModePvAI Mode = "pvai" // Player 1 human, player 2 AI
	ModeAIAI Mode = "aiai" // Both AI, used for demos
)

// ParseMode accepts the mode names used on the wire. Empty means pvp.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModePvP, nil
	case ModePvP, ModePvAI, ModeAIAI:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// IsAI reports whether player's paddle is computer controlled in this mode.
func (m Mode) IsAI(player int) bool {
	switch m {
	case ModeAIAI:
		return true
	case ModePvAI:
		return player == 2
	}
	return false
}

type Status string

const (
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "gameOver"
)

// State tracks the match status and frame bookkeeping.
type State struct {
	Mode   Mode    `json:"mode"`
	Status Status  `json:"status"`
	Winner int     `json:"winner,omitempty"`
	Tick   uint64  `json:"tick"`
	FPS    float64 `json:"fps"`

	frames   int
	windowed float64
}

func NewState(mode Mode) *State {
	return &State{Mode: mode, Status: StatusPlaying}
}

func (s *State) IsPlaying() bool { return s.Status == StatusPlaying }

// Pause only affects a running match.
func (s *State) Pause() {
	if s.Status == StatusPlaying {
		s.Status = StatusPaused
	}
}

func (s *State) Resume() {
	if s.Status == StatusPaused {
		s.Status = StatusPlaying
	}
}

func (s *State) TogglePause() {
	if s.Status == StatusPaused {
		s.Resume()
	} else {
		s.Pause()
	}
}

// End finishes the match. winner is 0 for a draw.
func (s *State) End(winner int) {
	s.Status = StatusGameOver
	s.Winner = winner
}

// Restart returns to playing for a new round.
func (s *State) Restart() {
	s.Status = StatusPlaying
	s.Winner = 0
}

// RecordFrame counts a frame of dt seconds. FPS is refreshed once per
// second of accumulated frame time. Runs while paused too.
func (s *State) RecordFrame(dt float64) {
	s.Tick++
	s.frames++
	s.windowed += dt
	if s.windowed >= 1 {
		s.FPS = float64(s.frames) / s.windowed
		s.frames = 0
		s.windowed = 0
	}
}
