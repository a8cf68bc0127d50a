package game

// StatusKind enumerates the behavioural states of a paddle. Frozen and Ashes
// are exclusive: applying one replaces the other.
type StatusKind int

const (
	StatusNormal StatusKind = iota
	StatusFrozen
	StatusAshes
)

func (k StatusKind) String() string {
	switch k {
	case StatusFrozen:
		return "frozen"
	case StatusAshes:
		return "ashes"
	}
	return "normal"
}

// PaddleStatus is the tagged variant Normal | Frozen{Remaining} | Ashes{Remaining}.
type PaddleStatus struct {
	Kind      StatusKind `json:"kind"`
	Remaining float64    `json:"remaining"` // Seconds left; zero for Normal
}

// tick counts the status down and falls back to Normal at zero.
func (s *PaddleStatus) tick(dt float64) {
	if s.Kind == StatusNormal {
		return
	}
	s.Remaining -= dt
	if s.Remaining <= 0 {
		*s = PaddleStatus{}
	}
}

// WideModifier widens a paddle for a while. It coexists with any status.
type WideModifier struct {
	Remaining float64 `json:"remaining"`
}

func (w WideModifier) Active() bool { return w.Remaining > 0 }
