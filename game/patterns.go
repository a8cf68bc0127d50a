package game

import (
	"math"
	"math/rand/v2"
)

// Pattern selects which grid coordinates hold a brick.
type Pattern struct {
	Name string
	// Layout returns the active mask as mask[r][c]. rng is only used by
	// randomised layouts.
	Layout func(cols, rows int, rng *rand.Rand) [][]bool
}

func fill(cols, rows int, active func(c, r int) bool) [][]bool {
	mask := make([][]bool, rows)
	for r := range mask {
		mask[r] = make([]bool, cols)
		for c := range mask[r] {
			mask[r][c] = active(c, r)
		}
	}
	return mask
}

// Patterns lists the layouts in play order. NextPattern wraps around.
var Patterns = []Pattern{
	{Name: "standard", Layout: func(cols, rows int, _ *rand.Rand) [][]bool {
		return fill(cols, rows, func(int, int) bool { return true })
	}},
	{Name: "checkerboard", Layout: func(cols, rows int, _ *rand.Rand) [][]bool {
		return fill(cols, rows, func(c, r int) bool { return (c+r)%2 == 0 })
	}},
	{Name: "pyramid", Layout: func(cols, rows int, _ *rand.Rand) [][]bool {
		// Widest row at the bottom, narrowing by one brick per side per row.
		return fill(cols, rows, func(c, r int) bool {
			inset := rows - 1 - r
			return c >= inset && c < cols-inset
		})
	}},
	{Name: "diamond", Layout: func(cols, rows int, _ *rand.Rand) [][]bool {
		cx, cy := float64(cols-1)/2, float64(rows-1)/2
		return fill(cols, rows, func(c, r int) bool {
			dx := math.Abs(float64(c)-cx) / math.Max(cx, 1)
			dy := math.Abs(float64(r)-cy) / math.Max(cy, 1)
			return dx+dy <= 1
		})
	}},
	{Name: "frame", Layout: func(cols, rows int, _ *rand.Rand) [][]bool {
		return fill(cols, rows, func(c, r int) bool {
			return r == 0 || r == rows-1 || c == 0 || c == cols-1
		})
	}},
	{Name: "mirrored-random", Layout: mirroredRandom},
}

// mirroredRandom fills the left half at random and mirrors it onto the right
// half so neither side of the field is favoured. At least one brick is
// always active.
func mirroredRandom(cols, rows int, rng *rand.Rand) [][]bool {
	mask := fill(cols, rows, func(int, int) bool { return false })
	half := (cols + 1) / 2
	lit := false
	for r := 0; r < rows; r++ {
		for c := 0; c < half; c++ {
			on := rng.Float64() < 0.6
			mask[r][c] = on
			mask[r][cols-1-c] = on
			lit = lit || on
		}
	}
	if !lit {
		mask[rows/2][half-1] = true
		mask[rows/2][cols-half] = true
	}
	return mask
}
