package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DirectionFromString maps a key name to a horizontal direction:
// "left", "right" or "" for keys that do not steer a paddle.
func DirectionFromString(direction string) string {
	switch direction {
	case "ArrowLeft", "a", "A":
		return "left"
	case "ArrowRight", "d", "D":
		return "right"
	}
	return ""
}

// Clamp limits v to [lo, hi]. When lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// RGB is a color as red, green and blue components in [0, 255].
type RGB [3]int

// Hex renders the color as a CSS style "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseHexColor parses "#rrggbb" (the leading # is optional).
func ParseHexColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, true
}
