package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionFromString(t *testing.T) {
	testCases := map[string]string{
		"ArrowLeft":  "left",
		"ArrowRight": "right",
		"a":          "left",
		"D":          "right",
		"ArrowUp":    "",
		"":           "",
	}

	for input, expected := range testCases {
		assert.Equal(t, expected, DirectionFromString(input), "DirectionFromString(%q)", input)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
	assert.Equal(t, 3.0, Clamp(7, 3, 1), "inverted bounds resolve to lo")
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 0, Abs(0))
	assert.Equal(t, 7, Abs(7))
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 0.0, Distance(2, 2, 2, 2), 1e-9)
}

func TestHexColorRoundTrip(t *testing.T) {
	c := RGB{255, 128, 0}
	assert.Equal(t, "#ff8000", c.Hex())

	parsed, ok := ParseHexColor("#ff8000")
	assert.True(t, ok)
	assert.Equal(t, c, parsed)

	_, ok = ParseHexColor("#fff")
	assert.False(t, ok)
	_, ok = ParseHexColor("zzzzzz")
	assert.False(t, ok)
}
