package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactKey_IsOrderIndependent(t *testing.T) {
	assert.Equal(t, NewContactKey(3, 9), NewContactKey(9, 3))
	k := NewContactKey(9, 3)
	assert.Equal(t, BodyID(3), k.Lo)
	assert.Equal(t, BodyID(9), k.Hi)
	assert.True(t, k.Involves(3))
	assert.True(t, k.Involves(9))
	assert.False(t, k.Involves(4))
}

func TestContactTracker_Begin(t *testing.T) {
	tracker := NewContactTracker()
	key1 := NewContactKey(1, 10)
	key2 := NewContactKey(2, 20)

	assert.True(t, tracker.Begin(key1), "first Begin for key1 should return true")
	assert.False(t, tracker.Begin(key1), "second Begin for key1 should return false")
	assert.False(t, tracker.Begin(NewContactKey(10, 1)), "reversed pair is the same contact")

	assert.True(t, tracker.Begin(key2), "Begin for key2 should return true")
	assert.Len(t, tracker.active, 2)
}

func TestContactTracker_End(t *testing.T) {
	tracker := NewContactTracker()
	key1 := NewContactKey(1, 10)

	tracker.Begin(key1)
	tracker.End(key1)
	assert.NotContains(t, tracker.active, key1)

	// Ending twice, or ending a pair that never started, is harmless.
	tracker.End(key1)
	tracker.End(NewContactKey(2, 20))
	assert.Empty(t, tracker.active)

	assert.True(t, tracker.Begin(key1), "a pair can start again after it ended")
}

func TestContactTracker_ForgetBody(t *testing.T) {
	tracker := NewContactTracker()
	tracker.Begin(NewContactKey(1, 10))
	tracker.Begin(NewContactKey(1, 11))
	tracker.Begin(NewContactKey(2, 10))
	tracker.Begin(NewContactKey(2, 20))

	tracker.ForgetBody(10)
	assert.NotContains(t, tracker.active, NewContactKey(1, 10))
	assert.NotContains(t, tracker.active, NewContactKey(2, 10))
	assert.Contains(t, tracker.active, NewContactKey(1, 11))
	assert.Len(t, tracker.active, 2)
	assert.True(t, tracker.Begin(NewContactKey(10, 1)), "a forgotten pair starts fresh")
}
