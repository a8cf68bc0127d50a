// File: game/state_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModePvP, "pvp": ModePvP, "pvai": ModePvAI, "aiai": ModeAIAI} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("coop")
	assert.Error(t, err)

	assert.False(t, ModePvP.IsAI(1))
	assert.False(t, ModePvP.IsAI(2))
	assert.False(t, ModePvAI.IsAI(1))
	assert.True(t, ModePvAI.IsAI(2))
	assert.True(t, ModeAIAI.IsAI(1))
}

func TestState_Transitions(t *testing.T) {
	s := NewState(ModePvP)
	assert.True(t, s.IsPlaying())

	s.TogglePause()
	assert.Equal(t, StatusPaused, s.Status)
	s.TogglePause()
	assert.Equal(t, StatusPlaying, s.Status)

	s.End(1)
	assert.Equal(t, StatusGameOver, s.Status)
	s.Pause()
	s.Resume()
	assert.Equal(t, StatusGameOver, s.Status, "pause has no effect once over")
	assert.Equal(t, 1, s.Winner)

	s.Restart()
	assert.True(t, s.IsPlaying())
	assert.Zero(t, s.Winner)
}

func TestState_RecordFrame(t *testing.T) {
	s := NewState(ModePvP)
	for i := 0; i < 3; i++ {
		s.RecordFrame(0.25)
	}
	assert.Zero(t, s.FPS, "no full second yet")
	for i := 0; i < 5; i++ {
		s.RecordFrame(0.25)
	}
	assert.Equal(t, uint64(8), s.Tick)
	assert.InDelta(t, 4, s.FPS, 1e-9)
}

func TestSoundQueue_CapAndDrain(t *testing.T) {
	q := NewSoundQueue(2)
	q.Play(SoundBrick)
	q.Play(SoundWall)
	q.Play(SoundPaddle)
	assert.Equal(t, []string{SoundBrick, SoundWall}, q.Drain())
	assert.Empty(t, q.Drain())
}
