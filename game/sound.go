package game

import "sync"

// Sound cue names. Clients map them to clips served by the audio bank.
const (
	SoundBrick     = "brick"
	SoundPaddle    = "paddle"
	SoundWall      = "wall"
	SoundPowerUp   = "powerup"
	SoundFreezeHit = "freeze"
	SoundAshesHit  = "ashes"
	SoundFreezeRay = "freezeShot"
	SoundLaser     = "laserShot"
	SoundScore     = "score"
	SoundClear     = "clear"
	SoundGameOver  = "gameover"
)

// SoundNames lists every cue the game can emit.
var SoundNames = []string{
	SoundBrick, SoundPaddle, SoundWall, SoundPowerUp, SoundFreezeHit, SoundAshesHit,
	SoundFreezeRay, SoundLaser, SoundScore, SoundClear, SoundGameOver,
}

// SoundPlayer is fire-and-forget. Implementations must tolerate unknown or
// unloaded sounds.
type SoundPlayer interface {
	Play(name string)
}

// SoundQueue collects the cues of one tick so they can ride along in the
// snapshot. Cues beyond the cap are dropped.
type SoundQueue struct {
	mu    sync.Mutex
	cap   int
	queue []string
}

func NewSoundQueue(capacity int) *SoundQueue {
	return &SoundQueue{cap: capacity}
}

func (q *SoundQueue) Play(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cap > 0 && len(q.queue) >= q.cap {
		return
	}
	q.queue = append(q.queue, name)
}

// Drain returns the queued cues and resets the queue.
func (q *SoundQueue) Drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.queue
	q.queue = nil
	return drained
}
