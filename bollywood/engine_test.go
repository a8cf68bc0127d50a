package bollywood

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct{ N int }
type pong struct{ N int }

type recorder struct {
	mu       sync.Mutex
	received []interface{}
	stopped  chan struct{}
}

func (r *recorder) Receive(ctx Context) {
	r.mu.Lock()
	r.received = append(r.received, ctx.Message())
	r.mu.Unlock()

	switch msg := ctx.Message().(type) {
	case ping:
		ctx.Reply(pong{N: msg.N + 1})
	case string:
		if msg == "boom" {
			panic("boom")
		}
	case Stopped:
		close(r.stopped)
	}
}

func (r *recorder) messages() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interface{}(nil), r.received...)
}

func spawnRecorder(t *testing.T, e *Engine) (*PID, *recorder) {
	t.Helper()
	rec := &recorder{stopped: make(chan struct{})}
	pid := e.Spawn(NewProps(func() Actor { return rec }))
	require.NotNil(t, pid)
	return pid, rec
}

func TestEngine_SendDeliversInOrder(t *testing.T) {
	e := NewEngine()
	pid, rec := spawnRecorder(t, e)

	e.Send(pid, "a", nil)
	e.Send(pid, "b", nil)

	assert.Eventually(t, func() bool { return len(rec.messages()) == 3 }, time.Second, 5*time.Millisecond)
	msgs := rec.messages()
	assert.Equal(t, Started{}, msgs[0])
	assert.Equal(t, "a", msgs[1])
	assert.Equal(t, "b", msgs[2])
}

func TestEngine_AskReturnsReply(t *testing.T) {
	e := NewEngine()
	pid, _ := spawnRecorder(t, e)

	reply, err := e.Ask(pid, ping{N: 41}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, pong{N: 42}, reply)
}

func TestEngine_AskTimesOutWithoutReply(t *testing.T) {
	e := NewEngine()
	pid, _ := spawnRecorder(t, e)

	_, err := e.Ask(pid, "no reply", 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestEngine_AskUnknownActor(t *testing.T) {
	e := NewEngine()
	_, err := e.Ask(&PID{ID: "missing"}, ping{}, time.Second)
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestEngine_PanicInReceiveKeepsActorAlive(t *testing.T) {
	e := NewEngine()
	pid, _ := spawnRecorder(t, e)

	e.Send(pid, "boom", nil)
	reply, err := e.Ask(pid, ping{N: 1}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, pong{N: 2}, reply)
}

func TestEngine_StopDeliversStoppingThenStopped(t *testing.T) {
	e := NewEngine()
	pid, rec := spawnRecorder(t, e)

	e.Stop(pid)
	select {
	case <-rec.stopped:
	case <-time.After(time.Second):
		t.Fatal("actor did not stop")
	}

	assert.Eventually(t, func() bool { return e.ActorCount() == 0 }, time.Second, 5*time.Millisecond)
	msgs := rec.messages()
	assert.Contains(t, msgs, Stopping{})
	assert.Equal(t, Stopped{}, msgs[len(msgs)-1])
}

func TestEngine_ShutdownRejectsNewActors(t *testing.T) {
	e := NewEngine()
	spawnRecorder(t, e)
	spawnRecorder(t, e)

	e.Shutdown(time.Second)
	assert.Equal(t, 0, e.ActorCount())
	assert.Nil(t, e.Spawn(NewProps(func() Actor { return &recorder{stopped: make(chan struct{})} })))
}
