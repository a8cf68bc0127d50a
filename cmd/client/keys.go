package main

import (
	"sync"
	"time"

	"github.com/lguibr/brickduel/game"
)

type keyAction int

const (
	keyLeft keyAction = iota + 1
	keyRight
	keyFire
	keyPause
	keyRestart
	keyQuit
)

// parseKeys turns raw terminal bytes into actions. Arrow keys arrive as the
// escape sequences ESC [ D and ESC [ C.
func parseKeys(buf []byte) []keyAction {
	var actions []keyAction
	for i := 0; i < len(buf); i++ {
		switch b := buf[i]; {
		case b == 0x1b && i+2 < len(buf) && buf[i+1] == '[':
			switch buf[i+2] {
			case 'D':
				actions = append(actions, keyLeft)
			case 'C':
				actions = append(actions, keyRight)
			}
			i += 2
		case b == 'a' || b == 'A':
			actions = append(actions, keyLeft)
		case b == 'd' || b == 'D':
			actions = append(actions, keyRight)
		case b == ' ' || b == 'w' || b == 'W':
			actions = append(actions, keyFire)
		case b == 'p' || b == 'P':
			actions = append(actions, keyPause)
		case b == 'r' || b == 'R':
			actions = append(actions, keyRestart)
		case b == 'q' || b == 'Q' || b == 0x03:
			actions = append(actions, keyQuit)
		}
	}
	return actions
}

// controller turns key presses into commands. A terminal reports no key
// releases, so a held direction is released holdFor after its last repeat.
type controller struct {
	send    func(game.ClientCommand) error
	holdFor time.Duration

	mu      sync.Mutex
	held    string
	release *time.Timer
}

func newController(send func(game.ClientCommand) error, holdFor time.Duration) *controller {
	return &controller{send: send, holdFor: holdFor}
}

func (c *controller) input(action bool) game.ClientCommand {
	cmd := game.ClientCommand{Type: game.CommandInput}
	if c.held != "" {
		cmd.Keys = []string{c.held}
	}
	cmd.Action = action
	return cmd
}

// handle sends the command for one action. It reports true for quit.
func (c *controller) handle(a keyAction) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch a {
	case keyLeft, keyRight:
		key := "ArrowLeft"
		if a == keyRight {
			key = "ArrowRight"
		}
		c.hold(key)
		return false, c.send(c.input(false))
	case keyFire:
		return false, c.send(c.input(true))
	case keyPause:
		return false, c.send(game.ClientCommand{Type: game.CommandPause})
	case keyRestart:
		return false, c.send(game.ClientCommand{Type: game.CommandRestart})
	case keyQuit:
		c.stopTimer()
		return true, nil
	}
	return false, nil
}

func (c *controller) hold(key string) {
	c.held = key
	c.stopTimer()
	var t *time.Timer
	t = time.AfterFunc(c.holdFor, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.release != t || c.held != key {
			return // Superseded by a later press
		}
		c.held = ""
		c.release = nil
		_ = c.send(c.input(false))
	})
	c.release = t
}

func (c *controller) stopTimer() {
	if c.release != nil {
		c.release.Stop()
		c.release = nil
	}
}
