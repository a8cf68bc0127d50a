// Command client plays brickduel in a terminal: it renders snapshots as text
// and sends arrow/a/d moves, space to fire, p to pause, r to restart, q to quit.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/lguibr/asciiring/helpers"
	"github.com/lguibr/brickduel/game"
	"github.com/lguibr/brickduel/render"
	"golang.org/x/net/websocket"
)

func main() {
	os.Exit(Main())
}

// serverMessage holds the union of the fields the server sends.
type serverMessage struct {
	MessageType string        `json:"messageType"`
	Player      int           `json:"player"`
	Mode        game.Mode     `json:"mode"`
	RoomPID     string        `json:"roomPID"`
	Snapshot    game.Snapshot `json:"snapshot"`
	Winner      int           `json:"winner"`
}

func subscribeURL(base, mode string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("mode", mode)
	q.Set("codec", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func Main() int {
	server := flag.String("url", "ws://localhost:3001/subscribe", "Server websocket `url`")
	mode := flag.String("mode", "pvai", "Game `mode`: pvp, pvai or aiai")
	cols := flag.Int("cols", 80, "Frame width in characters")
	rows := flag.Int("rows", 30, "Frame height in characters")
	fps := flag.Float64("fps", 20, "Maximum frames drawn per second")
	color := flag.Bool("color", true, "Draw with ANSI colors")
	cli.Main()

	if _, err := game.ParseMode(*mode); err != nil {
		return log.FErrf("%v", err)
	}
	target, err := subscribeURL(*server, *mode)
	if err != nil {
		return log.FErrf("Invalid url %q: %v", *server, err)
	}
	ws, err := websocket.Dial(target, "", "http://localhost/")
	if err != nil {
		return log.FErrf("Error connecting to %s: %v", target, err)
	}
	defer ws.Close()

	restore, err := setRawMode(int(os.Stdin.Fd()))
	if err != nil {
		return log.FErrf("Error setting raw mode: %v", err)
	}
	defer func() { _ = restore() }()

	var sendMu sync.Mutex
	ctrl := newController(func(cmd game.ClientCommand) error {
		sendMu.Lock()
		defer sendMu.Unlock()
		return websocket.JSON.Send(ws, cmd)
	}, 150*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- receive(ws, *cols, *rows, *fps, *color) }()
	go readKeys(ctrl, done)

	err = <-done
	_ = restore()
	if err != nil {
		return log.FErrf("Disconnected: %v", err)
	}
	return 0
}

// receive draws snapshots as they arrive, at most fps times per second.
func receive(ws *websocket.Conn, cols, rows int, fps float64, color bool) error {
	minGap := time.Duration(float64(time.Second) / max(fps, 1))
	var last time.Time
	var player int
	for {
		var raw json.RawMessage
		if err := websocket.JSON.Receive(ws, &raw); err != nil {
			return err
		}
		var msg serverMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warnf("Skipping message: %v", err)
			continue
		}
		switch msg.MessageType {
		case "playerAssignment":
			player = msg.Player
			log.Infof("Joined %s room %s as player %d", msg.Mode, msg.RoomPID, msg.Player)
		case "snapshot":
			if time.Since(last) < minGap {
				continue
			}
			last = time.Now()
			helpers.ClearScreen()
			fmt.Print(render.ASCII(msg.Snapshot, cols, rows, color))
			if player == 0 {
				fmt.Println("spectating")
			} else {
				fmt.Printf("you are P%d\n", player)
			}
		case "gameOver":
			fmt.Printf("Game over, winner P%d. Press r to restart or q to quit.\n", msg.Winner)
		}
	}
}

func readKeys(ctrl *controller, done chan<- error) {
	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			done <- err
			return
		}
		for _, a := range parseKeys(buf[:n]) {
			quit, err := ctrl.handle(a)
			if quit {
				done <- nil
				return
			}
			if err != nil {
				done <- err
				return
			}
		}
	}
}
