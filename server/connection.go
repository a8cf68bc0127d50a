// File: server/connection.go
package server

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/game"
	"golang.org/x/net/websocket"
)

const (
	writeTimeout    = 2 * time.Second
	readTimeout     = 90 * time.Second
	maxCommandBytes = 16 << 10
)

// wsClient adapts a websocket connection and its codec to game.Client.
type wsClient struct {
	conn  *websocket.Conn
	codec websocket.Codec
	addr  string

	mu        sync.Mutex // Serializes writes
	closeOnce sync.Once
	closeErr  error
}

func newWSClient(conn *websocket.Conn, codec websocket.Codec) *wsClient {
	addr := "unknown"
	if req := conn.Request(); req != nil && req.RemoteAddr != "" {
		addr = req.RemoteAddr
	}
	conn.MaxPayloadBytes = maxCommandBytes
	return &wsClient{conn: conn, codec: codec, addr: addr}
}

func (c *wsClient) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.codec.Send(c.conn, v)
}

func (c *wsClient) Close() error {
	c.closeOnce.Do(func() { c.closeErr = c.conn.Close() })
	return c.closeErr
}

func (c *wsClient) RemoteAddr() string { return c.addr }

// readLoop forwards decoded commands to the room until the connection fails,
// then tells the room the client is gone. Frames that do not decode are
// skipped.
func (s *Server) readLoop(c *wsClient, roomPID *bollywood.PID) {
	defer s.engine.Send(roomPID, game.PlayerDisconnect{Client: c}, nil)

	for {
		var cmd game.ClientCommand
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		err := c.codec.Receive(c.conn, &cmd)
		if errors.Is(err, errBadFrame) {
			log.LogVf("Client %s: skipping frame: %v", c.addr, err)
			continue
		}
		if err != nil {
			var netErr net.Error
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				log.LogVf("Client %s: connection closed", c.addr)
			case errors.As(err, &netErr) && netErr.Timeout():
				log.Infof("Client %s: read timeout, assuming disconnect", c.addr)
			default:
				log.Warnf("Client %s: read error: %v", c.addr, err)
			}
			return
		}
		s.engine.Send(roomPID, game.PlayerCommand{Client: c, Command: cmd}, nil)
	}
}
