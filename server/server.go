// File: server/server.go
package server

import (
	"net/http"
	"time"

	"github.com/lguibr/brickduel/audio"
	"github.com/lguibr/brickduel/bollywood"
	"golang.org/x/net/websocket"
)

const askTimeout = 2 * time.Second

// Server exposes the room manager over HTTP and websockets.
type Server struct {
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
	sounds         *audio.Bank // May be nil, /sounds then answers 404
}

func New(engine *bollywood.Engine, roomManagerPID *bollywood.PID, sounds *audio.Bank) *Server {
	return &Server{engine: engine, roomManagerPID: roomManagerPID, sounds: sounds}
}

// Routes returns the handler serving every endpoint.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/subscribe", websocket.Handler(s.HandleSubscribe()))
	mux.HandleFunc("GET /rooms", s.HandleRooms)
	mux.HandleFunc("GET /sounds/{file}", s.HandleSound)
	mux.HandleFunc("GET /debug/ascii", s.HandleASCII)
	mux.HandleFunc("GET /healthz", s.HandleHealth)
	return mux
}
