// File: server/handlers.go
package server

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/lguibr/brickduel/bollywood"
	"github.com/lguibr/brickduel/game"
	"github.com/lguibr/brickduel/render"
	"golang.org/x/net/websocket"
)

const (
	defaultASCIICols = 80
	defaultASCIIRows = 30
	maxASCIISize     = 400
)

// HandleSubscribe asks the room manager for a room, hands the connection to
// it and then reads commands until the client leaves.
func (s *Server) HandleSubscribe() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		defer func() {
			if r := recover(); r != nil {
				log.Errf("HandleSubscribe: panic: %v\n%s", r, debug.Stack())
			}
			_ = ws.Close()
		}()

		query := ws.Request().URL.Query()
		mode, err := game.ParseMode(query.Get("mode"))
		if err != nil {
			log.Warnf("HandleSubscribe: %v", err)
			return
		}
		codec, err := codecByName(query.Get("codec"))
		if err != nil {
			log.Warnf("HandleSubscribe: %v", err)
			return
		}
		client := newWSClient(ws, codec)
		defer client.Close()

		reply, err := s.engine.Ask(s.roomManagerPID, game.FindRoomRequest{Mode: mode}, askTimeout)
		if err != nil {
			log.Errf("HandleSubscribe: finding a room for %s: %v", client.addr, err)
			return
		}
		resp, ok := reply.(game.AssignRoomResponse)
		if !ok || resp.RoomPID == nil {
			log.Warnf("HandleSubscribe: no %s room available for %s", mode, client.addr)
			return
		}
		log.Infof("HandleSubscribe: %s joins %s room %s (%s codec)", client.addr, mode, resp.RoomPID, query.Get("codec"))
		s.engine.Send(resp.RoomPID, game.AssignPlayerToRoom{Client: client}, nil)
		s.readLoop(client, resp.RoomPID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Error writing JSON response: %v", err)
	}
}

func (s *Server) roomList() (game.RoomListResponse, error) {
	reply, err := s.engine.Ask(s.roomManagerPID, game.GetRoomListRequest{}, askTimeout)
	if err != nil {
		return game.RoomListResponse{}, err
	}
	switch r := reply.(type) {
	case game.RoomListResponse:
		return r, nil
	case error:
		return game.RoomListResponse{}, r
	}
	return game.RoomListResponse{}, nil
}

// HandleRooms lists the active rooms.
func (s *Server) HandleRooms(w http.ResponseWriter, _ *http.Request) {
	list, err := s.roomList()
	if err != nil {
		log.Errf("HandleRooms: %v", err)
		http.Error(w, "room manager unavailable", http.StatusServiceUnavailable)
		return
	}
	if list.Rooms == nil {
		list.Rooms = map[string]game.RoomSummary{}
	}
	writeJSON(w, http.StatusOK, list.Rooms)
}

// HandleSound serves /sounds/<cue>.wav from the audio bank.
func (s *Server) HandleSound(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".wav")
	if !ok || s.sounds == nil {
		http.NotFound(w, r)
		return
	}
	data, loaded := s.sounds.Clip(name)
	if data == nil {
		http.NotFound(w, r)
		return
	}
	source := "tone"
	if loaded {
		source = "file"
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Sound-Source", source)
	if _, err := w.Write(data); err != nil {
		log.LogVf("HandleSound: write %s: %v", name, err)
	}
}

func sizeParam(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, maxASCIISize)
}

// HandleASCII renders a room's current snapshot as text. Without ?room= the
// first room in id order is used.
func (s *Server) HandleASCII(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("room")
	if id == "" {
		list, err := s.roomList()
		if err != nil {
			http.Error(w, "room manager unavailable", http.StatusServiceUnavailable)
			return
		}
		ids := make([]string, 0, len(list.Rooms))
		for k := range list.Rooms {
			ids = append(ids, k)
		}
		sort.Strings(ids)
		if len(ids) == 0 {
			http.Error(w, "no active rooms", http.StatusNotFound)
			return
		}
		id = ids[0]
	}

	reply, err := s.engine.Ask(s.roomManagerPID, game.GetRoomRequest{ID: id}, askTimeout)
	if err != nil {
		http.Error(w, "room manager unavailable", http.StatusServiceUnavailable)
		return
	}
	resp, _ := reply.(game.AssignRoomResponse)
	if resp.RoomPID == nil {
		http.Error(w, "unknown room "+id, http.StatusNotFound)
		return
	}
	snap, err := s.snapshot(resp.RoomPID)
	if err != nil {
		log.Warnf("HandleASCII: %v", err)
		http.Error(w, "room unavailable", http.StatusServiceUnavailable)
		return
	}

	cols := sizeParam(r, "cols", defaultASCIICols)
	rows := sizeParam(r, "rows", defaultASCIIRows)
	color := r.URL.Query().Get("color") == "1"
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(render.ASCII(snap, cols, rows, color)))
}

func (s *Server) snapshot(room *bollywood.PID) (game.Snapshot, error) {
	reply, err := s.engine.Ask(room, game.GetSnapshotRequest{}, askTimeout)
	if err != nil {
		return game.Snapshot{}, err
	}
	snap, _ := reply.(game.Snapshot)
	return snap, nil
}

// HandleHealth reports liveness and the number of running actors.
func (s *Server) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "actors": s.engine.ActorCount()})
}
