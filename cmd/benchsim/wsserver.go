package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// wsServer pushes periodic JSON Snapshot messages to any connected browser,
// for a remote bench dashboard. It streams Go structs marshaled by the
// simulator, never wire-format bytes: it is not a client of the shipped
// COBS/CRC protocol.
type wsServer struct {
	addr     string
	stats    *liveStats
	upgrader websocket.Upgrader
}

func newWsServer(addr string, stats *liveStats) *wsServer {
	return &wsServer{
		addr:  addr,
		stats: stats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *wsServer) Serve() {
	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	log.Printf("benchsim: websocket dashboard feed on ws://%s/stats", s.addr)
	if err := http.ListenAndServe(s.addr, mux); err != nil {
		log.Printf("benchsim: websocket server stopped: %v", err)
	}
}

func (s *wsServer) handleStats(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("benchsim: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		payload, err := json.Marshal(s.stats.Snapshot())
		if err != nil {
			log.Printf("benchsim: marshal snapshot: %v", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
