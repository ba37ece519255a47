package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func (s *server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range s.origins {
				if o == "*" || o == origin {
					return true
				}
			}
			return false
		},
	}
}

// handleWatch streams a session snapshot over a websocket every time the session changes.
func (s *server) handleWatch(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("watch %s: upgrade: %v", id, err)
		return
	}
	defer conn.Close()

	updates, stop := sess.Watch()
	defer stop()

	// Read pump: only control frames are expected; any read error ends the stream.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(sessionResp{ID: id, Snapshot: snap}); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
