// Package websocket pushes board updates to browsers watching a session.
//
// A central Hub owns every connection. Each client gets a read goroutine,
// which only keeps the connection alive, and a write goroutine that drains
// its queue and sends pings. All changes to the client map happen on the
// goroutine running Hub.Run.
//
// Message Protocol:
//
// The server sends one JSON object per text frame:
//
//	{"session_id": "3f2a9c1e", "event": "board_update", "board": {...}}
//	{"session_id": "3f2a9c1e", "event": "session_deleted"}
//
// Clients attach with /ws?session=<id> and receive the current board first.
//
// Usage:
//
//	hub := websocket.NewHub(logger, nil)
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"), board)
//	})
//	hub.BroadcastBoard(sessionID, board)
package websocket
