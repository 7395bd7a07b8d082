// Package websocket provides real-time board updates for PicSlide clients.
//
// The Hub tracks connected clients grouped by session ID and pushes JSON
// messages whenever a session's board changes: after clicks, scrambles, and
// new rounds. Clients connect through the REST server's /ws endpoint with a
// session query parameter; the connection is read-only from the client's
// perspective, clicks travel over the REST API.
//
// Each client runs the standard gorilla read/write pump pair: the read pump
// watches for disconnects and answers pings, the write pump coalesces queued
// messages and emits periodic pings. Slow clients whose send buffer fills are
// dropped rather than allowed to stall a broadcast.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// From an HTTP handler
//	hub.ServeWS(w, r, sessionID)
//
//	// After a board change
//	hub.BroadcastToSession(sessionID, state)
package websocket
