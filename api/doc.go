// Package api provides the HTTP REST layer for PicSlide.
//
// The api package implements:
//   - RESTful endpoints for puzzle operations
//   - Session management endpoints
//   - Configuration listing, retrieval, and creation
//   - WebSocket upgrade handling
//   - Static file serving for tile images and the front end
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List sessions (sort, order, limit)
//   - GET /api/sessions/summary - Aggregate view across sessions
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Puzzle Operations:
//   - GET /api/sessions/{id}/state - Current board state
//   - POST /api/sessions/{id}/click - Slide a tile by cell or tile number
//   - POST /api/sessions/{id}/scramble - Walk the empty slot N random steps
//   - POST /api/sessions/{id}/new-round - Fresh scrambled round
//   - GET /api/sessions/{id}/history - Paginated move history
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get a configuration
//
// All endpoints accept and return JSON. Click bodies carry either a cell
// ({"x":2,"y":1}) or a 1-based tile number ({"tile":6}). Board updates are
// broadcast to WebSocket clients subscribed to the session via /ws.
package api
