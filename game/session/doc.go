// Package session manages puzzle session lifecycle and persistence.
//
// The Manager keeps active sessions in memory, keyed by case-insensitive
// 4-character hex IDs, and optionally writes JSON snapshots through a
// SessionPersistence implementation so sessions survive restarts.
// FilePersistence is the file-backed implementation, storing one
// <id>.json snapshot per session with the config ID and the full board
// state.
//
// Expired sessions are reclaimed by CleanupExpiredSessions, typically from
// a periodic goroutine owned by the server process.
package session
