// Package config loads puzzle configurations from a directory of JSON files.
//
// The Manager caches parsed configurations behind an RWMutex and serves a
// default configuration: classic.json when present, otherwise the first
// valid file on disk, otherwise a built-in 4x4 board. Config IDs are the
// filenames without the .json extension and are the identifiers clients use
// when creating sessions.
package config
