package service

import (
	"time"

	"github.com/picslide/picslide/game/engine"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string               `json:"id"`
	ConfigName     string               `json:"config_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	GameConfig     *engine.PuzzleConfig `json:"game_config"`
}

// ClickResult contains the result of a player click
type ClickResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Solved    bool              `json:"solved"`
	Events    []GameEvent       `json:"events,omitempty"`

	// Set only when the click slid a tile
	Move *engine.MoveDescriptor `json:"move,omitempty"`

	// Failure diagnostics for an ignored click
	AttemptedTo *AttemptInfo `json:"attempted_to,omitempty"`

	// Tiles currently next to the gap (1-based numbers)
	SlidableTiles []int `json:"slidable_tiles"`
}

// ScrambleResult contains the result of a scramble request
type ScrambleResult struct {
	StepsRequested int                     `json:"steps_requested"`
	StepsExecuted  int                     `json:"steps_executed"`
	Truncated      bool                    `json:"truncated,omitempty"`
	Limit          int                     `json:"limit,omitempty"`
	GameState      *engine.GameState       `json:"game_state"`
	Moves          []engine.MoveDescriptor `json:"moves"`
	Events         []GameEvent             `json:"events"`
	Message        string                  `json:"message,omitempty"`
}

// AttemptInfo details a click that did not move anything
type AttemptInfo struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Tile     int    `json:"tile"`
	Reason   string `json:"reason"` // "out_of_bounds", "empty_slot", "not_adjacent"
	Adjacent bool   `json:"adjacent"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string          `json:"type"` // "slide", "scramble", "solved", "new_round"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveRecord `json:"moves"`
	TotalMoves  int                 `json:"total_moves"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Columns     int    `json:"columns"`
	Image       string `json:"image"`
}
