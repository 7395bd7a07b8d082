package engine

// Direction represents a slide direction on the board.
//
// Axis convention, used everywhere in this package: Position.X is the column
// and Position.Y is the row. Up decreases Y, Down increases Y, Left decreases
// X, Right increases X. During the scramble walk a Direction describes the
// motion of the empty slot; in a move descriptor it describes the motion of
// the tile that slid.
type Direction string

const (
	DirNone  Direction = ""
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"

	// Validation constants
	MinDimension          = 2
	MaxDimension          = 16
	MaxScrambleSteps      = 10000
	MaxScramblePerRequest = 500
	WebSocketBufferSize   = 256
)

// Directions lists the four slide directions in a fixed order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the x,y offset of one step in the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four slide directions.
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// ParseDirection converts a string to a Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	return d, d.Valid()
}

// Position represents x,y coordinates on the board (x = column, y = row).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Moved returns the position one step away in the given direction.
func (p Position) Moved(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// PuzzleConfig represents the puzzle configuration from JSON.
type PuzzleConfig struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Rows          int    `json:"rows"`
	Columns       int    `json:"columns"`
	ScrambleSteps int    `json:"scramble_steps"`
	Image         string `json:"image"`     // opaque asset reference, passed through to the presentation layer
	TileSize      int    `json:"tile_size"` // pixels per tile edge, presentation pass-through
	Animation     struct {
		SlideMs   int `json:"slide_ms"`
		ShuffleMs int `json:"shuffle_ms"`
	} `json:"animation"`
	Messages struct {
		Welcome      string `json:"welcome"`
		Scrambled    string `json:"scrambled"`
		TileSlid     string `json:"tile_slid"`
		IllegalClick string `json:"illegal_click"`
		Solved       string `json:"solved"`
	} `json:"messages"`
}

// GameState represents the complete state of a puzzle round.
//
// Grid[y][x] holds the identity of the tile currently at that cell; the
// identity is the tile's solved-position index (y*Columns + x). The empty
// slot is the tile whose identity is the last cell, tracked separately in
// Empty for O(1) access. TilePos is the reverse map from identity to the
// tile's current cell.
type GameState struct {
	Rows      int        `json:"rows"`
	Columns   int        `json:"columns"`
	Grid      [][]int    `json:"grid"`
	TilePos   []Position `json:"tile_pos"`
	Empty     Position   `json:"empty"`
	LastMove  Direction  `json:"last_move"` // previous scramble step, used to forbid immediate reversal
	Misplaced int        `json:"misplaced"` // tiles (empty excluded) away from their home cell
	Solved    bool       `json:"solved"`
	Image     string     `json:"image"`
	RoundID   string     `json:"round_id"`
	Message   string     `json:"message"`

	ConfigName  string       `json:"config_name"`
	MoveHistory []MoveRecord `json:"move_history"`
	TotalMoves  int          `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last round start. It
	// mirrors MoveHistory entries but gets cleared on a new round while
	// MoveHistory remains cumulative.
	CurrentMoves      []MoveRecord `json:"current_moves"`
	CurrentMovesCount int          `json:"current_moves_count"`
}

// MoveRecord represents a single move in the round history.
type MoveRecord struct {
	Kind       string    `json:"kind"` // "scramble" or "slide"
	Tile       int       `json:"tile"`
	Direction  Direction `json:"direction"`
	From       Position  `json:"from"`
	To         Position  `json:"to"`
	Timestamp  int64     `json:"timestamp"`
	MoveNumber int       `json:"move_number"`
}

// MoveDescriptor describes a tile's motion for the presentation layer to
// animate: which tile moved, from where to where, and the unit delta in tile
// widths/heights.
type MoveDescriptor struct {
	Tile      int       `json:"tile"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Direction Direction `json:"direction"`
	DX        int       `json:"dx"`
	DY        int       `json:"dy"`
}
