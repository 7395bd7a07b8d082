package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// Round state management
	GetState() *GameState
	SetState(state *GameState) error
	NewRound() *GameState
	IsSolved() bool
	GetEmptyPosition() Position

	// Move operations
	Click(x, y int) *MoveDescriptor
	ClickTile(tile int) *MoveDescriptor
	ScrambleStep() (*MoveDescriptor, error)
	Scramble(steps int) ([]MoveDescriptor, error)
	AvailableMoves() []Direction

	// Configuration
	GetConfig() *PuzzleConfig
	SetConfig(config *PuzzleConfig) error

	// History
	GetMoveHistory() []MoveRecord
	GetLastMove() *MoveRecord
}

// PuzzleEngine implements the Engine interface
type PuzzleEngine struct {
	state  *GameState
	config *PuzzleConfig
	rng    *rand.Rand
}

// NewEngine creates a new puzzle engine with the provided configuration. The
// board starts in solved order; call Scramble (or NewRound) to shuffle it.
func NewEngine(config *PuzzleConfig) (*PuzzleEngine, error) {
	return NewEngineWithSeed(config, time.Now().UnixNano())
}

// NewEngineWithSeed creates a new puzzle engine with a deterministic scramble
// walk, used by tests that need reproducible boards.
func NewEngineWithSeed(config *PuzzleConfig, seed int64) (*PuzzleEngine, error) {
	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}

	return &PuzzleEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// NewEngineWithDefaults creates a new puzzle engine with the default
// configuration.
func NewEngineWithDefaults() *PuzzleEngine {
	return &PuzzleEngine{
		state: InitGameStateFromConfig(nil),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetState returns the current round state
func (e *PuzzleEngine) GetState() *GameState {
	return e.state
}

// SetState sets the round state (used for persistence loading)
func (e *PuzzleEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// NewRound discards the board and starts a fresh round: tiles in solved
// order, then the configured number of scramble-walk steps. Cumulative move
// history and totals survive across rounds; the current segment is cleared.
func (e *PuzzleEngine) NewRound() *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.state = InitGameStateFromConfig(e.config)
	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveRecord{}
	e.state.CurrentMovesCount = 0

	if e.config != nil && e.config.ScrambleSteps > 0 {
		// Unreachable error for any valid board; keep the round playable
		// regardless.
		e.state.Scramble(e.config.ScrambleSteps, e.rng)
		if e.config.Messages.Scrambled != "" {
			e.state.Message = fmt.Sprintf(e.config.Messages.Scrambled, e.config.ScrambleSteps)
		}
	}

	return e.state
}

// IsSolved returns whether every tile is back on its home cell
func (e *PuzzleEngine) IsSolved() bool {
	return e.state.IsSolved()
}

// GetEmptyPosition returns the current cell of the empty slot
func (e *PuzzleEngine) GetEmptyPosition() Position {
	return e.state.Empty
}

// Click attempts a player move on the tile at the clicked cell. A click on a
// non-adjacent cell, the empty slot, or outside the board returns nil with
// no state change.
func (e *PuzzleEngine) Click(x, y int) *MoveDescriptor {
	desc := e.state.AttemptMoveAt(x, y)
	e.afterPlayerMove(desc)
	return desc
}

// ClickTile attempts a player move keyed by tile identity instead of cell.
func (e *PuzzleEngine) ClickTile(tile int) *MoveDescriptor {
	desc := e.state.AttemptMove(tile)
	e.afterPlayerMove(desc)
	return desc
}

// afterPlayerMove updates the round message after a click.
func (e *PuzzleEngine) afterPlayerMove(desc *MoveDescriptor) {
	if e.config == nil || desc == nil {
		return
	}
	switch {
	case e.state.IsSolved() && e.config.Messages.Solved != "":
		e.state.Message = e.config.Messages.Solved
	case e.config.Messages.TileSlid != "":
		e.state.Message = fmt.Sprintf(e.config.Messages.TileSlid, desc.Tile+1)
	}
}

// ScrambleStep performs a single scramble-walk step
func (e *PuzzleEngine) ScrambleStep() (*MoveDescriptor, error) {
	return e.state.ScrambleStep(e.rng)
}

// Scramble performs steps sequential scramble-walk steps
func (e *PuzzleEngine) Scramble(steps int) ([]MoveDescriptor, error) {
	return e.state.Scramble(steps, e.rng)
}

// AvailableMoves returns the legal scramble directions for the empty slot
func (e *PuzzleEngine) AvailableMoves() []Direction {
	return e.state.AvailableMoves()
}

// GetConfig returns the current puzzle configuration
func (e *PuzzleEngine) GetConfig() *PuzzleConfig {
	return e.config
}

// SetConfig sets a new puzzle configuration and starts a fresh solved board
func (e *PuzzleEngine) SetConfig(config *PuzzleConfig) error {
	if err := ValidatePuzzleConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *PuzzleEngine) GetMoveHistory() []MoveRecord {
	return e.state.MoveHistory
}

// GetLastMove returns the last move made, or nil if no moves
func (e *PuzzleEngine) GetLastMove() *MoveRecord {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// newRoundID returns a fresh identifier for a round.
func newRoundID() string {
	return uuid.NewString()
}
