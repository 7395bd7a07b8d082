package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	// ErrInvalidDimension is returned when a board is requested with fewer
	// than two rows or columns. A 1-wide puzzle has no meaningful moves.
	ErrInvalidDimension = errors.New("rows and columns must be at least 2")

	// ErrNoMoveAvailable is returned when a scramble step finds no legal
	// move. Unreachable on any valid board, but a silent no-op would
	// desynchronize the iteration counter from actual scramble depth.
	ErrNoMoveAvailable = errors.New("no scramble move available")
)

// NewGameState creates a solved board of the given dimensions. Every tile
// sits on its home cell and the empty slot is the last cell in row-major
// order.
func NewGameState(rows, columns int) (*GameState, error) {
	if rows < MinDimension || columns < MinDimension {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimension, rows, columns)
	}

	grid := make([][]int, rows)
	tilePos := make([]Position, rows*columns)
	for y := 0; y < rows; y++ {
		grid[y] = make([]int, columns)
		for x := 0; x < columns; x++ {
			id := y*columns + x
			grid[y][x] = id
			tilePos[id] = Position{X: x, Y: y}
		}
	}

	return &GameState{
		Rows:         rows,
		Columns:      columns,
		Grid:         grid,
		TilePos:      tilePos,
		Empty:        Position{X: columns - 1, Y: rows - 1},
		LastMove:     DirNone,
		Misplaced:    0,
		Solved:       true,
		MoveHistory:  []MoveRecord{},
		CurrentMoves: []MoveRecord{},
	}, nil
}

// EmptyTile returns the identity of the empty slot's sentinel tile: the last
// cell in row-major order.
func (gs *GameState) EmptyTile() int {
	return gs.Rows*gs.Columns - 1
}

// TileCount returns the number of cells on the board, empty slot included.
func (gs *GameState) TileCount() int {
	return gs.Rows * gs.Columns
}

// HomePosition returns the solved-position cell for a tile identity.
func (gs *GameState) HomePosition(tile int) Position {
	return Position{X: tile % gs.Columns, Y: tile / gs.Columns}
}

// InBounds reports whether the cell lies on the board.
func (gs *GameState) InBounds(p Position) bool {
	return p.X >= 0 && p.X < gs.Columns && p.Y >= 0 && p.Y < gs.Rows
}

// TileAt returns the identity of the tile at the given cell.
func (gs *GameState) TileAt(x, y int) (int, bool) {
	p := Position{X: x, Y: y}
	if !gs.InBounds(p) {
		return 0, false
	}
	return gs.Grid[y][x], true
}

// AvailableMoves returns the directions the empty slot may move in the
// scramble walk: in bounds, and never the direct reverse of the previous
// step. The reversal exclusion keeps the walk from undoing itself; it
// reduces but does not eliminate short cycles, which is accepted behavior.
func (gs *GameState) AvailableMoves() []Direction {
	moves := make([]Direction, 0, 4)
	for _, d := range Directions {
		if gs.LastMove != DirNone && d == gs.LastMove.Reverse() {
			continue
		}
		if gs.InBounds(gs.Empty.Moved(d)) {
			moves = append(moves, d)
		}
	}
	return moves
}

// ScrambleStep performs one step of the scramble walk: it picks a direction
// uniformly at random from AvailableMoves, slides the empty slot one cell
// that way (swapping with the tile behind it), and records the direction as
// LastMove. The returned descriptor reports the displaced tile's motion.
//
// Every step is a single adjacent swap from a solvable state, so the board
// stays reachable from solved and therefore solvable. Steps must be applied
// strictly sequentially: each step's legal-move set depends on the previous
// step's LastMove and empty-slot position.
func (gs *GameState) ScrambleStep(rng *rand.Rand) (*MoveDescriptor, error) {
	moves := gs.AvailableMoves()
	if len(moves) == 0 {
		return nil, ErrNoMoveAvailable
	}

	dir := moves[rng.Intn(len(moves))]
	desc := gs.slide(gs.Empty.Moved(dir))
	gs.LastMove = dir
	gs.addMove("scramble", desc)
	return desc, nil
}

// Scramble runs steps sequential scramble-walk steps.
func (gs *GameState) Scramble(steps int, rng *rand.Rand) ([]MoveDescriptor, error) {
	descs := make([]MoveDescriptor, 0, steps)
	for i := 0; i < steps; i++ {
		desc, err := gs.ScrambleStep(rng)
		if err != nil {
			return descs, err
		}
		descs = append(descs, *desc)
	}
	return descs, nil
}

// AttemptMove validates and applies a player move on the given tile. The
// move is legal iff the tile is one of the four orthogonal neighbors of the
// empty slot; a non-adjacent (or out-of-range, or empty-sentinel) tile is
// not an error, just a no-op returning nil with zero state change.
//
// On success the tile swaps into the empty slot and the returned descriptor
// carries the motion delta for the presentation layer to animate. LastMove
// is scramble-only and is not updated here.
func (gs *GameState) AttemptMove(tile int) *MoveDescriptor {
	if tile < 0 || tile >= gs.TileCount() || tile == gs.EmptyTile() {
		return nil
	}
	cell := gs.TilePos[tile]
	if !gs.adjacentToEmpty(cell) {
		return nil
	}

	desc := gs.slide(cell)
	gs.addMove("slide", desc)
	return desc
}

// AttemptMoveAt is AttemptMove keyed by the clicked cell instead of the tile
// identity. Clicking the empty slot itself is a no-op.
func (gs *GameState) AttemptMoveAt(x, y int) *MoveDescriptor {
	tile, ok := gs.TileAt(x, y)
	if !ok {
		return nil
	}
	return gs.AttemptMove(tile)
}

// IsSolved reports whether every tile sits on its home cell. The running
// misplaced count makes this O(1).
func (gs *GameState) IsSolved() bool {
	return gs.Misplaced == 0
}

// adjacentToEmpty reports whether the cell shares a row with the empty slot
// and is one column away, or shares a column and is one row away.
func (gs *GameState) adjacentToEmpty(p Position) bool {
	dx := p.X - gs.Empty.X
	dy := p.Y - gs.Empty.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// slide swaps the tile at tileCell with the empty slot and maintains the
// reverse map, the misplaced count, and the solved flag. tileCell must be
// adjacent to the empty slot.
func (gs *GameState) slide(tileCell Position) *MoveDescriptor {
	tile := gs.Grid[tileCell.Y][tileCell.X]
	target := gs.Empty

	wasHome := gs.TilePos[tile] == gs.HomePosition(tile)

	gs.Grid[target.Y][target.X] = tile
	gs.Grid[tileCell.Y][tileCell.X] = gs.EmptyTile()
	gs.TilePos[tile] = target
	gs.TilePos[gs.EmptyTile()] = tileCell
	gs.Empty = tileCell

	isHome := target == gs.HomePosition(tile)
	if wasHome && !isHome {
		gs.Misplaced++
	} else if !wasHome && isHome {
		gs.Misplaced--
	}
	gs.Solved = gs.Misplaced == 0

	dx := target.X - tileCell.X
	dy := target.Y - tileCell.Y
	return &MoveDescriptor{
		Tile:      tile,
		From:      tileCell,
		To:        target,
		Direction: directionOf(dx, dy),
		DX:        dx,
		DY:        dy,
	}
}

// addMove appends a move to the cumulative history and the current-round
// segment.
func (gs *GameState) addMove(kind string, desc *MoveDescriptor) {
	entry := MoveRecord{
		Kind:       kind,
		Tile:       desc.Tile,
		Direction:  desc.Direction,
		From:       desc.From,
		To:         desc.To,
		Timestamp:  time.Now().Unix(),
		MoveNumber: gs.TotalMoves + 1,
	}
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}

// directionOf maps a unit cell delta to its Direction.
func directionOf(dx, dy int) Direction {
	switch {
	case dx == 1 && dy == 0:
		return DirRight
	case dx == -1 && dy == 0:
		return DirLeft
	case dx == 0 && dy == 1:
		return DirDown
	case dx == 0 && dy == -1:
		return DirUp
	default:
		return DirNone
	}
}
