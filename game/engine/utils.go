package engine

// CountMisplaced scans the whole board and counts tiles (empty slot
// excluded) away from their home cell. The state keeps a running count; this
// full scan exists for cross-checks and for restored snapshots.
func CountMisplaced(gs *GameState) int {
	count := 0
	for y := 0; y < gs.Rows; y++ {
		for x := 0; x < gs.Columns; x++ {
			id := gs.Grid[y][x]
			if id == gs.EmptyTile() {
				continue
			}
			if gs.HomePosition(id) != (Position{X: x, Y: y}) {
				count++
			}
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// TotalDisplacement sums each tile's Manhattan distance from its home cell,
// a rough measure of how well scrambled the board is.
func TotalDisplacement(gs *GameState) int {
	sum := 0
	for id, pos := range gs.TilePos {
		if id == gs.EmptyTile() {
			continue
		}
		sum += ManhattanDistance(pos, gs.HomePosition(id))
	}
	return sum
}

// ConsistencyCheck verifies the board invariant: the set of tile positions
// is exactly the set of grid cells, each used once, and Grid/TilePos agree.
func ConsistencyCheck(gs *GameState) bool {
	if len(gs.TilePos) != gs.TileCount() {
		return false
	}
	seen := make(map[Position]bool, gs.TileCount())
	for id, pos := range gs.TilePos {
		if !gs.InBounds(pos) || seen[pos] {
			return false
		}
		seen[pos] = true
		if gs.Grid[pos.Y][pos.X] != id {
			return false
		}
	}
	return gs.TilePos[gs.EmptyTile()] == gs.Empty
}
