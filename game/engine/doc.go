// Package engine provides the core logic for the PicSlide puzzle.
//
// The engine package implements the sliding-tile mechanics including:
//   - Board representation with O(1) cell and tile lookup
//   - The randomized scramble walk that keeps every board solvable
//   - Player move validation against the empty slot's neighbors
//   - Solved-state detection and move history
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for puzzle operations,
// implemented by PuzzleEngine. GameState represents the current round,
// while PuzzleConfig defines the board dimensions, scramble depth, and the
// presentation pass-throughs loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.NewRound()                 // scrambles per the config
//	desc := eng.Click(2, 3)        // nil when the click is not next to the gap
//	solved := eng.IsSolved()
//
// Scramble Walk:
//
// The board is shuffled by walking the empty slot through a sequence of
// random legal moves starting from the solved layout. Because every step is
// a single adjacent swap, every intermediate board stays reachable from
// solved and is therefore guaranteed solvable; no shuffle path may bypass
// the walk. Each step refuses to directly reverse the previous one, which
// keeps the walk from trivially undoing itself but is not a rigorous
// randomness guarantee.
package engine
