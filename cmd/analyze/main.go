// Command analyze prints quick, human-readable heuristics about puzzle
// configuration files. For each config it validates the file, then runs a
// batch of seeded scrambles and summarizes how mixed the resulting boards are:
// misplaced-tile counts, total tile displacement, and how often a scramble
// lands back on a nearly solved board. Low numbers flag configs whose
// scramble_steps value is too small for the board.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/picslide/picslide/game/engine"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Analyze puzzle configs and their scramble quality",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "configs",
				Value: "configs",
				Usage: "Directory containing puzzle config JSON files",
			},
			&cli.IntFlag{
				Name:  "runs",
				Value: 100,
				Usage: "Number of seeded scrambles per config",
			},
			&cli.IntFlag{
				Name:  "steps",
				Value: 0,
				Usage: "Scramble steps per run (0 uses each config's scramble_steps)",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 1,
				Usage: "Base random seed (run i uses seed+i)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				var err error
				paths, err = listConfigFiles(cmd.String("configs"))
				if err != nil {
					return err
				}
			}

			for _, path := range paths {
				fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
				analyzeConfig(path, int(cmd.Int("runs")), int(cmd.Int("steps")), int64(cmd.Int("seed")))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listConfigFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// scrambleStats aggregates scramble outcomes across a batch of runs.
type scrambleStats struct {
	Runs              int
	MinMisplaced      int
	MaxMisplaced      int
	TotalMisplaced    int
	MinDisplacement   int
	MaxDisplacement   int
	TotalDisplacement int
	SolvedAfter       int // scrambles that landed back on the solved board
}

func analyzeConfig(path string, runs, steps int, seed int64) {
	config, err := engine.LoadPuzzleConfig(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	tiles := config.Rows*config.Columns - 1
	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Board: %d x %d (%d tiles)\n", config.Columns, config.Rows, tiles)
	fmt.Printf("Scramble Steps: %d\n", config.ScrambleSteps)
	fmt.Printf("Image: %s\n", config.Image)

	if steps <= 0 {
		steps = config.ScrambleSteps
	}

	stats, err := runScrambles(config, runs, steps, seed)
	if err != nil {
		fmt.Printf("Error running scrambles: %v\n", err)
		return
	}

	avgMisplaced := float64(stats.TotalMisplaced) / float64(stats.Runs)
	avgDisplacement := float64(stats.TotalDisplacement) / float64(stats.Runs)

	fmt.Printf("\nScramble quality over %d runs of %d steps:\n", stats.Runs, steps)
	fmt.Printf("Misplaced tiles: min %d, avg %.1f, max %d (of %d)\n",
		stats.MinMisplaced, avgMisplaced, stats.MaxMisplaced, tiles)
	fmt.Printf("Total displacement: min %d, avg %.1f, max %d\n",
		stats.MinDisplacement, avgDisplacement, stats.MaxDisplacement)

	if stats.SolvedAfter > 0 {
		fmt.Printf("⚠️  WARNING: %d of %d scrambles produced an already-solved board\n",
			stats.SolvedAfter, stats.Runs)
	}

	// Rule of thumb: a good mix needs at least two walk steps per cell
	recommended := 2 * config.Rows * config.Columns
	if steps < recommended {
		fmt.Printf("⚠️  WARNING: %d steps is low for a %dx%d board (recommend at least %d)\n",
			steps, config.Columns, config.Rows, recommended)
	} else if avgMisplaced < float64(tiles)/2 {
		fmt.Printf("⚠️  WARNING: scrambles leave most tiles at home on average\n")
	} else {
		fmt.Printf("✅ Scramble settings mix the board well\n")
	}
}

func runScrambles(config *engine.PuzzleConfig, runs, steps int, seed int64) (*scrambleStats, error) {
	stats := &scrambleStats{
		Runs:            runs,
		MinMisplaced:    int(^uint(0) >> 1),
		MinDisplacement: int(^uint(0) >> 1),
	}

	for i := 0; i < runs; i++ {
		eng, err := engine.NewEngineWithSeed(config, seed+int64(i))
		if err != nil {
			return nil, err
		}

		if _, err := eng.Scramble(steps); err != nil {
			return nil, err
		}

		state := eng.GetState()
		displacement := engine.TotalDisplacement(state)

		stats.TotalMisplaced += state.Misplaced
		stats.TotalDisplacement += displacement
		if state.Misplaced < stats.MinMisplaced {
			stats.MinMisplaced = state.Misplaced
		}
		if state.Misplaced > stats.MaxMisplaced {
			stats.MaxMisplaced = state.Misplaced
		}
		if displacement < stats.MinDisplacement {
			stats.MinDisplacement = displacement
		}
		if displacement > stats.MaxDisplacement {
			stats.MaxDisplacement = displacement
		}
		if state.Solved {
			stats.SolvedAfter++
		}
	}

	return stats, nil
}
