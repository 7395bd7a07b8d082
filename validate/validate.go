// Command validate provides a small CLI that validates puzzle configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields (name, description, image, messages)
//   - Board dimensions within the supported range
//   - Scramble step limits and format strings in templated messages
//   - Playability: enough scramble steps to actually mix the board
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/picslide/picslide/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It runs the engine's structural validation first, then the playability
// checks that only matter for shipped configs.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	config, err := engine.LoadPuzzleConfig(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	playability := validatePlayability(config)
	if !playability.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, playability.Errors...)

	// Add informational data
	if result.Valid {
		tiles := config.Rows*config.Columns - 1
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d (%d tiles)", config.Columns, config.Rows, tiles))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Scramble steps: %d", config.ScrambleSteps))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Image: %s", config.Image))
	}

	return result
}

// validatePlayability checks constraints that the engine accepts but that make
// a shipped config pointless or confusing: a zero-step scramble hands the
// player an already solved board, and a scramble shorter than the board
// diameter cannot move the far corner tiles at all.
func validatePlayability(config *engine.PuzzleConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if config.ScrambleSteps == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "scramble_steps is 0: every round would start solved")
		return result
	}

	diameter := config.Rows + config.Columns - 2
	if config.ScrambleSteps < diameter {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"scramble_steps %d is below the board diameter %d: tiles near the top-left corner can never move",
			config.ScrambleSteps, diameter))
		return result
	}

	// Rule of thumb shared with the analyze command
	recommended := 2 * config.Rows * config.Columns
	if config.ScrambleSteps < recommended {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"✓ Playable, but %d scramble steps is low for a %dx%d board (recommend at least %d)",
			config.ScrambleSteps, config.Columns, config.Rows, recommended))
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Scramble: %d steps mixes a %dx%d board well",
			config.ScrambleSteps, config.Columns, config.Rows))
	}

	return result
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
