package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePuzzleConfig validates a puzzle configuration for correctness and
// playability
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate dimensions
	if config.Rows < MinDimension || config.Columns < MinDimension {
		return fmt.Errorf("config validation: %w: got %dx%d", ErrInvalidDimension, config.Rows, config.Columns)
	}
	if config.Rows > MaxDimension || config.Columns > MaxDimension {
		return fmt.Errorf("config validation: rows and columns must be at most %d, got %dx%d",
			MaxDimension, config.Rows, config.Columns)
	}

	// Validate scramble settings
	if config.ScrambleSteps < 0 {
		return fmt.Errorf("config validation: scramble_steps must not be negative, got %d", config.ScrambleSteps)
	}
	if config.ScrambleSteps > MaxScrambleSteps {
		return fmt.Errorf("config validation: scramble_steps must be at most %d, got %d",
			MaxScrambleSteps, config.ScrambleSteps)
	}

	// Validate presentation pass-throughs
	if config.Image == "" {
		return fmt.Errorf("config validation: image is required")
	}
	if config.TileSize < 0 {
		return fmt.Errorf("config validation: tile_size must not be negative, got %d", config.TileSize)
	}
	if config.Animation.SlideMs < 0 || config.Animation.ShuffleMs < 0 {
		return fmt.Errorf("config validation: animation durations must not be negative")
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Solved == "" {
		return fmt.Errorf("config validation: messages.solved is required")
	}

	// Validate format strings
	if config.Messages.Scrambled != "" && !strings.Contains(config.Messages.Scrambled, "%d") {
		return fmt.Errorf("config validation: messages.scrambled must contain %%d for the step count")
	}
	if config.Messages.TileSlid != "" && !strings.Contains(config.Messages.TileSlid, "%d") {
		return fmt.Errorf("config validation: messages.tile_slid must contain %%d for the tile number")
	}

	return nil
}

// LoadPuzzleConfig loads a puzzle configuration from a JSON file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidatePuzzleConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a puzzle configuration by name from the configs
// directory
func LoadConfigByName(configName string) (*PuzzleConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %v", configName, err)
	}

	var config PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", configName, err)
	}

	if err := ValidatePuzzleConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %v", configName, err)
	}

	return &config, nil
}

// InitGameStateFromConfig creates a fresh solved round state using the
// provided configuration. The board is NOT scrambled here; NewRound applies
// the configured walk so callers can also observe the solved layout.
func InitGameStateFromConfig(config *PuzzleConfig) *GameState {
	if config == nil {
		// Use default config if not provided
		config = &PuzzleConfig{
			Name:          "classic",
			Description:   "Classic 15-puzzle over the default picture",
			Rows:          4,
			Columns:       4,
			ScrambleSteps: 80,
			Image:         "images/classic.png",
			TileSize:      96,
		}
		config.Animation.SlideMs = 120
		config.Animation.ShuffleMs = 35
		config.Messages.Welcome = "Welcome! Click a tile next to the gap to slide it."
		config.Messages.Scrambled = "Board scrambled with %d moves. Good luck!"
		config.Messages.TileSlid = "Tile %d slid into place"
		config.Messages.IllegalClick = "That tile is not next to the gap"
		config.Messages.Solved = "Solved! The picture is whole again."
	}

	// Dimensions are validated before an engine is built, so this cannot
	// fail for engine-owned configs.
	state, err := NewGameState(config.Rows, config.Columns)
	if err != nil {
		state, _ = NewGameState(MinDimension, MinDimension)
	}

	state.ConfigName = config.Name
	state.Image = config.Image
	state.RoundID = newRoundID()
	state.Message = config.Messages.Welcome
	return state
}
