package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/picslide/picslide/game/engine"
)

const classicJSON = `{
	"name": "Classic",
	"description": "The classic 15-puzzle",
	"rows": 4,
	"columns": 4,
	"scramble_steps": 80,
	"image": "images/classic.png",
	"tile_size": 96,
	"animation": {"slide_ms": 120, "shuffle_ms": 35},
	"messages": {
		"welcome": "Welcome!",
		"scrambled": "Scrambled with %d moves",
		"tile_slid": "Tile %d slid",
		"illegal_click": "Not next to the gap",
		"solved": "Solved!"
	}
}`

const miniJSON = `{
	"name": "Mini",
	"description": "A quick 3x3 round",
	"rows": 3,
	"columns": 3,
	"scramble_steps": 30,
	"image": "images/mini.png",
	"tile_size": 128,
	"messages": {"welcome": "Hi", "solved": "Done"}
}`

func newTestManager(t *testing.T, files map[string]string) *Manager {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	return m
}

func TestNewManager_MissingDirectory(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Expected error for missing config directory")
	}
}

func TestLoadConfig(t *testing.T) {
	m := newTestManager(t, map[string]string{"classic.json": classicJSON})

	config, err := m.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Name != "Classic" {
		t.Errorf("Expected name Classic, got %q", config.Name)
	}
	if config.Rows != 4 || config.Columns != 4 {
		t.Errorf("Expected a 4x4 board, got %dx%d", config.Rows, config.Columns)
	}

	// The cache serves the same instance on repeat loads
	again, err := m.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if again != config {
		t.Error("Expected the cached config instance")
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	m := newTestManager(t, map[string]string{"classic.json": classicJSON})

	if _, err := m.LoadConfig("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	m := newTestManager(t, map[string]string{
		"classic.json": classicJSON,
		"broken.json":  `{"name": "Broken", "rows": 1}`,
	})

	if _, err := m.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestListConfigs(t *testing.T) {
	m := newTestManager(t, map[string]string{
		"classic.json": classicJSON,
		"mini.json":    miniJSON,
		"broken.json":  `{"name": "Broken"}`,
		"notes.txt":    "not a config",
	})

	configs, err := m.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}

	// Invalid files and non-JSON files are skipped
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}

	byID := map[string]bool{}
	for _, c := range configs {
		byID[c.ConfigID] = true
		if c.Rows == 0 || c.Columns == 0 {
			t.Errorf("Expected dimensions in config info, got %+v", c)
		}
	}
	if !byID["classic"] || !byID["mini"] {
		t.Errorf("Expected classic and mini config IDs, got %v", byID)
	}
}

func TestGetDefault(t *testing.T) {
	// classic.json wins when present
	m := newTestManager(t, map[string]string{
		"classic.json": classicJSON,
		"mini.json":    miniJSON,
	})
	if m.GetDefault().Name != "Classic" {
		t.Errorf("Expected classic default, got %q", m.GetDefault().Name)
	}

	// Otherwise the first valid config on disk
	m = newTestManager(t, map[string]string{"mini.json": miniJSON})
	if m.GetDefault().Name != "Mini" {
		t.Errorf("Expected mini default, got %q", m.GetDefault().Name)
	}

	// An empty directory falls back to the built-in board
	m = newTestManager(t, nil)
	def := m.GetDefault()
	if def == nil {
		t.Fatal("Expected a built-in default config")
	}
	if err := engine.ValidatePuzzleConfig(def); err != nil {
		t.Errorf("Expected the built-in default to validate: %v", err)
	}
}

func TestSetDefault(t *testing.T) {
	m := newTestManager(t, map[string]string{
		"classic.json": classicJSON,
		"mini.json":    miniJSON,
	})

	if err := m.SetDefault("mini"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if m.GetDefault().Name != "Mini" {
		t.Errorf("Expected mini default, got %q", m.GetDefault().Name)
	}

	if err := m.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestSaveConfig(t *testing.T) {
	m := newTestManager(t, map[string]string{"classic.json": classicJSON})

	config := &engine.PuzzleConfig{
		Name:          "Wide",
		Description:   "A wide 3x5 board",
		Rows:          3,
		Columns:       5,
		ScrambleSteps: 60,
		Image:         "images/wide.png",
		TileSize:      80,
	}
	config.Messages.Welcome = "Hello"
	config.Messages.Solved = "Done"

	if err := m.SaveConfig("wide", config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := m.LoadConfig("wide")
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Columns != 5 {
		t.Errorf("Expected 5 columns, got %d", loaded.Columns)
	}

	// Validation rejects unplayable configs before writing
	bad := &engine.PuzzleConfig{Name: "Bad"}
	if err := m.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestRefreshCache(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), []byte(classicJSON), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	first, _ := m.LoadConfig("classic")

	if err := m.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}

	second, err := m.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if first == second {
		t.Error("Expected a fresh instance after the cache refresh")
	}
}
