package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/picslide/picslide/game/engine"
	"github.com/picslide/picslide/game/service"
)

// stubConfigManager serves a fixed set of configs for persistence tests
type stubConfigManager struct {
	configs map[string]*engine.PuzzleConfig
}

func newStubConfigManager() *stubConfigManager {
	return &stubConfigManager{
		configs: map[string]*engine.PuzzleConfig{
			"session-test": testConfig(),
		},
	}
}

func (s *stubConfigManager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	config, ok := s.configs[name]
	if !ok {
		return nil, fmt.Errorf("configuration not found: %s", name)
	}
	return config, nil
}

func (s *stubConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(s.configs))
	for id, config := range s.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Rows:        config.Rows,
			Columns:     config.Columns,
			Image:       config.Image,
		})
	}
	return result, nil
}

func (s *stubConfigManager) GetDefault() *engine.PuzzleConfig {
	return s.configs["session-test"]
}

func (s *stubConfigManager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	s.configs[name] = config
	return nil
}

func newTestPersistence(t *testing.T) *FilePersistence {
	t.Helper()
	fp, err := NewFilePersistence(t.TempDir(), newStubConfigManager())
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return fp
}

func TestFilePersistence_SaveAndLoad(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	session, err := manager.Create("ab78", testConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Move the board so the snapshot is distinguishable from a fresh one.
	// On the solved 3x3 board, tile 7 sits next to the gap.
	if desc := session.Engine.ClickTile(7); desc == nil {
		t.Fatal("Expected the adjacent tile to slide")
	}
	if err := manager.Save("ab78"); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := fp.Load("ab78")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	if loaded.ID != "ab78" {
		t.Errorf("Expected session ab78, got %q", loaded.ID)
	}
	state := loaded.Engine.GetState()
	if state.Solved {
		t.Error("Expected the restored board to keep the slid tile")
	}
	if state.TilePos[7] != (engine.Position{X: 2, Y: 2}) {
		t.Errorf("Expected tile 7 restored at (2,2), got %+v", state.TilePos[7])
	}
	if !engine.ConsistencyCheck(state) {
		t.Error("Restored board failed the consistency check")
	}
}

func TestFilePersistence_LoadMissing(t *testing.T) {
	fp := newTestPersistence(t)

	if _, err := fp.Load("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestFilePersistence_DeleteAndExists(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	if _, err := manager.Create("ab90", testConfig()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if !fp.Exists("ab90") {
		t.Error("Expected the snapshot to exist after create")
	}
	if err := fp.Delete("ab90"); err != nil {
		t.Errorf("Failed to delete snapshot: %v", err)
	}
	if fp.Exists("ab90") {
		t.Error("Expected the snapshot gone after delete")
	}
	if err := fp.Delete("ab90"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on double delete, got %v", err)
	}
}

func TestFilePersistence_ListAll(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	for _, id := range []string{"aa11", "bb22", "cc33"} {
		if _, err := manager.Create(id, testConfig()); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 snapshots, got %d: %v", len(ids), ids)
	}
}
