package session

import (
	"errors"
	"testing"
)

func TestManager_GetFallsBackToSnapshots(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	if _, err := manager.Create("cd12", testConfig()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Evict from memory; the snapshot remains on disk
	if err := manager.DeleteFromMemory("cd12"); err != nil {
		t.Fatalf("DeleteFromMemory failed: %v", err)
	}
	if manager.Count() != 0 {
		t.Fatal("Expected no sessions in memory")
	}

	session, err := manager.Get("CD12")
	if err != nil {
		t.Fatalf("Expected Get to restore from the snapshot: %v", err)
	}
	if session.ID != "cd12" {
		t.Errorf("Expected session cd12, got %q", session.ID)
	}
	if manager.Count() != 1 {
		t.Error("Expected the restored session cached in memory")
	}
}

func TestManager_LoadPersistedSessions(t *testing.T) {
	fp := newTestPersistence(t)

	seed := NewManagerWithPersistence(fp)
	for _, id := range []string{"dd44", "ee55"} {
		if _, err := seed.Create(id, testConfig()); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	// A fresh manager over the same store starts empty, then loads both
	manager := NewManagerWithPersistence(fp)
	if manager.Count() != 0 {
		t.Fatal("Expected a fresh manager to start empty")
	}
	if err := manager.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if manager.Count() != 2 {
		t.Errorf("Expected 2 sessions loaded, got %d", manager.Count())
	}
}

func TestManager_SaveAllSessions(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	a, _ := manager.Create("ff66", testConfig())
	b, _ := manager.Create("aa77", testConfig())

	// Change both boards, then snapshot everything at once
	a.Engine.ClickTile(7)
	b.Engine.ClickTile(5)

	if err := manager.SaveAllSessions(); err != nil {
		t.Fatalf("SaveAllSessions failed: %v", err)
	}

	restored, err := fp.Load("ff66")
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if restored.Engine.GetState().Solved {
		t.Error("Expected the snapshot to include the slid tile")
	}
}

func TestManager_DeleteRemovesSnapshot(t *testing.T) {
	fp := newTestPersistence(t)
	manager := NewManagerWithPersistence(fp)

	if _, err := manager.Create("bb88", testConfig()); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	if err := manager.Delete("bb88"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("bb88") {
		t.Error("Expected the snapshot deleted with the session")
	}
	if _, err := manager.Get("bb88"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
