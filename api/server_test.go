package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/picslide/picslide/game/engine"
	"github.com/picslide/picslide/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Puzzle Operations
	ClickFunc     func(ctx context.Context, sessionID string, x, y int) (*service.ClickResult, error)
	ClickTileFunc func(ctx context.Context, sessionID string, tile int) (*service.ClickResult, error)
	ScrambleFunc  func(ctx context.Context, sessionID string, steps int) (*service.ScrambleResult, error)
	NewRoundFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Round State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.PuzzleConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.PuzzleConfig) error
}

func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "abcd",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Click(ctx context.Context, sessionID string, x, y int) (*service.ClickResult, error) {
	if m.ClickFunc != nil {
		return m.ClickFunc(ctx, sessionID, x, y)
	}
	return &service.ClickResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) ClickTile(ctx context.Context, sessionID string, tile int) (*service.ClickResult, error) {
	if m.ClickTileFunc != nil {
		return m.ClickTileFunc(ctx, sessionID, tile)
	}
	return &service.ClickResult{
		Success:   true,
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) Scramble(ctx context.Context, sessionID string, steps int) (*service.ScrambleResult, error) {
	if m.ScrambleFunc != nil {
		return m.ScrambleFunc(ctx, sessionID, steps)
	}
	return &service.ScrambleResult{
		StepsRequested: steps,
		StepsExecuted:  steps,
		GameState:      &engine.GameState{},
	}, nil
}

func (m *MockGameService) NewRound(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.NewRoundFunc != nil {
		return m.NewRoundFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Moves:      []engine.MoveRecord{},
		TotalMoves: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return []*service.ConfigInfo{}, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	config := &engine.PuzzleConfig{
		Name:        configName,
		Description: "Mock config",
		Rows:        4,
		Columns:     4,
		Image:       "images/mock.png",
	}
	return config, nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

func newTestServer(mock *MockGameService) *Server {
	return NewServer(mock, nil)
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateSession(t *testing.T) {
	mock := &MockGameService{}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_id": "classic"})
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var info service.SessionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.ConfigName != "classic" {
		t.Errorf("Expected config classic, got %q", info.ConfigName)
	}
}

func TestHandleCreateSession_DeprecatedConfigName(t *testing.T) {
	mock := &MockGameService{
		CreateSessionFunc: func(ctx context.Context, configName string) (*service.SessionInfo, error) {
			if configName != "legacy" {
				t.Errorf("Expected config legacy, got %q", configName)
			}
			return &service.SessionInfo{ID: "abcd", ConfigName: configName}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions", map[string]string{"config_name": "legacy"})
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
}

func TestHandleListSessions_SortAndLimit(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old1", CreatedAt: now.Add(-2 * time.Hour), LastAccessedAt: now.Add(-2 * time.Hour)},
				{ID: "new1", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid1", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/sessions?sort=created&order=desc&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Expected 2 sessions after limit, got %d", resp.Count)
	}
	if resp.Sessions[0].ID != "new1" || resp.Sessions[1].ID != "mid1" {
		t.Errorf("Expected newest-first order, got %s, %s", resp.Sessions[0].ID, resp.Sessions[1].ID)
	}
}

func TestHandleGetSession_NotFound(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/sessions/zzzz", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestHandleDeleteSession(t *testing.T) {
	deleted := ""
	mock := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "DELETE", "/api/sessions/abcd", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if deleted != "abcd" {
		t.Errorf("Expected session abcd deleted, got %q", deleted)
	}
}

func TestHandleClick_ByCell(t *testing.T) {
	mock := &MockGameService{
		ClickFunc: func(ctx context.Context, sessionID string, x, y int) (*service.ClickResult, error) {
			if x != 2 || y != 1 {
				t.Errorf("Expected click at (2,1), got (%d,%d)", x, y)
			}
			return &service.ClickResult{
				Success:   true,
				GameState: &engine.GameState{},
				Move:      &engine.MoveDescriptor{Tile: 5, Direction: engine.DirDown},
			}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions/abcd/click", map[string]int{"x": 2, "y": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var result service.ClickResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Success || result.Move == nil {
		t.Errorf("Expected a successful click result, got %+v", result)
	}
}

func TestHandleClick_ByTileNumber(t *testing.T) {
	mock := &MockGameService{
		ClickTileFunc: func(ctx context.Context, sessionID string, tile int) (*service.ClickResult, error) {
			// Wire format is 1-based; the service takes 0-based indices
			if tile != 5 {
				t.Errorf("Expected tile index 5, got %d", tile)
			}
			return &service.ClickResult{Success: true, GameState: &engine.GameState{}}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions/abcd/click", map[string]int{"tile": 6})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestHandleClick_BadRequest(t *testing.T) {
	server := newTestServer(&MockGameService{})

	// Neither a cell nor a tile number
	rec := doRequest(t, server, "POST", "/api/sessions/abcd/click", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	// Only one coordinate
	rec = doRequest(t, server, "POST", "/api/sessions/abcd/click", map[string]int{"x": 2})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandleScramble(t *testing.T) {
	mock := &MockGameService{
		ScrambleFunc: func(ctx context.Context, sessionID string, steps int) (*service.ScrambleResult, error) {
			if steps != 40 {
				t.Errorf("Expected 40 steps, got %d", steps)
			}
			return &service.ScrambleResult{
				StepsRequested: steps,
				StepsExecuted:  steps,
				GameState:      &engine.GameState{},
			}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions/abcd/scramble", map[string]int{"steps": 40})
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestHandleNewRound(t *testing.T) {
	mock := &MockGameService{
		NewRoundFunc: func(ctx context.Context, sessionID string) (*engine.GameState, error) {
			return &engine.GameState{RoundID: "round-2"}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "POST", "/api/sessions/abcd/new-round", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.State == nil || resp.State.RoundID != "round-2" {
		t.Errorf("Expected the new round state, got %+v", resp.State)
	}
}

func TestHandleGetHistory_QueryParams(t *testing.T) {
	mock := &MockGameService{
		GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			if opts.Page != 3 || opts.Limit != 10 || opts.Order != "asc" {
				t.Errorf("Expected page=3 limit=10 order=asc, got %+v", opts)
			}
			return &service.HistoryResponse{Moves: []engine.MoveRecord{}, Page: opts.Page}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/sessions/abcd/history?page=3&limit=10&order=asc", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestHandleListConfigs(t *testing.T) {
	mock := &MockGameService{
		ListConfigsFunc: func(ctx context.Context) ([]*service.ConfigInfo, error) {
			return []*service.ConfigInfo{
				{ConfigID: "classic", Name: "Classic", Rows: 4, Columns: 4},
			}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/configs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var configs []*service.ConfigInfo
	if err := json.NewDecoder(rec.Body).Decode(&configs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(configs) != 1 || configs[0].ConfigID != "classic" {
		t.Errorf("Unexpected configs: %+v", configs)
	}
}

func TestHandleGetConfig_StripsExtension(t *testing.T) {
	mock := &MockGameService{
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
			if configName != "classic" {
				t.Errorf("Expected the .json suffix stripped, got %q", configName)
			}
			return &engine.PuzzleConfig{Name: "Classic"}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/configs/classic.json", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestHandleCreateConfig(t *testing.T) {
	saved := ""
	mock := &MockGameService{
		SaveConfigFunc: func(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
			saved = configName
			return nil
		},
	}
	server := newTestServer(mock)

	body := map[string]interface{}{
		"name":        "mini",
		"description": "Tiny board",
		"rows":        3,
		"columns":     3,
		"image":       "images/mini.png",
	}
	rec := doRequest(t, server, "POST", "/api/configs", body)
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
	if saved != "mini" {
		t.Errorf("Expected config mini saved, got %q", saved)
	}

	// Name is required
	rec = doRequest(t, server, "POST", "/api/configs", map[string]string{"description": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandleSessionSummary(t *testing.T) {
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "aa11", ConfigName: "classic", GameState: &engine.GameState{Solved: true}},
				{ID: "bb22", ConfigName: "classic", GameState: &engine.GameState{Misplaced: 5}},
			}, nil
		},
	}
	server := newTestServer(mock)

	rec := doRequest(t, server, "GET", "/api/sessions/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Count       int `json:"count"`
		SolvedCount int `json:"solved_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 2 || resp.SolvedCount != 1 {
		t.Errorf("Expected 2 sessions with 1 solved, got %+v", resp)
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&MockGameService{})

	rec := doRequest(t, server, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
