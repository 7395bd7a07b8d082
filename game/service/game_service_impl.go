package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/picslide/picslide/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new puzzle session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.PuzzleConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	// Determine the config identifier to return - prefer the input configName if provided,
	// otherwise look up the config_id by display name
	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Click attempts to slide the tile at the clicked cell
func (s *gameServiceImpl) Click(ctx context.Context, sessionID string, x, y int) (*ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	desc := sess.Engine.Click(x, y)
	return s.finishClick(sess, sessionID, desc, x, y)
}

// ClickTile attempts to slide a tile addressed by its number
func (s *gameServiceImpl) ClickTile(ctx context.Context, sessionID string, tile int) (*ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	x, y := -1, -1
	if tile >= 0 && tile < state.TileCount() {
		pos := state.TilePos[tile]
		x, y = pos.X, pos.Y
	}

	desc := sess.Engine.ClickTile(tile)
	return s.finishClick(sess, sessionID, desc, x, y)
}

// finishClick builds the click result and persists the session. Callers hold
// the service lock.
func (s *gameServiceImpl) finishClick(sess *Session, sessionID string, desc *engine.MoveDescriptor, x, y int) (*ClickResult, error) {
	state := sess.Engine.GetState()

	result := &ClickResult{
		Success:       desc != nil,
		GameState:     state,
		Message:       state.Message,
		Solved:        state.Solved,
		Move:          desc,
		SlidableTiles: slidableTiles(state),
		Events:        []GameEvent{},
	}

	if desc != nil {
		result.Events = append(result.Events, GameEvent{
			Type:      "slide",
			Message:   fmt.Sprintf("Tile %d slid %s to (%d,%d)", desc.Tile+1, desc.Direction, desc.To.X, desc.To.Y),
			Timestamp: time.Now(),
			Position:  desc.To,
		})
		if state.Solved {
			result.Events = append(result.Events, GameEvent{
				Type:      "solved",
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}
	} else {
		result.AttemptedTo = attemptInfo(state, x, y)
		if sess.Config != nil && sess.Config.Messages.IllegalClick != "" {
			result.Message = sess.Config.Messages.IllegalClick
		}
	}

	// Auto-save session after a click
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after click: %v\n", sessionID, err)
	}

	return result, nil
}

// Scramble walks the empty slot through the requested number of random steps
func (s *gameServiceImpl) Scramble(ctx context.Context, sessionID string, steps int) (*ScrambleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if steps <= 0 && sess.Config != nil {
		steps = sess.Config.ScrambleSteps
	}

	result := &ScrambleResult{
		StepsRequested: steps,
		Events:         make([]GameEvent, 0),
	}

	// Limit steps to prevent abuse
	if steps > engine.MaxScramblePerRequest {
		result.Truncated = true
		result.Limit = engine.MaxScramblePerRequest
		steps = engine.MaxScramblePerRequest
	}

	moves, err := sess.Engine.Scramble(steps)
	if err != nil {
		return nil, fmt.Errorf("scramble failed: %w", err)
	}

	state := sess.Engine.GetState()
	if sess.Config != nil && sess.Config.Messages.Scrambled != "" {
		state.Message = fmt.Sprintf(sess.Config.Messages.Scrambled, len(moves))
	}

	result.StepsExecuted = len(moves)
	result.Moves = moves
	result.GameState = state
	result.Message = state.Message
	result.Events = append(result.Events, GameEvent{
		Type:      "scramble",
		Message:   fmt.Sprintf("Board scrambled with %d steps", len(moves)),
		Timestamp: time.Now(),
		Position:  state.Empty,
	})

	// Auto-save session after a scramble
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after scramble: %v\n", sessionID, err)
	}

	return result, nil
}

// NewRound resets the board to solved order and applies the configured scramble
func (s *gameServiceImpl) NewRound(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	state := sess.Engine.NewRound()

	// Auto-save session after starting a round
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after new round: %v\n", sessionID, err)
	}

	return state, nil
}

// GetGameState retrieves the current round state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveRecord
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	if moves == nil {
		moves = []engine.MoveRecord{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available puzzle configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific puzzle configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a puzzle configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// slidableTiles lists the 1-based numbers of the tiles next to the gap.
func slidableTiles(state *engine.GameState) []int {
	tiles := make([]int, 0, 4)
	for _, d := range engine.Directions {
		pos := state.Empty.Moved(d)
		if !state.InBounds(pos) {
			continue
		}
		tiles = append(tiles, state.Grid[pos.Y][pos.X]+1)
	}
	sort.Ints(tiles)
	return tiles
}

// attemptInfo classifies why a click at (x,y) did not slide anything.
func attemptInfo(state *engine.GameState, x, y int) *AttemptInfo {
	info := &AttemptInfo{X: x, Y: y, Tile: -1}
	pos := engine.Position{X: x, Y: y}

	if !state.InBounds(pos) {
		info.Reason = "out_of_bounds"
		return info
	}

	tile := state.Grid[y][x]
	info.Tile = tile + 1
	if tile == state.EmptyTile() {
		info.Reason = "empty_slot"
		info.Tile = -1
		return info
	}

	info.Reason = "not_adjacent"
	return info
}
