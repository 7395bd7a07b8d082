package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/picslide/picslide/game/engine"
	"github.com/picslide/picslide/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"PicSlide",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`PicSlide - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Restore the picture by sliding numbered tiles back into order. One cell of
the board is empty; only tiles directly next to that gap can slide into it.

AVAILABLE TOOLS:
- board_state: Get the current board
- click_tile: Slide a tile (by tile number or cell coordinates) - requires intent explanation
- scramble: Walk the empty slot through N random legal steps
- new_round: Start a fresh scrambled round
- move_history: View past moves
- create_session: Create new puzzle session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available configurations
- game_instructions: Get comprehensive game instructions and rules
- describe_tile: Get detailed info about one tile (where it is, where it belongs, whether it can slide)

NOTE: The 'intent' parameter on click_tile serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Puzzle operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "click_tile",
		Description: "Slide a tile into the empty slot. Address the tile by its 1-based number, or by its cell coordinates. Only tiles directly next to the gap can slide; anything else is silently ignored.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"tile": map[string]interface{}{
					"type":        "integer",
					"description": "1-based tile number to slide",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell to click (0-based, alternative to tile)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell to click (0-based, alternative to tile)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleClickTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "scramble",
		Description: "Walk the empty slot through N random legal steps. The board stays solvable because scrambling only uses legal moves.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"steps": map[string]interface{}{
					"type":        "integer",
					"description": "Number of scramble steps (0 uses the config default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleScramble)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_round",
		Description: "Start a fresh round: solved order, then the configured scramble",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzle configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about a tile: its current cell, its home cell, and whether it sits next to the gap and can slide right now.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"tile": map[string]interface{}{
					"type":        "integer",
					"description": "1-based tile number to describe",
				},
			},
			Required: []string{"session_id", "tile"},
		},
	}, c.handleDescribeTile)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_name"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleClickTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{}
	if tile, ok := args["tile"].(float64); ok {
		body["tile"] = int(tile)
	} else {
		x, xok := args["x"].(float64)
		y, yok := args["y"].(float64)
		if !xok || !yok {
			return mcp.NewToolResultError("either tile or x and y are required"), nil
		}
		body["x"] = int(x)
		body["y"] = int(y)
	}

	var result service.ClickResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/click", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatClickResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleScramble(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if steps, ok := args["steps"].(float64); ok {
		body["steps"] = int(steps)
	}

	var result service.ScrambleResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/scramble", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatScrambleResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleNewRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/new-round", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Also fetch the current round segment from live state
	var session service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session); err != nil {
		// If fetching session fails, still return the history
		result := formatHistory(&history)
		return mcp.NewToolResultText(result), nil
	}

	result := formatHistory(&history)
	result += "\n" + formatCurrentSegment(session.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s\n  %s\n  Board: %dx%d, Image: %s\n\n",
			config.Name, config.Description, config.Rows, config.Columns, config.Image)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `PicSlide - Complete Instructions

GAME OBJECTIVE:
Restore the scrambled picture. The board is an R x C grid of numbered tiles
with one empty cell (the gap). Tiles are numbered 1..R*C-1; the puzzle is
solved when tile k sits on cell ((k-1) mod C, (k-1) div C) for every k, which
puts the gap back at the bottom-right corner.

GAME MECHANICS:
• Sliding: only a tile directly above, below, left, or right of the gap can
  move. Sliding swaps that tile with the gap.
• Clicks anywhere else are silently ignored. No error, no state change.
• Scrambling: the gap walks through random legal moves starting from the
  solved board, so every scrambled board is guaranteed solvable.
• A scramble step never immediately reverses the previous one, so short
  scrambles do not trivially undo themselves.

BOARD DISPLAY:
Boards render as a grid of tile numbers with the gap shown as dots:

  1  2  3
  4  5  6
  7  8  ·

Coordinates are (x,y) with x the column and y the row, both 0-based, so the
gap above is at (2,2) and tile 6 at (2,1).

STRATEGY FOR SOLVING:
1. Solve the top row first, left to right.
2. Then the left column of the remainder.
3. Repeat on the smaller board that is left; finish the final 2x2 by cycling.
4. The last two tiles of a row (or column) must be placed together: park the
   first one next to its home, rotate the second in, then swing both home.

TOOLS IN A TYPICAL ROUND:
1. create_session (optionally with config_name from list_configs)
2. new_round - scrambles per the config
3. board_state - see the numbers
4. click_tile repeatedly - only tiles next to the gap will move
5. move_history - review what happened

SESSION MANAGEMENT:
- Multiple puzzle sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent boards and configuration
- Use session-specific tools for multi-game management

Remember: a click that does nothing means the tile was not next to the gap.
Check board_state, find the gap, and pick one of its neighbors.`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	tileNumber := int(args["tile"].(float64))

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tile := tileNumber - 1
	if tile < 0 || tile >= state.EmptyTile() {
		return mcp.NewToolResultError(fmt.Sprintf("Tile %d does not exist. This board has tiles 1-%d",
			tileNumber, state.EmptyTile())), nil
	}

	pos := state.TilePos[tile]
	home := state.HomePosition(tile)
	atHome := pos == home
	adjacent := engine.ManhattanDistance(pos, state.Empty) == 1

	slideNote := "This tile is NOT next to the gap. Clicking it does nothing."
	if adjacent {
		dir := "into the gap"
		switch {
		case state.Empty.Y < pos.Y:
			dir = "up"
		case state.Empty.Y > pos.Y:
			dir = "down"
		case state.Empty.X < pos.X:
			dir = "left"
		case state.Empty.X > pos.X:
			dir = "right"
		}
		slideNote = fmt.Sprintf("This tile is next to the gap and would slide %s.", dir)
	}

	result := fmt.Sprintf(`Tile %d:
Current cell: (%d,%d)
Home cell: (%d,%d)
At home: %v
Distance from home: %d
Gap is at: (%d,%d)
%s`,
		tileNumber,
		pos.X, pos.Y,
		home.X, home.Y,
		atHome,
		engine.ManhattanDistance(pos, home),
		state.Empty.X, state.Empty.Y,
		slideNote)

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatGameState renders the numbered board with the gap as dots
func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No board available"
	}

	var result strings.Builder

	solvedNote := ""
	if state.Solved {
		solvedNote = " | SOLVED"
	}
	result.WriteString(fmt.Sprintf("Board: %dx%d | Gap: (%d,%d) | Misplaced: %d | Moves: %d%s\n\n",
		state.Columns, state.Rows,
		state.Empty.X, state.Empty.Y,
		state.Misplaced, state.TotalMoves, solvedNote))

	result.WriteString(formatBoard(state))

	// Tiles that can slide right now
	slidable := make([]string, 0, 4)
	for _, d := range engine.Directions {
		pos := state.Empty.Moved(d)
		if !state.InBounds(pos) {
			continue
		}
		slidable = append(slidable, fmt.Sprintf("%d", state.Grid[pos.Y][pos.X]+1))
	}
	result.WriteString(fmt.Sprintf("\nSlidable tiles: %s\n", strings.Join(slidable, ", ")))

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("Message: %s", state.Message))
	}

	return result.String()
}

// formatBoard renders the grid as aligned tile numbers, gap as dots
func formatBoard(state *engine.GameState) string {
	width := len(fmt.Sprintf("%d", state.EmptyTile()))
	gap := strings.Repeat("·", width)

	var b strings.Builder
	for y := 0; y < state.Rows; y++ {
		for x := 0; x < state.Columns; x++ {
			if x > 0 {
				b.WriteString(" ")
			}
			id := state.Grid[y][x]
			if id == state.EmptyTile() {
				b.WriteString(gap)
			} else {
				b.WriteString(fmt.Sprintf("%*d", width, id+1))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatClickResult(result *service.ClickResult) string {
	response := ""
	if result.Success {
		m := result.Move
		response = fmt.Sprintf("✓ Tile %d slid %s: (%d,%d)→(%d,%d)\n",
			m.Tile+1, m.Direction, m.From.X, m.From.Y, m.To.X, m.To.Y)
	} else {
		response = "✗ Click ignored\n"
		if result.AttemptedTo != nil {
			a := result.AttemptedTo
			switch a.Reason {
			case "out_of_bounds":
				response += fmt.Sprintf("Attempted (%d,%d): outside the board\n", a.X, a.Y)
			case "empty_slot":
				response += fmt.Sprintf("Attempted (%d,%d): that is the gap itself\n", a.X, a.Y)
			default:
				response += fmt.Sprintf("Attempted (%d,%d) tile %d: not next to the gap\n", a.X, a.Y, a.Tile)
			}
		}
	}

	if result.Solved {
		response += "🎉 SOLVED!\n"
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatScrambleResult(result *service.ScrambleResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Scrambled: %d steps", result.StepsExecuted))
	if result.Truncated {
		b.WriteString(fmt.Sprintf(" (requested %d, capped at %d)", result.StepsRequested, result.Limit))
	}
	b.WriteString("\n\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Move History (Page %d/%d) — Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		result += formatMoveLine(&move)
	}

	return result
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Round: unavailable"
	}
	moves := state.CurrentMoves
	header := fmt.Sprintf("Current Round — Moves: %d\n\n", state.CurrentMovesCount)
	if len(moves) == 0 {
		return header + "(no moves this round)"
	}
	var b strings.Builder
	b.WriteString(header)
	for i := range moves {
		b.WriteString(formatMoveLine(&moves[i]))
	}
	return b.String()
}

func formatMoveLine(move *engine.MoveRecord) string {
	kind := "slide"
	if move.Kind == "scramble" {
		kind = "scramble"
	}
	return fmt.Sprintf("%d. [%s] tile %d %s (%d,%d)→(%d,%d)\n",
		move.MoveNumber, kind, move.Tile+1, move.Direction,
		move.From.X, move.From.Y, move.To.X, move.To.Y)
}
