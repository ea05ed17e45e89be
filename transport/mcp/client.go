package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/leaderboard"
	"github.com/wricardo/roundup/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Roundup",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Roundup - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Slide the goal piece (*) onto the center cell (3,3). Pieces slide until they
hit another piece; a piece that slides onto the outer border is lost and so is
the game.

AVAILABLE TOOLS:
- create_session: Create a new game session on a catalog or custom board
- list_sessions / get_session / delete_session: Session management
- game_state: Current board and status
- move: Single move such as "32R" - requires intent explanation
- bulk_move: Several moves at once - requires intent explanation
- restart_game / next_board / select_board / custom_board: Change the board
- hint: Shortest winning sequence from the current position
- save_win / leaderboard / clear_leaderboard: Hall of fame
- list_boards / validate_board: Board catalog and layout checks
- describe_cell: What occupies a single cell
- game_instructions: Complete rules and notation

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
		},
		Required: []string{"session_id"},
	}
}

func emptySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session on a catalog board (1-18 by default) or a custom layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to use (optional, generated when omitted)",
				},
				"board": map[string]interface{}{
					"type":        "integer",
					"description": "Catalog board number (optional, defaults to board 1)",
				},
				"layout": map[string]interface{}{
					"type":        "string",
					"description": "Custom board layout such as \"11 15 32R 34 51 55\" (optional, overrides board)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: emptySchema(),
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a game session",
		InputSchema: sessionOnlySchema(),
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, move count and status",
		InputSchema: sessionOnlySchema(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide the piece at (row, col) in a direction. Give either move (e.g. \"32R\") or row, col and direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"move": map[string]interface{}{
					"type":        "string",
					"description": "Compact move: row digit, column digit, direction letter U/D/L/R (e.g. \"32R\")",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the piece to move (1-5)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the piece to move (1-5)",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple moves in sequence; stops at the first invalid move or when the game ends",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
					},
					"description": "Array of compact moves such as [\"14D\", \"32R\"]",
				},
				"sequence": map[string]interface{}{
					"type":        "string",
					"description": "Concatenated moves such as \"14D32R\" (appended after moves)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Start the current board over",
		InputSchema: sessionOnlySchema(),
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_board",
		Description: "Advance to the next catalog board (wraps to board 1)",
		InputSchema: sessionOnlySchema(),
	}, c.handleNextBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_board",
		Description: "Switch the session to a catalog board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"board": map[string]interface{}{
					"type":        "integer",
					"description": "Catalog board number",
				},
			},
			Required: []string{"session_id", "board"},
		},
	}, c.handleSelectBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "custom_board",
		Description: "Play a custom layout of six pieces, exactly one marked with R as the goal piece",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"layout": map[string]interface{}{
					"type":        "string",
					"description": "Board layout such as \"31 32R 35 11 15 55\"",
				},
			},
			Required: []string{"session_id", "layout"},
		},
	}, c.handleCustomBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Get the shortest winning sequence from the current position",
		InputSchema: sessionOnlySchema(),
	}, c.handleHint)

	// Hall of fame
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_win",
		Description: "Record the current win in the hall of fame (once per game)",
		InputSchema: sessionOnlySchema(),
	}, c.handleSaveWin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "List the hall of fame",
		InputSchema: emptySchema(),
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_leaderboard",
		Description: "Delete every hall of fame record",
		InputSchema: emptySchema(),
	}, c.handleClearLeaderboard)

	// Boards
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_boards",
		Description: "List the board catalog",
		InputSchema: emptySchema(),
	}, c.handleListBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_board",
		Description: "Check a board layout against every rule without playing it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"layout": map[string]interface{}{
					"type":        "string",
					"description": "Board layout to check",
				},
			},
			Required: []string{"layout"},
		},
	}, c.handleValidateBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: emptySchema(),
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a single cell of the 7x7 grid (0-6 including the border)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-6)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-6)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages posted to it
func (c *Client) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
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

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := service.CreateOptions{
		ID:     request.GetString("session_id", ""),
		Board:  request.GetInt("board", 0),
		Layout: request.GetString("layout", ""),
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n%s", session.ID, formatSessionInfo(&session))
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

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := engine.StatusActive
		moves := 0
		if s.GameState != nil {
			status = s.GameState.Status
			moves = s.GameState.MoveCount
		}
		fmt.Fprintf(&b, "- %s (%s, %s, %d moves, Created: %s)\n",
			s.ID, s.Board.Title(), status, moves, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("DELETE", sessionPath(sessionID, ""), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	err := c.apiCall("GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := session.Board.Title() + "\n" + formatGameState(session.GameState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	args := request.GetArguments()

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	body := map[string]interface{}{}
	if move := request.GetString("move", ""); move != "" {
		body["move"] = move
	} else {
		if _, ok := args["row"]; !ok {
			return mcp.NewToolResultError("either move or row, col and direction are required"), nil
		}
		if _, ok := args["col"]; !ok {
			return mcp.NewToolResultError("either move or row, col and direction are required"), nil
		}
		body["row"] = request.GetInt("row", 0)
		body["col"] = request.GetInt("col", 0)
		body["direction"] = request.GetString("direction", "")
	}

	var result service.MoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	args := request.GetArguments()
	movesRaw, _ := args["moves"].([]interface{})

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = request.GetString("intent", "")

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}
	sequence := request.GetString("sequence", "")
	if len(moves) == 0 && sequence == "" {
		return mcp.NewToolResultError("moves or sequence is required"), nil
	}

	body := map[string]interface{}{
		"moves":    moves,
		"sequence": sequence,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", sessionPath(sessionID, "/bulk-move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

// boardChange posts to a board-changing endpoint and renders the new game
func (c *Client) boardChange(path, message string, body interface{}) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	err := c.apiCall("POST", path, body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(message + "\n\n" + formatSessionInfo(&session)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	return c.boardChange(sessionPath(sessionID, "/restart"), "Game restarted", nil)
}

func (c *Client) handleNextBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	return c.boardChange(sessionPath(sessionID, "/next"), "Advanced to the next board", nil)
}

func (c *Client) handleSelectBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	board := request.GetInt("board", 0)
	return c.boardChange(sessionPath(sessionID, "/select"), fmt.Sprintf("Selected board %d", board),
		map[string]int{"board": board})
}

func (c *Client) handleCustomBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	layout := request.GetString("layout", "")
	return c.boardChange(sessionPath(sessionID, "/custom"), "Custom board installed",
		map[string]string{"layout": layout})
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var result service.SolveResult
	err := c.apiCall("GET", sessionPath(sessionID, "/solve"), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSolveResult(&result)), nil
}

func (c *Client) handleSaveWin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Record leaderboard.Record `json:"record"`
		Line   string             `json:"line"`
	}
	err := c.apiCall("POST", sessionPath(sessionID, "/save"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Saved to the hall of fame:\n%s", response.Line)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                  `json:"count"`
		Records []leaderboard.Record `json:"records"`
	}
	err := c.apiCall("GET", "/api/leaderboard", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(response.Records)), nil
}

func (c *Client) handleClearLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string `json:"message"`
	}
	err := c.apiCall("DELETE", "/api/leaderboard", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message), nil
}

func (c *Client) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                  `json:"count"`
		Boards []*service.BoardInfo `json:"boards"`
	}
	err := c.apiCall("GET", "/api/boards", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available Boards (%d):\n\n", response.Count)
	for _, board := range response.Boards {
		fmt.Fprintf(&b, "%3d  %-9s %s\n", board.Number, board.Label, board.Layout)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleValidateBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	layout := request.GetString("layout", "")

	var result service.ValidationResult
	err := c.apiCall("POST", "/api/validate", map[string]string{"layout": layout}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatValidationResult(&result)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Roundup - Complete Instructions

GAME OBJECTIVE:
Guide the goal piece (*) so that it comes to rest on the center cell, row 3 column 3.

THE BOARD:
The grid is 7x7. Rows and columns 1-5 are the playable interior; row/column 0
and 6 form the border ring. Every board starts with six pieces inside, exactly
one of which is the goal piece.

GRID LEGEND:
* = Goal piece
o = Ordinary piece
X = Piece that slid onto the border (game lost)
. = Trail left by the last move
  = Empty cell

MOVEMENT RULES:
• A moved piece slides in a straight line until the next cell holds another piece
• There is nothing to stop a piece at the edge of the interior: if no piece is
  in the way it slides onto the border ring and the game is LOST
• Any piece may be moved, not just the goal piece; ordinary pieces are blockers
• Moving an empty cell or a piece that is already blocked still counts as a move
• After the game is won or lost further moves are ignored until a new game

MOVEMENT COMMANDS:
• Compact form: row digit, column digit, direction letter, e.g. "32R"
  moves the piece at row 3, column 2 to the right
• Directions: U (up), D (down), L (left), R (right)
• bulk_move accepts a list ["14D", "32R"] or a sequence "14D32R"

BOARD LAYOUTS:
A layout is six space-separated tokens "rc" with one "rcR" marking the goal
piece, for example "11 15 32R 34 51 55". Coordinates must be 1-5 and no two
tokens may share a cell. Use validate_board to check a layout.

STRATEGY:
• Before moving the goal piece, place a blocker just past the center so the
  goal piece stops on (3,3)
• Check every slide for a piece in its path; an open row or column means the
  piece will fall off
• Use hint when stuck; it returns the shortest winning sequence

VICTORY CONDITIONS:
• The goal piece rests on (3,3): you win and may save_win once to enter the
  hall of fame with the board number, difficulty, move count and win sequence

Good luck rounding them up!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	row := request.GetInt("row", -1)
	col := request.GetInt("col", -1)

	var state engine.GameState
	err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	size := len(state.Grid)
	if row < 0 || row >= size || col < 0 || col >= size {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Grid size is %dx%d (0-%d for both row and col)",
			row, col, size, size, size-1)), nil
	}

	cell := state.Grid[row][col]
	region := "interior"
	if row == 0 || col == 0 || row == size-1 || col == size-1 {
		region = "border"
	}

	var description string
	switch cell {
	case engine.GoalPiece:
		description = "The goal piece - bring it to rest on (3,3)"
	case engine.Piece:
		description = "An ordinary piece - use it as a blocker"
	case engine.Trail:
		description = "Trail of the last move - empty for the next move"
	default:
		description = "Empty cell - a sliding piece passes through"
	}
	if cell.IsPiece() && region == "border" {
		description += " (it fell off the board)"
	}

	result := fmt.Sprintf(`Cell at (%d, %d):
━━━━━━━━━━━━━━━━━━━━━━━━
Symbol: %q
State: %s
Region: %s
Description: %s`,
		row, col,
		engine.Symbol(state.Grid, row, col),
		cell,
		region,
		description)

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\n%s\nCreated: %s\n\n%s",
		session.ID, session.Board.Title(),
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Moves: %d | Status: %s\n", state.MoveCount, state.Status)
	if len(state.Moves) > 0 {
		fmt.Fprintf(&result, "Sequence: %s\n", state.WinSequence)
	}
	result.WriteString("\n")
	result.WriteString(engine.RenderBoard(state.Grid))

	switch state.Status {
	case engine.StatusWon:
		fmt.Fprintf(&result, "\n🎉 VICTORY! Solved in %d moves: %s", state.MoveCount, state.WinSequence)
	case engine.StatusLost:
		result.WriteString("\n💀 LOSE - a piece fell off the board. Restart to try again.")
	}

	return result.String()
}

func formatMove(move *engine.MoveResult) string {
	if move == nil {
		return ""
	}
	if move.Ignored {
		return "Move ignored: the game is over"
	}
	return fmt.Sprintf("Step: %s %s→%s piece=%s distance=%d",
		move.Entry, move.From, move.To, move.Piece, move.Distance)
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	switch {
	case result.Move != nil && result.Move.Ignored:
		response = "✗ Move ignored\n"
	case result.Move != nil && result.Move.Distance == 0:
		response = "✗ Nothing moved\n"
	default:
		response = "✓ Move successful\n"
	}

	if line := formatMove(result.Move); line != "" {
		response += line + "\n"
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", sessionID)
	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}

	if len(result.Moves) > 0 {
		b.WriteString("\nSteps:\n")
		for i, move := range result.Moves {
			fmt.Fprintf(&b, "%d. %s\n", i+1, formatMove(move))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatSolveResult(result *service.SolveResult) string {
	if !result.Solvable {
		msg := result.Message
		if msg == "" {
			msg = "no winning sequence found"
		}
		return fmt.Sprintf("No hint available: %s", msg)
	}
	if result.Length == 0 {
		return "The game is already won"
	}
	return fmt.Sprintf("Shortest win: %d moves\nMoves: %s\nSequence: %s\n(explored %d positions)",
		result.Length, strings.Join(result.Moves, " "), strings.Join(result.Moves, ""), result.Explored)
}

func formatValidationResult(result *service.ValidationResult) string {
	if result.Valid {
		return fmt.Sprintf("Layout %q is valid (%d pieces)", result.Layout, len(result.Placements))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Layout %q is invalid\n", result.Layout)
	for _, rule := range result.FailedRules {
		fmt.Fprintf(&b, "- failed: %s\n", rule)
	}
	return b.String()
}

func formatLeaderboard(records []leaderboard.Record) string {
	var b strings.Builder
	b.WriteString("-- Hall of Fame --\n")
	if len(records) == 0 {
		b.WriteString("(empty)\n")
		return b.String()
	}
	for _, rec := range records {
		b.WriteString(rec.Line())
		b.WriteString("\n")
	}
	return b.String()
}
