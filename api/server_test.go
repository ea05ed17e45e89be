package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/roundup/game/config"
	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/leaderboard"
	"github.com/wricardo/roundup/game/service"
	"github.com/wricardo/roundup/game/session"
	"github.com/wricardo/roundup/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc        func(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error)
	BulkMoveFunc    func(ctx context.Context, sessionID string, moves []string) (*service.BulkMoveResult, error)
	RestartFunc     func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	NextBoardFunc   func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	SelectBoardFunc func(ctx context.Context, sessionID string, number int) (*service.SessionInfo, error)
	SetCustomFunc   func(ctx context.Context, sessionID, layout string) (*service.SessionInfo, error)
	SolveFunc       func(ctx context.Context, sessionID string) (*service.SolveResult, error)

	// Game State
	GetGameStateFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Boards and leaderboard
	ListBoardsFunc       func(ctx context.Context) ([]*service.BoardInfo, error)
	SaveWinFunc          func(ctx context.Context, sessionID string) (*leaderboard.Record, error)
	LeaderboardFunc      func(ctx context.Context) ([]leaderboard.Record, error)
	ClearLeaderboardFunc func(ctx context.Context) error
}

func testSessionInfo(id string) *service.SessionInfo {
	return &service.SessionInfo{
		ID:        id,
		Board:     &service.BoardInfo{Number: 1, Layout: "11 15 32R 34 51 55", Difficulty: "E", Label: "Easy"},
		CreatedAt: time.Now(),
		GameState: &engine.GameState{Board: "11 15 32R 34 51 55", Status: engine.StatusActive},
	}
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, opts)
	}
	return testSessionInfo("test-session"), nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return testSessionInfo(sessionID), nil
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

// Game Operations
func (m *MockGameService) Move(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, row, col, direction)
	}
	return &service.MoveResult{
		Move:      &engine.MoveResult{Entry: "32R"},
		GameState: &engine.GameState{},
	}, nil
}

func (m *MockGameService) BulkMove(ctx context.Context, sessionID string, moves []string) (*service.BulkMoveResult, error) {
	if m.BulkMoveFunc != nil {
		return m.BulkMoveFunc(ctx, sessionID, moves)
	}
	return &service.BulkMoveResult{
		RequestedMoves: len(moves),
		GameState:      &engine.GameState{},
	}, nil
}

func (m *MockGameService) Restart(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return testSessionInfo(sessionID), nil
}

func (m *MockGameService) NextBoard(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.NextBoardFunc != nil {
		return m.NextBoardFunc(ctx, sessionID)
	}
	return testSessionInfo(sessionID), nil
}

func (m *MockGameService) SelectBoard(ctx context.Context, sessionID string, number int) (*service.SessionInfo, error) {
	if m.SelectBoardFunc != nil {
		return m.SelectBoardFunc(ctx, sessionID, number)
	}
	return testSessionInfo(sessionID), nil
}

func (m *MockGameService) SetCustomBoard(ctx context.Context, sessionID, layout string) (*service.SessionInfo, error) {
	if m.SetCustomFunc != nil {
		return m.SetCustomFunc(ctx, sessionID, layout)
	}
	return testSessionInfo(sessionID), nil
}

func (m *MockGameService) Solve(ctx context.Context, sessionID string) (*service.SolveResult, error) {
	if m.SolveFunc != nil {
		return m.SolveFunc(ctx, sessionID)
	}
	return &service.SolveResult{SessionID: sessionID, Solvable: true, Moves: []string{"32R"}, Length: 1}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) Subscribe(ctx context.Context, sessionID string, observer service.Observer) (engine.Subscription, error) {
	return engine.Subscription{}, nil
}

func (m *MockGameService) Unsubscribe(ctx context.Context, sessionID string, sub engine.Subscription) error {
	return nil
}

// Boards
func (m *MockGameService) ListBoards(ctx context.Context) ([]*service.BoardInfo, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx)
	}
	return config.NewManager().ListBoards(), nil
}

func (m *MockGameService) ValidateBoard(ctx context.Context, layout string) *service.ValidationResult {
	return &service.ValidationResult{
		Layout:      layout,
		Valid:       engine.IsValidBoard(layout),
		FailedRules: engine.FailedRules(layout),
	}
}

// Leaderboard
func (m *MockGameService) SaveWin(ctx context.Context, sessionID string) (*leaderboard.Record, error) {
	if m.SaveWinFunc != nil {
		return m.SaveWinFunc(ctx, sessionID)
	}
	return &leaderboard.Record{Board: 1, Difficulty: "E", ElapsedTime: engine.ElapsedTimePlaceholder, Moves: 1, WinSequence: "32R"}, nil
}

func (m *MockGameService) Leaderboard(ctx context.Context) ([]leaderboard.Record, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx)
	}
	return []leaderboard.Record{}, nil
}

func (m *MockGameService) ClearLeaderboard(ctx context.Context) error {
	if m.ClearLeaderboardFunc != nil {
		return m.ClearLeaderboardFunc(ctx)
	}
	return nil
}

// Test helpers
func setupTestServer(t *testing.T, mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "Create session with default board",
			requestBody:    nil,
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "test-session" {
					t.Errorf("Expected session ID test-session, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific board",
			requestBody: map[string]interface{}{"board": 6, "id": "abcd"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error) {
					if opts.Board != 6 || opts.ID != "abcd" {
						t.Errorf("Expected board 6 and id abcd, got %+v", opts)
					}
					return testSessionInfo(opts.ID), nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "Unknown board",
			requestBody: map[string]interface{}{"board": 99},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: 99", config.ErrBoardNotFound)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Invalid layout",
			requestBody: map[string]interface{}{"layout": "11 11"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error) {
					return nil, engine.ErrInvalidConfiguration
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, opts service.CreateOptions) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			var body interface{}
			if tt.requestBody != nil {
				body = tt.requestBody
			}
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions", body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Minute), LastAccessedAt: now.Add(-time.Minute)},
			}, nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name      string
		query     string
		wantOrder []string
		wantTotal int
	}{
		{"default sort", "", []string{"new", "mid", "old"}, 3},
		{"created ascending", "?sort=created&order=asc", []string{"old", "mid", "new"}, 3},
		{"limit", "?limit=1", []string{"new"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.Total != tt.wantTotal || resp.Count != len(tt.wantOrder) {
				t.Errorf("Expected count %d total %d, got %d %d", len(tt.wantOrder), tt.wantTotal, resp.Count, resp.Total)
			}
			for i, id := range tt.wantOrder {
				if resp.Sessions[i].ID != id {
					t.Errorf("Expected session %d to be %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestGetAndDeleteSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "missing" {
				return nil, fmt.Errorf("session %q: %w", sessionID, session.ErrSessionNotFound)
			}
			return testSessionInfo(sessionID), nil
		},
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return session.ErrSessionNotFound
			}
			return nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		method, path   string
		expectedStatus int
	}{
		{"GET", "/api/sessions/abcd", http.StatusOK},
		{"GET", "/api/sessions/missing", http.StatusNotFound},
		{"DELETE", "/api/sessions/abcd", http.StatusOK},
		{"DELETE", "/api/sessions/missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest(tt.method, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// Game Operation Tests

func TestMove(t *testing.T) {
	tests := []struct {
		name           string
		sessionID      string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:        "Move with coordinates",
			sessionID:   "sess-123",
			requestBody: map[string]interface{}{"row": 3, "col": 2, "direction": "right"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error) {
					if row != 3 || col != 2 || direction != "right" {
						t.Errorf("Expected 3,2 right, got %d,%d %s", row, col, direction)
					}
					return &service.MoveResult{
						Move:      &engine.MoveResult{Entry: "32R", Won: true},
						GameState: &engine.GameState{Status: engine.StatusWon, Won: true},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "Move token",
			sessionID:   "sess-123",
			requestBody: map[string]interface{}{"move": "14D"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error) {
					if row != 1 || col != 4 || direction != "down" {
						t.Errorf("Expected 1,4 down, got %d,%d %s", row, col, direction)
					}
					return &service.MoveResult{Move: &engine.MoveResult{Entry: "14D"}, GameState: &engine.GameState{}}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed move token",
			sessionID:      "sess-123",
			requestBody:    map[string]interface{}{"move": "9X"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing coordinates",
			sessionID:      "sess-123",
			requestBody:    map[string]interface{}{"direction": "up"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid direction",
			sessionID:   "sess-123",
			requestBody: map[string]interface{}{"row": 3, "col": 2, "direction": "diagonal"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error) {
					return nil, fmt.Errorf("%w: bad direction", service.ErrInvalidMove)
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Session not found",
			sessionID:   "nonexistent",
			requestBody: map[string]interface{}{"row": 3, "col": 2, "direction": "up"},
			setupMock: func(m *MockGameService) {
				m.MoveFunc = func(ctx context.Context, sessionID string, row, col int, direction string) (*service.MoveResult, error) {
					return nil, session.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/api/sessions/"+tt.sessionID+"/move", tt.requestBody)
			req = mux.SetURLVars(req, map[string]string{"id": tt.sessionID})

			server.handleMove(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestBulkMove(t *testing.T) {
	var got []string
	mockService := &MockGameService{
		BulkMoveFunc: func(ctx context.Context, sessionID string, moves []string) (*service.BulkMoveResult, error) {
			got = moves
			return &service.BulkMoveResult{RequestedMoves: len(moves), MovesExecuted: len(moves), GameState: &engine.GameState{}}, nil
		},
	}
	server := setupTestServer(t, mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/abcd/bulk-move", map[string]interface{}{"sequence": "14D32R"}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if strings.Join(got, ",") != "14D,32R" {
		t.Errorf("Expected moves [14D 32R], got %v", got)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/abcd/bulk-move", map[string]interface{}{"sequence": "14D3"}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for a broken sequence, got %d", w.Code)
	}
}

func TestBoardNavigation(t *testing.T) {
	var selected int
	var layout string
	mockService := &MockGameService{
		SelectBoardFunc: func(ctx context.Context, sessionID string, number int) (*service.SessionInfo, error) {
			selected = number
			if number > 18 {
				return nil, config.ErrBoardNotFound
			}
			return testSessionInfo(sessionID), nil
		},
		SetCustomFunc: func(ctx context.Context, sessionID, l string) (*service.SessionInfo, error) {
			layout = l
			return testSessionInfo(sessionID), nil
		},
	}
	server := setupTestServer(t, mockService)

	tests := []struct {
		name           string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"restart", "/api/sessions/abcd/restart", nil, http.StatusOK},
		{"next", "/api/sessions/abcd/next", nil, http.StatusOK},
		{"select", "/api/sessions/abcd/select", map[string]int{"board": 5}, http.StatusOK},
		{"select unknown", "/api/sessions/abcd/select", map[string]int{"board": 40}, http.StatusNotFound},
		{"custom", "/api/sessions/abcd/custom", map[string]string{"layout": "31 32R 35 11 15 55"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", tt.path, tt.body))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	if selected != 40 {
		t.Errorf("Expected last selected board 40, got %d", selected)
	}
	if layout != "31 32R 35 11 15 55" {
		t.Errorf("Expected custom layout to be forwarded, got %q", layout)
	}
}

func TestSolveAndValidate(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/abcd/solve", nil))
	var solve service.SolveResult
	parseResponse(t, w, &solve)
	if !solve.Solvable || solve.Moves[0] != "32R" {
		t.Errorf("Expected solution [32R], got %+v", solve)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/validate", map[string]string{"layout": "11 11 12 13 14 15R"}))
	var validation service.ValidationResult
	parseResponse(t, w, &validation)
	if validation.Valid || len(validation.FailedRules) == 0 {
		t.Errorf("Expected invalid layout, got %+v", validation)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/boards", nil))
	var boards struct {
		Count int `json:"count"`
	}
	parseResponse(t, w, &boards)
	if boards.Count != 18 {
		t.Errorf("Expected 18 boards, got %d", boards.Count)
	}
}

func TestLeaderboardRoutes(t *testing.T) {
	tests := []struct {
		name           string
		method, path   string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name: "save win", method: "POST", path: "/api/sessions/abcd/save",
			expectedStatus: http.StatusCreated,
		},
		{
			name: "save before winning", method: "POST", path: "/api/sessions/abcd/save",
			setupMock: func(m *MockGameService) {
				m.SaveWinFunc = func(ctx context.Context, sessionID string) (*leaderboard.Record, error) {
					return nil, service.ErrNotWon
				}
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "leaderboard disabled", method: "GET", path: "/api/leaderboard",
			setupMock: func(m *MockGameService) {
				m.LeaderboardFunc = func(ctx context.Context) ([]leaderboard.Record, error) {
					return nil, service.ErrNoLeaderboard
				}
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "clear", method: "DELETE", path: "/api/leaderboard",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}
			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest(tt.method, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// TestEndToEnd drives the real service through the router
func TestEndToEnd(t *testing.T) {
	store, err := leaderboard.OpenFileStore(filepath.Join(t.TempDir(), "halloffame.ser"))
	if err != nil {
		t.Fatalf("Failed to open leaderboard: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), config.NewManager(), service.WithLeaderboard(store))
	server := NewServer(svc, nil)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions", map[string]string{"id": "e2e"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/e2e/move", map[string]interface{}{"move": "32R"}))
	var move service.MoveResult
	parseResponse(t, w, &move)
	if move.GameState == nil || !move.GameState.Won {
		t.Fatalf("Expected won game, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/e2e/save", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/e2e/save", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for a second save, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/leaderboard", nil))
	var board struct {
		Lines []string `json:"lines"`
	}
	parseResponse(t, w, &board)
	if len(board.Lines) != 1 || board.Lines[0] != "1 E 0:00:00 1 32R" {
		t.Errorf("Expected one leaderboard line, got %v", board.Lines)
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetSessionFunc = func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
					return nil, session.ErrSessionNotFound
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(t, mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			server.handleWebSocket(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	t.Run("Disabled hub", func(t *testing.T) {
		server := NewServer(&MockGameService{}, nil)
		w := httptest.NewRecorder()
		server.handleWebSocket(w, httptest.NewRequest("GET", "/ws?session=abcd", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	server := setupTestServer(t, &MockGameService{})
	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
