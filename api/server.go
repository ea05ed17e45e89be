package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/roundup/game/config"
	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/service"
	"github.com/wricardo/roundup/game/session"
	"github.com/wricardo/roundup/transport/websocket"
)

// SnapshotEvent tags the first frame a WebSocket viewer receives
const SnapshotEvent engine.EventType = "snapshot"

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case /ws
// is unavailable.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.handleRestart).Methods("POST")
	api.HandleFunc("/sessions/{id}/next", s.handleNextBoard).Methods("POST")
	api.HandleFunc("/sessions/{id}/select", s.handleSelectBoard).Methods("POST")
	api.HandleFunc("/sessions/{id}/custom", s.handleCustomBoard).Methods("POST")
	api.HandleFunc("/sessions/{id}/solve", s.handleSolve).Methods("GET")
	api.HandleFunc("/sessions/{id}/save", s.handleSaveWin).Methods("POST")

	// Boards
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/validate", s.handleValidate).Methods("POST")

	// Leaderboard
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods("GET")
	api.HandleFunc("/leaderboard", s.handleClearLeaderboard).Methods("DELETE")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, config.ErrBoardNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionAlreadyExists), errors.Is(err, service.ErrNotWon), errors.Is(err, service.ErrAlreadySaved):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidMove), errors.Is(err, engine.ErrOutOfRange),
		errors.Is(err, engine.ErrInvalidConfiguration), errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoLeaderboard):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes an optional JSON body into target
func decodeBody(r *http.Request, target interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(target)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOptions
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Row       *int   `json:"row"`
		Col       *int   `json:"col"`
		Direction string `json:"direction"`
		// Move is the compact "32R" form; it overrides row, col and direction
		Move string `json:"move,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var row, col int
	direction := req.Direction
	switch {
	case req.Move != "":
		mr, mc, dir, err := engine.ParseMoveToken(req.Move)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		row, col, direction = mr, mc, dir.String()
	case req.Row != nil && req.Col != nil:
		row, col = *req.Row, *req.Col
	default:
		respondError(w, http.StatusBadRequest, "row and col (or move) are required")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, row, col, direction)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("session", sessionID).Str("move", result.Move.Entry).Int("distance", result.Move.Distance).
		Str("status", string(result.GameState.Status)).Msg("move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
		// Sequence is a concatenated win sequence such as "32R14D"
		Sequence string `json:"sequence,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	moves := req.Moves
	if req.Sequence != "" {
		parsed, err := engine.SplitWinSequence(req.Sequence)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		moves = append(moves, parsed...)
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, moves)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("session", sessionID).Int("executed", result.MovesExecuted).Int("requested", result.RequestedMoves).
		Str("stopped", result.StoppedReason).Msg("bulk move")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Restart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleNextBoard(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.NextBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleSelectBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Board int `json:"board"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.SelectBoard(r.Context(), mux.Vars(r)["id"], req.Board)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleCustomBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout string `json:"layout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.SetCustomBoard(r.Context(), mux.Vars(r)["id"], req.Layout)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Solve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveWin(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.SaveWin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"record": rec,
		"line":   rec.Line(),
	})
}

// Board Handlers

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(boards),
		"boards": boards,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout string `json:"layout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, s.service.ValidateBoard(r.Context(), req.Layout))
}

// Leaderboard Handlers

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Leaderboard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, rec.Line())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
		"lines":   lines,
	})
}

func (s *Server) handleClearLeaderboard(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearLeaderboard(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Leaderboard cleared",
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket viewers are disabled", http.StatusServiceUnavailable)
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, info.ID, &service.SessionUpdate{
		SessionID: info.ID,
		Board:     info.Board,
		Event:     SnapshotEvent,
		GameState: info.GameState,
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
