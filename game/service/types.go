package service

import (
	"fmt"
	"time"

	"github.com/wricardo/roundup/game/engine"
)

// CreateOptions selects the board a new session starts on. A non-empty
// Layout takes precedence over Board; Board 0 means the catalog default.
type CreateOptions struct {
	ID     string `json:"id,omitempty"`
	Board  int    `json:"board,omitempty"`
	Layout string `json:"layout,omitempty"`
}

// BoardInfo describes a catalog or custom board
type BoardInfo struct {
	Number     int    `json:"number"`
	Layout     string `json:"layout"`
	Difficulty string `json:"difficulty"`
	Label      string `json:"label"`
	Custom     bool   `json:"custom,omitempty"`
}

// Title renders the heading front ends show, e.g. "Roundup - board 3 M"
func (b *BoardInfo) Title() string {
	if b == nil {
		return "Roundup"
	}
	return fmt.Sprintf("Roundup - board %d %s", b.Number, b.Difficulty)
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	Board          *BoardInfo        `json:"board"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Saved          bool              `json:"saved"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Move      *engine.MoveResult `json:"move"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int                  `json:"requested_moves"`
	MovesExecuted  int                  `json:"moves_executed"`
	Moves          []*engine.MoveResult `json:"moves"`
	GameState      *engine.GameState    `json:"game_state"`
	Events         []GameEvent          `json:"events"`
	StoppedReason  string               `json:"stopped_reason,omitempty"`
	Truncated      bool                 `json:"truncated,omitempty"`
	Limit          int                  `json:"limit,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "blocked", "victory", "lost", "new_game"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// SessionUpdate is delivered to observers and remote viewers after every
// change to a session
type SessionUpdate struct {
	SessionID string             `json:"session_id"`
	Board     *BoardInfo         `json:"board"`
	Event     engine.EventType   `json:"event"`
	GameState *engine.GameState  `json:"game_state"`
	Move      *engine.MoveResult `json:"move,omitempty"`
}

// ValidationResult reports how a board string fared against every rule
type ValidationResult struct {
	Layout      string             `json:"layout"`
	Valid       bool               `json:"valid"`
	FailedRules []string           `json:"failed_rules,omitempty"`
	Placements  []engine.Placement `json:"placements,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// SolveResult is the shortest winning sequence from the current position
type SolveResult struct {
	SessionID string   `json:"session_id"`
	Solvable  bool     `json:"solvable"`
	Moves     []string `json:"moves"`
	Length    int      `json:"length"`
	Explored  int      `json:"explored"`
	Message   string   `json:"message,omitempty"`
}
