package service

import (
	"context"
	"time"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/leaderboard"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, row, col int, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	Restart(ctx context.Context, sessionID string) (*SessionInfo, error)
	NextBoard(ctx context.Context, sessionID string) (*SessionInfo, error)
	SelectBoard(ctx context.Context, sessionID string, number int) (*SessionInfo, error)
	SetCustomBoard(ctx context.Context, sessionID, layout string) (*SessionInfo, error)
	Solve(ctx context.Context, sessionID string) (*SolveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	Subscribe(ctx context.Context, sessionID string, observer Observer) (engine.Subscription, error)
	Unsubscribe(ctx context.Context, sessionID string, sub engine.Subscription) error

	// Boards
	ListBoards(ctx context.Context) ([]*BoardInfo, error)
	ValidateBoard(ctx context.Context, layout string) *ValidationResult

	// Leaderboard
	SaveWin(ctx context.Context, sessionID string) (*leaderboard.Record, error)
	Leaderboard(ctx context.Context) ([]leaderboard.Record, error)
	ClearLeaderboard(ctx context.Context) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, cursor BoardCursor) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	LastAccessed(id string) (time.Time, error)
}

// BoardCatalog is the immutable set of predefined boards
type BoardCatalog interface {
	Count() int
	Board(number int) (*BoardInfo, error)
	ListBoards() []*BoardInfo
	GetDefault() *BoardInfo
	NewCursor() BoardCursor
}

// BoardCursor tracks which catalog board a session is playing
type BoardCursor interface {
	Current() *BoardInfo
	Select(number int) (*BoardInfo, error)
	Next() *BoardInfo
	SetCustom(layout string) (*BoardInfo, error)
}

// LeaderboardStore persists solved-game records
type LeaderboardStore interface {
	Append(ctx context.Context, rec leaderboard.Record) error
	List(ctx context.Context) ([]leaderboard.Record, error)
	Clear(ctx context.Context) error
}

// Broadcaster pushes session updates to remote viewers
type Broadcaster interface {
	BroadcastToSession(sessionID string, update *SessionUpdate)
}

// Observer receives session updates synchronously, in subscription order
type Observer interface {
	OnSessionUpdate(update *SessionUpdate)
}

// ObserverFunc adapts a plain function to the Observer interface
type ObserverFunc func(update *SessionUpdate)

// OnSessionUpdate calls f(update)
func (f ObserverFunc) OnSessionUpdate(update *SessionUpdate) {
	f(update)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Cursor         BoardCursor
	CreatedAt      time.Time
	// LastAccessedAt is guarded by the SessionManager; read it through
	// SessionManager.LastAccessed
	LastAccessedAt time.Time
	// Saved is set once the current win has been recorded
	Saved bool
}
