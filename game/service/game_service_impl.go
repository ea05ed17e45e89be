package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/leaderboard"
	"github.com/wricardo/roundup/game/solver"
)

var (
	ErrInvalidMove         = errors.New("invalid move")
	ErrNotWon              = errors.New("game has not been won")
	ErrAlreadySaved        = errors.New("win already saved")
	ErrNoLeaderboard       = errors.New("leaderboard is not configured")
	ErrUnknownSubscription = errors.New("unknown subscription")
)

// MaxBulkMoves caps the number of moves a single BulkMove call applies
const MaxBulkMoves = 100

// gameServiceImpl implements the GameService interface. The mutex is the
// single writer lock for every session it serves.
type gameServiceImpl struct {
	sessions    SessionManager
	catalog     BoardCatalog
	leaderboard LeaderboardStore
	broadcaster Broadcaster
	mu          sync.RWMutex
}

// Option configures optional collaborators of the game service
type Option func(*gameServiceImpl)

// WithLeaderboard enables SaveWin and the leaderboard queries
func WithLeaderboard(store LeaderboardStore) Option {
	return func(s *gameServiceImpl) {
		s.leaderboard = store
	}
}

// WithBroadcaster pushes every session update to remote viewers
func WithBroadcaster(b Broadcaster) Option {
	return func(s *gameServiceImpl) {
		s.broadcaster = b
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, catalog BoardCatalog, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		catalog:  catalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session on the requested board
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cursor := s.catalog.NewCursor()
	switch {
	case opts.Layout != "":
		if _, err := cursor.SetCustom(opts.Layout); err != nil {
			return nil, err
		}
	case opts.Board > 0:
		if _, err := cursor.Select(opts.Board); err != nil {
			return nil, err
		}
	}

	sess, err := s.sessions.Create(opts.ID, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.attach(sess)

	board := cursor.Current()
	log.Info().Str("session", sess.ID).Int("board", board.Number).Str("layout", board.Layout).Msg("session created")
	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Move slides the piece at row,col in direction for a session. Subscribers
// and the returned state see the last-moved piece; it is consumed once the
// move has been delivered, so later snapshots report none.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, row, col int, direction string) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	move, err := sess.Engine.Move(row, col, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMove, err)
	}

	state := sess.Engine.GetState()
	sess.Engine.ConsumeLastMoved()
	events := moveEvents(move, state)
	log.Debug().Str("session", sess.ID).Str("move", move.Entry).Int("distance", move.Distance).
		Str("status", string(state.Status)).Bool("ignored", move.Ignored).Msg("move resolved")

	return &MoveResult{
		Move:      move,
		GameState: state,
		Message:   events[len(events)-1].Message,
		Events:    events,
	}, nil
}

// BulkMove applies move tokens such as "32R" in order, stopping at the
// first malformed token or once the game is over
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Moves:          make([]*engine.MoveResult, 0, len(moves)),
		Events:         make([]GameEvent, 0),
	}

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, token := range moves {
		if sess.Engine.IsGameOver() {
			result.StoppedReason = "game_over"
			break
		}
		row, col, dir, err := engine.ParseMoveToken(token)
		if err != nil {
			result.StoppedReason = fmt.Sprintf("move %d invalid: %v", i+1, err)
			break
		}
		move, err := sess.Engine.Move(row, col, dir)
		if err != nil {
			result.StoppedReason = fmt.Sprintf("move %d invalid: %v", i+1, err)
			break
		}
		result.MovesExecuted++
		result.Moves = append(result.Moves, move)
		result.Events = append(result.Events, moveEvents(move, sess.Engine.GetState())...)
	}

	result.GameState = sess.Engine.GetState()
	sess.Engine.ConsumeLastMoved()
	if result.StoppedReason == "" && result.GameState.Status != engine.StatusActive {
		result.StoppedReason = string(result.GameState.Status)
	}
	return result, nil
}

// Restart starts the current board over
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.Restart(); err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// NextBoard advances the session to the following catalog board
func (s *gameServiceImpl) NextBoard(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	board := sess.Cursor.Next()
	if err := sess.Engine.NewGame(board.Layout); err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// SelectBoard starts catalog board number
func (s *gameServiceImpl) SelectBoard(ctx context.Context, sessionID string, number int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	board, err := sess.Cursor.Select(number)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.NewGame(board.Layout); err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// SetCustomBoard starts a game on a free-form layout. A rejected layout
// leaves the session exactly as it was.
func (s *gameServiceImpl) SetCustomBoard(ctx context.Context, sessionID, layout string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	board, err := sess.Cursor.SetCustom(layout)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.NewGame(board.Layout); err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// Solve finds the shortest winning sequence from the session's position
func (s *gameServiceImpl) Solve(ctx context.Context, sessionID string) (*SolveResult, error) {
	s.mu.RLock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	status := sess.Engine.Status()
	grid := sess.Engine.Grid()
	s.mu.RUnlock()

	result := &SolveResult{SessionID: sess.ID, Moves: []string{}}
	switch status {
	case engine.StatusWon:
		result.Solvable = true
		result.Message = "game already won"
		return result, nil
	case engine.StatusLost:
		result.Message = "game is lost; restart to try again"
		return result, nil
	}

	solution, err := solver.Solve(grid, solver.Options{})
	if err != nil {
		if errors.Is(err, solver.ErrUnsolvable) || errors.Is(err, solver.ErrSearchLimit) {
			result.Message = err.Error()
			return result, nil
		}
		return nil, err
	}

	result.Solvable = true
	result.Moves = solution.Moves
	result.Length = solution.Length()
	result.Explored = solution.Explored
	result.Message = fmt.Sprintf("solvable in %d moves", solution.Length())
	return result, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// Subscribe registers observer for every change to the session. Observers
// run while the service holds its lock and must not call back into it.
func (s *gameServiceImpl) Subscribe(ctx context.Context, sessionID string, observer Observer) (engine.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return engine.Subscription{}, err
	}
	return sess.Engine.Subscribe(engine.ObserverFunc(func(n engine.Notification) {
		observer.OnSessionUpdate(newSessionUpdate(sess, n))
	})), nil
}

// Unsubscribe removes an observer added with Subscribe
func (s *gameServiceImpl) Unsubscribe(ctx context.Context, sessionID string, sub engine.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if !sess.Engine.Unsubscribe(sub) {
		return ErrUnknownSubscription
	}
	return nil
}

// ListBoards returns the board catalog
func (s *gameServiceImpl) ListBoards(ctx context.Context) ([]*BoardInfo, error) {
	return s.catalog.ListBoards(), nil
}

// ValidateBoard checks layout against every board rule
func (s *gameServiceImpl) ValidateBoard(ctx context.Context, layout string) *ValidationResult {
	result := &ValidationResult{Layout: layout}
	placements, err := engine.ParseBoard(layout)
	if err != nil {
		result.FailedRules = engine.FailedRules(layout)
		result.Error = err.Error()
		return result
	}
	result.Valid = true
	result.Placements = placements
	return result
}

// SaveWin records the session's win in the leaderboard, once per game
func (s *gameServiceImpl) SaveWin(ctx context.Context, sessionID string) (*leaderboard.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.leaderboard == nil {
		return nil, ErrNoLeaderboard
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Engine.IsWon() {
		return nil, ErrNotWon
	}
	if sess.Saved {
		return nil, ErrAlreadySaved
	}

	board := sess.Cursor.Current()
	rec := leaderboard.Record{
		Board:       board.Number,
		Difficulty:  board.Difficulty,
		ElapsedTime: engine.ElapsedTimePlaceholder,
		Moves:       sess.Engine.MoveCount(),
		WinSequence: sess.Engine.WinSequence(),
		SavedAt:     time.Now(),
	}
	if err := s.leaderboard.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save win: %w", err)
	}
	sess.Saved = true

	log.Info().Str("session", sess.ID).Str("record", rec.Line()).Msg("win saved")
	return &rec, nil
}

// Leaderboard lists every saved win in the order it was recorded
func (s *gameServiceImpl) Leaderboard(ctx context.Context) ([]leaderboard.Record, error) {
	if s.leaderboard == nil {
		return nil, ErrNoLeaderboard
	}
	return s.leaderboard.List(ctx)
}

// ClearLeaderboard removes every saved win
func (s *gameServiceImpl) ClearLeaderboard(ctx context.Context) error {
	if s.leaderboard == nil {
		return ErrNoLeaderboard
	}
	if err := s.leaderboard.Clear(ctx); err != nil {
		return err
	}
	log.Info().Msg("leaderboard cleared")
	return nil
}

// session looks up a session and refreshes its access time. Callers hold
// the service lock.
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	return sess, nil
}

// attach wires the service's own observer into a new session: it clears
// the saved flag on every new game and forwards updates to the broadcaster
func (s *gameServiceImpl) attach(sess *Session) {
	sess.Engine.Subscribe(engine.ObserverFunc(func(n engine.Notification) {
		if n.Event == engine.EventNewGame {
			sess.Saved = false
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(sess.ID, newSessionUpdate(sess, n))
		}
	}))
}

// sessionInfo snapshots a session. The access time is owned by the session
// manager and read under its lock.
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	accessed, err := s.sessions.LastAccessed(sess.ID)
	if err != nil {
		// expired by the cleanup routine after the lookup
		accessed = sess.CreatedAt
	}
	return &SessionInfo{
		ID:             sess.ID,
		Board:          sess.Cursor.Current(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: accessed,
		Saved:          sess.Saved,
		GameState:      sess.Engine.GetState(),
	}
}

func newSessionUpdate(sess *Session, n engine.Notification) *SessionUpdate {
	return &SessionUpdate{
		SessionID: sess.ID,
		Board:     sess.Cursor.Current(),
		Event:     n.Event,
		GameState: n.State,
		Move:      n.Move,
	}
}

// moveEvents describes a resolved move; the last event is the headline
func moveEvents(move *engine.MoveResult, state *engine.GameState) []GameEvent {
	now := time.Now()
	if move.Ignored {
		return []GameEvent{{
			Type:      "ignored",
			Message:   fmt.Sprintf("Game is %s; move ignored", state.Status),
			Timestamp: now,
			Position:  move.From,
		}}
	}

	var events []GameEvent
	switch {
	case !move.Piece.IsPiece():
		events = append(events, GameEvent{
			Type:      "blocked",
			Message:   fmt.Sprintf("No piece at %s", move.From),
			Timestamp: now,
			Position:  move.From,
		})
	case move.Distance == 0:
		events = append(events, GameEvent{
			Type:      "blocked",
			Message:   fmt.Sprintf("Piece at %s cannot move %s", move.From, move.Direction),
			Timestamp: now,
			Position:  move.From,
		})
	default:
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s from %s to %s", move.Direction, move.From, move.To),
			Timestamp: now,
			Position:  move.To,
		})
	}

	if state.Won {
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   fmt.Sprintf("You win! Solved in %d moves", state.MoveCount),
			Timestamp: now,
			Position:  move.To,
		})
	} else if state.Lost {
		events = append(events, GameEvent{
			Type:      "lost",
			Message:   fmt.Sprintf("A piece fell off at %s; game lost", move.To),
			Timestamp: now,
			Position:  move.To,
		})
	}
	return events
}
