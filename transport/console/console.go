package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/roundup/game/engine"
	"github.com/wricardo/roundup/game/leaderboard"
	"github.com/wricardo/roundup/game/service"
)

const (
	menuPrompt = "1)Restart 2)New Game 3)Select Game 4)Set Game 5)Hall of Fame 6)About 7)Quit"

	aboutText = "-- About --\n" +
		"Roundup Version 1.0\n" +
		"Type in the coordinates of the piece then U/D/R/L to move it,\n" +
		"for example 32R moves the piece on row 3, column 2 to the right.\n" +
		"A piece moves in a straight line in the direction specified and\n" +
		"only stops when it runs into another piece, or slides off the board.\n" +
		"Your goal is to guide the goal piece (*) to end up on the center square.\n"
)

// Config configures a console UI
type Config struct {
	// SessionID is the session the console plays
	SessionID string
	// LeaderboardPath is reported when the hall of fame is deleted
	LeaderboardPath string
}

// UI is the line-oriented console front end for one session
type UI struct {
	svc    service.GameService
	cfg    Config
	in     io.Reader
	lines  chan string
	out    io.Writer
	mu     sync.Mutex
	canWin bool
}

// New creates a console bound to an existing session
func New(svc service.GameService, cfg Config, in io.Reader, out io.Writer) *UI {
	return &UI{
		svc:   svc,
		cfg:   cfg,
		in:    in,
		lines: make(chan string),
		out:   out,
	}
}

// Run renders the session and processes commands until input ends, the
// quit command is given or ctx is cancelled. Updates made to the same
// session through other front ends are rendered as they happen.
func (u *UI) Run(ctx context.Context) error {
	sub, err := u.svc.Subscribe(ctx, u.cfg.SessionID, service.ObserverFunc(u.OnSessionUpdate))
	if err != nil {
		return err
	}
	defer func() {
		if err := u.svc.Unsubscribe(context.Background(), u.cfg.SessionID, sub); err != nil {
			log.Warn().Err(err).Str("session", u.cfg.SessionID).Msg("console unsubscribe failed")
		}
	}()

	// Read after subscribing so no update falls between the snapshot and
	// the subscription.
	info, err := u.svc.GetSession(ctx, u.cfg.SessionID)
	if err != nil {
		return err
	}
	u.OnSessionUpdate(&service.SessionUpdate{
		SessionID: info.ID,
		Board:     info.Board,
		Event:     engine.EventNewGame,
		GameState: info.GameState,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	readErr := make(chan error, 1)
	go u.readLines(ctx, readErr)

	for {
		line, ok := u.nextLine(ctx)
		if !ok {
			break
		}
		if quit := u.handleLine(ctx, line); quit {
			return nil
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return <-readErr
}

// readLines feeds input lines to nextLine until input ends or ctx is done.
// A read blocked on the terminal is abandoned when ctx is cancelled.
func (u *UI) readLines(ctx context.Context, readErr chan<- error) {
	defer close(u.lines)

	scanner := bufio.NewScanner(u.in)
	for scanner.Scan() {
		select {
		case u.lines <- scanner.Text():
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

// nextLine waits for the next input line; ok is false once input ends or
// ctx is cancelled
func (u *UI) nextLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-u.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// OnSessionUpdate renders a session change. It is called under the game
// service lock and must not call back into the service.
func (u *UI) OnSessionUpdate(update *service.SessionUpdate) {
	u.mu.Lock()
	defer u.mu.Unlock()

	state := update.GameState
	if state == nil {
		return
	}

	u.println(update.Board.Title())
	switch {
	case state.Lost:
		u.canWin = false
		u.println("LOSE")
		u.printBoard(state)
	case state.Won:
		u.canWin = true
		u.printf("Moves: %d\n", state.MoveCount)
		u.printBoard(state)
		number := 0
		if update.Board != nil {
			number = update.Board.Number
		}
		u.printf("Game Won Notification: You won game %d!\n", number)
		u.println(state.WinSequence)
		u.println("Save your time of 0:00? (y/n)")
	default:
		u.canWin = false
		u.printf("Moves: %d\n", state.MoveCount)
		u.printBoard(state)
	}
}

func (u *UI) handleLine(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	token := fields[0]
	switch {
	case len(token) == 1:
		if token == "y" {
			u.saveWin(ctx)
		}
		return u.menu(ctx, token)
	case len(token) == 3 && isDigit(token[0]) && isDigit(token[1]):
		u.move(ctx, token)
	}
	return false
}

func (u *UI) menu(ctx context.Context, choice string) bool {
	var err error
	switch choice {
	case "0":
		if err = u.svc.ClearLeaderboard(ctx); err == nil {
			u.locked(func() { u.printf("%s deleted.\n", u.leaderboardName()) })
		}
	case "1":
		_, err = u.svc.Restart(ctx, u.cfg.SessionID)
	case "2":
		_, err = u.svc.NextBoard(ctx, u.cfg.SessionID)
	case "3":
		u.selectBoard(ctx)
	case "4":
		u.customBoard(ctx)
	case "5":
		u.printHallOfFame(ctx)
	case "6":
		u.locked(func() { u.println(aboutText) })
	case "7":
		return true
	}
	if err != nil {
		log.Warn().Err(err).Str("session", u.cfg.SessionID).Str("command", choice).Msg("console command failed")
	}
	return false
}

func (u *UI) selectBoard(ctx context.Context) {
	boards, err := u.svc.ListBoards(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("listing boards failed")
		return
	}
	u.locked(func() { u.printf("Select Game: Enter desired game number (1 - %d):\n", len(boards)) })

	line, ok := u.nextLine(ctx)
	if !ok {
		return
	}
	number, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return
	}
	if _, err := u.svc.SelectBoard(ctx, u.cfg.SessionID, number); err != nil {
		u.locked(func() {
			u.println("-- Error --")
			u.printf("There is no game %d.\n", number)
		})
	}
}

func (u *UI) customBoard(ctx context.Context) {
	u.locked(func() { u.println("Set Game: Enter board configuration:") })

	line, ok := u.nextLine(ctx)
	if !ok {
		return
	}
	if _, err := u.svc.SetCustomBoard(ctx, u.cfg.SessionID, line); err != nil {
		u.locked(func() {
			u.println("-- Error --")
			u.println("Not a valid board configuration.")
		})
	}
}

// move forwards a "<row><col><dir>" command when it names an interior
// cell holding a piece; anything else is ignored
func (u *UI) move(ctx context.Context, token string) {
	row, col, dir, err := engine.ParseMoveToken(strings.ToUpper(token))
	if err != nil {
		return
	}

	state, err := u.svc.GetGameState(ctx, u.cfg.SessionID)
	if err != nil {
		log.Warn().Err(err).Str("session", u.cfg.SessionID).Msg("reading game state failed")
		return
	}
	maxBound := len(state.Grid) - 2
	if row < 1 || row > maxBound || col < 1 || col > maxBound {
		return
	}
	if !state.Grid[row][col].IsPiece() {
		return
	}

	if _, err := u.svc.Move(ctx, u.cfg.SessionID, row, col, dir.String()); err != nil {
		log.Warn().Err(err).Str("session", u.cfg.SessionID).Str("move", token).Msg("console move failed")
	}
}

func (u *UI) saveWin(ctx context.Context) {
	u.mu.Lock()
	canWin := u.canWin
	u.canWin = false
	u.mu.Unlock()
	if !canWin {
		return
	}

	rec, err := u.svc.SaveWin(ctx, u.cfg.SessionID)
	if err != nil {
		if !errors.Is(err, service.ErrAlreadySaved) {
			log.Warn().Err(err).Str("session", u.cfg.SessionID).Msg("saving win failed")
		}
		return
	}
	log.Debug().Str("record", rec.Line()).Msg("win saved")
}

func (u *UI) printHallOfFame(ctx context.Context) {
	records, err := u.svc.Leaderboard(ctx)
	if err != nil && !errors.Is(err, service.ErrNoLeaderboard) {
		log.Warn().Err(err).Msg("reading hall of fame failed")
		return
	}

	u.locked(func() {
		u.println("-- Hall of Fame --")
		for _, rec := range records {
			u.println(formatRecord(rec))
		}
		u.println("")
	})
}

func (u *UI) leaderboardName() string {
	if u.cfg.LeaderboardPath != "" {
		return u.cfg.LeaderboardPath
	}
	return leaderboard.DefaultPath
}

func (u *UI) printBoard(state *engine.GameState) {
	io.WriteString(u.out, engine.RenderBoard(state.Grid))
	u.println(menuPrompt)
}

func (u *UI) locked(fn func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fn()
}

func (u *UI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UI) printf(format string, args ...interface{}) {
	fmt.Fprintf(u.out, format, args...)
}

// formatRecord lays out a hall of fame entry in aligned columns
func formatRecord(rec leaderboard.Record) string {
	return fmt.Sprintf("%3d %s %s %2d  %s", rec.Board, rec.Difficulty, rec.ElapsedTime, rec.Moves, rec.WinSequence)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
