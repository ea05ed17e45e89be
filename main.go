// Command roundup runs the Roundup sliding-piece puzzle.
//
// It supports three modes:
//  1. "console" (default) runs the line-oriented console game; with --serve the
//     same session is also exposed over HTTP so browsers and agents can watch
//     and play along
//  2. "server" runs the HTTP server exposing the REST API, WebSocket and an
//     /mcp HTTP endpoint
//  3. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none
//     is available
//
// Flags control host/port, the board catalog, the hall of fame backend, log
// level and optional ngrok tunneling for external access during development.
// Every flag can also be set through the environment or a .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/roundup/api"
	"github.com/wricardo/roundup/game/config"
	"github.com/wricardo/roundup/game/leaderboard"
	"github.com/wricardo/roundup/game/service"
	"github.com/wricardo/roundup/game/session"
	"github.com/wricardo/roundup/transport/console"
	"github.com/wricardo/roundup/transport/mcp"
	"github.com/wricardo/roundup/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Roundup"
)

const (
	defaultConsoleSession = "console"
	cleanupInterval       = time.Hour
	sessionMaxAge         = 24 * time.Hour
)

// services bundles everything the run modes share
type services struct {
	sessions *session.Manager
	game     service.GameService
	hub      *websocket.Hub
	store    leaderboard.Store
	path     string
}

// serviceOptions selects the catalog and the hall of fame backend
type serviceOptions struct {
	BoardsFile         string
	LeaderboardBackend string
	LeaderboardPath    string
}

// ngrokOptions configures the optional public tunnel
type ngrokOptions struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// main loads .env, builds the command tree and runs the selected mode until
// it finishes or the process is signalled.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("roundup exited")
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "roundup",
		Usage:   "slide the pieces until the goal piece rests on the center square",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "boards",
				Usage:   "boards JSON file (defaults to the built-in catalog)",
				Sources: cli.EnvVars("BOARDS_FILE"),
			},
			&cli.StringFlag{
				Name:    "leaderboard-backend",
				Value:   "file",
				Usage:   "hall of fame backend: file or sqlite",
				Sources: cli.EnvVars("LEADERBOARD_BACKEND"),
			},
			&cli.StringFlag{
				Name:    "leaderboard-path",
				Value:   leaderboard.DefaultPath,
				Usage:   "hall of fame file or database path",
				Sources: cli.EnvVars("LEADERBOARD_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level: debug, info, warn, error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, setupLogging(cmd.String("log-level"))
		},
		Commands: []*cli.Command{
			consoleCommand(),
			serverCommand(),
			mcpCommand(),
		},
		DefaultCommand: "console",
	}
}

// setupLogging routes zerolog to stderr so console and stdio MCP output on
// stdout stay clean
func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func ngrokFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
}

func consoleCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "infile",
			Usage:   "read commands from this file instead of stdin",
			Sources: cli.EnvVars("ROUNDUP_INFILE"),
		},
		&cli.StringFlag{
			Name:    "outfile",
			Usage:   "write output to this file instead of stdout",
			Sources: cli.EnvVars("ROUNDUP_OUTFILE"),
		},
		&cli.StringFlag{
			Name:  "session",
			Value: defaultConsoleSession,
			Usage: "session ID the console plays (visible to network viewers)",
		},
		&cli.IntFlag{
			Name:  "board",
			Usage: "catalog board to start on (0 for the first board)",
		},
		&cli.BoolFlag{
			Name:    "serve",
			Usage:   "also run the HTTP server so others can watch and play the same session",
			Sources: cli.EnvVars("ROUNDUP_SERVE"),
		},
	}

	return &cli.Command{
		Name:  "console",
		Usage: "play in the terminal",
		Flags: append(flags, ngrokFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svcs, err := initializeServices(optionsFrom(cmd))
			if err != nil {
				return err
			}
			defer svcs.close()

			in, out, closeFiles, err := openConsoleFiles(cmd.String("infile"), cmd.String("outfile"))
			if err != nil {
				return err
			}
			defer closeFiles()

			return runConsole(ctx, svcs, consoleOptions{
				SessionID: cmd.String("session"),
				Board:     int(cmd.Int("board")),
				Serve:     cmd.Bool("serve"),
				Addr:      listenAddr(cmd),
				Ngrok:     ngrokFrom(cmd),
			}, in, out)
		},
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags:   ngrokFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svcs, err := initializeServices(optionsFrom(cmd))
			if err != nil {
				return err
			}
			defer svcs.close()

			listener, err := net.Listen("tcp", listenAddr(cmd))
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", listenAddr(cmd), err)
			}

			go svcs.hub.Run(ctx)
			go svcs.sessions.RunCleanup(ctx, cleanupInterval, sessionMaxAge)

			return runHTTPServer(ctx, svcs, listener, ngrokFrom(cmd))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server backed by the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "external API to reuse when it is reachable",
				Sources: cli.EnvVars("ROUNDUP_API_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svcs, err := initializeServices(optionsFrom(cmd))
			if err != nil {
				return err
			}
			defer svcs.close()

			return runStdioMCPWithInternalServer(ctx, svcs, cmd.String("api-url"))
		},
	}
}

func optionsFrom(cmd *cli.Command) serviceOptions {
	return serviceOptions{
		BoardsFile:         cmd.String("boards"),
		LeaderboardBackend: cmd.String("leaderboard-backend"),
		LeaderboardPath:    cmd.String("leaderboard-path"),
	}
}

func ngrokFrom(cmd *cli.Command) ngrokOptions {
	return ngrokOptions{
		Enabled:   cmd.Bool("ngrok"),
		AuthToken: cmd.String("ngrok-auth"),
		Domain:    cmd.String("ngrok-domain"),
	}
}

func listenAddr(cmd *cli.Command) string {
	return fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
}

// initializeServices wires the catalog, session registry, hall of fame,
// WebSocket hub and game service.
func initializeServices(opts serviceOptions) (*services, error) {
	var catalog *config.Manager
	if opts.BoardsFile != "" {
		var err error
		catalog, err = config.NewManagerFromFile(opts.BoardsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load boards: %w", err)
		}
	} else {
		catalog = config.NewManager()
	}

	path := opts.LeaderboardPath
	if path == "" {
		path = leaderboard.DefaultPath
	}
	store, err := leaderboard.Open(opts.LeaderboardBackend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hall of fame: %w", err)
	}

	sessions := session.NewManager()
	hub := websocket.NewHub()
	game := service.NewGameService(sessions, catalog,
		service.WithLeaderboard(store),
		service.WithBroadcaster(hub),
	)

	log.Debug().
		Str("boards", catalog.Source()).
		Int("count", catalog.Count()).
		Str("leaderboard", path).
		Msg("services initialized")

	return &services{
		sessions: sessions,
		game:     game,
		hub:      hub,
		store:    store,
		path:     path,
	}, nil
}

func (s *services) close() {
	if err := s.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close hall of fame")
	}
}

// newRouter mounts the REST API and WebSocket at the root and the MCP proxy,
// which calls back into the API at baseURL, under /mcp.
func newRouter(svcs *services, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(svcs.game, svcs.hub))
	mainRouter.Handle("/mcp", mcp.NewClient(baseURL).HTTPHandler())
	return mainRouter
}

// runHTTPServer serves the router on listener, plus an ngrok tunnel when
// enabled, until ctx is done.
func runHTTPServer(ctx context.Context, svcs *services, listener net.Listener, tunnel ngrokOptions) error {
	addr := listener.Addr().String()
	handler := newRouter(svcs, "http://"+addr)

	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("websocket", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if tunnel.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, tunnel, handler)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err = <-serveErr:
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn().Err(shutdownErr).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")
	return err
}

// runNgrokTunnel exposes handler through an ngrok HTTP endpoint until ctx is
// done. Tunnel failures are logged and never stop the local server.
func runNgrokTunnel(ctx context.Context, opts ngrokOptions, handler http.Handler) {
	if opts.AuthToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var endpoint ngrokConfig.Tunnel
	if opts.Domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.Domain))
		log.Info().Str("domain", opts.Domain).Msg("using custom ngrok domain")
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(opts.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().
		Str("url", ngrokURL).
		Str("api", ngrokURL+"/api").
		Str("websocket", ngrokURL+"/ws?session=<session_id>").
		Str("mcp", ngrokURL+"/mcp").
		Msg("🚀 ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// consoleOptions configures console mode
type consoleOptions struct {
	SessionID string
	Board     int
	Serve     bool
	Addr      string
	Ngrok     ngrokOptions
}

// runConsole creates the console session and plays it on in/out. With Serve
// the HTTP server runs alongside until the console quits.
func runConsole(ctx context.Context, svcs *services, opts consoleOptions, in io.Reader, out io.Writer) error {
	if _, err := svcs.game.CreateSession(ctx, service.CreateOptions{ID: opts.SessionID, Board: opts.Board}); err != nil {
		return fmt.Errorf("failed to create console session: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go svcs.hub.Run(ctx)

	serverDone := make(chan error, 1)
	if opts.Serve {
		listener, err := net.Listen("tcp", opts.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
		}
		go svcs.sessions.RunCleanup(ctx, cleanupInterval, sessionMaxAge)
		go func() { serverDone <- runHTTPServer(ctx, svcs, listener, opts.Ngrok) }()
		log.Info().Str("session", opts.SessionID).Msg("console session is shared over HTTP")
	} else {
		serverDone <- nil
	}

	ui := console.New(svcs.game, console.Config{
		SessionID:       opts.SessionID,
		LeaderboardPath: svcs.path,
	}, in, out)
	consoleErr := ui.Run(ctx)

	cancel()
	if err := <-serverDone; err != nil && consoleErr == nil {
		return err
	}
	return consoleErr
}

// openConsoleFiles resolves the console streams, defaulting to stdin and
// stdout. The returned func closes whatever was opened.
func openConsoleFiles(infile, outfile string) (io.Reader, io.Writer, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	var in io.Reader = os.Stdin
	if infile != "" {
		f, err := os.Open(infile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open infile: %w", err)
		}
		closers = append(closers, f)
		in = f
	}

	var out io.Writer = os.Stdout
	if outfile != "" {
		f, err := os.Create(outfile)
		if err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("failed to create outfile: %w", err)
		}
		closers = append(closers, f)
		out = f
	}

	return in, out, closeAll, nil
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at externalURL; if unavailable, it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, svcs *services, externalURL string) error {
	baseURL := externalURL
	log.Info().Str("url", externalURL).Msg("checking for external API server")

	if !apiReachable(externalURL) {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		go svcs.hub.Run(ctx)
		go svcs.sessions.RunCleanup(ctx, cleanupInterval, sessionMaxAge)

		httpServer := &http.Server{Handler: api.NewServer(svcs.game, svcs.hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Info().Str("url", baseURL).Msg("MCP stdio server ready (using internal HTTP server)")
	} else {
		log.Info().Str("url", baseURL).Msg("MCP stdio server ready (using external HTTP server)")
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiReachable probes the health endpoint of an API server
func apiReachable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
