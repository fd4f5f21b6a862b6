// Command pcb-editor starts the circuit board editor server.
//
// It supports these commands:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "inspect" – decodes a board in its text or packed file form and prints it
//  4. "validate" – checks every preset file in the presets directory
//
// Flags control host/port, preset and session storage, CORS origins, debug
// logging, and optional ngrok tunneling for easy external access during
// development. Every flag also reads from an environment variable, and a
// .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/pcb-editor/api"
	"github.com/wricardo/pcb-editor/game/config"
	"github.com/wricardo/pcb-editor/game/pcb"
	"github.com/wricardo/pcb-editor/game/pcbfile"
	"github.com/wricardo/pcb-editor/game/service"
	"github.com/wricardo/pcb-editor/game/session"
	"github.com/wricardo/pcb-editor/transport/mcp"
	"github.com/wricardo/pcb-editor/transport/websocket"
	"github.com/wricardo/pcb-editor/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "PCB Editor Server"
)

const (
	sessionMaxAge   = 24 * time.Hour
	cleanupInterval = 1 * time.Hour
	syncInterval    = 5 * time.Second
	externalAPIURL  = "http://localhost:8080"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flags on the root command are shared by
// every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "pcb-editor",
		Usage:   "Circuit board grid editor with REST, WebSocket and MCP interfaces",
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
				Name:    "presets-dir",
				Aliases: []string{"config-dir"},
				Value:   "configs",
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("PRESETS_DIR", "CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "Directory where sessions are persisted as JSON files",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database for sessions (replaces --sessions-dir when set)",
				Sources: cli.EnvVars("SESSIONS_DB"),
			},
			&cli.StringSliceFlag{
				Name:    "cors-origin",
				Usage:   "Allowed browser origin (repeatable, all origins when unset)",
				Sources: cli.EnvVars("CORS_ORIGINS"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "Enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "Ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "Custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server, starting an internal HTTP server if needed",
				Action:  runStdioMCP,
			},
			{
				Name:      "inspect",
				Usage:     "Decode a board and print its layout",
				ArgsUsage: "<board text | file>",
				Action:    runInspect,
			},
			{
				Name:      "validate",
				Usage:     "Validate the preset files",
				ArgsUsage: "[dir]",
				Action:    runValidate,
			},
		},
	}
}

// newLogger builds the process logger. Debug mode lowers the level and adds
// caller information.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.DisableCaller = true
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.DisableCaller = false
	}
	return cfg.Build()
}

// storageOptions selects where presets are read and sessions are kept
type storageOptions struct {
	PresetsDir  string
	SessionsDir string
	DBPath      string
}

func storageFromFlags(cmd *cli.Command) storageOptions {
	return storageOptions{
		PresetsDir:  cmd.String("presets-dir"),
		SessionsDir: cmd.String("sessions-dir"),
		DBPath:      cmd.String("db"),
	}
}

// services bundles what the transports need
type services struct {
	Board       service.BoardService
	Sessions    *session.Manager
	Presets     *config.Manager
	Persistence session.SessionPersistence
}

// Close flushes sessions and releases the store
func (s *services) Close() error {
	err := s.Sessions.SaveAllSessions()
	if closer, ok := s.Persistence.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}

// initializeServices wires preset and session managers and the board
// service, loading any persisted sessions.
func initializeServices(opts storageOptions, logger *zap.Logger) (*services, error) {
	presets, err := config.NewManager(opts.PresetsDir, pcb.DefaultRegistry(), logger.Named("presets"))
	if err != nil {
		return nil, fmt.Errorf("failed to create preset manager: %w", err)
	}

	var persistence session.SessionPersistence
	if opts.DBPath != "" {
		persistence, err = session.NewSQLitePersistence(opts.DBPath, presets.Registry(), logger.Named("store"))
	} else {
		persistence, err = session.NewFilePersistence(opts.SessionsDir, presets.Registry(), logger.Named("store"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence, presets.Registry(), logger.Named("sessions"))
	if err := sessions.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", zap.Error(err))
	}

	return &services{
		Board:       service.NewBoardService(sessions, presets, logger.Named("service")),
		Sessions:    sessions,
		Presets:     presets,
		Persistence: persistence,
	}, nil
}

// maintenanceRoutine expires idle sessions and drops sessions whose stored
// copy was removed out of band, until ctx is done
func maintenanceRoutine(ctx context.Context, manager *session.Manager, logger *zap.Logger) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()
	prune := time.NewTicker(syncInterval)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cleanup.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("count", removed))
			}
		case <-prune.C:
			if pruned := manager.PruneMissing(); pruned > 0 {
				logger.Info("storage sync pruned orphaned sessions", zap.Int("count", pruned))
			}
		}
	}
}

// newRouter mounts the API at the root and the MCP JSON-RPC endpoint at /mcp
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return mainRouter
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. If ngrok is enabled, it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version))

	svc, err := initializeServices(storageFromFlags(cmd), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close session store", zap.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go maintenanceRoutine(ctx, svc.Sessions, logger.Named("maintenance"))

	origins := cmd.StringSlice("cors-origin")
	hub := websocket.NewHub(logger.Named("ws"), api.OriginChecker(origins))
	go hub.Run()

	apiServer := api.NewServer(svc.Board, hub, logger.Named("api"), origins)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter, logger.Named("ngrok"))
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// runNgrokTunnel serves handler through an ngrok endpoint until ctx is done
func runNgrokTunnel(ctx context.Context, authToken, domain string, handler http.Handler, logger *zap.Logger) {
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	logger.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", zap.String("domain", domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("🚀 ngrok tunnel established",
		zap.String("url", ngrokURL),
		zap.String("api", ngrokURL+"/api"),
		zap.String("websocket", ngrokURL+"/ws?session=<session_id>"),
		zap.String("mcp", ngrokURL+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// externalAPIAvailable reports whether an editor API answers at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at
// http://localhost:8080 when one answers; otherwise it starts an internal
// HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	// zap's development config writes to stderr, leaving stdout to the protocol
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	baseURL := externalAPIURL
	logger.Info("checking for external API server", zap.String("url", externalAPIURL))

	if externalAPIAvailable(ctx, externalAPIURL) {
		logger.Info("external API server found, using it for MCP")
	} else {
		logger.Info("no external API server found, starting internal HTTP server")

		svc, err := initializeServices(storageFromFlags(cmd), logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(logger.Named("ws"), nil)
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(svc.Board, hub, logger.Named("api"), nil)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		logger.Info("internal HTTP server started", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	logger.Info("MCP stdio server ready", zap.String("api", baseURL))

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runInspect prints the board given as text on the command line or in a
// file holding either the text or the packed bytes
func runInspect(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("inspect takes exactly one board text or file argument", 2)
	}

	board, err := loadBoard(cmd.Args().First(), pcb.DefaultRegistry())
	if err != nil {
		return err
	}
	printBoard(cmd.Root().Writer, board)
	return nil
}

// loadBoard decodes input as a file path when one exists, falling back to
// treating it as board text
func loadBoard(input string, registry *pcb.Registry) (*pcb.Board, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read board file: %w", err)
		}
		return pcbfile.Unmarshal(input, registry)
	}

	if board, textErr := pcbfile.Unmarshal(string(data), registry); textErr == nil {
		return board, nil
	}
	board, err := pcbfile.Unpack(data, registry)
	if err != nil {
		return nil, fmt.Errorf("%s is neither board text nor a packed board: %w", input, err)
	}
	return board, nil
}

func printBoard(w io.Writer, board *pcb.Board) {
	fmt.Fprintf(w, "Board %dx%d, %d points\n\n", board.Width(), board.Height(), board.PointCount())

	fmt.Fprint(w, "    ")
	for x := 0; x < board.Width(); x++ {
		fmt.Fprintf(w, "%d", x%10)
	}
	fmt.Fprintln(w)
	for y, row := range board.Layout() {
		fmt.Fprintf(w, "%3d %s\n", y, row)
	}

	ext := board.Extendability
	var sides []string
	for _, side := range []struct {
		name string
		ok   bool
	}{{"left", ext.Left}, {"up", ext.Up}, {"right", ext.Right}, {"down", ext.Down}} {
		if side.ok {
			sides = append(sides, side.name)
		}
	}
	if len(sides) == 0 {
		sides = []string{"nowhere"}
	}
	fmt.Fprintf(w, "\nGrows: %s\n", strings.Join(sides, ", "))

	if fixtures := board.Fixtures(); len(fixtures) > 0 {
		fmt.Fprintln(w, "\nParts:")
		for _, f := range fixtures {
			fmt.Fprintf(w, "  %s/%d at (%d,%d)\n", f.Part.Definition.Name, f.Part.ConfigurationIndex, f.X, f.Y)
		}
	}
}

// runValidate validates every preset in the given directory or the
// presets directory
func runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("presets-dir")
	if cmd.Args().Len() > 0 {
		dir = cmd.Args().First()
	}

	results, err := validate.Dir(dir, pcb.DefaultRegistry())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return cli.Exit(fmt.Sprintf("no preset files found in %s", dir), 1)
	}
	if !validate.Report(cmd.Root().Writer, results) {
		return cli.Exit("", 1)
	}
	return nil
}
