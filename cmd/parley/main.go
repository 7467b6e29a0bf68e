// Command parley is a terminal chat client for the Gemini API. It keeps
// multiple named conversation sessions in a local database and relays
// each message to the completion endpoint, directly or through a relay
// server.
//
// Usage:
//
//	GEMINI_API_KEY=... parley [flags]
//
// Flags:
//
//	-model string  Model ID (default: gemini-2.0-flash)
//	-db string     Path to the session database (default: ~/.parley/parley.db)
//	-relay string  Base URL of a relay server to send completions through
//	-serve string  Run the relay server on this address instead of the TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"parley"
	bt "parley/bubbletea"
	parleyjson "parley/json"
	"parley/relay"
	"parley/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		model    = flag.String("model", "", "Model ID (provider default if omitted)")
		dbPath   = flag.String("db", "", "Path to the session database")
		relayURL = flag.String("relay", "", "Base URL of a relay server")
		serve    = flag.String("serve", "", "Run the relay server on this address instead of the TUI")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown. Env is read here and
	// passed as a value.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	apiKey := os.Getenv("GEMINI_API_KEY")

	if *serve != "" {
		return serveRelay(ctx, *serve, apiKey, *model)
	}

	completer, err := resolveCompleter(ctx, *relayURL, apiKey, *model)
	if err != nil {
		return err
	}

	kv, err := sqlite.Open(databasePath(*dbPath))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer kv.Close()

	changes := make(chan struct{}, 1)
	manager := parley.NewManager(completer, parleyjson.NewStore(kv),
		parley.WithOnChange(func() {
			// Coalesce: a pending notification covers later ones.
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	)

	tuiModel := bt.New(manager, changes, parley.DefaultTheme())
	if err := bt.Run(ctx, tuiModel); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// serveRelay runs the relay HTTP server until the context is cancelled.
// A missing API key is not fatal: the server starts and reports the
// missing credential per request.
func serveRelay(ctx context.Context, addr, apiKey, model string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var completer parley.Completer
	if apiKey != "" {
		c, err := newGemini(ctx, apiKey, model)
		if err != nil {
			return err
		}
		completer = c
	} else {
		logger.Warn("GEMINI_API_KEY not set; chat requests will fail")
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: relay.NewServer(completer, logger),
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("relay server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("relay server: %w", err)
	}
	return nil
}

// databasePath resolves the session database location, defaulting to
// ~/.parley/parley.db and creating the parent directory as needed.
func databasePath(flagPath string) string {
	path := flagPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, ".parley", "parley.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o700)
	return path
}
