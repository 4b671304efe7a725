package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/app"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/auth"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/config"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/credentials"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/logging"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/mcpserver"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/reddit"
	"github.com/alexjbarnes/yahoo-fantasy-mcp/internal/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	logger.Info("yahoo-fantasy-mcp starting",
		slog.String("version", Version),
		slog.String("env_file", cfg.EnvFile),
		slog.Bool("http", cfg.ListenAddr != ""),
	)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	provider, err := credentials.NewProvider(a.Store, os.Environ())
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	logLifecycle(a, provider.Current(), logger)

	lex, err := reddit.DefaultLexicon()
	if err != nil {
		return err
	}

	scorer := reddit.NewScorer(lex, reddit.Options{
		Subreddit:  cfg.Subreddit,
		HTTPClient: a.HTTP,
	}, logger)

	mcpServer := mcp.NewServer(
		&mcp.Implementation{Name: "yahoo-fantasy-mcp", Version: Version},
		nil,
	)
	mcpserver.RegisterTools(mcpServer, mcpserver.Deps{
		Credentials: provider,
		Yahoo:       a.Yahoo,
		Refresher:   a.Refresher(),
		Sentiment:   scorer,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return credentials.Watch(gctx, provider, logger)
	})

	g.Go(func() error {
		// The watcher runs until the transport is done.
		defer stop()
		if cfg.ListenAddr == "" {
			return runStdio(gctx, mcpServer, logger)
		}
		return runHTTP(gctx, cfg, mcpServer, logger)
	})

	return g.Wait()
}

func logLifecycle(a *app.App, rec credentials.Record, logger *slog.Logger) {
	lc, meta, err := a.Lifecycle(rec)
	if err != nil {
		logger.Warn("reading token state", slog.String("error", err.Error()))
		return
	}

	attrs := []any{slog.String("state", string(lc))}
	if !meta.ExpiresAt.IsZero() {
		attrs = append(attrs, slog.Time("expires_at", meta.ExpiresAt))
	}

	switch lc {
	case auth.Unauthenticated:
		logger.Warn("no Yahoo tokens configured; run yahoo-fantasy-auth setup", attrs...)
	case auth.FullyExpired:
		logger.Warn("refresh token rejected; run yahoo-fantasy-auth reauth", attrs...)
	case auth.AccessExpired:
		logger.Info("access token expired; ff_refresh_token will renew it", attrs...)
	default:
		logger.Info("token state", attrs...)
	}
}

func runStdio(ctx context.Context, s *mcp.Server, logger *slog.Logger) error {
	logger.Info("serving MCP over stdio")

	err := s.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}

	return nil
}

func runHTTP(ctx context.Context, cfg *config.Config, s *mcp.Server, logger *slog.Logger) error {
	keys, err := cfg.ParseAPIKeys()
	if err != nil {
		return fmt.Errorf("parsing API keys: %w", err)
	}

	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s
	}, nil)

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: server.NewMux(server.MuxConfig{
			APIKeys:    keys,
			MCPHandler: mcpHandler,
			Logger:     logger,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server",
		slog.String("listen", cfg.ListenAddr),
		slog.Int("api_keys", len(keys)),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
