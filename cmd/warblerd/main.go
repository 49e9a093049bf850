// Warblerd is the microblog backend.
//
// It serves the ranked feed and the tweet, like, follow, media, and profile
// operations around it, backed by a sqlite database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/warbler-social/warbler/internal/api"
	"github.com/warbler-social/warbler/internal/feed"
	"github.com/warbler-social/warbler/internal/metrics"
	"github.com/warbler-social/warbler/internal/migrations"
	"github.com/warbler-social/warbler/internal/sqlite"
	"github.com/warbler-social/warbler/logger"
)

type config struct {
	Port     int    `env:"PORT, default=4444"`
	Database string `env:"DATABASE, required"`
	MediaDir string `env:"MEDIA_DIR, default=./media"`

	// Key used to sign feed page tokens. When unset a random key is used
	// and outstanding tokens stop decoding across restarts.
	CursorHashKey string `env:"CURSOR_HASH_KEY"`

	// Whether a user's own tweets show up in their feed.
	FeedIncludeSelf bool `env:"FEED_INCLUDE_SELF, default=false"`

	CorsOrigin string `env:"CORS_ORIGIN, default=*"`

	// Port for the prometheus endpoint; 0 disables it.
	MetricsPort int `env:"METRICS_PORT, default=0"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	// Determine which logger format to use
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LoggerFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	l := slog.New(logger.NewContextHandler(handler))
	slog.SetDefault(l)

	// Start the application
	if err := run(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	slog.Info("running", "port", cfg.Port, "database", cfg.Database)

	// Connect to the sqlite db
	dbx, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000", cfg.Database))
	if err != nil {
		return fmt.Errorf("error opening database: %s", err)
	}
	defer dbx.Close()

	// Wait out a database that's still coming up
	if err := retry.Fibonacci(ctx, 1*time.Second, func(ctx context.Context) error {
		if err := dbx.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("error pinging database: %s", err)
	}

	// Migrate, always
	if err := migrations.Run(dbx); err != nil {
		return fmt.Errorf("error migrating: %s", err)
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return fmt.Errorf("error creating media dir: %s", err)
	}

	hashKey := []byte(cfg.CursorHashKey)
	if len(hashKey) == 0 {
		slog.Warn("no cursor hash key configured, generating one")
		hashKey = securecookie.GenerateRandomKey(32)
	}

	var (
		repo    = sqlite.New(dbx)
		cursors = feed.NewCursorCodec(hashKey)
	)
	var opts []feed.Option
	if cfg.FeedIncludeSelf {
		opts = append(opts, feed.WithOwnTweets())
	}
	aggregator := feed.New(repo, cursors, opts...)

	s := api.NewServer(api.ServerConfig{
		Port:       cfg.Port,
		MediaDir:   cfg.MediaDir,
		CorsOrigin: cfg.CorsOrigin,
	}, repo, aggregator)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Start the server
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	})
	g.Go(func() error {
		// Block from shutting down until the group is canceled
		<-gCtx.Done()

		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}

		return nil
	})

	if cfg.MetricsPort > 0 {
		metricsSrvr := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler: metrics.Handler(),
		}
		g.Go(func() error {
			if err := metricsSrvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("error listening on metrics port: %s", err)
			}

			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()

			downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return metricsSrvr.Shutdown(downCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("error running: %s", err)
	}

	return nil
}
