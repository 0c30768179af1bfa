// Package serve implements the serve command.
package serve

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

	"github.com/Aezurly/Lol-Metrics/internal/cache"
	"github.com/Aezurly/Lol-Metrics/internal/web"
)

// Command starts the LoL Metrics API server.
type Command struct {
	Port         int           `default:"3000"                                        env:"PORT"                help:"Port to listen on."`
	CORSOrigins  []string      `default:"http://localhost:4000,http://localhost:4200" env:"CORS_ORIGINS"        help:"Browser origins allowed to call the API." name:"cors-origins"`
	RateLimit    int           `default:"10"                                          env:"RATE_LIMIT_REQUESTS" help:"Reloads allowed per client IP per minute. Zero disables the limit."`
	SyncInterval time.Duration `default:"15m"                                         env:"SYNC_INTERVAL"       help:"How often to pull and ingest new match files."`
}

// Run executes the serve command.
func (c *Command) Run(d *cache.DB, _ *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	d.SetLogger(log)

	e, err := d.Engine(ctx)
	if err != nil {
		return err
	}

	go web.Sync(ctx, d.Sync, c.SyncInterval, log)

	srv := web.NewServer(e.Store, e.Ingester,
		web.WithLogger(log),
		web.WithCORSOrigins(c.CORSOrigins...),
		web.WithReloadLimit(c.RateLimit, time.Minute),
	)

	s := &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Port),
		Handler:           web.WithLogging(srv.Handler(), log),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute, // Reloads re-read every match file.
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Shutdown(shutdown) //nolint:errcheck // Nothing to do with error on shutdown.
	}()

	log.Info("Starting API server", "addr", s.Addr, "data", e.Archive.Dir())

	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
