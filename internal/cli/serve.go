package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"teapot/internal/config"
	"teapot/internal/database/memory"
	"teapot/internal/handlers"
	"teapot/internal/metrics"
	"teapot/internal/middleware"
	"teapot/internal/routing"
	"teapot/internal/seed"
)

func newServeCmd() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, v, configFile, os.Stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.String("host", config.DefaultHost, "address to listen on")
	flags.Int("port", config.DefaultPort, "port to listen on")
	flags.String("log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (json or console)")
	flags.String("seed", "", "YAML fixture loaded into the store at startup")

	for key, name := range map[string]string{
		config.KeyServerHost: "host",
		config.KeyServerPort: "port",
		config.KeyLogLevel:   "log-level",
		config.KeyLogFormat:  "log-format",
		config.KeySeedFile:   "seed",
	} {
		// Only errors on a nil flag.
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	return cmd
}

// runServe loads configuration, serves until ctx is done, then shuts down
// gracefully.
func runServe(ctx context.Context, v *viper.Viper, configFile string, out io.Writer) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log, out)
	log.Logger = logger
	zerolog.SetGlobalLevel(cfg.Log.ZerologLevel())

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	config.Watch(v, func(next *config.Config) {
		zerolog.SetGlobalLevel(next.Log.ZerologLevel())
		log.Info().Str("level", next.Log.Level).Msg("Log level updated")
	})

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr(), err)
	}

	log.Info().
		Str("address", ln.Addr().String()).
		Str("version", Version).
		Bool("rate_limit", cfg.RateLimit.Enabled()).
		Msg("Starting teapot server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// newLogger returns a logger writing JSON lines, or human readable output
// when format is console.
func newLogger(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	if cfg.Format == config.FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Logger()
}

type server struct {
	http    *http.Server
	limiter *middleware.RateLimiter
}

// newServer builds the store, applies the seed fixture and assembles the
// handler chain. It does not listen.
func newServer(cfg *config.Config, logger zerolog.Logger) (*server, error) {
	store := memory.New()

	if cfg.Seed.File != "" {
		fx, err := seed.Load(cfg.Seed.File)
		if err != nil {
			return nil, err
		}
		if _, err := seed.Apply(store, fx, time.Now, uuid.NewString); err != nil {
			return nil, err
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled() {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst,
			middleware.TrustProxyHeaders(cfg.RateLimit.TrustProxyHeaders))
	}

	h := handlers.NewHandler(store,
		handlers.WithVersion(Version),
		handlers.WithChecks(
			handlers.MemoryCheck(cfg.Health.MaxHeapMB),
			handlers.StoreCheck(store),
		),
	)

	handler := routing.SetupRouter(routing.Config{
		Handlers:    h,
		Logger:      logger,
		Metrics:     metrics.New(store),
		RateLimiter: limiter,
	})

	return &server{
		http: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		limiter: limiter,
	}, nil
}

// Close releases background resources. It does not stop the HTTP server.
func (s *server) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}
