package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/notewell/meetscribe/internal/analysis"
	"github.com/notewell/meetscribe/internal/api"
	"github.com/notewell/meetscribe/internal/config"
	"github.com/notewell/meetscribe/internal/session"
	"github.com/notewell/meetscribe/internal/transcript"
	"github.com/notewell/meetscribe/internal/version"
	"github.com/notewell/meetscribe/internal/websocket"
	"github.com/notewell/meetscribe/pkg/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the meetscribe HTTP service",
		Long: `Start the HTTP server. Recognition clients create a recording session,
stream finalized fragments into it, and stop it to receive the analysis
result; live transcript updates are pushed over the /api/v1/ws WebSocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

// runServer assembles the service and blocks until SIGINT/SIGTERM, then
// shuts the HTTP server down within the configured timeout.
func runServer(cfg *config.Config) error {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting meetscribe",
		logger.String("version", version.Full()),
		logger.String("host", cfg.Server.Host),
		logger.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wsServer := websocket.NewServer(log)
	go wsServer.Run(ctx)

	manager := session.NewManager(
		transcript.NewCleaner(cfg.Transcript.OverlapThreshold),
		analysis.NewExtractor(cfg.Extraction.Stoplist),
		analysis.NewReconciler(),
		analysis.NewOpenAIClient(cfg.OpenAI, log),
		wsServer,
		log,
	)

	router := api.NewRouter(manager, wsServer, cfg, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down",
		logger.Int("timeout_seconds", cfg.Server.ShutdownTimeoutSeconds))

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("Shutdown complete")
	return nil
}
