package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lodgr/internal/data/repository"
	"lodgr/internal/notification"
	"lodgr/internal/wire"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout      = 10 * time.Second
	sessionCleanupPeriod = time.Hour
)

func serveCmd() *cobra.Command {
	var withWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API.

With QUEUE_DRIVER=memory the notification worker always runs inside the
server process, since nothing else can drain the queue.

Examples:
  lodgr serve
  lodgr serve --with-worker`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), withWorker)
		},
	}

	cmd.Flags().BoolVar(&withWorker, "with-worker", false, "run the notification worker in-process")

	return cmd
}

func runServe(parent context.Context, withWorker bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	config, logger := rt.config, rt.logger

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Wire all dependencies
	dispatcher := notification.NewDispatcher(rt.queue, logger)
	app := wire.Wiring(rt.repo, config, newGateway(config), dispatcher, logger)

	if withWorker || config.Queue.Driver == "memory" {
		worker := newWorker(rt)
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("Notification worker stopped", zap.Error(err))
			}
		}()
	}

	go cleanSessions(ctx, rt.repo.Session, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// APIServer serves handler on port until ctx is cancelled, then drains
// in-flight requests.
func APIServer(ctx context.Context, handler http.Handler, port string, logger *zap.Logger) error {
	addr := fmt.Sprintf(":%s", port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func cleanSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Cleaned expired sessions", zap.Int64("count", n))
			}
		}
	}
}
