package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Drain the notification queue and send booking confirmations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if rt.config.Queue.Driver == "memory" {
				rt.logger.Warn("Standalone worker on the memory queue only sees its own process; use `serve` instead")
			}

			rt.logger.Info("Starting notification worker",
				zap.String("driver", rt.config.Queue.Driver),
				zap.Int("max_attempts", rt.config.Queue.MaxAttempts),
			)
			return newWorker(rt).Run(ctx)
		},
	}
}
