package cmd

import (
	"fmt"

	"lodgr/pkg/database"
	"lodgr/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := utils.LoadConfigFile(envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
			if err != nil {
				logger, _ = zap.NewProduction()
			}
			defer logger.Sync()

			applied, err := database.Migrate(cmd.Context(), config.Database, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
