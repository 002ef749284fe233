package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ascendprep/ascend/internal/app"
	"github.com/ascendprep/ascend/internal/config"
	"github.com/ascendprep/ascend/internal/httpapi"
	"github.com/ascendprep/ascend/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the learner-facing HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.DatabasePath = p
		}
		if err := cfg.ValidateForServe(); err != nil {
			return err
		}

		log, err := logging.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		a, err := app.New(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := httpapi.New(cfg, log, a.Learners, a.Assess, a.BankCache.Get)
		log.Info("listening", "addr", cfg.ServerAddr)
		return srv.Router().Run(cfg.ServerAddr)
	},
}
