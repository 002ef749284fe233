package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ascendprep/ascend/internal/app"
	"github.com/ascendprep/ascend/internal/config"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Validate and import question banks",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a question bank file without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := question.LoadBankFile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d questions OK\n", args[0], len(questions))
		return nil
	},
}

var bankImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a question bank file and write it to the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := question.LoadBankFile(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.DatabasePath = p
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

		if err := a.Bank.SaveBank(cmd.Context(), questions); err != nil {
			return err
		}
		fmt.Printf("imported %d questions\n", len(questions))
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankImportCmd)
}
