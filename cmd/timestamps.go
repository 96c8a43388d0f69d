package cmd

import (
	"fmt"

	"books-migrator/core/config"
	"books-migrator/core/dataset"
	"books-migrator/core/logger"
	"books-migrator/core/timestamp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	timestampsTo       string
	timestampsNoBackup bool
)

// timestampsCmd represents the timestamps command
var timestampsCmd = &cobra.Command{
	Use:   "timestamps",
	Short: "Convert date fields to one on-disk representation",
	Long: `Rewrites every recognized date field across all collections to the target
representation: iso (RFC3339 string), epoch ({_seconds,_nanoseconds}) or
tagged (the document-database export wrapper). Unrecognized values are left
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := timestamp.ParseFormat(timestampsTo)
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		store, err := dataset.Load(cfg.Dataset.Dir)
		if err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}

		converted := store.ConvertTimestamps(format)
		if converted == 0 {
			logg.Info("no date fields needed conversion")
			return nil
		}

		if err := store.Save(!timestampsNoBackup); err != nil {
			return fmt.Errorf("failed to save dataset: %w", err)
		}
		logg.Info("timestamps converted",
			zap.String("format", string(format)),
			zap.Int("fields", converted),
			zap.Bool("backup", !timestampsNoBackup))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(timestampsCmd)
	timestampsCmd.Flags().StringVar(&timestampsTo, "to", "iso", "Target format: iso, epoch or tagged")
	timestampsCmd.Flags().BoolVar(&timestampsNoBackup, "no-backup", false, "Skip timestamped file backups before writing")
}
