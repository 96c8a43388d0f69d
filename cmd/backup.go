package cmd

import (
	"fmt"

	"books-migrator/core/config"
	"books-migrator/core/dataset"
	"books-migrator/core/logger"
	"books-migrator/core/storage"
	"books-migrator/feature/snapshot"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var backupRemote bool

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up the dataset files",
	Long: `Writes a timestamped sibling copy of every collection file. With --remote
the files are additionally uploaded to the configured snapshot bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		backups, err := dataset.BackupDir(cfg.Dataset.Dir)
		if err != nil {
			return fmt.Errorf("local backup failed: %w", err)
		}
		logg.Info("local backups written", zap.Strings("files", backups))

		if !backupRemote {
			return nil
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		svc := snapshot.NewService(client, cfg.Storage.Bucket, logg)
		manifest, err := svc.Upload(cmd.Context(), cfg.Dataset.Dir)
		if err != nil {
			return fmt.Errorf("remote snapshot failed: %w", err)
		}
		logg.Info("remote snapshot uploaded",
			zap.String("run_id", manifest.RunID),
			zap.String("prefix", manifest.Prefix),
			zap.Int("files", len(manifest.Files)),
			zap.Int64("bytes", manifest.Bytes))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(backupCmd)
	backupCmd.Flags().BoolVar(&backupRemote, "remote", false, "Also upload a snapshot to the storage bucket")
}
