package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"books-migrator/core/config"
	"books-migrator/core/dataset"
	"books-migrator/core/logger"
	"books-migrator/feature/integrity"
	"books-migrator/feature/migrate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateYes bool

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Re-migrate the dataset to the document database",
	Long: `Clears the four target collections and uploads the current JSON files in
dependency order (products, customers, invoices, payments).

The dataset is verified first; any outstanding integrity violation aborts the
migration before the remote database is touched. Clearing collections is
destructive, so interactive confirmation is required unless --yes is given.`,
	RunE: runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateYes, "yes", false, "Auto-confirm the destructive clear step (non-interactive)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	// Fail fast with the full report before connecting anywhere.
	report := integrity.Verify(store)
	report.LogSummary(logg)
	if !report.Clean() {
		report.Write(os.Stdout)
		return fmt.Errorf("refusing to migrate: %d integrity violations, run 'fix' first", report.Total)
	}

	if !migrateYes {
		fmt.Printf("This clears the remote collections in project %q and re-uploads %d products, %d customers, %d invoices, %d payments.\n",
			cfg.Migrate.ProjectID, store.Products.Len(), store.Customers.Len(), store.Invoices.Len(), store.Payments.Len())
		fmt.Print("Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			logg.Info("migration cancelled")
			return nil
		}
	}

	client, err := migrate.NewFirestoreClient(ctx, cfg.Migrate)
	if err != nil {
		return err
	}
	defer client.Close()

	svc := migrate.NewService(client, logg)
	if err := svc.Remigrate(ctx, store); err != nil {
		return err
	}

	logg.Info("migration complete", zap.String("project", cfg.Migrate.ProjectID))
	return nil
}
