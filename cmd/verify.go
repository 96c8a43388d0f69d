package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"books-migrator/core/config"
	"books-migrator/core/dataset"
	"books-migrator/core/logger"
	"books-migrator/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifyJSONOutput bool

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify referential integrity of the dataset",
	Long: `Walks all relationship kinds (customer->product, invoice->customer,
invoice->product, payment->customer, payment->invoice, customer->parent) and
reports every dangling reference. Read-only; exits non-zero when violations
are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		logg.Info("dataset loaded",
			zap.Int("products", store.Products.Len()),
			zap.Int("customers", store.Customers.Len()),
			zap.Int("invoices", store.Invoices.Len()),
			zap.Int("payments", store.Payments.Len()))

		report := integrity.Verify(store)
		report.Write(os.Stdout)
		report.LogSummary(logg)

		if verifyJSONOutput {
			filename := fmt.Sprintf("integrity_report_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON report: %w", err)
			}
			logg.Info("detailed JSON report saved", zap.String("file", filename))
		}

		if !report.Clean() {
			return fmt.Errorf("integrity verification failed with %d violations", report.Total)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyJSONOutput, "json", false, "Save detailed JSON report")
}
