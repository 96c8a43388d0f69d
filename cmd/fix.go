package cmd

import (
	"fmt"
	"os"

	"books-migrator/core/config"
	"books-migrator/core/dataset"
	"books-migrator/core/logger"
	"books-migrator/core/reconcile"
	"books-migrator/feature/repair"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixDryRun    bool
	fixNoBackup  bool
	fixOverrides string
)

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Reconcile and repair dangling references",
	Long: `Runs the full repair workflow: verify the dataset, propose a mapping for
every dangling reference using the reconciliation strategies, apply the
accepted mappings across all collections (including derived sub-record ids),
and re-verify.

References the engine cannot map are reported for the manual override table;
similarity matches below the auto-apply threshold are surfaced as suggestions
and never applied silently.

Examples:
  # Report proposals without touching the files
  books-migrator fix --dry-run

  # Repair with a manual override table
  books-migrator fix --overrides mappings.json`,
	RunE: runFix,
}

func init() {
	RootCmd.AddCommand(fixCmd)
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Propose mappings without mutating the dataset")
	fixCmd.Flags().BoolVar(&fixNoBackup, "no-backup", false, "Skip timestamped file backups before writing")
	fixCmd.Flags().StringVar(&fixOverrides, "overrides", "", "Path to a manual mapping table (JSON)")
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	overrides, err := repair.LoadOverrides(fixOverrides)
	if err != nil {
		return err
	}

	store, err := dataset.Load(cfg.Dataset.Dir)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	engine := reconcile.NewEngine(cfg.Reconcile, nil)
	runner := repair.NewRunner(engine, overrides, logg)
	result := runner.Run(store, fixDryRun)

	printFixSummary(result)

	if fixDryRun || result.Fixes == 0 {
		logg.Info("dataset files not modified")
	} else {
		if err := store.Save(!fixNoBackup); err != nil {
			return fmt.Errorf("failed to save dataset: %w", err)
		}
		logg.Info("dataset saved", zap.Bool("backup", !fixNoBackup))
	}

	if result.Terminal {
		return nil
	}
	if fixDryRun {
		return nil
	}
	return fmt.Errorf("repair incomplete: %d unmapped, %d suggestions need review",
		len(result.Unmapped), len(result.Suggestions))
}

func printFixSummary(result *repair.Result) {
	fmt.Println("\n=== Repair Summary ===")
	fmt.Printf("State: %s (terminal: %v)\n", result.State, result.Terminal)
	fmt.Printf("Initial violations: %d\n", result.Initial.Total)
	if result.Final != nil {
		fmt.Printf("Final violations: %d\n", result.Final.Total)
	}
	fmt.Printf("Mappings applied: %d (record fixes: %d)\n", len(result.Applied), result.Fixes)

	if len(result.Applied) > 0 {
		fmt.Println("\nApplied mappings:")
		for _, m := range result.Applied {
			fmt.Printf("  [%s] %s -> %s\n", m.Type, m.From, m.To)
		}
	}
	if len(result.Suggestions) > 0 {
		fmt.Println("\nSuggestions (manual review required):")
		for _, p := range result.Suggestions {
			fmt.Printf("  [%s] %s -> %s (score %.2f)\n", p.Type, p.Ref, p.Target, p.Score)
		}
	}
	if len(result.Skipped) > 0 {
		fmt.Println("\nSkipped (corrupt data):")
		for _, p := range result.Skipped {
			fmt.Printf("  [%s] %q\n", p.Type, p.Ref)
		}
	}
	if len(result.Unmapped) > 0 {
		fmt.Println("\nUnmapped (add to override table):")
		for _, p := range result.Unmapped {
			fmt.Printf("  [%s] %s\n", p.Type, p.Ref)
		}
	}
	fmt.Fprintln(os.Stdout)
}
