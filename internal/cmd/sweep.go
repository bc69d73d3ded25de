package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"techmart-api/pkg/app"
	"techmart-api/pkg/models"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one reorder sweep in-process",
	Long: `Generate reorder suggestions for every product at or below its reorder
threshold, skipping products that already have a pending suggestion, then raise
low stock alerts. Runs without Temporal.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Sweep.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	printSweepReport(report)
	return nil
}

func printSweepReport(r *models.SweepReport) {
	fmt.Printf("\n📊 Sweep %s\n", r.RunID)
	fmt.Printf("  Checked:  %d\n", r.ProductsChecked)
	fmt.Printf("  Created:  %d\n", r.SuggestionsCreated)
	fmt.Printf("  Skipped:  %d (pending suggestion exists)\n", r.SkippedPending)
	fmt.Printf("  Alerts:   %d\n", r.AlertsCreated)
	if len(r.Failures) > 0 {
		fmt.Printf("  Failed:   %d\n", len(r.Failures))
		for id, msg := range r.Failures {
			fmt.Printf("    ❌ product %d: %s\n", id, msg)
		}
	}
}
