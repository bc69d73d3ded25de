package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"techmart-api/pkg/app"
	"techmart-api/pkg/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import sales transactions from an .xlsx or .csv file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	records, skipped, err := store.ParseSalesFile(filepath.Base(args[0]), f)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Store.InsertTransactions(cmd.Context(), records)
	if err != nil {
		return err
	}
	fmt.Printf("📥 Imported %d transactions (%d rows skipped)\n", n, len(skipped))
	for _, s := range skipped {
		fmt.Printf("  ⚠️  %s\n", s)
	}
	return nil
}
