package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	config "techmart-api/configs"
	"techmart-api/pkg/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the inventory schema in Postgres",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	fmt.Println("🔌 Connecting to database...")
	pg, err := store.NewPostgresStore(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("✅ Schema applied")
	return nil
}
