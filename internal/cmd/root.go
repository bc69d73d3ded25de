package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "techmart-api/configs"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "techmart",
	Short: "TechMart inventory forecasting service",
	Long: `TechMart forecasts product demand from transaction history, ranks suppliers
and proposes reorders for products running low on stock.

Run the HTTP API with "serve", the scheduled sweep with "worker" and "schedule",
or use the one-shot commands for local work.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .envファイルを読み込み
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("Warning: %s not found or could not be loaded: %v", envFile, err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
