package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"techmart-api/pkg/app"
)

var (
	horizonDays int
	withReorder bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast <productId>",
	Short: "Forecast demand for one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().IntVar(&horizonDays, "horizon", 0, "Forecast horizon in days (defaults to FORECAST_HORIZON_DAYS)")
	forecastCmd.Flags().BoolVar(&withReorder, "reorder", false, "Also compute the reorder suggestion (not persisted)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q: %w", args[0], err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	horizon := horizonDays
	if horizon == 0 {
		horizon = cfg.ForecastHorizonDays
	}
	if horizon < 1 || horizon > cfg.ForecastMaxHorizonDays {
		return fmt.Errorf("--horizon must be within 1..%d", cfg.ForecastMaxHorizonDays)
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var out any
	if withReorder {
		out, err = a.Inventory.RunPipeline(cmd.Context(), productID, horizon)
	} else {
		out, err = a.Inventory.Forecast(cmd.Context(), productID, horizon)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
