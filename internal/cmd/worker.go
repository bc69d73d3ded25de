package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"techmart-api/pkg/activities"
	"techmart-api/pkg/app"
	"techmart-api/pkg/workflows"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal worker for the reorder sweep",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		return fmt.Errorf("unable to create Temporal client: %w", err)
	}
	defer c.Close()

	identity := "reorder-worker-" + hostname()
	w := worker.New(c, cfg.SweepTaskQueue, worker.Options{
		Identity:                           identity,
		MaxConcurrentActivityExecutionSize: cfg.SweepConcurrency,
	})

	w.RegisterWorkflow(workflows.ReorderSweepWorkflow)

	inventoryActivities := &activities.InventoryActivities{Sweep: a.Sweep}
	w.RegisterActivity(inventoryActivities.ListReorderCandidates)
	w.RegisterActivity(inventoryActivities.GenerateReorderSuggestion)
	w.RegisterActivity(inventoryActivities.CheckStockLevels)

	log.Println("Worker starting on task queue:", cfg.SweepTaskQueue)
	log.Println("Worker identity:", identity)

	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("unable to start worker: %w", err)
	}
	return nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
