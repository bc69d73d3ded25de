package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"techmart-api/pkg/models"
	"techmart-api/pkg/workflows"
)

var (
	scheduleCron string
	scheduleOnce bool
	maxParallel  int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Start the reorder sweep workflow on a cron schedule",
	Long: `Start ReorderSweepWorkflow on the configured task queue. By default the
workflow runs on SWEEP_CRON; pass --once to run a single sweep and wait for it.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "Cron expression (defaults to SWEEP_CRON)")
	scheduleCmd.Flags().BoolVar(&scheduleOnce, "once", false, "Run one sweep and wait for the result")
	scheduleCmd.Flags().IntVar(&maxParallel, "max-parallel", workflows.DefaultMaxParallel, "Products processed in parallel per batch")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		return fmt.Errorf("unable to create Temporal client: %w", err)
	}
	defer c.Close()

	input := workflows.SweepInput{MaxParallel: maxParallel}

	if scheduleOnce {
		opts := client.StartWorkflowOptions{
			ID:        fmt.Sprintf("reorder-sweep-%s", uuid.New().String()),
			TaskQueue: cfg.SweepTaskQueue,
		}
		we, err := c.ExecuteWorkflow(cmd.Context(), opts, workflows.ReorderSweepWorkflow, input)
		if err != nil {
			return fmt.Errorf("unable to start workflow: %w", err)
		}
		log.Printf("Started workflow - WorkflowID: %s, RunID: %s", we.GetID(), we.GetRunID())

		var report models.SweepReport
		if err := we.Get(cmd.Context(), &report); err != nil {
			return fmt.Errorf("workflow execution failed: %w", err)
		}
		printSweepReport(&report)
		return nil
	}

	cron := scheduleCron
	if cron == "" {
		cron = cfg.SweepCron
	}
	opts := client.StartWorkflowOptions{
		ID:                    "reorder-sweep-cron",
		TaskQueue:             cfg.SweepTaskQueue,
		CronSchedule:          cron,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	we, err := c.ExecuteWorkflow(cmd.Context(), opts, workflows.ReorderSweepWorkflow, input)
	if err != nil {
		return fmt.Errorf("unable to start cron workflow: %w", err)
	}
	log.Printf("✅ Reorder sweep scheduled (%s) - WorkflowID: %s, RunID: %s", cron, we.GetID(), we.GetRunID())
	return nil
}
