package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"healthcart/cron"

	"github.com/spf13/cobra"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background worker that reconciles bookings on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer connect()()
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return cron.RunReconcileWorker(ctx, bootstrap().Reconciler)
		},
	}
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass between slot ledger and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			async, _ := cmd.Flags().GetBool("async")
			if async {
				id, err := cron.EnqueueReconcile(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "queued reconcile task %s\n", id)
				return nil
			}

			defer connect()()
			report, err := bootstrap().Reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().Bool("async", false, "Queue the pass for the worker instead of running it here")
	return cmd
}

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create MongoDB indexes for all collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer connect()()
			a := bootstrap()
			for name, ensure := range map[string]func(context.Context) error{
				"collector_folders": a.Folders.EnsureIndexes,
				"timeslots":         a.Slots.EnsureIndexes,
				"orders":            a.Orders.EnsureIndexes,
			} {
				if err := ensure(cmd.Context()); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Fprintf(os.Stdout, "indexes ensured on %s\n", name)
			}
			return nil
		},
	}
}
