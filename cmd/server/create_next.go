package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCreateNextCmd runs the scheduling job once, for deployments where an external
// scheduler (cron, cloud events) owns the timing.
func newCreateNextCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "create-next",
		Short: "Create or repeat today's workout and send the notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sched, err := a.scheduler()
			if err != nil {
				return err
			}
			outcome, err := sched.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", outcome.Kind, outcome.WorkoutID())
			return nil
		},
	}
}
