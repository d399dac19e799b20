package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wodtracker/wodtracker/internal/service"
	"github.com/wodtracker/wodtracker/internal/storage"
)

func newExportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Upload the workout history as JSON to S3 and print a download link",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.close()

			archive, err := storage.NewS3Storage(cmd.Context(), a.cfg.S3)
			if err != nil {
				return err
			}

			res, err := service.NewExportService(a.workoutRepo, archive, a.location, a.metrics).
				Export(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d workouts to %s\n%s\n", res.Count, res.Key, res.URL)
			return nil
		},
	}
}
