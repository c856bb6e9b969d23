package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var geomCmd = &cobra.Command{
	Use:   "geom",
	Short: "Geometry layer utilities",
}

var geomInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the configured geometry layers and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		geometry, err := loadGeometry(ctx)
		if err != nil {
			return eris.Wrap(err, "load geometry")
		}

		fmt.Printf("source: %s\n", cfg.Geometry.Source)
		fmt.Printf("allowed polygons: %d\n", geometry.Allowed.NumPolygons())
		if geometry.Allowed.NumPolygons() > 0 {
			b := geometry.Allowed.Bounds()
			fmt.Printf("allowed bounds: lng [%.4f, %.4f], lat [%.4f, %.4f]\n",
				b.Min(0), b.Max(0), b.Min(1), b.Max(1))
		}
		fmt.Printf("excluded polygons: %d\n", geometry.Excluded.NumPolygons())
		fmt.Printf("sensitive points: %d (buffer %.4f)\n",
			len(geometry.SensitivePoints), geometry.BufferDistance)
		return nil
	},
}

func init() {
	geomCmd.AddCommand(geomInspectCmd)
	rootCmd.AddCommand(geomCmd)
}
