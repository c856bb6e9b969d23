package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/feasibility"
	"github.com/greenprism/siteopt/internal/optimizer"
	"github.com/greenprism/siteopt/internal/report"
	"github.com/greenprism/siteopt/internal/sites"
)

var (
	optimizeSitesFile string
	optimizeOutFile   string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find the cost-minimizing facility location",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		demand, err := sites.Load(optimizeSitesFile)
		if err != nil {
			return eris.Wrap(err, "load sites")
		}

		geometry, err := loadGeometry(ctx)
		if err != nil {
			return eris.Wrap(err, "load geometry")
		}

		calc := cost.NewCalculator(cfg.Cost, feasibility.New(geometry), demand)

		res, err := optimizer.Run(ctx, demand, calc, cfg.Optimizer)
		if err != nil {
			if eris.Is(err, optimizer.ErrInfeasibleRegion) {
				return eris.Wrap(err, "no feasible location in the search area")
			}
			return eris.Wrap(err, "optimize")
		}

		zap.L().Info("optimization complete",
			zap.String("run_id", res.RunID.String()),
			zap.Float64("total_cost", res.TotalCost),
			zap.Int("evaluations", res.Evaluations),
		)

		fmt.Print(report.Summary(res, calc))

		if optimizeOutFile != "" {
			if err := report.WriteGeoJSON(optimizeOutFile, res); err != nil {
				return eris.Wrap(err, "write geojson")
			}
			fmt.Printf("wrote %s\n", optimizeOutFile)
		}

		return nil
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeSitesFile, "sites", "sites.yaml", "demand sites file (.yaml, .csv, .xlsx)")
	optimizeCmd.Flags().StringVar(&optimizeOutFile, "out", "", "write the result as GeoJSON to this path")
	rootCmd.AddCommand(optimizeCmd)
}
