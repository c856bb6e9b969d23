package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/greenprism/siteopt/internal/model"
	"github.com/greenprism/siteopt/internal/sites"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Demand site file utilities",
}

var sitesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a demand sites file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		demand, err := sites.Load(args[0])
		if err != nil {
			return eris.Wrapf(err, "validate %s", args[0])
		}

		box := model.BBoxFromSites(demand)
		total := 0.0
		for _, s := range demand {
			total += s.DailyWaste
		}

		fmt.Printf("%d sites, %.0f tons/day total\n", len(demand), total)
		fmt.Printf("bounding box: lng [%.4f, %.4f], lat [%.4f, %.4f]\n",
			box.MinLng, box.MaxLng, box.MinLat, box.MaxLat)
		return nil
	},
}

func init() {
	sitesCmd.AddCommand(sitesValidateCmd)
	rootCmd.AddCommand(sitesCmd)
}
