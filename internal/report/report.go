// Package report renders one optimization result for humans and maps: a
// formatted terminal summary and a GeoJSON feature collection a browser map
// can draw directly.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/greenprism/siteopt/internal/cost"
	"github.com/greenprism/siteopt/internal/model"
)

// Summary formats the result as terminal output, with a per-site cost
// breakdown when a calculator is supplied.
func Summary(res *model.OptimizationResult, calc *cost.Calculator) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString("Optimal facility location\n")
	fmt.Fprintf(&b, "  run:        %s\n", res.RunID)
	fmt.Fprintf(&b, "  longitude:  %.6f\n", res.Location.Lng)
	fmt.Fprintf(&b, "  latitude:   %.6f\n", res.Location.Lat)
	p.Fprintf(&b, "  total cost: %.4f\n", res.TotalCost)
	p.Fprintf(&b, "  sites:      %d, evaluations: %d\n", len(res.Sites), res.Evaluations)

	if calc != nil {
		b.WriteString("\n  site breakdown\n")
		for _, sc := range calc.PerSite(res.Location) {
			p.Fprintf(&b, "    %-20s trips %6.0f  distance %8.4f  cost %10.4f\n",
				sc.Name, sc.Trips, sc.Distance, sc.Cost)
		}
	}

	return b.String()
}
