package style

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/segmap/internal/census"
)

// tooltipPrinter groups digits in large population counts ("12,345").
var tooltipPrinter = message.NewPrinter(language.English)

// LegendEntry pairs a category label with its color token.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Tooltip formats the hover text for a visible block: dominant share as a
// percentage rounded half-up to one decimal, the category label, and the
// block's total population. The summary must be non-nil; callers branch on
// absence before formatting, the same way they branch before rendering.
func (e *Encoder) Tooltip(sum *census.Summary) string {
	share := float64(sum.DominantCount) / float64(sum.TotalPopulation)
	pct := math.Round(share*1000) / 10
	return tooltipPrinter.Sprintf("%.1f%% %s (population %d)",
		pct, sum.DominantLabel, sum.TotalPopulation)
}

// Legend returns one (label, color) entry per category, in catalog order.
func (e *Encoder) Legend() []LegendEntry {
	entries := make([]LegendEntry, len(e.catalog))
	for i, label := range e.catalog {
		entries[i] = LegendEntry{Label: label, Color: e.colors[i]}
	}
	return entries
}
