package census

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// sparsePopulationCutoff suppresses summaries for blocks whose total
// population is too small to be statistically meaningful.
const sparsePopulationCutoff = 2

// Catalog is the ordered list of category labels. Index i labels element i
// of every record's category slice.
type Catalog []string

// DefaultCatalog returns the seven PL 94-171 race categories in file order.
func DefaultCatalog() Catalog {
	return Catalog{
		"White",
		"Black or African American",
		"American Indian and Alaska Native",
		"Asian",
		"Native Hawaiian and Other Pacific Islander",
		"Some Other Race",
		"Two or More Races",
	}
}

// Summary is the dominant-category breakdown for one block, recomputed on
// demand from its record.
type Summary struct {
	TotalPopulation int    `json:"total_population"`
	DominantCount   int    `json:"dominant_count"`
	DominantIndex   int    `json:"dominant_index"`
	DominantLabel   string `json:"dominant_label"`
}

// Summarize computes the dominant-category summary for a record.
//
// Every field is coerced base-10 before anything else; a non-numeric field
// is fatal even on a block that would have been excluded. Returns (nil, nil)
// when total population is at or below the sparse cutoff: absence is a
// defined outcome, not an error. Ties between categories go to the lowest
// index, which pins down the color a tied block receives.
func (c Catalog) Summarize(rec Record) (*Summary, error) {
	if len(rec) < categoryOffset+1 {
		return nil, eris.Errorf("census: record has %d fields, need at least %d", len(rec), categoryOffset+1)
	}

	// Coerce the whole vector up front. The reserved column is never used,
	// but it is held to the same numeric contract as every other field.
	nums := make([]int, len(rec))
	for i, field := range rec {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, eris.Wrapf(err, "census: parse field %d %q", i, field)
		}
		nums[i] = n
	}

	total := nums[fieldTotalPop]
	if total <= sparsePopulationCutoff {
		return nil, nil
	}

	racePops := nums[categoryOffset:]
	if len(racePops) > len(c) {
		return nil, eris.Errorf("census: record has %d categories, catalog has %d", len(racePops), len(c))
	}

	maxIdx := 0
	maxVal := racePops[0]
	for i, n := range racePops[1:] {
		if n > maxVal {
			maxVal = n
			maxIdx = i + 1
		}
	}

	return &Summary{
		TotalPopulation: total,
		DominantCount:   maxVal,
		DominantIndex:   maxIdx,
		DominantLabel:   c[maxIdx],
	}, nil
}
