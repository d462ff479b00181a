// Package census builds and queries the per-block demographic index used by
// the choropleth styling pipeline.
package census

// Field layout of a demographic row after the trailing GEOID parts are
// stripped: [total population, reserved, category_1..category_K].
const (
	fieldTotalPop  = 0
	fieldReserved  = 1 // unused column in the PL 94-171 export, kept so category indices line up
	categoryOffset = 2
)

// geoidParts is the number of trailing identifier fields on every raw row:
// state, county, tract, block group.
const geoidParts = 4

// Record is one block's demographic vector as raw text fields. Numeric
// parsing is deferred to Summarize so that a malformed row fails loudly at
// the point its numbers are actually needed.
type Record []string

// BuildGeoID concatenates the four identifier parts into a join key.
// No validation: a garbage part produces a key that matches nothing.
func BuildGeoID(state, county, tract, blockGroup string) string {
	return state + county + tract + blockGroup
}
