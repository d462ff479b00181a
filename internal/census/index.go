package census

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Index maps a GEOID to the block's demographic record. Built once per data
// load and read-only afterward.
type Index map[string]Record

// BuildIndex builds a GEOID index from raw tabular rows. The first
// headerRows rows are discarded unparsed. The last four fields of each row
// are the identifier parts [state, county, tract, blockGroup]; everything
// before them is stored as the record, still unparsed.
//
// A later row with the same GEOID overwrites the earlier one. Rows too short
// to even carry the identifier parts are rejected; width problems beyond
// that surface when Summarize parses the record.
func BuildIndex(rows [][]string, headerRows int) (Index, error) {
	if headerRows < 0 {
		headerRows = 0
	}
	if headerRows > len(rows) {
		headerRows = len(rows)
	}

	idx := make(Index, len(rows)-headerRows)
	var dupes int

	for i, row := range rows[headerRows:] {
		if len(row) < geoidParts+1 {
			return nil, eris.Errorf("census: row %d has %d fields, need at least %d", headerRows+i, len(row), geoidParts+1)
		}

		ids := row[len(row)-geoidParts:]
		geoid := BuildGeoID(ids[0], ids[1], ids[2], ids[3])

		if _, ok := idx[geoid]; ok {
			dupes++
		}
		idx[geoid] = Record(row[:len(row)-geoidParts])
	}

	if dupes > 0 {
		zap.L().Debug("census: duplicate GEOIDs overwritten during index build",
			zap.Int("count", dupes),
		)
	}

	return idx, nil
}
