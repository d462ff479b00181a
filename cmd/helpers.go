package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/segmap/internal/census"
	"github.com/sells-group/segmap/internal/store"
	"github.com/sells-group/segmap/internal/style"
)

// openStore opens the configured index store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// buildEncoder assembles the style encoder from config: the catalog file if
// one is set, otherwise the built-in PL 94-171 catalog and palette.
func buildEncoder() (*style.Encoder, error) {
	catalog := census.DefaultCatalog()
	colors := style.DefaultPalette()

	if cfg.Style.CatalogFile != "" {
		var err error
		catalog, colors, err = style.LoadCatalogFile(cfg.Style.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	return style.NewEncoder(catalog, colors, style.Options{
		DominanceThreshold: cfg.Style.DominanceThreshold,
		StrokeWeight:       cfg.Style.StrokeWeight,
		StrokeOpacityRatio: cfg.Style.StrokeOpacityRatio,
	})
}
