package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/segmap/internal/choropleth"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Attach style properties to a block GeoJSON file",
	Long: `Loads the stored demographic index, joins it against a GeoJSON
feature collection by GEOID, and writes the collection back out with
fill/stroke style and tooltip properties on every feature.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		featuresPath, _ := cmd.Flags().GetString("features")
		outPath, _ := cmd.Flags().GetString("out")
		if featuresPath == "" {
			return eris.New("render: --features is required")
		}

		enc, err := buildEncoder()
		if err != nil {
			return eris.Wrap(err, "render: build encoder")
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		idx, err := st.LoadIndex(ctx)
		if err != nil {
			return eris.Wrap(err, "render: load index")
		}

		f, err := os.Open(featuresPath)
		if err != nil {
			return eris.Wrapf(err, "render: open %s", featuresPath)
		}
		defer f.Close() //nolint:errcheck

		fc, err := choropleth.LoadFeatures(f)
		if err != nil {
			return err
		}

		mapper := choropleth.NewMapper(idx, enc, cfg.Data.GeoIDProperty)
		if err := mapper.StyleFeatures(ctx, fc); err != nil {
			return err
		}

		out := os.Stdout
		if outPath != "" {
			out, err = os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "render: create %s", outPath)
			}
			defer out.Close() //nolint:errcheck
		}

		return choropleth.WriteFeatures(out, fc)
	},
}

func init() {
	renderCmd.Flags().String("features", "", "block GeoJSON feature collection")
	renderCmd.Flags().String("out", "", "output path (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
