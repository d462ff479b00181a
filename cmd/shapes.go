package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/segmap/internal/choropleth"
	"github.com/sells-group/segmap/internal/shapes"
)

var shapesCmd = &cobra.Command{
	Use:   "shapes",
	Short: "Convert a TIGER block-group shapefile to GeoJSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shp")
		outPath, _ := cmd.Flags().GetString("out")
		geoidField, _ := cmd.Flags().GetString("geoid-field")
		if shpPath == "" {
			return eris.New("shapes: --shp is required")
		}

		fc, err := shapes.Convert(shpPath, geoidField)
		if err != nil {
			return err
		}

		out := os.Stdout
		if outPath != "" {
			out, err = os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "shapes: create %s", outPath)
			}
			defer out.Close() //nolint:errcheck
		}

		return choropleth.WriteFeatures(out, fc)
	},
}

func init() {
	shapesCmd.Flags().String("shp", "", "path to the .shp file")
	shapesCmd.Flags().String("out", "", "output path (default stdout)")
	shapesCmd.Flags().String("geoid-field", shapes.DefaultGeoIDField, "shapefile attribute holding the GEOID")
	rootCmd.AddCommand(shapesCmd)
}
