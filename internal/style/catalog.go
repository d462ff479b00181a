package style

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/segmap/internal/census"
)

// DefaultPalette returns the categorical color tokens matching
// census.DefaultCatalog, one per category, in catalog order.
func DefaultPalette() []string {
	return []string{
		"#e41a1c",
		"#377eb8",
		"#4daf4a",
		"#984ea3",
		"#ff7f00",
		"#ffff33",
		"#a65628",
	}
}

// catalogFile is the on-disk category definition.
type catalogFile struct {
	Categories []struct {
		Label string `yaml:"label"`
		Color string `yaml:"color"`
	} `yaml:"categories"`
}

// LoadCatalogFile reads a YAML category file and returns the label catalog
// and color palette it defines. Every entry must carry both a label and a
// color; a partial entry is a configuration error, caught here rather than
// per block.
func LoadCatalogFile(path string) (census.Catalog, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "style: read catalog file %s", path)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, nil, eris.Wrapf(err, "style: parse catalog file %s", path)
	}
	if len(cf.Categories) == 0 {
		return nil, nil, eris.Errorf("style: catalog file %s defines no categories", path)
	}

	catalog := make(census.Catalog, 0, len(cf.Categories))
	colors := make([]string, 0, len(cf.Categories))
	for i, c := range cf.Categories {
		if c.Label == "" {
			return nil, nil, eris.Errorf("style: catalog entry %d has no label", i)
		}
		if c.Color == "" {
			return nil, nil, eris.Errorf("style: catalog entry %q has no color", c.Label)
		}
		catalog = append(catalog, c.Label)
		colors = append(colors, c.Color)
	}

	return catalog, colors, nil
}
