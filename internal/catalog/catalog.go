// Package catalog loads sellable-asset catalogs from YAML files and carries
// the demo seed set used when a caller supplies nothing.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"chatbrain/internal/contracts"
)

type rawCatalog struct {
	Items []rawItem `yaml:"items"`
}

type rawItem struct {
	PPVAssetID  string   `yaml:"ppv_asset_id"`
	Title       string   `yaml:"title"`
	MediaType   string   `yaml:"media_type"`
	Tags        []string `yaml:"tags"`
	BasePrice   *float64 `yaml:"base_price"`
	Description string   `yaml:"description"`
}

var mediaTypes = map[string]struct{}{
	"photo": {}, "video": {}, "voice": {}, "bundle": {},
}

// LoadFromDir loads and validates every catalog YAML file from a directory.
// Files are merged in name order.
func LoadFromDir(dir string) ([]contracts.CatalogItem, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("scan catalog dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog YAML files found in %s", dir)
	}
	sort.Strings(files)

	var items []contracts.CatalogItem
	seen := make(map[string]string)
	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		parsed, parseErr := ParseAndValidate(data, path)
		if parseErr != nil {
			return nil, parseErr
		}
		for _, item := range parsed {
			if prev, ok := seen[item.PPVAssetID]; ok {
				return nil, fmt.Errorf("%s: duplicate ppv_asset_id %q (first seen in %s)", path, item.PPVAssetID, prev)
			}
			seen[item.PPVAssetID] = path
			items = append(items, item)
		}
	}
	return items, nil
}

// ParseAndValidate unmarshals one catalog YAML document and validates every
// item.
func ParseAndValidate(data []byte, source string) ([]contracts.CatalogItem, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: parse catalog: %w", source, err)
	}
	if len(raw.Items) == 0 {
		return nil, fmt.Errorf("%s: catalog must contain at least one item", source)
	}

	items := make([]contracts.CatalogItem, 0, len(raw.Items))
	for idx, ri := range raw.Items {
		path := fmt.Sprintf("%s: items[%d]", source, idx)
		if strings.TrimSpace(ri.PPVAssetID) == "" {
			return nil, fmt.Errorf("%s: ppv_asset_id is required", path)
		}
		if _, ok := mediaTypes[ri.MediaType]; !ok {
			return nil, fmt.Errorf("%s: media_type must be one of photo|video|voice|bundle, got %q", path, ri.MediaType)
		}
		if ri.BasePrice == nil {
			return nil, fmt.Errorf("%s: base_price is required", path)
		}
		if *ri.BasePrice < 0 {
			return nil, fmt.Errorf("%s: base_price must be >= 0, got %g", path, *ri.BasePrice)
		}
		items = append(items, contracts.CatalogItem{
			PPVAssetID:  ri.PPVAssetID,
			Title:       ri.Title,
			MediaType:   ri.MediaType,
			Tags:        ri.Tags,
			BasePrice:   *ri.BasePrice,
			Description: ri.Description,
		})
	}
	return items, nil
}

// Demo returns the built-in PG demo catalog so the service can be exercised
// end-to-end with no data.
func Demo() []contracts.CatalogItem {
	return []contracts.CatalogItem{
		{
			PPVAssetID:  "ppv_1001",
			Title:       "Mirror tease set",
			Description: "Playful mirror set in black lace—smiles & curves.",
			MediaType:   "photo",
			Tags:        []string{"tease", "lingerie", "mirror"},
			BasePrice:   10.0,
		},
		{
			PPVAssetID:  "ppv_2001",
			Title:       "Flirty bedroom mini",
			Description: "Short playful clip, cozy vibe, sweet & suggestive.",
			MediaType:   "video",
			Tags:        []string{"tease", "cozy"},
			BasePrice:   18.0,
		},
		{
			PPVAssetID:  "ppv_3001",
			Title:       "Cute voice note",
			Description: "Soft voice note saying hi and asking about your day.",
			MediaType:   "voice",
			Tags:        []string{"voice", "soft"},
			BasePrice:   12.0,
		},
		{
			PPVAssetID:  "ppv_9001",
			Title:       "Bundle: weekend set",
			Description: "Mixed bundle of tasteful photos & a short playful clip.",
			MediaType:   "bundle",
			Tags:        []string{"bundle", "weekend"},
			BasePrice:   25.0,
		},
	}
}

// Ensure returns the supplied catalog when non-empty and the demo set
// otherwise.
func Ensure(items []contracts.CatalogItem) []contracts.CatalogItem {
	if len(items) > 0 {
		return items
	}
	return Demo()
}
