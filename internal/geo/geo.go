// Package geo loads the county and tract GeoJSON datasets and extracts the
// region attributes the dashboard needs. The datasets come from several
// census vintages, so every attribute is read through a fallback chain of
// known property names.
package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// Region is the flattened view of one county or tract feature.
type Region struct {
	ID         string
	Name       string
	Countyfp   string
	Population int
}

// Index holds both datasets, decoded once at startup.
type Index struct {
	counties []Region
	tracts   []Region
}

func LoadIndex(countiesPath, tractsPath string) (*Index, error) {
	counties, err := loadRegions(countiesPath, CountyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to load counties: %w", err)
	}

	tracts, err := loadRegions(tractsPath, TractInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracts: %w", err)
	}

	return &Index{counties: counties, tracts: tracts}, nil
}

func loadRegions(path string, info func(*geojson.Feature) Region) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON in %s: %w", path, err)
	}

	regions := make([]Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		regions = append(regions, info(f))
	}
	return regions, nil
}

func (idx *Index) Counties() []Region {
	return idx.counties
}

// TractsByCounty returns the tracts whose county attribute matches the FP
// code.
func (idx *Index) TractsByCounty(countyfp string) []Region {
	var out []Region
	for _, t := range idx.tracts {
		if t.Countyfp == countyfp {
			out = append(out, t)
		}
	}
	return out
}

// CountyInfo extracts a county region. Population falls back through the
// census vintages POP_2020, population, POPULATION, POP2010.
func CountyInfo(f *geojson.Feature) Region {
	return Region{
		ID:         firstString(f, "COUNTYFP", "countyfp"),
		Name:       firstString(f, "NAME", "name"),
		Countyfp:   firstString(f, "COUNTYFP", "countyfp"),
		Population: population(f),
	}
}

// TractInfo extracts a tract region. The id prefers the full GEOID, falling
// back to the bare tract code in older files.
func TractInfo(f *geojson.Feature) Region {
	return Region{
		ID:         firstString(f, "GEOID", "geoid", "TRACTCE", "tractce"),
		Countyfp:   firstString(f, "COUNTYFP", "countyfp", "COUNTY_GEOID", "COUNTY", "COUNTY_ID"),
		Population: population(f),
	}
}

func population(f *geojson.Feature) int {
	return firstNumber(f, "POP_2020", "population", "POPULATION", "POP2010")
}

func firstString(f *geojson.Feature, keys ...string) string {
	for _, key := range keys {
		if v, ok := f.Properties[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(f *geojson.Feature, keys ...string) int {
	for _, key := range keys {
		v, ok := f.Properties[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return 0
}
