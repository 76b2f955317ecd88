package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countiesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NAME": "Cook", "COUNTYFP": "031", "POP_2020": 5275541},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "Adams", "countyfp": "001", "POP2010": 67103},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

const tractsJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"GEOID": "17031000100", "COUNTYFP": "031", "population": 4205},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"TRACTCE": "000200", "COUNTY": "031", "POPULATION": 3100},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"GEOID": "17001000100", "COUNTYFP": "001", "POP_2020": 2900},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := LoadIndex(
		writeDataset(t, "counties.geojson", countiesJSON),
		writeDataset(t, "tracts.geojson", tractsJSON),
	)
	require.NoError(t, err)
	return idx
}

func TestCountyPropertyFallbacks(t *testing.T) {
	idx := loadTestIndex(t)

	counties := idx.Counties()
	require.Len(t, counties, 2)

	assert.Equal(t, "Cook", counties[0].Name)
	assert.Equal(t, "031", counties[0].Countyfp)
	assert.Equal(t, 5275541, counties[0].Population)

	// Lowercase names and the 2010 population vintage still resolve.
	assert.Equal(t, "Adams", counties[1].Name)
	assert.Equal(t, "001", counties[1].Countyfp)
	assert.Equal(t, 67103, counties[1].Population)
}

func TestTractPropertyFallbacks(t *testing.T) {
	idx := loadTestIndex(t)

	tracts := idx.TractsByCounty("031")
	require.Len(t, tracts, 2)

	assert.Equal(t, "17031000100", tracts[0].ID)
	assert.Equal(t, 4205, tracts[0].Population)

	// Older files carry only the bare tract code and COUNTY key.
	assert.Equal(t, "000200", tracts[1].ID)
	assert.Equal(t, "031", tracts[1].Countyfp)
	assert.Equal(t, 3100, tracts[1].Population)
}

func TestTractsByCountyFiltersOthers(t *testing.T) {
	idx := loadTestIndex(t)

	tracts := idx.TractsByCounty("001")
	require.Len(t, tracts, 1)
	assert.Equal(t, "17001000100", tracts[0].ID)

	assert.Empty(t, idx.TractsByCounty("999"))
}

func TestLoadIndexMissingFile(t *testing.T) {
	_, err := LoadIndex(filepath.Join(t.TempDir(), "absent.geojson"), filepath.Join(t.TempDir(), "absent.geojson"))
	assert.Error(t, err)
}

func TestLoadIndexRejectsInvalidGeoJSON(t *testing.T) {
	counties := writeDataset(t, "counties.geojson", countiesJSON)
	broken := writeDataset(t, "tracts.geojson", `{"type": "FeatureCollection"`)

	_, err := LoadIndex(counties, broken)
	assert.Error(t, err)
}
