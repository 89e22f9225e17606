package tiger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadURL_National(t *testing.T) {
	l, ok := LayerByName("STATE")
	require.True(t, ok)

	url := DownloadURL(l, 2020, "")
	assert.Equal(t, "https://www2.census.gov/geo/tiger/TIGER2020/STATE/tl_2020_us_state.zip", url)
}

func TestDownloadURL_PerState(t *testing.T) {
	l, ok := LayerByName("PRISECROADS")
	require.True(t, ok)

	url := DownloadURL(l, 2020, "48")
	assert.Equal(t, "https://www2.census.gov/geo/tiger/TIGER2020/PRISECROADS/tl_2020_48_prisecroads.zip", url)
}

func TestDownloadURL_PlaceIsPerState(t *testing.T) {
	l, ok := LayerByName("PLACE")
	require.True(t, ok)
	require.False(t, l.National)

	url := DownloadURL(l, 2020, "35")
	assert.Equal(t, "https://www2.census.gov/geo/tiger/TIGER2020/PLACE/tl_2020_35_place.zip", url)
}

func TestMirrorURL(t *testing.T) {
	l, ok := LayerByName("COUNTY")
	require.True(t, ok)

	url := MirrorURL(l, 2020, "")
	assert.Equal(t, "ftp://ftp2.census.gov/geo/tiger/TIGER2020/COUNTY/tl_2020_us_county.zip", url)
}

func TestLayerByName_Found(t *testing.T) {
	l, ok := LayerByName("PRISECROADS")
	assert.True(t, ok)
	assert.Equal(t, "prisecroads", l.Table)
	assert.False(t, l.National)
	assert.Equal(t, "MULTILINESTRING", l.GeomType)
}

func TestLayerByName_NotFound(t *testing.T) {
	_, ok := LayerByName("NONEXISTENT")
	assert.False(t, ok)
}

func TestFIPSCodes(t *testing.T) {
	// Spot-check a few states.
	assert.Equal(t, "12", FIPSCodes["FL"])
	assert.Equal(t, "06", FIPSCodes["CA"])
	assert.Equal(t, "36", FIPSCodes["NY"])
	assert.Equal(t, "48", FIPSCodes["TX"])
	assert.Equal(t, "11", FIPSCodes["DC"])
}

func TestAbbrFromFIPS(t *testing.T) {
	abbr, ok := AbbrFromFIPS("12")
	assert.True(t, ok)
	assert.Equal(t, "FL", abbr)

	_, ok = AbbrFromFIPS("99")
	assert.False(t, ok)
}

func TestLayers_HaveColumns(t *testing.T) {
	for _, l := range Layers {
		assert.True(t, len(l.Columns) > 0, "layer %s should have columns", l.Name)
		assert.NotEmpty(t, l.GeomType, "layer %s should have a geometry type", l.Name)
	}
}

func TestLayers_RoadColumns(t *testing.T) {
	l, ok := LayerByName("PRISECROADS")
	require.True(t, ok)
	assert.Equal(t, []string{"linearid", "fullname", "rttyp", "mtfcc"}, l.Columns)
}
