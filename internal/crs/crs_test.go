package crs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tigerNAD83PRJ = `GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137,298.257222101]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

const ogcWGS84PRJ = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`

func TestFromWKT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wkt  string
		want int
	}{
		{"tiger nad83 sidecar", tigerNAD83PRJ, NAD83},
		{"ogc wkt with authority", ogcWGS84PRJ, WGS84},
		{"esri wgs84", wktWGS84, WGS84},
		{"esri web mercator", wktWebM, WebMercator},
		{"nad27", wktNAD27, NAD27},
		{"empty", "", 0},
		{"whitespace", "   \n", 0},
		{"unknown name", `GEOGCS["Mars_2000",DATUM["D_Mars_2000",SPHEROID["Mars_2000_IAU_IAG",3396190.0,169.89444722361179]]]`, 0},
		{"garbage", "not wkt at all", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromWKT(tt.wkt))
		})
	}
}

func TestFromWKT_AuthorityBeatsName(t *testing.T) {
	t.Parallel()

	// A named system we recognize plus a different explicit authority code:
	// the authority wins.
	wkt := `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],AUTHORITY["EPSG","4269"]]`
	assert.Equal(t, NAD83, FromWKT(wkt))
}

func TestToWKTRoundTrip(t *testing.T) {
	t.Parallel()

	for _, srid := range []int{NAD27, NAD83, WGS84, WebMercator} {
		wkt, ok := ToWKT(srid)
		assert.True(t, ok)
		assert.Equal(t, srid, FromWKT(wkt))
	}

	_, ok := ToWKT(32145)
	assert.False(t, ok)
	_, ok = ToWKT(0)
	assert.False(t, ok)
}
