// Package crs maps between EPSG SRIDs and the ESRI WKT found in shapefile
// .prj sidecars, and reprojects geometries between supported systems.
package crs

import (
	"regexp"
	"strconv"
	"strings"
)

// SRIDs this pipeline understands. TIGER/Line ships in NAD83.
const (
	NAD27       = 4267
	NAD83       = 4269
	WGS84       = 4326
	WebMercator = 3857
)

// Sidecar WKT rendered by ToWKT. The NAD83 text matches what the Census
// Bureau ships byte-for-byte except for float formatting.
const (
	wktNAD27 = `GEOGCS["GCS_North_American_1927",DATUM["D_North_American_1927",SPHEROID["Clarke_1866",6378206.4,294.978698213898]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	wktNAD83 = `GEOGCS["GCS_North_American_1983",DATUM["D_North_American_1983",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	wktWGS84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`
	wktWebM  = `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],PARAMETER["Auxiliary_Sphere_Type",0.0],UNIT["Meter",1.0]]`
)

var (
	authorityRe = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]`)
	crsNameRe   = regexp.MustCompile(`^\s*(?:PROJCS|GEOGCS|GEOGCRS|PROJCRS)\[\s*"([^"]+)"`)
)

// Well-known CRS names, normalized by normalizeName. Covers the spellings
// seen in ESRI and OGC WKT for the systems above.
var nameSRIDs = map[string]int{
	"GCSNORTHAMERICAN1983":              NAD83,
	"NAD83":                             NAD83,
	"NORTHAMERICAN1983":                 NAD83,
	"GCSNORTHAMERICAN1927":              NAD27,
	"NAD27":                             NAD27,
	"GCSWGS1984":                        WGS84,
	"WGS84":                             WGS84,
	"WGS1984":                           WGS84,
	"WGS1984WEBMERCATORAUXILIARYSPHERE": WebMercator,
	"WGS84PSEUDOMERCATOR":               WebMercator,
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch r {
		case ' ', '_', '-', '/':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FromWKT resolves a .prj sidecar's WKT to an EPSG SRID. An explicit
// AUTHORITY clause wins; otherwise the outermost CRS name is matched against
// the well-known table. Returns 0 when the text is empty or unrecognized.
func FromWKT(wkt string) int {
	wkt = strings.TrimSpace(wkt)
	if wkt == "" {
		return 0
	}

	// The last AUTHORITY in the document belongs to the whole CRS; earlier
	// ones annotate nested datums and units.
	if ms := authorityRe.FindAllStringSubmatch(wkt, -1); len(ms) > 0 {
		if srid, err := strconv.Atoi(ms[len(ms)-1][1]); err == nil && srid > 0 {
			return srid
		}
	}

	if m := crsNameRe.FindStringSubmatch(wkt); m != nil {
		if srid, ok := nameSRIDs[normalizeName(m[1])]; ok {
			return srid
		}
	}
	return 0
}

// ToWKT renders the .prj sidecar text for a SRID. ok is false for SRIDs this
// package cannot render.
func ToWKT(srid int) (string, bool) {
	switch srid {
	case NAD27:
		return wktNAD27, true
	case NAD83:
		return wktNAD83, true
	case WGS84:
		return wktWGS84, true
	case WebMercator:
		return wktWebM, true
	default:
		return "", false
	}
}
