// Package tiger catalogs the Census TIGER/Line layers the clipping pipeline
// consumes and materializes their shapefiles into a local cache.
package tiger

import "fmt"

// Layer describes a TIGER/Line shapefile layer.
type Layer struct {
	Name     string   // TIGER directory name, e.g., "PRISECROADS"
	Table    string   // archive file-name token and target table, e.g., "prisecroads"
	National bool     // true = single national file, false = per-state
	Columns  []string // DBF attribute columns (without geom)
	GeomType string   // "MULTILINESTRING", "MULTIPOLYGON"
}

// Layers lists the TIGER/Line layers used for boundary resolution and clipping.
// STATE and COUNTY ship as one national file; PLACE and PRISECROADS ship one
// file per state.
var Layers = []Layer{
	{
		Name:     "STATE",
		Table:    "state",
		National: true,
		Columns: []string{
			"region", "division", "statefp", "statens", "geoid", "stusps",
			"name", "lsad", "mtfcc", "funcstat", "aland", "awater",
			"intptlat", "intptlon",
		},
		GeomType: "MULTIPOLYGON",
	},
	{
		Name:     "COUNTY",
		Table:    "county",
		National: true,
		Columns: []string{
			"statefp", "countyfp", "countyns", "geoid", "name", "namelsad",
			"lsad", "classfp", "mtfcc", "csafp", "cbsafp", "metdivfp",
			"funcstat", "aland", "awater", "intptlat", "intptlon",
		},
		GeomType: "MULTIPOLYGON",
	},
	{
		Name:     "PLACE",
		Table:    "place",
		National: false,
		Columns: []string{
			"statefp", "placefp", "placens", "geoid", "name", "namelsad",
			"lsad", "classfp", "pcicbsa", "pcinecta", "mtfcc", "funcstat",
			"aland", "awater", "intptlat", "intptlon",
		},
		GeomType: "MULTIPOLYGON",
	},
	{
		Name:     "PRISECROADS",
		Table:    "prisecroads",
		National: false,
		Columns:  []string{"linearid", "fullname", "rttyp", "mtfcc"},
		GeomType: "MULTILINESTRING",
	},
}

// FIPSCodes maps state abbreviation to 2-digit FIPS code for all 50 states + DC.
var FIPSCodes = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
}

// abbrByFIPS is a reverse lookup from FIPS code to state abbreviation.
var abbrByFIPS map[string]string

func init() {
	abbrByFIPS = make(map[string]string, len(FIPSCodes))
	for abbr, fips := range FIPSCodes {
		abbrByFIPS[fips] = abbr
	}
}

// AbbrFromFIPS returns the state abbreviation for a FIPS code.
func AbbrFromFIPS(fips string) (string, bool) {
	abbr, ok := abbrByFIPS[fips]
	return abbr, ok
}

// LayerByName looks up a layer by its name (case-sensitive).
func LayerByName(name string) (Layer, bool) {
	for _, l := range Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// archivePath builds the path component shared by the HTTP and FTP hosts.
// National layers use tl_{year}_us_{table}.zip; per-state use
// tl_{year}_{fips}_{table}.zip.
func archivePath(layer Layer, year int, stateFIPS string) string {
	if layer.National {
		return fmt.Sprintf("geo/tiger/TIGER%d/%s/tl_%d_us_%s.zip",
			year, layer.Name, year, layer.Table)
	}
	return fmt.Sprintf("geo/tiger/TIGER%d/%s/tl_%d_%s_%s.zip",
		year, layer.Name, year, stateFIPS, layer.Table)
}

// DownloadURL builds the Census Bureau download URL for a TIGER/Line shapefile.
func DownloadURL(layer Layer, year int, stateFIPS string) string {
	return "https://www2.census.gov/" + archivePath(layer, year, stateFIPS)
}

// MirrorURL builds the Census Bureau FTP mirror URL for the same archive.
func MirrorURL(layer Layer, year int, stateFIPS string) string {
	return "ftp://ftp2.census.gov/" + archivePath(layer, year, stateFIPS)
}
