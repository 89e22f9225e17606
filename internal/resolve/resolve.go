// Package resolve turns user-supplied text (state names, postal
// abbreviations, county FIPS codes) into canonical TIGER identifiers.
package resolve

import (
	"strings"

	"github.com/sells-group/tiger-clip/internal/feature"
)

// Attribute fields consulted in the TIGER reference layers.
const (
	fieldName    = "NAME"
	fieldPostal  = "STUSPS"
	fieldStateFP = "STATEFP"
	fieldGEOID   = "GEOID"
)

// StateFIPS resolves free text against the states layer and returns the
// two-digit state FIPS code. Matching runs in two passes, full-name first,
// postal abbreviation second; the first hit wins. Both passes are
// case-insensitive exact matches.
func StateFIPS(states *feature.Collection, text string) (string, error) {
	for _, f := range states.Features {
		if strings.EqualFold(f.Attr(fieldName), text) {
			return zfill(f.Attr(fieldStateFP), 2), nil
		}
	}
	for _, f := range states.Features {
		if strings.EqualFold(f.Attr(fieldPostal), text) {
			return zfill(f.Attr(fieldStateFP), 2), nil
		}
	}
	return "", &feature.UnresolvedIdentifierError{Kind: "state", Input: text}
}

// CountyGEOID validates a five-digit county FIPS code and confirms it exists
// in the counties layer. The code is returned unchanged on success.
func CountyGEOID(counties *feature.Collection, code string) (string, error) {
	if err := checkCountyCode(code); err != nil {
		return "", err
	}
	for _, f := range counties.Features {
		if f.Attr(fieldGEOID) == code {
			return code, nil
		}
	}
	return "", &feature.UnresolvedIdentifierError{Kind: "county", Input: code}
}

// StateFromCounty derives the parent state FIPS from a county GEOID without
// touching any dataset: the first two digits are the state code.
func StateFromCounty(geoid string) (string, error) {
	if err := checkCountyCode(geoid); err != nil {
		return "", err
	}
	return geoid[:2], nil
}

func checkCountyCode(code string) error {
	if len(code) != 5 || !isDigits(code) {
		return &feature.InvalidInputError{Input: code, Reason: "county code must be exactly 5 digits"}
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func zfill(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
