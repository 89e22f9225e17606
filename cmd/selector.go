package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/tiger-clip/internal/model"
)

// addSelectorFlags registers the boundary selector flags shared by clip,
// boundary, and resolve.
func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().String("state", "", "state name or postal abbreviation (also the containing state for --place)")
	cmd.Flags().String("place", "", "place (city) name within --state")
	cmd.Flags().String("county", "", "5-digit county FIPS code")
}

// selectorRequest reads the selector flags into a request. County wins over
// place, place over state, matching job file precedence.
func selectorRequest(cmd *cobra.Command) (model.Request, error) {
	state, _ := cmd.Flags().GetString("state")
	place, _ := cmd.Flags().GetString("place")
	county, _ := cmd.Flags().GetString("county")

	var req model.Request
	switch {
	case county != "" && place != "":
		return req, eris.New("--county and --place are mutually exclusive")
	case county != "":
		req.Kind = model.KindCounty
		req.CountyGEOID = county
	case place != "":
		req.Kind = model.KindPlace
		req.PlaceName = place
		req.StateText = state
	case state != "":
		req.Kind = model.KindState
		req.StateText = state
	default:
		return req, eris.New("no selector: pass --state, --place, or --county")
	}
	return req, nil
}

// splitAndTrim splits a comma-separated flag value, trims whitespace, and
// drops empty entries.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
