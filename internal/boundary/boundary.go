// Package boundary dissolves selected TIGER features into a single clip
// boundary: one feature, one Polygon or MultiPolygon, same CRS as the source
// layer.
package boundary

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
)

// Identifying attributes carried onto the boundary feature. Everything else
// is dropped: a dissolved geometry has no meaningful row-level attributes.
var identFieldNames = []string{"STATEFP", "GEOID", "NAME", "NAMELSAD", "STUSPS"}

// FromState dissolves every states-layer feature with the given state FIPS
// code into one boundary.
func FromState(states *feature.Collection, stateFIPS string) (*feature.Collection, error) {
	sel := states.Select(func(f *feature.Feature) bool {
		return f.Attr("STATEFP") == stateFIPS
	})
	return dissolve(states, sel, "state", stateFIPS)
}

// FromCounty dissolves every counties-layer feature with the given five-digit
// GEOID into one boundary. Duplicate rows for the same county collapse into a
// single feature.
func FromCounty(counties *feature.Collection, geoid string) (*feature.Collection, error) {
	sel := counties.Select(func(f *feature.Feature) bool {
		return f.Attr("GEOID") == geoid
	})
	return dissolve(counties, sel, "county", geoid)
}

// FromPlace dissolves the place-layer features matching name (exact,
// case-insensitive) within the given state. Multi-part places (a city split
// across non-contiguous areas) come back as one MultiPolygon feature.
func FromPlace(places *feature.Collection, name, stateFIPS string) (*feature.Collection, error) {
	sel := places.Select(func(f *feature.Feature) bool {
		return strings.EqualFold(f.Attr("NAME"), name) && f.Attr("STATEFP") == stateFIPS
	})
	return dissolve(places, sel, "place", name)
}

func dissolve(src, sel *feature.Collection, kind, value string) (*feature.Collection, error) {
	if sel.Len() == 0 {
		return nil, &feature.NotFoundError{Kind: kind, Value: value}
	}

	geoms := make([]geom.T, 0, sel.Len())
	for _, f := range sel.Features {
		if !geometry.IsEmpty(f.Geom) {
			geoms = append(geoms, f.Geom)
		}
	}
	if len(geoms) == 0 {
		return nil, eris.Errorf("boundary: matched %s features carry no geometry", kind)
	}

	union, err := geometry.Union(geoms...)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: dissolve %s %q", kind, value)
	}
	switch geometry.TypeName(union) {
	case "Polygon", "MultiPolygon":
	default:
		return nil, eris.Errorf("boundary: dissolving %s %q produced %s, want polygonal geometry", kind, value, geometry.TypeName(union))
	}

	out := feature.NewCollection(identFields(src), src.SRID)
	attrs := make(map[string]string, len(out.Fields))
	for _, fd := range out.Fields {
		if v := sel.Features[0].Attr(fd.Name); v != "" {
			attrs[fd.Name] = v
		}
	}
	out.Append(&feature.Feature{Attrs: attrs, Geom: union})
	return out, nil
}

func identFields(src *feature.Collection) []feature.Field {
	var fields []feature.Field
	for _, name := range identFieldNames {
		for _, fd := range src.Fields {
			if fd.Name == name {
				fields = append(fields, fd)
				break
			}
		}
	}
	return fields
}
