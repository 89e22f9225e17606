// Package clip intersects a vector layer with a boundary, keeping the layer's
// CRS, schema, and feature order.
package clip

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/tiger-clip/internal/crs"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
)

// Clip returns the features of layer that intersect boundary, with each
// geometry replaced by its clipped portion.
//
// The boundary is reprojected into the layer's CRS when the two differ, never
// the reverse: output coordinates are always in the layer's system. Empty and
// degenerate intersections (zero-area polygons, zero-length lines) are
// dropped. The output is then filtered to the geometry family observed in the
// layer before clipping, so a polygon layer cannot come back with stray
// line-fragment features; a layer that was already mixed passes every
// observed type through unchanged.
func Clip(layer, boundary *feature.Collection) (*feature.Collection, error) {
	if layer.SRID == 0 {
		return nil, &feature.MissingCRSError{Subject: "layer"}
	}
	if boundary.SRID == 0 {
		return nil, &feature.MissingCRSError{Subject: "boundary"}
	}

	mask, err := boundaryGeom(boundary)
	if err != nil {
		return nil, err
	}
	mask, err = crs.Reproject(mask, boundary.SRID, layer.SRID)
	if err != nil {
		return nil, eris.Wrapf(err, "clip: reproject boundary to srid %d", layer.SRID)
	}

	allowed := allowedTypes(layer)

	out := feature.NewCollection(layer.Fields, layer.SRID)
	for _, f := range layer.Features {
		if geometry.IsEmpty(f.Geom) {
			continue
		}
		clipped, err := geometry.Intersection(f.Geom, mask)
		if err != nil {
			return nil, eris.Wrap(err, "clip: intersect feature")
		}
		if clipped == nil {
			continue
		}
		name := geometry.TypeName(clipped)
		if degenerate(name, clipped) || !allowed[name] {
			continue
		}
		out.Append(&feature.Feature{Attrs: f.Attrs, Geom: clipped})
	}
	return out, nil
}

// boundaryGeom collapses the boundary collection to a single mask geometry.
// A boundary is normally one dissolved feature already; unioning tolerates
// callers that pass an undissolved selection.
func boundaryGeom(boundary *feature.Collection) (geom.T, error) {
	geoms := make([]geom.T, 0, boundary.Len())
	for _, f := range boundary.Features {
		if !geometry.IsEmpty(f.Geom) {
			geoms = append(geoms, f.Geom)
		}
	}
	if len(geoms) == 0 {
		return nil, eris.New("clip: boundary has no geometry")
	}
	mask, err := geometry.Union(geoms...)
	if err != nil {
		return nil, eris.Wrap(err, "clip: dissolve boundary")
	}
	return mask, nil
}

// allowedTypes derives the post-clip type filter from the types present
// before clipping. A layer inside one family keeps the whole family (a
// Polygon layer may legitimately produce MultiPolygon pieces); a mixed or
// unrecognized layer keeps exactly the types it came with.
func allowedTypes(layer *feature.Collection) map[string]bool {
	observed := make(map[string]bool)
	var names []string
	for _, f := range layer.Features {
		if f.Geom == nil {
			continue
		}
		if name := geometry.TypeName(f.Geom); name != "" && !observed[name] {
			observed[name] = true
			names = append(names, name)
		}
	}
	if fam, ok := geometry.FamilyOf(names); ok {
		allowed := make(map[string]bool, 2)
		for _, m := range fam.Members() {
			allowed[m] = true
		}
		return allowed
	}
	return observed
}

func degenerate(typeName string, g geom.T) bool {
	switch geometry.FamilyOfType(typeName) {
	case geometry.FamilyPolygon, geometry.FamilyLine:
		return geometry.Measure(g) == 0
	default:
		return false
	}
}
