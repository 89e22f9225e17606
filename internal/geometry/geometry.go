// Package geometry provides the overlay operations (union, intersection) the
// boundary builder and clip engine are built on. The in-memory model is
// twpayne/go-geom; overlay math runs in peterstace/simplefeatures, bridged
// over WKB so neither side needs to know the other's types.
package geometry

import (
	sf "github.com/peterstace/simplefeatures/geom"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

func toSF(g geom.T) (sf.Geometry, error) {
	raw, err := wkb.Marshal(g, wkb.NDR)
	if err != nil {
		return sf.Geometry{}, eris.Wrap(err, "geometry: marshal wkb")
	}
	sg, err := sf.UnmarshalWKB(raw)
	if err != nil {
		return sf.Geometry{}, eris.Wrap(err, "geometry: unmarshal wkb")
	}
	return sg, nil
}

func fromSF(g sf.Geometry) (geom.T, error) {
	out, err := wkb.Unmarshal(g.AsBinary())
	if err != nil {
		return nil, eris.Wrap(err, "geometry: unmarshal wkb")
	}
	return out, nil
}

// Union dissolves the given geometries into one. A single input is returned
// unchanged. The result is a Polygon or MultiPolygon when the inputs are
// polygonal.
func Union(gs ...geom.T) (geom.T, error) {
	if len(gs) == 0 {
		return nil, eris.New("geometry: union of zero geometries")
	}
	if len(gs) == 1 {
		return gs[0], nil
	}

	acc, err := toSF(gs[0])
	if err != nil {
		return nil, err
	}
	for _, g := range gs[1:] {
		next, err := toSF(g)
		if err != nil {
			return nil, err
		}
		acc, err = sf.Union(acc, next)
		if err != nil {
			return nil, eris.Wrap(err, "geometry: union")
		}
	}
	return fromSF(acc)
}

// Intersection clips a against b. A nil result with a nil error means the
// geometries do not intersect.
func Intersection(a, b geom.T) (geom.T, error) {
	sa, err := toSF(a)
	if err != nil {
		return nil, err
	}
	sb, err := toSF(b)
	if err != nil {
		return nil, err
	}
	out, err := sf.Intersection(sa, sb)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: intersection")
	}
	if out.IsEmpty() {
		return nil, nil
	}
	return fromSF(out)
}
