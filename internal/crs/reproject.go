package crs

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/wroge/wgs84"
)

var epsgRepo = wgs84.EPSG()

func init() {
	// NAD83 is not in the built-in repository. Its offset from WGS84 is
	// centimeters to low meters, under TIGER positional accuracy, so it is
	// registered as plain geographic lon/lat. NAD27 is deliberately not
	// registered: its datum shift is tens of meters and faking it would
	// corrupt coordinates silently.
	epsgRepo.Add(NAD83, wgs84.LonLat())
}

// Transformer returns a coordinate transformation between two SRIDs, or an
// error when either side is not a supported system.
func Transformer(fromSRID, toSRID int) (func(x, y float64) (float64, float64), error) {
	from := epsgRepo.Code(fromSRID)
	if from == nil {
		return nil, eris.Errorf("crs: unsupported srid %d", fromSRID)
	}
	to := epsgRepo.Code(toSRID)
	if to == nil {
		return nil, eris.Errorf("crs: unsupported srid %d", toSRID)
	}
	tf := wgs84.Transform(from, to)
	return func(x, y float64) (float64, float64) {
		a, b, _ := tf(x, y, 0)
		return a, b
	}, nil
}

// Reproject returns a copy of g with every coordinate transformed from
// fromSRID to toSRID. g is returned as-is when the SRIDs match.
func Reproject(g geom.T, fromSRID, toSRID int) (geom.T, error) {
	if fromSRID == toSRID {
		return g, nil
	}
	tf, err := Transformer(fromSRID, toSRID)
	if err != nil {
		return nil, err
	}

	out, err := cloneGeom(g)
	if err != nil {
		return nil, err
	}
	coords := out.FlatCoords()
	stride := out.Stride()
	for i := 0; i+1 < len(coords); i += stride {
		coords[i], coords[i+1] = tf(coords[i], coords[i+1])
	}
	return out, nil
}

func cloneGeom(g geom.T) (geom.T, error) {
	switch gg := g.(type) {
	case *geom.Point:
		return gg.Clone(), nil
	case *geom.MultiPoint:
		return gg.Clone(), nil
	case *geom.LineString:
		return gg.Clone(), nil
	case *geom.MultiLineString:
		return gg.Clone(), nil
	case *geom.Polygon:
		return gg.Clone(), nil
	case *geom.MultiPolygon:
		return gg.Clone(), nil
	default:
		return nil, eris.Errorf("crs: cannot reproject %T", g)
	}
}
