package shapefile

import (
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
)

// shapeToGeom converts a go-shp shape to its go-geom equivalent. Single-part
// polylines and single-outer-ring polygons map to the singular types, the way
// OGR reads the same records. Returns nil for null, empty, and unsupported
// shapes.
func shapeToGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.MultiPoint:
		if len(s.Points) == 0 {
			return nil
		}
		flat := make([]float64, 0, len(s.Points)*2)
		for _, p := range s.Points {
			flat = append(flat, p.X, p.Y)
		}
		return geom.NewMultiPointFlat(geom.XY, flat)
	case *shp.PolyLine:
		return polyLineToGeom(s)
	case *shp.Polygon:
		return polygonToGeom(s)
	default:
		return nil
	}
}

func partPoints(points []shp.Point, parts []int32, i int) []shp.Point {
	start := parts[i]
	end := int32(len(points))
	if i+1 < len(parts) {
		end = parts[i+1]
	}
	if start < 0 || start > end || end > int32(len(points)) {
		return nil
	}
	return points[start:end]
}

func polyLineToGeom(pl *shp.PolyLine) geom.T {
	if pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	var flat []float64
	var ends []int
	for i := 0; i < int(pl.NumParts); i++ {
		pts := partPoints(pl.Points, pl.Parts, i)
		if len(pts) < 2 {
			continue
		}
		for _, p := range pts {
			flat = append(flat, p.X, p.Y)
		}
		ends = append(ends, len(flat))
	}

	switch len(ends) {
	case 0:
		return nil
	case 1:
		return geom.NewLineStringFlat(geom.XY, flat)
	default:
		return geom.NewMultiLineStringFlat(geom.XY, flat, ends)
	}
}

// polygonToGeom assembles shapefile rings into polygons. ESRI convention:
// outer rings wind clockwise, holes counter-clockwise, each hole following
// its outer ring. A leading counter-clockwise ring is promoted to an outer.
func polygonToGeom(p *shp.Polygon) geom.T {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var polys [][][]float64
	for i := 0; i < int(p.NumParts); i++ {
		pts := partPoints(p.Points, p.Parts, i)
		if len(pts) < 3 {
			continue
		}
		ring := make([]float64, 0, (len(pts)+1)*2)
		for _, pt := range pts {
			ring = append(ring, pt.X, pt.Y)
		}
		// Overlay math needs closed rings; the format requires them closed
		// but not every producer complies.
		if ring[0] != ring[len(ring)-2] || ring[1] != ring[len(ring)-1] {
			ring = append(ring, ring[0], ring[1])
		}

		if signedArea(ring) <= 0 || len(polys) == 0 {
			polys = append(polys, [][]float64{ring})
		} else {
			polys[len(polys)-1] = append(polys[len(polys)-1], ring)
		}
	}
	if len(polys) == 0 {
		return nil
	}

	if len(polys) == 1 {
		flat, ends := flattenRings(polys[0], 0)
		return geom.NewPolygonFlat(geom.XY, flat, ends)
	}
	var flat []float64
	endss := make([][]int, 0, len(polys))
	for _, rings := range polys {
		part, ends := flattenRings(rings, len(flat))
		flat = append(flat, part...)
		endss = append(endss, ends)
	}
	return geom.NewMultiPolygonFlat(geom.XY, flat, endss)
}

func flattenRings(rings [][]float64, base int) ([]float64, []int) {
	var flat []float64
	ends := make([]int, 0, len(rings))
	for _, r := range rings {
		flat = append(flat, r...)
		ends = append(ends, base+len(flat))
	}
	return flat, ends
}

// signedArea is positive for counter-clockwise rings, negative for clockwise.
// The ring must be closed.
func signedArea(ring []float64) float64 {
	var s float64
	for i := 0; i+3 < len(ring); i += 2 {
		s += ring[i]*ring[i+3] - ring[i+2]*ring[i+1]
	}
	return s / 2
}

// geomToShape converts a go-geom geometry to the go-shp shape matching the
// file's shape type. Ring winding is normalized to the shapefile convention.
func geomToShape(g geom.T, fileType shp.ShapeType) shp.Shape {
	switch gg := g.(type) {
	case *geom.Point:
		c := gg.FlatCoords()
		if fileType == shp.MULTIPOINT {
			return newMultiPoint([]shp.Point{{X: c[0], Y: c[1]}})
		}
		return &shp.Point{X: c[0], Y: c[1]}
	case *geom.MultiPoint:
		return newMultiPoint(toShpPoints(gg.FlatCoords()))
	case *geom.LineString:
		return shp.NewPolyLine([][]shp.Point{toShpPoints(gg.FlatCoords())})
	case *geom.MultiLineString:
		parts := make([][]shp.Point, 0, gg.NumLineStrings())
		for i := 0; i < gg.NumLineStrings(); i++ {
			parts = append(parts, toShpPoints(gg.LineString(i).FlatCoords()))
		}
		return shp.NewPolyLine(parts)
	case *geom.Polygon:
		return polygonShape(ringParts(gg))
	case *geom.MultiPolygon:
		var parts [][]shp.Point
		for i := 0; i < gg.NumPolygons(); i++ {
			parts = append(parts, ringParts(gg.Polygon(i))...)
		}
		return polygonShape(parts)
	default:
		return nil
	}
}

// ringParts extracts a polygon's rings as shapefile parts, outer ring wound
// clockwise and holes counter-clockwise.
func ringParts(p *geom.Polygon) [][]shp.Point {
	flat := p.FlatCoords()
	ends := p.Ends()
	parts := make([][]shp.Point, 0, len(ends))
	start := 0
	for i, end := range ends {
		ring := append([]float64(nil), flat[start:end]...)
		ccw := signedArea(ring) > 0
		if (i == 0 && ccw) || (i > 0 && !ccw) {
			ring = reverseRing(ring)
		}
		parts = append(parts, toShpPoints(ring))
		start = end
	}
	return parts
}

func polygonShape(parts [][]shp.Point) shp.Shape {
	if len(parts) == 0 {
		return nil
	}
	poly := shp.Polygon(*shp.NewPolyLine(parts))
	return &poly
}

func reverseRing(ring []float64) []float64 {
	out := make([]float64, len(ring))
	for i := 0; i < len(ring); i += 2 {
		j := len(ring) - 2 - i
		out[i], out[i+1] = ring[j], ring[j+1]
	}
	return out
}

func toShpPoints(flat []float64) []shp.Point {
	pts := make([]shp.Point, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		pts = append(pts, shp.Point{X: flat[i], Y: flat[i+1]})
	}
	return pts
}

func newMultiPoint(pts []shp.Point) *shp.MultiPoint {
	mp := &shp.MultiPoint{NumPoints: int32(len(pts)), Points: pts}
	if len(pts) > 0 {
		mp.Box = shp.Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
		for _, p := range pts[1:] {
			mp.Box.MinX = min(mp.Box.MinX, p.X)
			mp.Box.MinY = min(mp.Box.MinY, p.Y)
			mp.Box.MaxX = max(mp.Box.MaxX, p.X)
			mp.Box.MaxY = max(mp.Box.MaxY, p.Y)
		}
	}
	return mp
}
