package shapefile

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/tiger-clip/internal/geometry"
)

func TestShapeToGeom_Point(t *testing.T) {
	t.Parallel()

	g := shapeToGeom(&shp.Point{X: -96.8, Y: 32.78})
	require.IsType(t, &geom.Point{}, g)
	assert.Equal(t, []float64{-96.8, 32.78}, g.FlatCoords())
}

func TestShapeToGeom_SinglePartPolyLine(t *testing.T) {
	t.Parallel()

	pl := shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}})
	g := shapeToGeom(pl)
	require.IsType(t, &geom.LineString{}, g)
	assert.InDelta(t, 2.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_MultiPartPolyLine(t *testing.T) {
	t.Parallel()

	pl := shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 1}, {X: 1, Y: 1}},
	})
	g := shapeToGeom(pl)
	require.IsType(t, &geom.MultiLineString{}, g)
	assert.InDelta(t, 2.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_SingleRingPolygon(t *testing.T) {
	t.Parallel()

	// Clockwise ring, the shapefile convention for outer rings.
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0}},
	}))
	g := shapeToGeom(&poly)
	require.IsType(t, &geom.Polygon{}, g)
	assert.InDelta(t, 16.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_PolygonWithHole(t *testing.T) {
	t.Parallel()

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		// Outer, clockwise.
		{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0}},
		// Hole, counter-clockwise.
		{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 1}},
	}))
	g := shapeToGeom(&poly)
	require.IsType(t, &geom.Polygon{}, g)
	p := g.(*geom.Polygon)
	assert.Equal(t, 2, p.NumLinearRings())
	assert.InDelta(t, 15.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_TwoOuterRings(t *testing.T) {
	t.Parallel()

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
		{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5}},
	}))
	g := shapeToGeom(&poly)
	require.IsType(t, &geom.MultiPolygon{}, g)
	assert.InDelta(t, 2.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_UnclosedRingGetsClosed(t *testing.T) {
	t.Parallel()

	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{
		{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}},
	}))
	g := shapeToGeom(&poly)
	require.IsType(t, &geom.Polygon{}, g)
	flat := g.FlatCoords()
	assert.Equal(t, flat[0], flat[len(flat)-2])
	assert.Equal(t, flat[1], flat[len(flat)-1])
	assert.InDelta(t, 4.0, geometry.Measure(g), 1e-9)
}

func TestShapeToGeom_NilAndUnsupported(t *testing.T) {
	t.Parallel()

	assert.Nil(t, shapeToGeom(nil))
	assert.Nil(t, shapeToGeom(&shp.PolyLine{}))
	assert.Nil(t, shapeToGeom(&shp.Polygon{}))
}

func TestSignedArea(t *testing.T) {
	t.Parallel()

	ccw := []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}
	cw := []float64{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}
	assert.InDelta(t, 1.0, signedArea(ccw), 1e-9)
	assert.InDelta(t, -1.0, signedArea(cw), 1e-9)
}

func TestGeomToShape_NormalizesRingWinding(t *testing.T) {
	t.Parallel()

	// Counter-clockwise outer ring: must flip to clockwise on write.
	p := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0}, []int{10})
	shape := geomToShape(p, shp.POLYGON)
	require.IsType(t, &shp.Polygon{}, shape)

	written := shape.(*shp.Polygon)
	ring := make([]float64, 0, len(written.Points)*2)
	for _, pt := range written.Points {
		ring = append(ring, pt.X, pt.Y)
	}
	assert.Negative(t, signedArea(ring))
}

func TestGeomToShape_RoundTripPolygonWithHole(t *testing.T) {
	t.Parallel()

	p := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 4, 0, 4, 4, 0, 4, 0, 0, // outer, counter-clockwise
		1, 1, 1, 2, 2, 2, 2, 1, 1, 1, // hole, clockwise
	}, []int{10, 20})

	shape := geomToShape(p, shp.POLYGON)
	require.NotNil(t, shape)
	back := shapeToGeom(shape)
	require.IsType(t, &geom.Polygon{}, back)
	assert.InDelta(t, 15.0, geometry.Measure(back), 1e-9)
}

func TestGeomToShape_PointForMultiPointFile(t *testing.T) {
	t.Parallel()

	g := geom.NewPointFlat(geom.XY, []float64{3, 4})
	shape := geomToShape(g, shp.MULTIPOINT)
	require.IsType(t, &shp.MultiPoint{}, shape)
	mp := shape.(*shp.MultiPoint)
	assert.Equal(t, int32(1), mp.NumPoints)
}
