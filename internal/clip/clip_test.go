package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/tiger-clip/internal/crs"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
)

func square(x0, y0, x1, y1 float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		x0, y0,
		x1, y0,
		x1, y1,
		x0, y1,
		x0, y0,
	}, []int{10})
}

func line(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func boundaryFixture(g geom.T, srid int) *feature.Collection {
	b := feature.NewCollection([]feature.Field{
		{Name: "NAME", Type: feature.FieldCharacter, Length: 100},
	}, srid)
	b.Append(&feature.Feature{Attrs: map[string]string{"NAME": "mask"}, Geom: g})
	return b
}

func roadsFixture(srid int) *feature.Collection {
	c := feature.NewCollection([]feature.Field{
		{Name: "LINEARID", Type: feature.FieldCharacter, Length: 22},
		{Name: "FULLNAME", Type: feature.FieldCharacter, Length: 100},
	}, srid)
	// Fully inside the 2x2 boundary at the origin.
	c.Append(&feature.Feature{
		Attrs: map[string]string{"LINEARID": "110001", "FULLNAME": "Main St"},
		Geom:  line(0.5, 0.5, 1.5, 0.5),
	})
	// Crosses the boundary, clipped to x in [0,2].
	c.Append(&feature.Feature{
		Attrs: map[string]string{"LINEARID": "110002", "FULLNAME": "State Hwy 1"},
		Geom:  line(-1, 1, 3, 1),
	})
	// Entirely outside.
	c.Append(&feature.Feature{
		Attrs: map[string]string{"LINEARID": "110003", "FULLNAME": "Far Rd"},
		Geom:  line(5, 5, 6, 6),
	})
	return c
}

func TestClip_Roads(t *testing.T) {
	t.Parallel()

	roads := roadsFixture(4269)
	bound := boundaryFixture(square(0, 0, 2, 2), 4269)

	out, err := Clip(roads, bound)
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	inside := out.Features[0]
	assert.Equal(t, "110001", inside.Attr("LINEARID"))
	assert.Equal(t, "Main St", inside.Attr("FULLNAME"))
	assert.InDelta(t, 1.0, geometry.Measure(inside.Geom), 1e-9)

	crossing := out.Features[1]
	assert.Equal(t, "110002", crossing.Attr("LINEARID"))
	assert.InDelta(t, 2.0, geometry.Measure(crossing.Geom), 1e-9)

	assert.Equal(t, roads.Fields, out.Fields)
	assert.Equal(t, 4269, out.SRID)
}

func TestClip_OutputStaysInLayerCRS(t *testing.T) {
	t.Parallel()

	// Layer in meters, boundary in degrees. The boundary covers roughly a
	// +-110 km box around the origin once reprojected, so the 1 km square is
	// wholly contained and survives unchanged.
	layer := feature.NewCollection(nil, crs.WebMercator)
	layer.Append(&feature.Feature{
		Attrs: map[string]string{},
		Geom:  square(0, 0, 1000, 1000),
	})
	bound := boundaryFixture(square(-1, -1, 1, 1), crs.WGS84)

	out, err := Clip(layer, bound)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, crs.WebMercator, out.SRID)
	assert.InDelta(t, 1e6, geometry.Measure(out.Features[0].Geom), 1e-3)

	wantBounds := square(0, 0, 1000, 1000).Bounds()
	gotBounds := out.Features[0].Geom.Bounds()
	assert.InDelta(t, wantBounds.Min(0), gotBounds.Min(0), 1e-6)
	assert.InDelta(t, wantBounds.Max(0), gotBounds.Max(0), 1e-6)
	assert.InDelta(t, wantBounds.Min(1), gotBounds.Min(1), 1e-6)
	assert.InDelta(t, wantBounds.Max(1), gotBounds.Max(1), 1e-6)
}

func TestClip_MissingCRS(t *testing.T) {
	t.Parallel()

	roads := roadsFixture(0)
	bound := boundaryFixture(square(0, 0, 2, 2), 4269)

	_, err := Clip(roads, bound)
	require.Error(t, err)
	assert.True(t, feature.IsMissingCRS(err))
	assert.Contains(t, err.Error(), "layer")

	_, err = Clip(roadsFixture(4269), boundaryFixture(square(0, 0, 2, 2), 0))
	require.Error(t, err)
	assert.True(t, feature.IsMissingCRS(err))
	assert.Contains(t, err.Error(), "boundary")
}

func TestClip_PolygonLayerStaysPolygonal(t *testing.T) {
	t.Parallel()

	layer := feature.NewCollection(nil, 4269)
	// Overlaps the boundary with positive area.
	layer.Append(&feature.Feature{
		Attrs: map[string]string{"GEOID": "48113"},
		Geom:  square(1, 0, 3, 2),
	})
	// Touches the boundary along an edge only: the intersection is a line,
	// which must not appear in a polygon layer's output.
	layer.Append(&feature.Feature{
		Attrs: map[string]string{"GEOID": "48085"},
		Geom:  square(2, 0, 4, 2),
	})

	out, err := Clip(layer, boundaryFixture(square(0, 0, 2, 2), 4269))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "48113", out.Features[0].Attr("GEOID"))
	for _, f := range out.Features {
		assert.Contains(t, []string{"Polygon", "MultiPolygon"}, geometry.TypeName(f.Geom))
	}
}

func TestClip_ContainmentWithinBoundary(t *testing.T) {
	t.Parallel()

	bound := boundaryFixture(square(0, 0, 2, 2), 4269)
	out, err := Clip(roadsFixture(4269), bound)
	require.NoError(t, err)

	mask := bound.Features[0].Geom
	for _, f := range out.Features {
		again, err := geometry.Intersection(f.Geom, mask)
		require.NoError(t, err)
		require.NotNil(t, again)
		assert.InDelta(t, geometry.Measure(f.Geom), geometry.Measure(again), 1e-9)
	}
}

func TestClip_MixedLayerPassesThrough(t *testing.T) {
	t.Parallel()

	layer := feature.NewCollection(nil, 4269)
	layer.Append(&feature.Feature{
		Attrs: map[string]string{"ID": "poly"},
		Geom:  square(0.2, 0.2, 0.8, 0.8),
	})
	layer.Append(&feature.Feature{
		Attrs: map[string]string{"ID": "line"},
		Geom:  line(0.1, 0.5, 1.9, 0.5),
	})

	out, err := Clip(layer, boundaryFixture(square(0, 0, 2, 2), 4269))
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	types := []string{
		geometry.TypeName(out.Features[0].Geom),
		geometry.TypeName(out.Features[1].Geom),
	}
	assert.ElementsMatch(t, []string{"Polygon", "LineString"}, types)
}

func TestClip_NothingIntersects(t *testing.T) {
	t.Parallel()

	roads := roadsFixture(4269)
	out, err := Clip(roads, boundaryFixture(square(100, 100, 101, 101), 4269))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, roads.Fields, out.Fields)
	assert.Equal(t, 4269, out.SRID)
}

func TestClip_SkipsNilGeometry(t *testing.T) {
	t.Parallel()

	layer := feature.NewCollection(nil, 4269)
	layer.Append(&feature.Feature{Attrs: map[string]string{"ID": "null shape"}})
	layer.Append(&feature.Feature{
		Attrs: map[string]string{"ID": "ok"},
		Geom:  line(0, 1, 2, 1),
	})

	out, err := Clip(layer, boundaryFixture(square(0, 0, 2, 2), 4269))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "ok", out.Features[0].Attr("ID"))
}

func TestClip_EmptyBoundary(t *testing.T) {
	t.Parallel()

	bound := feature.NewCollection(nil, 4269)
	_, err := Clip(roadsFixture(4269), bound)
	assert.Error(t, err)
}
