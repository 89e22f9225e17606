package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Family groups the nominal geometry types by dimension.
type Family int

const (
	FamilyNone Family = iota
	FamilyPoint
	FamilyLine
	FamilyPolygon
)

func (f Family) String() string {
	switch f {
	case FamilyPoint:
		return "point"
	case FamilyLine:
		return "line"
	case FamilyPolygon:
		return "polygon"
	default:
		return "none"
	}
}

// Members returns the nominal geometry type names belonging to the family.
func (f Family) Members() []string {
	switch f {
	case FamilyPoint:
		return []string{"Point", "MultiPoint"}
	case FamilyLine:
		return []string{"LineString", "MultiLineString"}
	case FamilyPolygon:
		return []string{"Polygon", "MultiPolygon"}
	default:
		return nil
	}
}

// TypeName returns the nominal geometry type of g ("Polygon", "MultiLineString",
// ...), or "" for nil or unrecognized geometries.
func TypeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "Point"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.LineString:
		return "LineString"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.Polygon:
		return "Polygon"
	case *geom.MultiPolygon:
		return "MultiPolygon"
	case *geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return ""
	}
}

// FamilyOfType returns the family a single type name belongs to.
func FamilyOfType(name string) Family {
	switch name {
	case "Point", "MultiPoint":
		return FamilyPoint
	case "LineString", "MultiLineString":
		return FamilyLine
	case "Polygon", "MultiPolygon":
		return FamilyPolygon
	default:
		return FamilyNone
	}
}

// FamilyOf returns the single family containing every type name in names.
// ok is false when names is empty or spans more than one family.
func FamilyOf(names []string) (Family, bool) {
	fam := FamilyNone
	for _, n := range names {
		f := FamilyOfType(n)
		if f == FamilyNone {
			return FamilyNone, false
		}
		if fam == FamilyNone {
			fam = f
			continue
		}
		if f != fam {
			return FamilyNone, false
		}
	}
	return fam, fam != FamilyNone
}

// Measure returns the area of polygonal geometries, the length of lineal
// ones, and 0 for everything else. Used to drop degenerate clip output.
func Measure(g geom.T) float64 {
	switch gg := g.(type) {
	case *geom.Polygon:
		// Magnitude regardless of ring winding; shapefiles store rings
		// clockwise-out, overlay output counter-clockwise-out.
		return math.Abs(gg.Area())
	case *geom.MultiPolygon:
		return math.Abs(gg.Area())
	case *geom.LineString:
		return gg.Length()
	case *geom.MultiLineString:
		return gg.Length()
	default:
		return 0
	}
}

// IsEmpty reports whether g is nil or has no coordinates.
func IsEmpty(g geom.T) bool {
	return g == nil || g.Empty()
}
