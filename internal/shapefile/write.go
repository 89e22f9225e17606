package shapefile

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/tiger-clip/internal/crs"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
)

// Write saves a collection as a shapefile with .prj and .cpg sidecars. The
// shape type comes from the collection's geometry family; a collection mixing
// families cannot be written (the format stores one type per file). An empty
// collection produces a valid header-only file.
func Write(col *feature.Collection, path string) error {
	fileType, err := shapeTypeFor(col)
	if err != nil {
		return err
	}

	w, err := shp.Create(path, fileType)
	if err != nil {
		return eris.Wrapf(err, "shapefile: create %s", path)
	}
	defer w.Close()

	fields := make([]shp.Field, len(col.Fields))
	for i, fd := range col.Fields {
		fields[i] = shpField(fd)
	}
	if err := w.SetFields(fields); err != nil {
		return eris.Wrapf(err, "shapefile: set fields in %s", path)
	}

	row := 0
	for _, f := range col.Features {
		if geometry.IsEmpty(f.Geom) {
			continue
		}
		shape := geomToShape(f.Geom, fileType)
		if shape == nil {
			continue
		}
		w.Write(shape)
		for i, fd := range col.Fields {
			val := f.Attr(fd.Name)
			if val == "" {
				continue
			}
			if err := w.WriteAttribute(row, i, val); err != nil {
				return eris.Wrapf(err, "shapefile: write attribute %s row %d", fd.Name, row)
			}
		}
		row++
	}

	if wkt, ok := crs.ToWKT(col.SRID); ok {
		if err := os.WriteFile(sidecar(path, ".prj"), []byte(wkt), 0o644); err != nil {
			return eris.Wrapf(err, "shapefile: write prj for %s", path)
		}
	}
	if err := os.WriteFile(sidecar(path, ".cpg"), []byte("UTF-8"), 0o644); err != nil {
		return eris.Wrapf(err, "shapefile: write cpg for %s", path)
	}
	return nil
}

// shapeTypeFor picks the shapefile type for the collection's geometry family.
func shapeTypeFor(col *feature.Collection) (shp.ShapeType, error) {
	var names []string
	seen := make(map[string]bool)
	hasMultiPoint := false
	for _, f := range col.Features {
		if f.Geom == nil {
			continue
		}
		name := geometry.TypeName(f.Geom)
		if name == "MultiPoint" {
			hasMultiPoint = true
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return shp.NULL, nil
	}

	fam, ok := geometry.FamilyOf(names)
	if !ok {
		return 0, eris.Errorf("shapefile: cannot write mixed geometry types (%s)", strings.Join(names, ", "))
	}
	switch fam {
	case geometry.FamilyPoint:
		if hasMultiPoint {
			return shp.MULTIPOINT, nil
		}
		return shp.POINT, nil
	case geometry.FamilyLine:
		return shp.POLYLINE, nil
	default:
		return shp.POLYGON, nil
	}
}

func shpField(fd feature.Field) shp.Field {
	switch fd.Type {
	case feature.FieldNumeric:
		if fd.Precision > 0 {
			return shp.FloatField(fd.Name, fd.Length, fd.Precision)
		}
		return shp.NumberField(fd.Name, fd.Length)
	case feature.FieldFloat:
		return shp.FloatField(fd.Name, fd.Length, fd.Precision)
	case feature.FieldDate:
		return shp.DateField(fd.Name)
	default:
		return shp.StringField(fd.Name, fd.Length)
	}
}
