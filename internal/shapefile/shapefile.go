// Package shapefile reads and writes ESRI shapefiles (.shp/.dbf plus the
// .prj and .cpg sidecars) as feature collections.
package shapefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/sells-group/tiger-clip/internal/crs"
	"github.com/sells-group/tiger-clip/internal/feature"
)

// Read loads a shapefile into a collection. Field names and attribute values
// are NUL- and space-trimmed; the CRS comes from the .prj sidecar (SRID 0
// when missing or unrecognized); attribute text is decoded per the .cpg
// sidecar, defaulting to UTF-8. Records whose geometry cannot be represented
// are skipped, not fatal.
func Read(path string) (*feature.Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	defer func() { _ = reader.Close() }()

	decoder, err := attrDecoder(path)
	if err != nil {
		return nil, err
	}

	shpFields := reader.Fields()
	fields := make([]feature.Field, len(shpFields))
	for i, f := range shpFields {
		fields[i] = feature.Field{
			Name:      strings.TrimRight(f.String(), "\x00"),
			Type:      feature.FieldType(f.Fieldtype),
			Length:    f.Size,
			Precision: f.Precision,
		}
	}

	col := feature.NewCollection(fields, readSRID(path))
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		g := shapeToGeom(shape)
		if g == nil {
			skipped++
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i, fd := range fields {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val == "" {
				continue
			}
			if decoder != nil {
				if decoded, derr := decoder.String(val); derr == nil {
					val = decoded
				}
			}
			attrs[fd.Name] = val
		}
		col.Append(&feature.Feature{Attrs: attrs, Geom: g})
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrapf(err, "shapefile: read %s", path)
	}

	if skipped > 0 {
		zap.L().Debug("shapefile: skipped records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return col, nil
}

// readSRID resolves the CRS declared by the .prj sidecar.
func readSRID(shpPath string) int {
	raw, err := os.ReadFile(sidecar(shpPath, ".prj"))
	if err != nil {
		return 0
	}
	return crs.FromWKT(string(raw))
}

// attrDecoder builds a text decoder from the .cpg sidecar. A missing or
// empty sidecar and plain UTF-8 both mean no decoding.
func attrDecoder(shpPath string) (*encoding.Decoder, error) {
	raw, err := os.ReadFile(sidecar(shpPath, ".cpg"))
	if err != nil {
		return nil, nil
	}
	name := strings.TrimSpace(string(raw))
	if name == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: unsupported codepage %q in %s", name, sidecar(shpPath, ".cpg"))
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc.NewDecoder(), nil
}

func sidecar(shpPath, ext string) string {
	return strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ext
}
