// Package pgload loads clipped artifacts into PostGIS using COPY protocol.
// Geometry travels as SRID-tagged EWKB bytes.
package pgload

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/db"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
)

const defaultBatchSize = 50000

// EnsureSchema creates the target schema if it does not exist.
func EnsureSchema(ctx context.Context, pool db.Pool, schema string) error {
	sql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{schema}.Sanitize())
	if _, err := pool.Exec(ctx, sql); err != nil {
		return eris.Wrapf(err, "pgload: create schema %s", schema)
	}
	return nil
}

// EnsureLayerTable creates the table for a collection: one TEXT column per
// attribute field, a typed geometry column, and a GiST index.
func EnsureLayerTable(ctx context.Context, pool db.Pool, schema, table string, col *feature.Collection) error {
	quoted := pgx.Identifier{schema, table}.Sanitize()

	cols := make([]string, 0, len(col.Fields)+2)
	cols = append(cols, "gid SERIAL PRIMARY KEY")
	for _, f := range col.Fields {
		cols = append(cols, fmt.Sprintf("%s TEXT", pgx.Identifier{strings.ToLower(f.Name)}.Sanitize()))
	}
	cols = append(cols, fmt.Sprintf("geom geometry(%s, %d)", columnType(col), col.SRID))

	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoted, strings.Join(cols, ", "))
	if _, err := pool.Exec(ctx, createSQL); err != nil {
		return eris.Wrapf(err, "pgload: create table %s.%s", schema, table)
	}

	idxName := pgx.Identifier{fmt.Sprintf("idx_%s_geom", table)}.Sanitize()
	gistSQL := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING GIST (geom)", idxName, quoted)
	if _, err := pool.Exec(ctx, gistSQL); err != nil {
		return eris.Wrapf(err, "pgload: create GIST index on %s.%s", schema, table)
	}

	return nil
}

// LoadCollection COPYs a collection into schema.table in batches of batchSize
// rows (0 = default 50,000). The table must already exist.
func LoadCollection(ctx context.Context, pool db.Pool, schema, table string, col *feature.Collection, batchSize int) (int64, error) {
	if col.Len() == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	columns := make([]string, 0, len(col.Fields)+1)
	for _, f := range col.Fields {
		columns = append(columns, strings.ToLower(f.Name))
	}
	columns = append(columns, "geom")

	rows := make([][]any, 0, col.Len())
	for _, ft := range col.Features {
		if geometry.IsEmpty(ft.Geom) {
			continue
		}
		ewkbData, err := encodeGeometry(ft.Geom, col.SRID)
		if err != nil {
			return 0, eris.Wrapf(err, "pgload: encode geometry for %s.%s", schema, table)
		}

		row := make([]any, 0, len(columns))
		for _, f := range col.Fields {
			if v := ft.Attr(f.Name); v != "" {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, ewkbData)
		rows = append(rows, row)
	}

	log := zap.L().With(
		zap.String("component", "pgload"),
		zap.String("table", schema+"."+table),
		zap.Int("total_rows", len(rows)),
	)

	var total int64
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		n, err := db.CopyFromSchema(ctx, pool, schema, table, columns, rows[i:end])
		if err != nil {
			return total, eris.Wrapf(err, "pgload: COPY into %s.%s (batch %d-%d)", schema, table, i, end)
		}
		total += n

		log.Debug("batch loaded",
			zap.Int("batch_start", i),
			zap.Int("batch_end", end),
			zap.Int64("batch_rows", n),
		)
	}

	return total, nil
}

// columnType picks the geometry column typmod from the observed layer family.
// Single-part geometries are promoted to their multi form on encode, so the
// multi typmod covers the whole family. Mixed layers get the untyped form.
func columnType(col *feature.Collection) string {
	names := make([]string, 0, col.Len())
	for _, ft := range col.Features {
		if name := geometry.TypeName(ft.Geom); name != "" {
			names = append(names, name)
		}
	}

	family, ok := geometry.FamilyOf(names)
	if !ok {
		return "Geometry"
	}
	switch family {
	case geometry.FamilyPoint:
		return "MultiPoint"
	case geometry.FamilyLine:
		return "MultiLineString"
	case geometry.FamilyPolygon:
		return "MultiPolygon"
	default:
		return "Geometry"
	}
}

// encodeGeometry renders a geometry as EWKB tagged with the given SRID.
func encodeGeometry(g geom.T, srid int) ([]byte, error) {
	promoted, err := promoteToMulti(g)
	if err != nil {
		return nil, err
	}
	setSRID(promoted, srid)

	raw, err := ewkb.Marshal(promoted, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "marshal ewkb")
	}
	return raw, nil
}

// promoteToMulti wraps single-part geometries in their multi container so a
// layer mixing Polygon and MultiPolygon loads into one typmod.
func promoteToMulti(g geom.T) (geom.T, error) {
	switch g := g.(type) {
	case *geom.Point:
		mp := geom.NewMultiPoint(g.Layout())
		if err := mp.Push(g); err != nil {
			return nil, eris.Wrap(err, "promote point")
		}
		return mp, nil
	case *geom.LineString:
		ml := geom.NewMultiLineString(g.Layout())
		if err := ml.Push(g); err != nil {
			return nil, eris.Wrap(err, "promote linestring")
		}
		return ml, nil
	case *geom.Polygon:
		mp := geom.NewMultiPolygon(g.Layout())
		if err := mp.Push(g); err != nil {
			return nil, eris.Wrap(err, "promote polygon")
		}
		return mp, nil
	default:
		return g, nil
	}
}

// setSRID stamps the SRID onto the geometry so ewkb.Marshal emits it.
func setSRID(g geom.T, srid int) {
	switch g := g.(type) {
	case *geom.Point:
		g.SetSRID(srid)
	case *geom.MultiPoint:
		g.SetSRID(srid)
	case *geom.LineString:
		g.SetSRID(srid)
	case *geom.MultiLineString:
		g.SetSRID(srid)
	case *geom.Polygon:
		g.SetSRID(srid)
	case *geom.MultiPolygon:
		g.SetSRID(srid)
	case *geom.GeometryCollection:
		g.SetSRID(srid)
	}
}
