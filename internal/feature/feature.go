// Package feature holds the in-memory vector data model shared by every stage
// of the pipeline: attribute schemas, features, and CRS-tagged collections.
package feature

import (
	"github.com/twpayne/go-geom"
)

// FieldType is the DBF column type of an attribute field.
type FieldType byte

const (
	FieldCharacter FieldType = 'C'
	FieldNumeric   FieldType = 'N'
	FieldFloat     FieldType = 'F'
	FieldDate      FieldType = 'D'
	FieldLogical   FieldType = 'L'
)

// Field describes one attribute column of a collection.
type Field struct {
	Name      string
	Type      FieldType
	Length    uint8
	Precision uint8
}

// Feature is a single record: a geometry plus its attribute row. Attribute
// values are kept as strings end to end: TIGER identifiers (STATEFP, GEOID)
// are zero-padded codes, not numbers, and converting them loses the padding.
type Feature struct {
	Attrs map[string]string
	Geom  geom.T
}

// Attr returns the named attribute value, or "" when the field is absent.
func (f *Feature) Attr(name string) string {
	if f == nil || f.Attrs == nil {
		return ""
	}
	return f.Attrs[name]
}

// Collection is an ordered set of features sharing one schema and one CRS.
// SRID 0 means the source declared no coordinate reference system.
type Collection struct {
	Fields   []Field
	Features []*Feature
	SRID     int
}

// NewCollection returns an empty collection with the given schema and CRS.
func NewCollection(fields []Field, srid int) *Collection {
	return &Collection{Fields: fields, SRID: srid}
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Append adds a feature to the end of the collection.
func (c *Collection) Append(f *Feature) {
	c.Features = append(c.Features, f)
}

// HasField reports whether the schema contains a field with the given name.
func (c *Collection) HasField(name string) bool {
	for _, f := range c.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Select returns a new collection containing the features for which keep
// returns true. Schema and SRID are shared with the receiver; features are
// not copied.
func (c *Collection) Select(keep func(*Feature) bool) *Collection {
	out := NewCollection(c.Fields, c.SRID)
	for _, f := range c.Features {
		if keep(f) {
			out.Append(f)
		}
	}
	return out
}
