package bq

import (
	"strings"

	"cloud.google.com/go/bigquery"
)

// Field describes one column of a table: a name and a canonical BigQuery
// type string such as "INT64" or "STRING".
type Field struct {
	Name string
	Type string
}

// Schema is an ordered list of fields. Order is preserved everywhere a
// schema is built or applied; names are not deduplicated, the service
// enforces its own rules.
type Schema []Field

// typeAliases maps common type-name variations to canonical BigQuery
// standard SQL type names.
var typeAliases = map[string]string{
	"INTEGER":    "INT64",
	"INT":        "INT64",
	"BIGINT":     "INT64",
	"INT64":      "INT64",
	"FLOAT":      "FLOAT64",
	"DOUBLE":     "FLOAT64",
	"FLOAT64":    "FLOAT64",
	"BOOL":       "BOOLEAN",
	"BOOLEAN":    "BOOLEAN",
	"STRING":     "STRING",
	"TEXT":       "STRING",
	"VARCHAR":    "STRING",
	"BYTES":      "BYTES",
	"DATE":       "DATE",
	"DATETIME":   "DATETIME",
	"TIME":       "TIME",
	"TIMESTAMP":  "TIMESTAMP",
	"NUMERIC":    "NUMERIC",
	"BIGNUMERIC": "BIGNUMERIC",
	"GEOGRAPHY":  "GEOGRAPHY",
	"JSON":       "JSON",
	"ARRAY":      "ARRAY",
	"STRUCT":     "STRUCT",
}

// NormalizeType maps a type string to its canonical BigQuery name.
// Matching is case-insensitive. Unknown types are uppercased and passed
// through unchanged so the service reports them itself.
func NormalizeType(typeName string) string {
	upper := strings.ToUpper(typeName)
	if canonical, ok := typeAliases[upper]; ok {
		return canonical
	}
	return upper
}

// Normalize returns a copy of the schema with every field type in
// canonical form.
func (s Schema) Normalize() Schema {
	normalized := make(Schema, len(s))
	for i, f := range s {
		normalized[i] = Field{Name: f.Name, Type: NormalizeType(f.Type)}
	}
	return normalized
}

// fieldTypes maps canonical type names onto the SDK's field type
// constants. The SDK still uses the legacy names on the wire (INTEGER,
// FLOAT, BOOLEAN); this is the only place that difference shows.
var fieldTypes = map[string]bigquery.FieldType{
	"INT64":      bigquery.IntegerFieldType,
	"FLOAT64":    bigquery.FloatFieldType,
	"BOOLEAN":    bigquery.BooleanFieldType,
	"STRING":     bigquery.StringFieldType,
	"BYTES":      bigquery.BytesFieldType,
	"DATE":       bigquery.DateFieldType,
	"DATETIME":   bigquery.DateTimeFieldType,
	"TIME":       bigquery.TimeFieldType,
	"TIMESTAMP":  bigquery.TimestampFieldType,
	"NUMERIC":    bigquery.NumericFieldType,
	"BIGNUMERIC": bigquery.BigNumericFieldType,
	"GEOGRAPHY":  bigquery.GeographyFieldType,
	"JSON":       bigquery.JSONFieldType,
	"STRUCT":     bigquery.RecordFieldType,
}

// fieldSchemas converts the schema to the SDK representation, normalizing
// types on the way.
func (s Schema) fieldSchemas() bigquery.Schema {
	out := make(bigquery.Schema, len(s))
	for i, f := range s {
		canonical := NormalizeType(f.Type)
		fieldType, ok := fieldTypes[canonical]
		if !ok {
			fieldType = bigquery.FieldType(canonical)
		}
		out[i] = &bigquery.FieldSchema{Name: f.Name, Type: fieldType}
	}
	return out
}

// canonicalTypes is the reverse of fieldTypes, for reading schemas back
// from the service.
var canonicalTypes = map[bigquery.FieldType]string{
	bigquery.IntegerFieldType:    "INT64",
	bigquery.FloatFieldType:      "FLOAT64",
	bigquery.BooleanFieldType:    "BOOLEAN",
	bigquery.StringFieldType:     "STRING",
	bigquery.BytesFieldType:      "BYTES",
	bigquery.DateFieldType:       "DATE",
	bigquery.DateTimeFieldType:   "DATETIME",
	bigquery.TimeFieldType:       "TIME",
	bigquery.TimestampFieldType:  "TIMESTAMP",
	bigquery.NumericFieldType:    "NUMERIC",
	bigquery.BigNumericFieldType: "BIGNUMERIC",
	bigquery.GeographyFieldType:  "GEOGRAPHY",
	bigquery.JSONFieldType:       "JSON",
	bigquery.RecordFieldType:     "STRUCT",
}

func schemaFromFieldSchemas(fields bigquery.Schema) Schema {
	out := make(Schema, len(fields))
	for i, f := range fields {
		canonical, ok := canonicalTypes[f.Type]
		if !ok {
			canonical = string(f.Type)
		}
		out[i] = Field{Name: f.Name, Type: canonical}
	}
	return out
}

// InferSchema derives a schema from a frame's column type tags. Tags use
// the common dataframe dtype names; anything unrecognized becomes STRING
// rather than failing.
func InferSchema(f *Frame) Schema {
	cols := f.Columns()
	out := make(Schema, len(cols))
	for i, col := range cols {
		out[i] = Field{Name: col.Name, Type: typeForDType(col.DType)}
	}
	return out
}

func typeForDType(dtype string) string {
	switch {
	case strings.HasPrefix(dtype, "int"):
		return "INT64"
	case strings.HasPrefix(dtype, "float"):
		return "FLOAT64"
	case dtype == "bool":
		return "BOOLEAN"
	case dtype == "object":
		return "STRING"
	case strings.HasPrefix(dtype, "datetime64"):
		return "TIMESTAMP"
	case dtype == "date":
		return "DATE"
	case strings.HasPrefix(dtype, "timedelta"):
		return "TIME"
	default:
		return "STRING"
	}
}
