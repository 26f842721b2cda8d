package bq

import (
	"testing"

	"cloud.google.com/go/bigquery"
)

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "integer alias", in: "INTEGER", out: "INT64"},
		{name: "int alias", in: "INT", out: "INT64"},
		{name: "bigint alias", in: "BIGINT", out: "INT64"},
		{name: "float alias", in: "FLOAT", out: "FLOAT64"},
		{name: "double alias", in: "DOUBLE", out: "FLOAT64"},
		{name: "bool alias", in: "BOOL", out: "BOOLEAN"},
		{name: "text alias", in: "TEXT", out: "STRING"},
		{name: "varchar alias", in: "VARCHAR", out: "STRING"},
		{name: "lowercase", in: "integer", out: "INT64"},
		{name: "mixed case", in: "Float", out: "FLOAT64"},
		{name: "self map", in: "TIMESTAMP", out: "TIMESTAMP"},
		{name: "geography", in: "GEOGRAPHY", out: "GEOGRAPHY"},
		{name: "unknown passes through uppercased", in: "interval", out: "INTERVAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeType(tt.in); got != tt.out {
				t.Errorf("NormalizeType(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}

func TestNormalizeTypeIdempotent(t *testing.T) {
	for alias := range typeAliases {
		once := NormalizeType(alias)
		if twice := NormalizeType(once); twice != once {
			t.Errorf("NormalizeType(%q) = %q, but normalizing again gives %q", alias, once, twice)
		}
	}
}

func TestSchemaNormalizePreservesOrder(t *testing.T) {
	s := Schema{
		{Name: "name", Type: "TEXT"},
		{Name: "age", Type: "INTEGER"},
		{Name: "score", Type: "FLOAT"},
	}
	got := s.Normalize()
	want := Schema{
		{Name: "name", Type: "STRING"},
		{Name: "age", Type: "INT64"},
		{Name: "score", Type: "FLOAT64"},
	}
	if len(got) != len(want) {
		t.Fatalf("Normalize() returned %d fields, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFieldSchemas(t *testing.T) {
	s := Schema{
		{Name: "age", Type: "INTEGER"},
		{Name: "name", Type: "STRING"},
		{Name: "ratio", Type: "double"},
		{Name: "nested", Type: "STRUCT"},
	}
	fields := s.fieldSchemas()
	want := []bigquery.FieldType{
		bigquery.IntegerFieldType,
		bigquery.StringFieldType,
		bigquery.FloatFieldType,
		bigquery.RecordFieldType,
	}
	for i, ft := range want {
		if fields[i].Type != ft {
			t.Errorf("field %d type = %q, want %q", i, fields[i].Type, ft)
		}
	}
	if fields[0].Name != "age" || fields[3].Name != "nested" {
		t.Errorf("field names not preserved: %v", fields)
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	s := Schema{{Name: "age", Type: "INTEGER"}}
	back := schemaFromFieldSchemas(s.fieldSchemas())
	if back[0].Type != "INT64" {
		t.Errorf("round trip type = %q, want INT64", back[0].Type)
	}
	if back[0].Name != "age" {
		t.Errorf("round trip name = %q, want age", back[0].Name)
	}
}

func TestInferSchema(t *testing.T) {
	frame := NewFrame(
		Column{Name: "id", DType: "int64"},
		Column{Name: "small", DType: "int32"},
		Column{Name: "score", DType: "float64"},
		Column{Name: "active", DType: "bool"},
		Column{Name: "name", DType: "object"},
		Column{Name: "created", DType: "datetime64[ns]"},
		Column{Name: "birthday", DType: "date"},
		Column{Name: "elapsed", DType: "timedelta64[ns]"},
		Column{Name: "mystery", DType: "category"},
	)
	got := InferSchema(frame)
	want := []string{"INT64", "INT64", "FLOAT64", "BOOLEAN", "STRING", "TIMESTAMP", "DATE", "TIME", "STRING"}
	if len(got) != len(want) {
		t.Fatalf("InferSchema returned %d fields, want %d", len(got), len(want))
	}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("field %d (%s) type = %q, want %q", i, got[i].Name, got[i].Type, typ)
		}
	}
}
