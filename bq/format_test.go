package bq

import (
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/bigquery"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		format bigquery.DataFormat
	}{
		{name: "csv", path: "data.csv", format: bigquery.CSV},
		{name: "csv uppercase", path: "DATA.CSV", format: bigquery.CSV},
		{name: "json", path: "events.json", format: bigquery.JSON},
		{name: "jsonl", path: "events.jsonl", format: bigquery.JSON},
		{name: "ndjson", path: "events.ndjson", format: bigquery.JSON},
		{name: "parquet", path: "table.parquet", format: bigquery.Parquet},
		{name: "avro", path: "table.avro", format: bigquery.Avro},
		{name: "orc", path: "table.orc", format: bigquery.ORC},
		{name: "nested path", path: "/tmp/exports/2024/data.csv", format: bigquery.CSV},
		{name: "gcs uri", path: "gs://bucket/path/data.parquet", format: bigquery.Parquet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if err != nil {
				t.Fatalf("DetectFormat(%q) returned error: %v", tt.path, err)
			}
			if got != tt.format {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.format)
			}
		})
	}
}

func TestDetectFormatUnsupported(t *testing.T) {
	for _, path := range []string{"data.txt", "archive.tar.gz", "noextension", "data.xlsx"} {
		_, err := DetectFormat(path)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("DetectFormat(%q) error = %v, want ErrUnsupportedFormat", path, err)
			continue
		}
		for _, ext := range []string{".csv", ".json", ".parquet", ".avro", ".orc"} {
			if !strings.Contains(err.Error(), ext) {
				t.Errorf("DetectFormat(%q) error %q does not list %s", path, err.Error(), ext)
			}
		}
	}
}
