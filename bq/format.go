package bq

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/bigquery"
)

// ErrUnsupportedFormat is returned when a file extension does not map to
// a known source format.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// sourceFormats maps lowercase file extensions to source formats. The
// same table serves local paths and gs:// URIs.
var sourceFormats = map[string]bigquery.DataFormat{
	".csv":     bigquery.CSV,
	".json":    bigquery.JSON,
	".jsonl":   bigquery.JSON,
	".ndjson":  bigquery.JSON,
	".parquet": bigquery.Parquet,
	".avro":    bigquery.Avro,
	".orc":     bigquery.ORC,
}

// DetectFormat maps a file path or storage URI to a source format by its
// extension. Unknown extensions fail with the supported list in the
// message.
func DetectFormat(path string) (bigquery.DataFormat, error) {
	ext := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		ext = strings.ToLower(path[i:])
	}
	format, ok := sourceFormats[ext]
	if !ok {
		return "", fmt.Errorf("%w: detected %q, supported extensions: %s", ErrUnsupportedFormat, ext, supportedExtensions())
	}
	return format, nil
}

func supportedExtensions() string {
	exts := make([]string, 0, len(sourceFormats))
	for ext := range sourceFormats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
