package bq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/gcpeasy/gcpeasy-go/internal/gcpid"
)

var (
	// ErrUnsupportedDataType is returned by Write for data shapes it
	// cannot dispatch on.
	ErrUnsupportedDataType = errors.New("unsupported data type")

	// ErrSchemaRequired is returned when creating an empty table without
	// an explicit schema.
	ErrSchemaRequired = errors.New("schema must be provided when data is nil")

	// ErrInvalidMaxResults is returned for a negative row limit.
	ErrInvalidMaxResults = errors.New("max results must not be negative")
)

// Table is a handle on one table: a client reference plus validated
// identity. The fully qualified ID is recomputed per access, never cached.
type Table struct {
	c         *Client
	projectID string
	datasetID string
	tableID   string
	err       error
}

// Table returns a handle on a table in the dataset. Invalid identifiers
// surface on the first operation.
func (d *Dataset) Table(tableID string) *Table {
	t := &Table{c: d.c, projectID: d.projectID, datasetID: d.datasetID, tableID: tableID, err: d.err}
	if t.err == nil {
		if _, err := gcpid.Generic(tableID, "table ID"); err != nil {
			t.err = err
		}
	}
	return t
}

// ID returns the fully qualified "project.dataset.table" ID.
func (t *Table) ID() string {
	return t.projectID + "." + t.datasetID + "." + t.tableID
}

func (t *Table) bq() *bigquery.Table {
	return t.c.gcp.DatasetInProject(t.projectID, t.datasetID).Table(t.tableID)
}

// Exists reports whether the table exists. Only the service's not-found
// error converts to false; anything else is returned.
func (t *Table) Exists(ctx context.Context) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	if _, err := t.bq().Metadata(ctx); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create creates the table with the given schema. Recognized options:
// WithPartitionField, WithClustering, WithDescription, WithExistsOK.
func (t *Table) Create(ctx context.Context, schema Schema, opts ...Option) error {
	if t.err != nil {
		return t.err
	}
	co := newCallOptions(opts)
	md := &bigquery.TableMetadata{Schema: schema.fieldSchemas()}
	if co.description != nil {
		md.Description = *co.description
	}
	if co.partitionField != "" {
		md.TimePartitioning = &bigquery.TimePartitioning{Field: co.partitionField}
	}
	if len(co.clusteringFields) > 0 {
		md.Clustering = &bigquery.Clustering{Fields: co.clusteringFields}
	}
	if err := t.bq().Create(ctx, md); err != nil {
		if isConflict(err) && co.existsOK {
			t.c.logger.Debugw("table already exists", "table", t.ID())
			return nil
		}
		return err
	}
	return nil
}

// Delete deletes the table. Recognized options: WithNotFoundOK.
func (t *Table) Delete(ctx context.Context, opts ...Option) error {
	if t.err != nil {
		return t.err
	}
	co := newCallOptions(opts)
	if err := t.bq().Delete(ctx); err != nil {
		if isNotFound(err) && co.notFoundOK {
			t.c.logger.Debugw("table already gone", "table", t.ID())
			return nil
		}
		return err
	}
	return nil
}

// Metadata fetches the table's metadata from the service.
func (t *Table) Metadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.bq().Metadata(ctx)
}

// Schema fetches the table's schema with types in canonical form.
func (t *Table) Schema(ctx context.Context) (Schema, error) {
	md, err := t.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	return schemaFromFieldSchemas(md.Schema), nil
}

// Update sends a partial update containing only the options that were
// given: WithSchema (additive only, new fields are appended to the
// existing schema), WithDescription, WithLabels. With no options it is a
// no-op.
func (t *Table) Update(ctx context.Context, opts ...Option) error {
	if t.err != nil {
		return t.err
	}
	co := newCallOptions(opts)
	var mdu bigquery.TableMetadataToUpdate
	changed := false
	if co.schema != nil {
		md, err := t.bq().Metadata(ctx)
		if err != nil {
			return err
		}
		mdu.Schema = append(md.Schema, co.schema.fieldSchemas()...)
		changed = true
	}
	if co.description != nil {
		mdu.Description = *co.description
		changed = true
	}
	for k, v := range co.labels {
		mdu.SetLabel(k, v)
		changed = true
	}
	if !changed {
		return nil
	}
	_, err := t.bq().Update(ctx, mdu, "")
	return err
}

// buildReadQuery builds the SELECT for Read. A positive limit becomes a
// bound @max_results parameter so the value never appears in the query
// text.
func buildReadQuery(fqtn string, maxResults int64) (string, []bigquery.QueryParameter) {
	sql := fmt.Sprintf("SELECT * FROM `%s`", fqtn)
	if maxResults > 0 {
		sql += " LIMIT @max_results"
		return sql, []bigquery.QueryParameter{{Name: "max_results", Value: maxResults}}
	}
	return sql, nil
}

// Read returns the table's rows as a frame. A positive maxResults limits
// the row count; zero reads the whole table.
func (t *Table) Read(ctx context.Context, maxResults int64) (*Frame, error) {
	if t.err != nil {
		return nil, t.err
	}
	if maxResults < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxResults, maxResults)
	}
	sql, params := buildReadQuery(t.ID(), maxResults)
	q := t.c.gcp.Query(sql)
	q.Parameters = params
	t.c.logger.Debugw("reading table", "table", t.ID(), "limit", maxResults)
	it, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	return frameFromIterator(it)
}

// Write writes data to the table and blocks until the load completes.
// The data shape selects the path:
//
//   - nil creates an empty table from an explicit WithSchema (existing
//     tables are left alone)
//   - a string names a local file or gs:// URI; the format comes from
//     WithFormat or the extension
//   - a *Frame is loaded with its inferred schema unless WithSchema is
//     given
//
// Existing data is truncated unless WithDisposition says otherwise.
func (t *Table) Write(ctx context.Context, data any, opts ...Option) error {
	if t.err != nil {
		return t.err
	}
	co := newCallOptions(opts)
	if co.disposition == "" {
		co.disposition = bigquery.WriteTruncate
	}
	switch v := data.(type) {
	case nil:
		return t.writeEmpty(ctx, co)
	case string:
		return t.writeFile(ctx, v, co)
	case *Frame:
		return t.writeFrame(ctx, v, co)
	default:
		return fmt.Errorf("%w: %T, expected *Frame, file path string, or nil", ErrUnsupportedDataType, data)
	}
}

func (t *Table) writeEmpty(ctx context.Context, co callOptions) error {
	if co.schema == nil {
		return ErrSchemaRequired
	}
	md := &bigquery.TableMetadata{Schema: co.schema.fieldSchemas()}
	if err := t.bq().Create(ctx, md); err != nil && !isConflict(err) {
		return err
	}
	return nil
}

func (t *Table) writeFile(ctx context.Context, path string, co callOptions) error {
	format := co.sourceFormat
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return err
		}
		format = detected
	}
	var src bigquery.LoadSource
	if strings.HasPrefix(path, "gs://") {
		ref := bigquery.NewGCSReference(path)
		configureLoad(&ref.FileConfig, format, co)
		src = ref
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		rs := bigquery.NewReaderSource(f)
		configureLoad(&rs.FileConfig, format, co)
		src = rs
	}
	t.c.logger.Debugw("loading file", "table", t.ID(), "source", path, "format", format)
	return t.runLoad(ctx, src, co)
}

func (t *Table) writeFrame(ctx context.Context, f *Frame, co callOptions) error {
	schema := co.schema
	if schema == nil {
		schema = InferSchema(f)
	}
	data, err := f.encodeJSONLines()
	if err != nil {
		return err
	}
	rs := bigquery.NewReaderSource(bytes.NewReader(data))
	rs.SourceFormat = bigquery.JSON
	rs.Schema = schema.fieldSchemas()
	t.c.logger.Debugw("loading frame", "table", t.ID(), "rows", f.NumRows(), "fields", len(schema))
	return t.runLoad(ctx, rs, co)
}

// configureLoad applies the shared file options for file and URI loads.
// CSV skips one leading row unless told otherwise.
func configureLoad(fc *bigquery.FileConfig, format bigquery.DataFormat, co callOptions) {
	fc.SourceFormat = format
	if co.schema != nil {
		fc.Schema = co.schema.fieldSchemas()
	} else {
		fc.AutoDetect = true
	}
	if format == bigquery.CSV {
		fc.SkipLeadingRows = 1
		if co.skipLeadingRows != nil {
			fc.SkipLeadingRows = *co.skipLeadingRows
		}
		if co.fieldDelimiter != "" {
			fc.FieldDelimiter = co.fieldDelimiter
		}
	}
}

// runLoad submits a load job and blocks until it finishes.
func (t *Table) runLoad(ctx context.Context, src bigquery.LoadSource, co callOptions) error {
	loader := t.bq().LoaderFrom(src)
	loader.WriteDisposition = co.disposition
	job, err := loader.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

// rowSaver adapts a plain row map to the SDK's streaming insert
// interface. No insert ID is set, so the service applies no
// deduplication.
type rowSaver map[string]bigquery.Value

func (r rowSaver) Save() (map[string]bigquery.Value, string, error) {
	return r, "", nil
}

// Insert streams rows into the table. Unknown row keys are ignored unless
// WithIgnoreUnknownValues(false) is given; WithSkipInvalidRows lets valid
// rows land even when others fail.
func (t *Table) Insert(ctx context.Context, rows []map[string]bigquery.Value, opts ...Option) error {
	if t.err != nil {
		return t.err
	}
	co := newCallOptions(opts)
	ins := t.bq().Inserter()
	ins.IgnoreUnknownValues = true
	if co.ignoreUnknown != nil {
		ins.IgnoreUnknownValues = *co.ignoreUnknown
	}
	ins.SkipInvalidRows = co.skipInvalidRows
	savers := make([]rowSaver, len(rows))
	for i, row := range rows {
		savers[i] = rowSaver(row)
	}
	return ins.Put(ctx, savers)
}

// ToGCS exports the table to a storage URI and returns the running
// extract job without waiting. The default output is gzipped CSV with a
// header row.
func (t *Table) ToGCS(ctx context.Context, uri string, opts ...Option) (*bigquery.Job, error) {
	if t.err != nil {
		return nil, t.err
	}
	co := newCallOptions(opts)
	ref := bigquery.NewGCSReference(uri)
	ref.DestinationFormat = bigquery.CSV
	if co.sourceFormat != "" {
		ref.DestinationFormat = co.sourceFormat
	}
	ref.Compression = bigquery.Gzip
	if co.compression != "" {
		ref.Compression = co.compression
	}
	extractor := t.bq().ExtractorTo(ref)
	if ref.DestinationFormat == bigquery.CSV {
		if co.fieldDelimiter != "" {
			ref.FieldDelimiter = co.fieldDelimiter
		}
		extractor.DisableHeader = co.noHeader
	}
	t.c.logger.Debugw("extracting table", "table", t.ID(), "destination", uri)
	return extractor.Run(ctx)
}

// Copy copies the table to dst, a *Table or a dotted table reference, and
// returns the running copy job without waiting. The destination is
// truncated unless WithDisposition says otherwise.
func (t *Table) Copy(ctx context.Context, dst any, opts ...Option) (*bigquery.Job, error) {
	if t.err != nil {
		return nil, t.err
	}
	co := newCallOptions(opts)
	var target *Table
	switch v := dst.(type) {
	case *Table:
		target = v
	case string:
		projectID, datasetID, tableName, err := splitTableID(v)
		if err != nil {
			return nil, err
		}
		if projectID == "" {
			projectID = t.c.projectID
		}
		target = t.c.DatasetInProject(projectID, datasetID).Table(tableName)
	default:
		return nil, fmt.Errorf("%w: %T, expected *Table or table ID string", ErrUnsupportedDataType, dst)
	}
	if target.err != nil {
		return nil, target.err
	}
	copier := target.bq().CopierFrom(t.bq())
	copier.WriteDisposition = bigquery.WriteTruncate
	if co.disposition != "" {
		copier.WriteDisposition = co.disposition
	}
	t.c.logger.Debugw("copying table", "source", t.ID(), "destination", target.ID())
	return copier.Run(ctx)
}
