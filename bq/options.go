package bq

import (
	"time"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// defaultLocation is used when no location is configured on the client.
const defaultLocation = "EU"

// A ClientOption configures a Client at construction time.
type ClientOption func(*clientConfig)

type clientConfig struct {
	projectID    string
	location     string
	logger       *zap.SugaredLogger
	googleOpts   []option.ClientOption
	defaultQuery []Option
}

// WithProject sets the project the client operates in. When absent, the
// project is resolved from the ambient default credentials.
func WithProject(projectID string) ClientOption {
	return func(c *clientConfig) { c.projectID = projectID }
}

// WithDefaultLocation sets the default location for jobs and new datasets.
func WithDefaultLocation(location string) ClientOption {
	return func(c *clientConfig) { c.location = location }
}

// WithLogger sets the logger used for operation-level debug logging.
func WithLogger(logger *zap.SugaredLogger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// WithClientOptions passes options through to the underlying SDK client.
func WithClientOptions(opts ...option.ClientOption) ClientOption {
	return func(c *clientConfig) { c.googleOpts = append(c.googleOpts, opts...) }
}

// WithDefaultQueryOptions sets options applied to every query before any
// per-call options.
func WithDefaultQueryOptions(opts ...Option) ClientOption {
	return func(c *clientConfig) { c.defaultQuery = append(c.defaultQuery, opts...) }
}

// An Option configures a single operation. Options not recognized by an
// operation are ignored, the way an unrecognized keyword would be.
type Option func(*callOptions)

type callOptions struct {
	params           map[string]any
	schema           Schema
	disposition      bigquery.TableWriteDisposition
	sourceFormat     bigquery.DataFormat
	skipLeadingRows  *int64
	fieldDelimiter   string
	compression      bigquery.Compression
	noHeader         bool
	location         string
	description      *string
	labels           map[string]string
	tableExpiration  *time.Duration
	partitionField   string
	clusteringFields []string
	existsOK         bool
	notFoundOK       bool
	deleteContents   bool
	ignoreUnknown    *bool
	skipInvalidRows  bool
}

func newCallOptions(opts []Option) callOptions {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}
	return co
}

// WithParams binds named query parameters. Parameter types are inferred
// from the Go values; see Client.Query.
func WithParams(params map[string]any) Option {
	return func(o *callOptions) { o.params = params }
}

// WithSchema supplies an explicit schema instead of inference or
// auto-detection.
func WithSchema(schema Schema) Option {
	return func(o *callOptions) { o.schema = schema }
}

// WithDisposition sets how existing data at the write target is handled.
func WithDisposition(d bigquery.TableWriteDisposition) Option {
	return func(o *callOptions) { o.disposition = d }
}

// WithFormat sets an explicit source or destination format, overriding
// extension-based detection.
func WithFormat(f bigquery.DataFormat) Option {
	return func(o *callOptions) { o.sourceFormat = f }
}

// WithSkipLeadingRows sets the number of header rows skipped when loading
// CSV data. CSV loads default to 1.
func WithSkipLeadingRows(n int64) Option {
	return func(o *callOptions) { o.skipLeadingRows = &n }
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(d string) Option {
	return func(o *callOptions) { o.fieldDelimiter = d }
}

// WithCompression sets the compression used for extract jobs. Defaults
// to GZIP.
func WithCompression(c bigquery.Compression) Option {
	return func(o *callOptions) { o.compression = c }
}

// WithoutHeader omits the header row from CSV extract output.
func WithoutHeader() Option {
	return func(o *callOptions) { o.noHeader = true }
}

// WithLocation sets the geographic location of a dataset being created.
func WithLocation(location string) Option {
	return func(o *callOptions) { o.location = location }
}

// WithDescription sets the resource description.
func WithDescription(description string) Option {
	return func(o *callOptions) { o.description = &description }
}

// WithLabels sets resource labels.
func WithLabels(labels map[string]string) Option {
	return func(o *callOptions) { o.labels = labels }
}

// WithTableExpiration sets the default lifetime of tables in a dataset.
func WithTableExpiration(d time.Duration) Option {
	return func(o *callOptions) { o.tableExpiration = &d }
}

// WithPartitionField time-partitions a new table on the named field.
func WithPartitionField(field string) Option {
	return func(o *callOptions) { o.partitionField = field }
}

// WithClustering clusters a new table on the given fields.
func WithClustering(fields ...string) Option {
	return func(o *callOptions) { o.clusteringFields = fields }
}

// WithExistsOK suppresses the conflict error when creating a resource
// that already exists.
func WithExistsOK() Option {
	return func(o *callOptions) { o.existsOK = true }
}

// WithNotFoundOK suppresses the not-found error when deleting a resource
// that does not exist.
func WithNotFoundOK() Option {
	return func(o *callOptions) { o.notFoundOK = true }
}

// WithDeleteContents deletes a dataset's tables along with the dataset.
func WithDeleteContents() Option {
	return func(o *callOptions) { o.deleteContents = true }
}

// WithIgnoreUnknownValues controls whether streaming inserts ignore row
// keys that are not in the table schema. Defaults to true.
func WithIgnoreUnknownValues(ignore bool) Option {
	return func(o *callOptions) { o.ignoreUnknown = &ignore }
}

// WithSkipInvalidRows lets a streaming insert succeed for valid rows even
// when some rows are invalid.
func WithSkipInvalidRows() Option {
	return func(o *callOptions) { o.skipInvalidRows = true }
}
