package bq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

var (
	// ErrNoProject is returned when no project is given and none can be
	// resolved from the ambient default credentials.
	ErrNoProject = errors.New("could not determine project ID from default credentials")

	// ErrInvalidTableID is returned when a table reference is not in
	// "dataset.table" or "project.dataset.table" form.
	ErrInvalidTableID = errors.New("invalid table ID format")
)

// Client wraps a BigQuery client with validated identifiers, default
// locations, and single-call query and load operations.
type Client struct {
	gcp          *bigquery.Client
	projectID    string
	location     string
	defaultQuery []Option
	logger       *zap.SugaredLogger
}

// NewClient creates a client. Without WithProject the project is resolved
// from the ambient default credentials; failing that is a construction
// error, not a deferred one.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{location: defaultLocation}
	for _, opt := range opts {
		opt(&cfg)
	}
	projectID := cfg.projectID
	if projectID == "" {
		projectID = bigquery.DetectProjectID
	}
	gcp, err := bigquery.NewClient(ctx, projectID, cfg.googleOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}
	if gcp.Project() == "" || gcp.Project() == bigquery.DetectProjectID {
		gcp.Close()
		return nil, ErrNoProject
	}
	gcp.Location = cfg.location
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		gcp:          gcp,
		projectID:    gcp.Project(),
		location:     cfg.location,
		defaultQuery: cfg.defaultQuery,
		logger:       logger,
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error { return c.gcp.Close() }

// Project returns the resolved project ID.
func (c *Client) Project() string { return c.projectID }

// Location returns the client's default location.
func (c *Client) Location() string { return c.location }

// Query runs a SQL query and returns the full result as a frame.
// Named parameters are bound from WithParams with types inferred from the
// Go values.
func (c *Client) Query(ctx context.Context, sql string, opts ...Option) (*Frame, error) {
	it, err := c.QueryRows(ctx, sql, opts...)
	if err != nil {
		return nil, err
	}
	return frameFromIterator(it)
}

// QueryRows runs a SQL query and returns the SDK's row iterator for
// streaming large results.
func (c *Client) QueryRows(ctx context.Context, sql string, opts ...Option) (*bigquery.RowIterator, error) {
	co := newCallOptions(append(append([]Option{}, c.defaultQuery...), opts...))
	q := c.gcp.Query(sql)
	if co.params != nil {
		q.Parameters = c.queryParameters(co.params)
	}
	c.logger.Debugw("running query", "project", c.projectID, "params", len(q.Parameters))
	return q.Read(ctx)
}

// queryParameters converts a flat name-to-value mapping into SDK
// parameters in name-sorted order. Values outside the supported scalar
// types are stringified, matching the STRING fallback of the type
// inference table.
func (c *Client) queryParameters(params map[string]any) []bigquery.QueryParameter {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]bigquery.QueryParameter, len(names))
	for i, name := range names {
		paramType, value := inferParam(params[name])
		c.logger.Debugw("bound query parameter", "name", name, "type", paramType)
		out[i] = bigquery.QueryParameter{Name: name, Value: value}
	}
	return out
}

// Datasets lists dataset IDs in the project. A positive maxResults limits
// the listing; zero returns everything.
func (c *Client) Datasets(ctx context.Context, maxResults int) ([]string, error) {
	it := c.gcp.Datasets(ctx)
	var ids []string
	for {
		if maxResults > 0 && len(ids) >= maxResults {
			break
		}
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, ds.DatasetID)
	}
	return ids, nil
}

// Tables lists table IDs in a dataset. A positive maxResults limits the
// listing.
func (c *Client) Tables(ctx context.Context, datasetID string, maxResults int) ([]string, error) {
	return c.Dataset(datasetID).Tables(ctx, maxResults)
}

// Load writes data to the referenced table, creating it as needed. The
// table reference is "dataset.table" or "project.dataset.table"; data
// takes the same shapes as Table.Write. Unlike Table.Write, Load appends
// by default.
func (c *Client) Load(ctx context.Context, data any, tableID string, opts ...Option) error {
	projectID, datasetID, tableName, err := splitTableID(tableID)
	if err != nil {
		return err
	}
	dataset := c.Dataset(datasetID)
	if projectID != "" {
		dataset = c.DatasetInProject(projectID, datasetID)
	}
	opts = append([]Option{WithDisposition(bigquery.WriteAppend)}, opts...)
	return dataset.Table(tableName).Write(ctx, data, opts...)
}

// splitTableID parses a dotted table reference. The project part is empty
// for two-segment references.
func splitTableID(tableID string) (projectID, datasetID, tableName string, err error) {
	parts := strings.Split(tableID, ".")
	switch len(parts) {
	case 2:
		return "", parts[0], parts[1], nil
	case 3:
		return parts[0], parts[1], parts[2], nil
	default:
		return "", "", "", fmt.Errorf("%w: %q, expected 'dataset.table' or 'project.dataset.table'", ErrInvalidTableID, tableID)
	}
}

// inferParam maps a Go value onto a BigQuery parameter type name and a
// value the SDK can bind. Unknown types degrade to STRING.
func inferParam(v any) (string, any) {
	switch t := v.(type) {
	case bool:
		return "BOOL", t
	case int:
		return "INT64", int64(t)
	case int32:
		return "INT64", int64(t)
	case int64:
		return "INT64", t
	case float32:
		return "FLOAT64", float64(t)
	case float64:
		return "FLOAT64", t
	case string:
		return "STRING", t
	case []byte:
		return "BYTES", t
	case time.Time:
		return "TIMESTAMP", t
	default:
		return "STRING", fmt.Sprintf("%v", v)
	}
}

// isNotFound reports whether err is the service's not-found error.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// isConflict reports whether err is the service's already-exists error.
func isConflict(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
