package secretmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gcpeasy/gcpeasy-go/internal/gcpid"
)

// cloudPlatformScope is the OAuth scope used for ambient credential
// resolution.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

var (
	// ErrNoProject is returned when no project is given and none can be
	// resolved from the ambient default credentials.
	ErrNoProject = errors.New("could not determine project ID from default credentials")

	// ErrUnsupportedEncoding is returned when a secret must be decoded
	// with an encoding this package does not handle.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrInvalidPayload is returned when a secret payload cannot be
	// decoded or parsed as requested.
	ErrInvalidPayload = errors.New("invalid secret payload")
)

// Client wraps a Secret Manager client with identifier resolution,
// version defaults, and typed retrieval variants.
type Client struct {
	api       *secretmanager.Client
	projectID string
	version   string
	encoding  string
	logger    *zap.SugaredLogger
}

// NewClient creates a client. The project comes from WithProject, then
// WithProjectNumber, then the ambient default credentials; having none is
// a construction error.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{version: defaultVersion, encoding: defaultEncoding}
	for _, opt := range opts {
		opt(&cfg)
	}
	projectID := cfg.projectID
	if projectID == "" && cfg.projectNumber > 0 {
		projectID = strconv.FormatInt(cfg.projectNumber, 10)
	}
	if projectID == "" {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoProject, err)
		}
		projectID = creds.ProjectID
	}
	if projectID == "" {
		return nil, ErrNoProject
	}
	if _, err := gcpid.Project(projectID); err != nil {
		return nil, err
	}
	if _, err := normalizeVersion(cfg.version); err != nil {
		return nil, err
	}
	api, err := secretmanager.NewClient(ctx, cfg.googleOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		api:       api,
		projectID: projectID,
		version:   cfg.version,
		encoding:  cfg.encoding,
		logger:    logger,
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error { return c.api.Close() }

// Project returns the resolved project ID.
func (c *Client) Project() string { return c.projectID }

// fetch resolves an identifier and accesses the version. usedDefault is
// true when the secret was absent and a fallback was supplied; the
// service's not-found error propagates otherwise.
func (c *Client) fetch(ctx context.Context, identifier string, o getOptions) (payload []byte, usedDefault bool, err error) {
	project, secret, pathVersion, err := resolvePath(identifier, c.projectID)
	if err != nil {
		return nil, false, err
	}
	// Call-time version beats the one embedded in the identifier, which
	// beats the client default.
	version := o.version
	if version == "" {
		version = pathVersion
	}
	if version == "" {
		version = c.version
	}
	version, err = normalizeVersion(version)
	if err != nil {
		return nil, false, err
	}
	if _, err := gcpid.Project(project); err != nil {
		return nil, false, err
	}
	if _, err := gcpid.Secret(secret); err != nil {
		return nil, false, err
	}
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, secret, version)
	return c.access(ctx, name, o)
}

func (c *Client) access(ctx context.Context, name string, o getOptions) ([]byte, bool, error) {
	c.logger.Debugw("accessing secret version", "name", name)
	resp, err := c.api.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound && o.hasDefault {
			c.logger.Debugw("secret not found, using default", "name", name)
			return nil, true, nil
		}
		return nil, false, err
	}
	return resp.GetPayload().GetData(), false, nil
}

func (c *Client) decode(payload []byte) (string, error) {
	switch strings.ToLower(c.encoding) {
	case "utf-8", "utf8":
		if !utf8.Valid(payload) {
			return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrInvalidPayload)
		}
		return string(payload), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, c.encoding)
	}
}

// Get retrieves a secret's payload as decoded text. With WithDefault the
// fallback replaces the service's not-found error.
func (c *Client) Get(ctx context.Context, secret string, opts ...GetOption) (string, error) {
	o := newGetOptions(opts)
	payload, usedDefault, err := c.fetch(ctx, secret, o)
	if err != nil {
		return "", err
	}
	if usedDefault {
		return o.defaultVal, nil
	}
	return c.decode(payload)
}

// GetBytes retrieves a secret's payload without decoding.
func (c *Client) GetBytes(ctx context.Context, secret string, opts ...GetOption) ([]byte, error) {
	o := newGetOptions(opts)
	payload, usedDefault, err := c.fetch(ctx, secret, o)
	if err != nil {
		return nil, err
	}
	if usedDefault {
		return []byte(o.defaultVal), nil
	}
	return payload, nil
}

// GetJSON retrieves a secret and unmarshals it into v. A fallback from
// WithDefault is unmarshalled the same way.
func (c *Client) GetJSON(ctx context.Context, secret string, v any, opts ...GetOption) error {
	text, err := c.Get(ctx, secret, opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: failed to parse secret %q as JSON: %v", ErrInvalidPayload, secret, err)
	}
	return nil
}

// GetMap retrieves a secret and parses it as KEY=VALUE lines. Separators,
// trimming, and key case are controlled by WithSeparators, WithKeepSpace,
// and WithUppercaseKeys. Lines without a key separator are skipped.
func (c *Client) GetMap(ctx context.Context, secret string, opts ...GetOption) (map[string]string, error) {
	o := newGetOptions(opts)
	text, err := c.Get(ctx, secret, opts...)
	if err != nil {
		return nil, err
	}
	return parseMap(text, o), nil
}

func parseMap(text string, o getOptions) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(text, o.lineSeparator) {
		if line == "" || !strings.Contains(line, o.keySeparator) {
			continue
		}
		key, value, _ := strings.Cut(line, o.keySeparator)
		if !o.keepSpace {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
		}
		if o.uppercaseKeys {
			key = strings.ToUpper(key)
		}
		result[key] = value
	}
	return result
}

// GetPath retrieves a fully qualified "projects/..." version path without
// any project or version inference.
func (c *Client) GetPath(ctx context.Context, path string, opts ...GetOption) (string, error) {
	if !strings.HasPrefix(path, "projects/") {
		return "", fmt.Errorf("%w: GetPath requires a fully qualified path, got %q", ErrInvalidResourcePath, path)
	}
	o := newGetOptions(opts)
	payload, usedDefault, err := c.access(ctx, path, o)
	if err != nil {
		return "", err
	}
	if usedDefault {
		return o.defaultVal, nil
	}
	return c.decode(payload)
}

// Secrets lists secret IDs in the client's project. A positive maxResults
// limits the listing; zero returns everything.
func (c *Client) Secrets(ctx context.Context, maxResults int) ([]string, error) {
	it := c.api.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent: "projects/" + c.projectID,
	})
	var ids []string
	for {
		if maxResults > 0 && len(ids) >= maxResults {
			break
		}
		s, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, lastSegment(s.GetName()))
	}
	return ids, nil
}

// Versions lists the version IDs of a secret, newest first, in the order
// the service returns them.
func (c *Client) Versions(ctx context.Context, secret string) ([]string, error) {
	project, secretID, _, err := resolvePath(secret, c.projectID)
	if err != nil {
		return nil, err
	}
	if _, err := gcpid.Secret(secretID); err != nil {
		return nil, err
	}
	it := c.api.ListSecretVersions(ctx, &secretmanagerpb.ListSecretVersionsRequest{
		Parent: fmt.Sprintf("projects/%s/secrets/%s", project, secretID),
	})
	var ids []string
	for {
		v, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, lastSegment(v.GetName()))
	}
	return ids, nil
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// isNotFound reports whether err is the service's not-found error.
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// isConflict reports whether err is the service's already-exists error.
func isConflict(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
