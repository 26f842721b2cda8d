package secretmanager

import (
	"strconv"

	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultVersion  = "latest"
	defaultEncoding = "utf-8"
)

// A ClientOption configures a Client at construction time.
type ClientOption func(*clientConfig)

type clientConfig struct {
	projectID      string
	projectNumber  int64
	version        string
	encoding       string
	logger         *zap.SugaredLogger
	googleOpts     []option.ClientOption
}

// WithProject sets the project secrets are resolved in. When absent,
// WithProjectNumber applies, then the ambient default credentials.
func WithProject(projectID string) ClientOption {
	return func(c *clientConfig) { c.projectID = projectID }
}

// WithProjectNumber sets the project by number instead of ID.
func WithProjectNumber(n int64) ClientOption {
	return func(c *clientConfig) { c.projectNumber = n }
}

// WithDefaultVersion sets the version fetched when neither the call nor
// the identifier names one. Defaults to "latest".
func WithDefaultVersion(version string) ClientOption {
	return func(c *clientConfig) { c.version = version }
}

// WithEncoding sets the text encoding secrets are decoded with. Only
// UTF-8 is supported natively; other names fail at decode time.
func WithEncoding(encoding string) ClientOption {
	return func(c *clientConfig) { c.encoding = encoding }
}

// WithLogger sets the logger used for operation-level debug logging.
func WithLogger(logger *zap.SugaredLogger) ClientOption {
	return func(c *clientConfig) { c.logger = logger }
}

// WithClientOptions passes options through to the underlying SDK client.
func WithClientOptions(opts ...option.ClientOption) ClientOption {
	return func(c *clientConfig) { c.googleOpts = append(c.googleOpts, opts...) }
}

// A GetOption configures a single retrieval.
type GetOption func(*getOptions)

type getOptions struct {
	version    string
	defaultVal string
	hasDefault bool

	// KEY=VALUE parsing knobs for GetMap.
	lineSeparator string
	keySeparator  string
	keepSpace     bool
	uppercaseKeys bool
}

func newGetOptions(opts []GetOption) getOptions {
	o := getOptions{lineSeparator: "\n", keySeparator: "="}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithVersion fetches a specific version: a positive integer string,
// "latest", or "latest:enabled". Overrides a version embedded in the
// identifier and the client default.
func WithVersion(version string) GetOption {
	return func(o *getOptions) { o.version = version }
}

// WithVersionNumber fetches a specific numeric version.
func WithVersionNumber(n int) GetOption {
	return func(o *getOptions) { o.version = strconv.Itoa(n) }
}

// WithDefault supplies a fallback returned when the secret or version
// does not exist, instead of the service's not-found error. Passing an
// empty string is a genuine empty fallback, distinct from not passing
// the option at all.
func WithDefault(value string) GetOption {
	return func(o *getOptions) {
		o.defaultVal = value
		o.hasDefault = true
	}
}

// WithSeparators sets the line and key separators GetMap splits on.
// Defaults are newline and "=".
func WithSeparators(lineSeparator, keySeparator string) GetOption {
	return func(o *getOptions) {
		o.lineSeparator = lineSeparator
		o.keySeparator = keySeparator
	}
}

// WithKeepSpace disables the whitespace trimming GetMap applies to keys
// and values.
func WithKeepSpace() GetOption {
	return func(o *getOptions) { o.keepSpace = true }
}

// WithUppercaseKeys upper-cases the keys GetMap returns.
func WithUppercaseKeys() GetOption {
	return func(o *getOptions) { o.uppercaseKeys = true }
}
