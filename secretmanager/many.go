package secretmanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidSpec is returned when a GetMany entry cannot be resolved to a
// secret name and options.
var ErrInvalidSpec = errors.New("invalid secret spec")

// A SecretSpec names one secret to retrieve in GetMany, with optional
// per-secret options. The two shapes are Name for a bare secret ID and
// Spec for an ID with options.
type SecretSpec interface {
	resolve(alias string) (string, []GetOption, error)
}

// Name is a bare secret identifier, fetched with default options.
type Name string

func (n Name) resolve(alias string) (string, []GetOption, error) {
	if n == "" {
		return "", nil, fmt.Errorf("%w: secret name for %q is empty", ErrInvalidSpec, alias)
	}
	return string(n), nil, nil
}

// Spec pairs a secret identifier with retrieval options.
type Spec struct {
	Secret  string
	Options []GetOption
}

func (s Spec) resolve(alias string) (string, []GetOption, error) {
	if s.Secret == "" {
		return "", nil, fmt.Errorf("%w: spec for %q is missing the secret name", ErrInvalidSpec, alias)
	}
	return s.Secret, s.Options, nil
}

// GetMany retrieves several secrets keyed by caller-chosen aliases.
// Entries are resolved one at a time in alias order; the first failure
// aborts the call. A nil spec, an empty Name, and a Spec without a secret
// each fail with an error naming the alias.
func (c *Client) GetMany(ctx context.Context, specs map[string]SecretSpec) (map[string]string, error) {
	aliases := make([]string, 0, len(specs))
	for alias := range specs {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	result := make(map[string]string, len(specs))
	for _, alias := range aliases {
		spec := specs[alias]
		if spec == nil {
			return nil, fmt.Errorf("%w: spec for %q is nil", ErrInvalidSpec, alias)
		}
		secret, opts, err := spec.resolve(alias)
		if err != nil {
			return nil, err
		}
		value, err := c.Get(ctx, secret, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to get secret for %q: %w", alias, err)
		}
		result[alias] = value
	}
	return result, nil
}

// GetEach retrieves secrets by bare name, keyed by those names.
func (c *Client) GetEach(ctx context.Context, names []string) (map[string]string, error) {
	result := make(map[string]string, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: secret name is empty", ErrInvalidSpec)
		}
		value, err := c.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get secret %q: %w", name, err)
		}
		result[name] = value
	}
	return result, nil
}
