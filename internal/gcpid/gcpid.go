// Package gcpid validates Google Cloud resource identifiers before they are
// used to build resource paths or interpolated into SQL. Rejecting malformed
// identifiers here is what keeps user-supplied names out of injection
// territory, so every handle constructor in this module funnels through it.
package gcpid

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidIdentifier is returned when an identifier fails validation.
var ErrInvalidIdentifier = errors.New("invalid identifier")

const (
	// maxGenericBytes is the BigQuery limit for table and dataset names.
	// https://cloud.google.com/bigquery/docs/tables#table_naming
	maxGenericBytes = 1024
)

var (
	// Table and dataset IDs: start with a letter or underscore, then
	// letters, digits, and underscores only. No hyphens, no dots.
	genericPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// Project IDs: lowercase letter start, lowercase letters, digits and
	// hyphens, ending in a letter or digit. Numeric project numbers are
	// accepted separately.
	projectPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

	// Secret IDs: letter or digit start, then letters, digits, underscores
	// and hyphens, 255 bytes max.
	secretPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,254}$`)

	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Generic validates a BigQuery table or dataset identifier and returns it
// unchanged. The what argument names the identifier in error messages.
func Generic(id, what string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrInvalidIdentifier, what)
	}
	if len(id) > maxGenericBytes {
		return "", fmt.Errorf("%w: %s cannot exceed %d characters", ErrInvalidIdentifier, what, maxGenericBytes)
	}
	if !genericPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %s %q must start with a letter or underscore and contain only letters, numbers, and underscores", ErrInvalidIdentifier, what, id)
	}
	return id, nil
}

// Project validates a project identifier and returns it unchanged. Both
// project IDs ("my-project") and numeric project numbers ("123456789")
// are accepted.
func Project(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: project ID cannot be empty", ErrInvalidIdentifier)
	}
	if numericPattern.MatchString(id) {
		return id, nil
	}
	if !projectPattern.MatchString(id) {
		return "", fmt.Errorf("%w: project ID %q must be numeric or start with a letter, end with a letter or number, and contain only lowercase letters, numbers, and hyphens", ErrInvalidIdentifier, id)
	}
	return id, nil
}

// Secret validates a Secret Manager secret identifier and returns it
// unchanged.
func Secret(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%w: secret ID cannot be empty", ErrInvalidIdentifier)
	}
	if !secretPattern.MatchString(id) {
		return "", fmt.Errorf("%w: secret ID %q must start with a letter or number and contain only letters, numbers, underscores, and hyphens (max 255 chars)", ErrInvalidIdentifier, id)
	}
	return id, nil
}
