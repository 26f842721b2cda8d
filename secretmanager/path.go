package secretmanager

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidResourcePath is returned for malformed "projects/..."
	// identifiers.
	ErrInvalidResourcePath = errors.New("invalid resource path")

	// ErrInvalidVersion is returned for version values that are not a
	// positive integer, "latest", or "latest:enabled".
	ErrInvalidVersion = errors.New("invalid version")
)

// resolvePath normalizes a secret identifier to (project, secret,
// version). Three shapes are accepted, tried in order:
//
//  1. "projects/<p>/secrets/<s>[/versions/<v>]" full resource paths
//  2. "<project>/<secret>" shorthand
//  3. bare secret IDs, resolved against defaultProject
//
// The version is empty unless the identifier embeds one.
func resolvePath(identifier, defaultProject string) (project, secret, version string, err error) {
	if strings.HasPrefix(identifier, "projects/") {
		parts := strings.Split(identifier, "/")
		if len(parts) < 4 || parts[2] != "secrets" {
			return "", "", "", fmt.Errorf("%w: %q", ErrInvalidResourcePath, identifier)
		}
		if len(parts) >= 6 && parts[4] == "versions" {
			version = parts[5]
		}
		return parts[1], parts[3], version, nil
	}
	if strings.Contains(identifier, "/") {
		proj, sec, _ := strings.Cut(identifier, "/")
		if proj == "" || sec == "" {
			return "", "", "", fmt.Errorf("%w: %q", ErrInvalidResourcePath, identifier)
		}
		return proj, sec, "", nil
	}
	return defaultProject, identifier, "", nil
}

// normalizeVersion validates a version string. "latest" and
// "latest:enabled" pass through; numeric strings must be at least 1.
func normalizeVersion(version string) (string, error) {
	if version == "latest" || version == "latest:enabled" {
		return version, nil
	}
	n, err := strconv.Atoi(version)
	if err != nil {
		return "", fmt.Errorf("%w: %q, must be a positive integer, \"latest\", or \"latest:enabled\"", ErrInvalidVersion, version)
	}
	if n < 1 {
		return "", fmt.Errorf("%w: version must be positive, got %d", ErrInvalidVersion, n)
	}
	return strconv.Itoa(n), nil
}
