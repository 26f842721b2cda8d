package secretmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		identifier string
		project    string
		secret     string
		version    string
	}{
		{"db-password", "default-proj", "db-password", ""},
		{"other-proj/db-password", "other-proj", "db-password", ""},
		{"projects/p/secrets/s", "p", "s", ""},
		{"projects/p/secrets/s/versions/3", "p", "s", "3"},
		{"projects/p/secrets/s/versions/latest", "p", "s", "latest"},
		{"projects/123456/secrets/s/versions/latest:enabled", "123456", "s", "latest:enabled"},
	}
	for _, tc := range tests {
		project, secret, version, err := resolvePath(tc.identifier, "default-proj")
		require.NoError(t, err, tc.identifier)
		assert.Equal(t, tc.project, project, tc.identifier)
		assert.Equal(t, tc.secret, secret, tc.identifier)
		assert.Equal(t, tc.version, version, tc.identifier)
	}
}

func TestResolvePathMalformed(t *testing.T) {
	malformed := []string{
		"projects/p",
		"projects/p/notsecrets/s",
		"projects/p/secrets",
		"/db-password",
		"other-proj/",
	}
	for _, identifier := range malformed {
		_, _, _, err := resolvePath(identifier, "default-proj")
		assert.ErrorIs(t, err, ErrInvalidResourcePath, identifier)
	}
}

func TestNormalizeVersion(t *testing.T) {
	for _, v := range []string{"latest", "latest:enabled", "1", "42"} {
		got, err := normalizeVersion(v)
		require.NoError(t, err, v)
		assert.Equal(t, v, got, v)
	}
	for _, v := range []string{"", "0", "-1", "abc", "latest:disabled", "1.5"} {
		_, err := normalizeVersion(v)
		assert.ErrorIs(t, err, ErrInvalidVersion, v)
	}
}
