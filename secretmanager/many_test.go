package secretmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameResolve(t *testing.T) {
	secret, opts, err := Name("db-password").resolve("db")
	require.NoError(t, err)
	assert.Equal(t, "db-password", secret)
	assert.Empty(t, opts)

	_, _, err = Name("").resolve("db")
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), `"db"`)
}

func TestSpecResolve(t *testing.T) {
	spec := Spec{Secret: "api-key", Options: []GetOption{WithDefault("fallback")}}
	secret, opts, err := spec.resolve("api")
	require.NoError(t, err)
	assert.Equal(t, "api-key", secret)
	assert.Len(t, opts, 1)

	_, _, err = Spec{}.resolve("api")
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), `"api"`)
}
