package bq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient() *Client {
	return &Client{projectID: "my-project", location: "EU", logger: zap.NewNop().Sugar()}
}

func TestSplitTableID(t *testing.T) {
	tests := []struct {
		name    string
		tableID string
		project string
		dataset string
		table   string
		wantErr bool
	}{
		{name: "dataset and table", tableID: "people.users", dataset: "people", table: "users"},
		{name: "fully qualified", tableID: "my-project.people.users", project: "my-project", dataset: "people", table: "users"},
		{name: "bare table", tableID: "users", wantErr: true},
		{name: "too many segments", tableID: "a.b.c.d", wantErr: true},
		{name: "empty", tableID: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, dataset, table, err := splitTableID(tt.tableID)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTableID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.project, project)
			assert.Equal(t, tt.dataset, dataset)
			assert.Equal(t, tt.table, table)
		})
	}
}

func TestInferParam(t *testing.T) {
	when := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		value     any
		paramType string
		bound     any
	}{
		{name: "bool", value: true, paramType: "BOOL", bound: true},
		{name: "int", value: 42, paramType: "INT64", bound: int64(42)},
		{name: "int64", value: int64(42), paramType: "INT64", bound: int64(42)},
		{name: "float", value: 1.5, paramType: "FLOAT64", bound: 1.5},
		{name: "string", value: "hello", paramType: "STRING", bound: "hello"},
		{name: "bytes", value: []byte("raw"), paramType: "BYTES", bound: []byte("raw")},
		{name: "time", value: when, paramType: "TIMESTAMP", bound: when},
		{name: "fallback stringifies", value: []int{1, 2}, paramType: "STRING", bound: "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paramType, bound := inferParam(tt.value)
			assert.Equal(t, tt.paramType, paramType)
			assert.Equal(t, tt.bound, bound)
		})
	}
}

func TestQueryParametersSorted(t *testing.T) {
	c := testClient()
	params := c.queryParameters(map[string]any{
		"zeta":  1,
		"alpha": "x",
		"mid":   true,
	})
	require.Len(t, params, 3)
	assert.Equal(t, "alpha", params[0].Name)
	assert.Equal(t, "mid", params[1].Name)
	assert.Equal(t, "zeta", params[2].Name)
	assert.Equal(t, int64(1), params[2].Value)
}

func TestDatasetHandleValidation(t *testing.T) {
	c := testClient()

	d := c.Dataset("my-dataset")
	_, err := d.Exists(t.Context())
	assert.Error(t, err, "hyphens are not valid in dataset IDs")

	err = c.Dataset("good_dataset").Table("bad.table").Delete(t.Context())
	assert.Error(t, err)

	// The dataset's validation error carries into its tables.
	err = c.Dataset("bad dataset").Table("good_table").Delete(t.Context())
	assert.Error(t, err)
}

func TestDatasetAndTableIDs(t *testing.T) {
	c := testClient()
	d := c.Dataset("people")
	assert.Equal(t, "my-project.people", d.ID())
	assert.Equal(t, "my-project.people.users", d.Table("users").ID())

	other := c.DatasetInProject("other-project", "people")
	assert.Equal(t, "other-project.people.users", other.Table("users").ID())
}
