// Package bq provides a convenience layer over the BigQuery Go SDK that
// turns multi-step job setup into single method calls with sensible
// defaults.
//
// The package wraps cloud.google.com/go/bigquery rather than replacing it:
// retries, pagination, and job polling are the SDK's. What this package
// adds is identifier validation (no user-supplied name reaches SQL or a
// resource path unchecked), schema normalization from common type aliases,
// source-format detection from file extensions, and ordered in-memory
// result frames.
//
// Example:
//
//	client, err := bq.NewClient(ctx, bq.WithProject("my-project"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	frame, err := client.Query(ctx,
//	    "SELECT name, age FROM `my-project.people.users` WHERE age > @min_age",
//	    bq.WithParams(map[string]any{"min_age": 21}))
//
// Handles for datasets and tables compose the same way the resources nest:
//
//	users := client.Dataset("people").Table("users")
//	ok, err := users.Exists(ctx)
//	frame, err := users.Read(ctx, 100)
package bq
