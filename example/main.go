package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gcpeasy/gcpeasy-go/bq"
	"github.com/gcpeasy/gcpeasy-go/secretmanager"
)

func main() {
	ctx := context.Background()

	// Create clients (requires valid GCP credentials)
	bqClient, err := bq.NewClient(ctx, bq.WithProject("my-project"))
	if err != nil {
		log.Fatal(err)
	}
	defer bqClient.Close()

	smClient, err := secretmanager.NewClient(ctx, secretmanager.WithProject("my-project"))
	if err != nil {
		log.Fatal(err)
	}
	defer smClient.Close()

	// Example 1: Parameterized query into a frame
	fmt.Println("Example 1: Parameterized query")
	queryWithParams(ctx, bqClient)

	// Example 2: Dataset and table lifecycle
	fmt.Println("\nExample 2: Dataset and table lifecycle")
	tableLifecycle(ctx, bqClient)

	// Example 3: Loading a local file
	fmt.Println("\nExample 3: Loading a CSV file")
	loadFile(ctx, bqClient)

	// Example 4: Secrets with fallbacks
	fmt.Println("\nExample 4: Secrets")
	readSecrets(ctx, smClient)

	// Example 5: Batch secret retrieval
	fmt.Println("\nExample 5: Batch secret retrieval")
	readManySecrets(ctx, smClient)
}

func queryWithParams(ctx context.Context, client *bq.Client) {
	// Values are passed as named query parameters with inferred types,
	// never spliced into the SQL text.
	frame, err := client.Query(ctx,
		"SELECT name, age FROM `my-project.people.users` WHERE age > @min_age",
		bq.WithParams(map[string]any{"min_age": 21}),
	)
	if err != nil {
		log.Printf("Query error: %v", err)
		return
	}
	for _, row := range frame.Rows() {
		fmt.Println(row)
	}
}

func tableLifecycle(ctx context.Context, client *bq.Client) {
	dataset := client.Dataset("people")
	if err := dataset.Create(ctx, bq.WithExistsOK()); err != nil {
		log.Printf("Dataset create error: %v", err)
		return
	}

	table := dataset.Table("users")
	schema := bq.Schema{
		{Name: "name", Type: "STRING"},
		{Name: "age", Type: "INT64"},
		{Name: "joined", Type: "TIMESTAMP"},
	}
	if err := table.Create(ctx, schema, bq.WithExistsOK()); err != nil {
		log.Printf("Table create error: %v", err)
		return
	}

	// Build a frame in memory and truncate the table with it.
	frame := bq.NewFrame(
		bq.Column{Name: "name", DType: "object"},
		bq.Column{Name: "age", DType: "int64"},
	)
	if err := frame.Append("ada", int64(36)); err != nil {
		log.Printf("Frame error: %v", err)
		return
	}
	if err := table.Write(ctx, frame); err != nil {
		log.Printf("Write error: %v", err)
		return
	}

	got, err := table.Read(ctx, 10)
	if err != nil {
		log.Printf("Read error: %v", err)
		return
	}
	fmt.Printf("Read %d rows\n", got.NumRows())
}

func loadFile(ctx context.Context, client *bq.Client) {
	// The format is detected from the extension. CSV loads skip the
	// header row unless told otherwise.
	table := client.Dataset("people").Table("users_csv")
	if err := table.Write(ctx, "users.csv"); err != nil {
		log.Printf("Load error: %v", err)
		return
	}
	fmt.Println("File loaded")
}

func readSecrets(ctx context.Context, client *secretmanager.Client) {
	// Bare IDs resolve in the client's project; full paths and
	// "project/secret" shorthands work too.
	password, err := client.Get(ctx, "db-password")
	if err != nil {
		log.Printf("Secret error: %v", err)
		return
	}
	fmt.Printf("Got %d characters\n", len(password))

	// A default replaces the not-found error.
	flag, err := client.Get(ctx, "feature-flag", secretmanager.WithDefault("off"))
	if err != nil {
		log.Printf("Secret error: %v", err)
		return
	}
	fmt.Println("feature-flag:", flag)

	var dbConfig struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}
	if err := client.GetJSON(ctx, "db-config", &dbConfig); err != nil {
		log.Printf("Secret error: %v", err)
		return
	}
	fmt.Printf("Connecting to %s:%d\n", dbConfig.Host, dbConfig.Port)
}

func readManySecrets(ctx context.Context, client *secretmanager.Client) {
	values, err := client.GetMany(ctx, map[string]secretmanager.SecretSpec{
		"db": secretmanager.Name("db-password"),
		"api": secretmanager.Spec{
			Secret:  "api-key",
			Options: []secretmanager.GetOption{secretmanager.WithDefault("")},
		},
	})
	if err != nil {
		log.Printf("Secret error: %v", err)
		return
	}
	for alias := range values {
		fmt.Println("loaded", alias)
	}
}
