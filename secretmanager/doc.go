// Package secretmanager provides a convenience layer over the Secret
// Manager Go SDK: one-call retrieval with decoding variants, flexible
// identifier shapes, and explicit fallbacks for missing secrets.
//
// Secrets can be named three ways, all resolving to the same resource:
//
//	"api-key"                                         // client's project
//	"other-project/api-key"                           // explicit project
//	"projects/p/secrets/api-key/versions/3"           // full path
//
// Example:
//
//	client, err := secretmanager.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	token, err := client.Get(ctx, "api-token")
//	dsn, err := client.Get(ctx, "db-dsn", secretmanager.WithDefault("sqlite::memory:"))
//
// Values are never cached; every call goes back to the service.
package secretmanager
