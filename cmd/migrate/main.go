// Command migrate manages the storefront database schema and seeds the
// product catalog.
//
// Usage:
//
//	migrate up                  Apply all pending migrations
//	migrate down                Roll back all migrations
//	migrate step <n>            Apply n migrations (negative rolls back)
//	migrate version             Show the current version
//	migrate force <version>     Force set the version (use with caution)
//	migrate list                List the embedded migrations
//	migrate seed <file.jsonl>   Import products, optionally uploading images
package main

import (
	"os"

	"github.com/merrysway/storefront/internal/interfaces/cli"
)

func main() {
	if err := cli.NewMigrateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
