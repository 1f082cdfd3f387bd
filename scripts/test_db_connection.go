//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"mini-pos/internal/config"

	"github.com/jackc/pgx/v5"
)

// Connects with the DB_* settings of the API and reports what the catalogue
// tables hold.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	for _, table := range []string{"products", "customers", "sales"} {
		var count int
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			fmt.Fprintf(os.Stderr, "  - %s: %v\n", table, err)
			continue
		}
		fmt.Printf("  - %s: %d rows\n", table, count)
	}
}
