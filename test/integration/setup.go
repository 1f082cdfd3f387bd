package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mini-pos/internal/database"
	"mini-pos/internal/model"
	"mini-pos/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a migrated PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.MigrateURL(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// TestProducts is the catalogue seeded by SeedProducts.
func TestProducts() []model.Product {
	return []model.Product{
		{Code: "P001", Name: "Arabica Beans", Category: "Coffee", Price: decimal.NewFromInt(100), Unit: "bag", Stock: 5, Barcode: "8990001"},
		{Code: "P002", Name: "Oat Milk", Category: "Dairy", Price: decimal.NewFromInt(50), Unit: "carton", Stock: 40, Barcode: "8990002"},
		{Code: "P003", Name: "Espresso Cup", Category: "Coffee", Price: decimal.RequireFromString("7.25"), Unit: "pcs", Stock: 12},
		{Code: "P004", Name: "Paper Filter", Category: "Coffee", Price: decimal.RequireFromString("3.10"), Unit: "pack", Stock: 0},
	}
}

// SeedProducts inserts the test catalogue into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	repo := repository.NewProductRepository(pool, zerolog.Nop())
	if err := repo.Upsert(context.Background(), TestProducts()); err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
}

// SeedCustomers inserts test customers into the database.
func SeedCustomers(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	customers := []struct {
		id    string
		name  string
		phone string
	}{
		{"C001", "Dana Ruiz", "555-0101"},
		{"C002", "Lee Park", "555-0202"},
	}

	for _, c := range customers {
		_, err := pool.Exec(ctx,
			"INSERT INTO customers (id, name, phone) VALUES ($1, $2, $3)",
			c.id, c.name, c.phone,
		)
		if err != nil {
			t.Fatalf("failed to seed customer %s: %v", c.id, err)
		}
	}
}

// StockOf reads the persisted stock of a product.
func StockOf(t *testing.T, pool *pgxpool.Pool, code string) int {
	t.Helper()

	var stock int
	if err := pool.QueryRow(context.Background(), "SELECT stock FROM products WHERE code = $1", code).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock of %s: %v", code, err)
	}
	return stock
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"sale_lines", "sales", "customers", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
