package repository

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/billing-admin/internal/migrations"
)

// testStorage поднимается один раз на пакет; в режиме -short остаётся nil.
var testStorage *Storage

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, storage, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres container: %v\n", err)
		os.Exit(1)
	}
	testStorage = storage

	code := m.Run()

	_ = storage.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, *Storage, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("billing"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}
	storage, err := New(ctx, dsn)
	if err != nil {
		return container, nil, err
	}

	path, err := filepath.Abs("../../../migrations")
	if err != nil {
		return container, nil, err
	}
	if err := migrations.Run(storage.DB, path); err != nil {
		return container, nil, err
	}
	return container, storage, nil
}

// setupStorage возвращает хранилище с пустыми таблицами.
func setupStorage(t *testing.T) *Storage {
	t.Helper()
	if testStorage == nil {
		t.Skip("skipping postgres integration test in short mode")
	}
	truncate(t, testStorage.DB)
	return testStorage
}

func truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`TRUNCATE users, notification_settings, clients, subscriptions,
		payments, expenses, exchange_rates RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
