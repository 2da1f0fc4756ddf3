package testdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/flavorforge/backend/config"
	"github.com/flavorforge/backend/internal/database"
)

// TestDB wraps a disposable PostgreSQL instance with pgvector installed.
type TestDB struct {
	DB        *gorm.DB
	Container testcontainers.Container
}

// Close cleans up the test database
func (td *TestDB) Close() error {
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

// SetupTestDB starts a pgvector container and returns a migrated connection.
func SetupTestDB(t *testing.T) *TestDB {
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "test",
		Password: "test",
		Name:     "test",
		SSLMode:  "disable",
	}
	db, err := database.New(cfg, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))

	testDB := &TestDB{
		DB:        db,
		Container: container,
	}

	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("error cleaning up test database: %v", err)
		}
	})

	return testDB
}
