package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()

	gdb, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	require.NoError(t, Ping(ctx, gdb))

	for _, table := range []string{"users", "categories", "tags", "products", "product_tags"} {
		require.True(t, gdb.Migrator().HasTable(table), table)
	}

	cat := models.Category{Name: "books"}
	require.NoError(t, gdb.Create(&cat).Error)
	require.NotZero(t, cat.ID)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, DriverSQLite, "")
	require.Error(t, err)

	_, err = Open(ctx, "mysql", "dsn")
	require.ErrorContains(t, err, "unsupported")
}
