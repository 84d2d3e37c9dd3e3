package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/snnyvrz/bookshelf/internal/config"
	"github.com/snnyvrz/bookshelf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "instance", "books.db"),
	}

	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	t.Cleanup(func() {
		_ = Close(gdb)
	})

	return gdb
}

func TestOpen_CreatesInstanceDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "instance", "books.db")

	gdb, err := Open(&config.Config{DatabasePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMigrate_IsIdempotent(t *testing.T) {
	gdb := openTestDB(t)

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Migrate(gdb))

	assert.True(t, gdb.Migrator().HasTable(&model.Book{}))
	for _, col := range []string{"id", "title", "author", "year", "description"} {
		assert.True(t, gdb.Migrator().HasColumn(&model.Book{}, col), "missing column %s", col)
	}
}

func TestMigrate_KeepsExistingRows(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, gdb.Create(&model.Book{Title: "Kept"}).Error)

	require.NoError(t, Migrate(gdb))

	var count int64
	require.NoError(t, gdb.Model(&model.Book{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConn_CloseWithoutUseIsNoop(t *testing.T) {
	pool := NewPool(openTestDB(t))

	conn := pool.Connect(context.Background()).(*Conn)

	assert.False(t, conn.Acquired())
	assert.NoError(t, conn.Close())
	assert.NoError(t, conn.Close())
}

func TestConn_AcquiresLazilyAndReleasesOnce(t *testing.T) {
	gdb := openTestDB(t)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)

	pool := NewPool(gdb)
	conn := pool.Connect(context.Background()).(*Conn)

	assert.Equal(t, 0, sqlDB.Stats().InUse)

	first, err := conn.Books()
	require.NoError(t, err)
	assert.True(t, conn.Acquired())
	assert.Equal(t, 1, sqlDB.Stats().InUse)

	_, err = conn.Books()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().InUse, "second access must reuse the same connection")

	require.NoError(t, first.Create(context.Background(), &model.Book{Title: "Dune"}))

	require.NoError(t, conn.Close())
	assert.False(t, conn.Acquired())
	assert.Equal(t, 0, sqlDB.Stats().InUse)
	assert.NoError(t, conn.Close())

	_, err = conn.Books()
	assert.ErrorIs(t, err, ErrConnClosed)

	var stored model.Book
	require.NoError(t, gdb.First(&stored, "title = ?", "Dune").Error)
}

func TestConn_Ping(t *testing.T) {
	pool := NewPool(openTestDB(t))

	conn := pool.Connect(context.Background())
	defer conn.Close()

	assert.NoError(t, conn.Ping())
}
