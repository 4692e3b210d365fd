package catalog

import (
	"context"
	"testing"

	"dataset-manifest/core/database"
	"dataset-manifest/core/dataset"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func setupSQLite(t *testing.T) *Catalog {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	c := New(db)
	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func fixture() []dataset.Record {
	return []dataset.Record{
		{Index: 1, ImageID: 953619, FileHash: "aa", FileName: "953619.jpg", Partition: "1", ScoreCount: 3, Scores: dataset.Histogram{0, 1, 2}},
		{Index: 2, ImageID: 953958, FileHash: "bb", FileName: "953958.jpg", Partition: "1", ScoreCount: 1, Scores: dataset.Histogram{1}},
		{Index: 3, ImageID: 954184, FileHash: "aa", FileName: "954184.png", Partition: "2", ScoreCount: 0},
		{Index: 4, ImageID: 42},
	}
}

func TestUpsert_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `images` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := New(db).Upsert(context.Background(), fixture())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_NothingMatched(t *testing.T) {
	db, mock := setupMockDB(t)

	n, err := New(db).Upsert(context.Background(), []dataset.Record{{Index: 1, ImageID: 42}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_SQLite(t *testing.T) {
	ctx := context.Background()
	c := setupSQLite(t).WithBatchSize(2)

	n, err := c.Upsert(ctx, fixture())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, c.Verify(ctx))

	t.Run("ByID", func(t *testing.T) {
		r, err := c.ByID(ctx, 953619)
		require.NoError(t, err)
		assert.Equal(t, fixture()[0], r)

		_, err = c.ByID(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ByHash", func(t *testing.T) {
		recs, err := c.ByHash(ctx, "AA")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, int64(953619), recs[0].ImageID)
		assert.Equal(t, int64(954184), recs[1].ImageID)
	})

	t.Run("ByPartition", func(t *testing.T) {
		recs, err := c.ByPartition(ctx, "1")
		require.NoError(t, err)
		assert.Len(t, recs, 2)

		recs, err = c.ByPartition(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("UpsertReplaces", func(t *testing.T) {
		moved := fixture()[0]
		moved.Partition = "9"
		moved.FileHash = "cc"
		_, err := c.Upsert(ctx, []dataset.Record{moved})
		require.NoError(t, err)

		r, err := c.ByID(ctx, 953619)
		require.NoError(t, err)
		assert.Equal(t, "9", r.Partition)
		assert.Equal(t, "cc", r.FileHash)
	})
}

func TestVerify_MissingColumns(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE images (image_id INTEGER PRIMARY KEY, file_hash TEXT)").Error)

	err = New(db).Verify(context.Background())
	assert.ErrorContains(t, err, "file_name")
	assert.ErrorContains(t, err, "partition")
}
