package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE images (image_id INTEGER PRIMARY KEY, file_hash TEXT, file_name TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "images")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["image_id"])
	assert.Equal(t, "text", colMap["file_hash"])

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE images (image_id INTEGER PRIMARY KEY, file_hash TEXT)").Error)

	missing, err := MissingColumns(db, "images", []string{"image_id", "partition", "file_hash", "file_name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file_name", "partition"}, missing)
}
