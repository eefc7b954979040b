package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE layer_policies (layer_id TEXT PRIMARY KEY, editable INTEGER, display_property TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "layer_policies")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["layer_id"])
	assert.Equal(t, "integer", colMap["editable"])

	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE layer_fields (id INTEGER PRIMARY KEY, layer_id TEXT, name TEXT)").Error)

	missing, err := MissingColumns(db, "layer_fields", []string{"id", "layer_id", "Position", "name", "type"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Position", "type"}, missing)
}
