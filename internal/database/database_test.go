package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"players", "match_records", "snapshots"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name, "the '%s' table should be created", table)
	}
}

func TestInitDB_IsIdempotent(t *testing.T) {
	dbPath := t.TempDir() + "/squash.db"

	_, teardown, err := InitDB(dbPath, "../../migrations")
	require.NoError(t, err)
	teardown()

	_, teardown, err = InitDB(dbPath, "../../migrations")
	require.NoError(t, err, "re-running migrations on an up-to-date database should succeed")
	teardown()
}
