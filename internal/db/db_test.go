package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := Open("sqlite", "file:dbtest?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(gdb))

	for _, table := range []string{"cases", "moderation_logs", "illustration_jobs"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
