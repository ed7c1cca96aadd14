package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suPer8Hu/dxcases/internal/auth"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/db"
)

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, NewHashPasswordCommand(), "", "s3cret")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(strings.TrimSpace(out), "s3cret"))

	out, err = run(t, NewHashPasswordCommand(), "fromstdin\n")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(strings.TrimSpace(out), "fromstdin"))

	_, err = run(t, NewHashPasswordCommand(), "\n")
	assert.Error(t, err)
}

func TestMigrateListDelete(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "dx.db")
	dbArgs := []string{"--db-driver", "sqlite", "--db-dsn", dsn}

	_, err := run(t, NewMigrateCommand(), "", dbArgs...)
	require.NoError(t, err)

	gdb, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, cases.NewRepo(gdb).CreateCase(context.Background(), &cases.Case{
		ID:      "01HTESTCASE000000000000000",
		Title:   "VPNが遅い",
		Summary: "s",
		Tags:    []string{"ネットワーク"},
	}))

	out, err := run(t, NewCasesCommand(), "", append([]string{"list"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "01HTESTCASE000000000000000")
	assert.Contains(t, out, "VPNが遅い")
	assert.Contains(t, out, "page 1, 1 of 1 cases")

	out, err = run(t, NewTagsCommand(), "", dbArgs...)
	require.NoError(t, err)
	assert.Equal(t, "ネットワーク\n", out)

	_, err = run(t, NewCasesCommand(), "", append([]string{"delete", "01HTESTCASE000000000000000"}, dbArgs...)...)
	assert.ErrorContains(t, err, "--yes")

	out, err = run(t, NewCasesCommand(), "", append([]string{"delete", "01HTESTCASE000000000000000", "--yes"}, dbArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	var n int64
	require.NoError(t, gdb.Model(&cases.Case{}).Count(&n).Error)
	assert.Zero(t, n)
}
