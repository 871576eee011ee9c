package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	err := loadDotEnv(filepath.Join(dir, "missing.env"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "planctl.env")
	require.NoError(t, os.WriteFile(path, []byte("PLANCTL_TEST_CATALOG=plans\nPLANCTL_TEST_KEPT=file\n"), 0o600))
	t.Setenv("PLANCTL_TEST_KEPT", "process")
	t.Cleanup(func() { os.Unsetenv("PLANCTL_TEST_CATALOG") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "plans", os.Getenv("PLANCTL_TEST_CATALOG"))
	assert.Equal(t, "process", os.Getenv("PLANCTL_TEST_KEPT"))
}
