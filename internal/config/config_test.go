package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := write(t, "[Server]\nPort = 8080\n\n[Files]\nDataFile = /var/lib/epictree/data\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvironmentProduction, c.Environment)
	assert.Equal(t, 8080, c.Port)
	assert.Equal(t, "/var/lib/epictree/data", c.DataFile)
	assert.Equal(t, "disk", c.Storage)
	assert.True(t, c.IsProduction())
}

func TestLoad_ExplicitEnvironment(t *testing.T) {
	path := write(t, "[Server]\nEnvironment = development\nPort = 9090\n\n[Files]\nDataFile = data.bin\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EnvironmentDevelopment, c.Environment)
	assert.False(t, c.IsProduction())
}

func TestLoad_MissingDataFile(t *testing.T) {
	path := write(t, "[Server]\nPort = 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}
