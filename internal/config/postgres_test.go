package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// unsetEnv removes a variable for the duration of the test and restores it
// afterwards.
func unsetEnv(t *testing.T, name string) {
	t.Helper()

	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))
}

func TestNewPostgresReferencesEnvVar(t *testing.T) {
	pg := NewPostgres(DefaultEnvVar)

	assert.Equal(t, "ENV:DATABASE_URL", pg.URL)
}

func TestLoadFromFileOverridesURL(t *testing.T) {
	path := writeFile(t, "probe.hcl", `
postgres {
  url = "ENV:PRIMARY_DATABASE_URL"
}
`)

	pg := NewPostgres(DefaultEnvVar)
	require.NoError(t, pg.LoadFromFile(path))

	assert.Equal(t, "ENV:PRIMARY_DATABASE_URL", pg.URL)
}

func TestLoadFromFileWithoutPostgresBlock(t *testing.T) {
	path := writeFile(t, "probe.hcl", `something = "else"`)

	pg := NewPostgres(DefaultEnvVar)
	err := pg.LoadFromFile(path)

	assert.ErrorContains(t, err, "has no postgres url")
	assert.Equal(t, "ENV:DATABASE_URL", pg.URL)
}

func TestLoadFromFileInvalidSyntax(t *testing.T) {
	path := writeFile(t, "probe.hcl", `postgres {`)

	err := NewPostgres(DefaultEnvVar).LoadFromFile(path)

	assert.ErrorContains(t, err, "could not parse configuration file")
}

func TestLoadFromFileMissing(t *testing.T) {
	err := NewPostgres(DefaultEnvVar).LoadFromFile(filepath.Join(t.TempDir(), "missing.hcl"))

	assert.ErrorContains(t, err, "could not read configuration file")
}

func TestLoadEnvFileDoesNotOverrideExistingVariables(t *testing.T) {
	path := writeFile(t, "test.env", "PGPROBE_CFG_SET=from-file\nPGPROBE_CFG_UNSET=from-file\n")
	t.Setenv("PGPROBE_CFG_SET", "from-env")
	unsetEnv(t, "PGPROBE_CFG_UNSET")

	require.NoError(t, LoadEnvFile(path))

	assert.Equal(t, "from-env", os.Getenv("PGPROBE_CFG_SET"))
	assert.Equal(t, "from-file", os.Getenv("PGPROBE_CFG_UNSET"))
}

func TestLoadEnvFileMissingExplicitFile(t *testing.T) {
	err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))

	assert.ErrorContains(t, err, "could not load env file")
}

func TestLoadEnvFileDefaultsToDotEnvInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("PGPROBE_CFG_DOTENV=loaded\n"), 0o644))
	unsetEnv(t, "PGPROBE_CFG_DOTENV")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() {
		require.NoError(t, os.Chdir(wd))
	}()

	require.NoError(t, LoadEnvFile(""))
	assert.Equal(t, "loaded", os.Getenv("PGPROBE_CFG_DOTENV"))
}

func TestLoadEnvFileWithoutDotEnvIsNoop(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() {
		require.NoError(t, os.Chdir(wd))
	}()

	assert.NoError(t, LoadEnvFile(""))
}
