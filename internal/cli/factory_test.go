package cli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stepwise.yaml")
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func Test_ConfigCanBeLoadedFromYaml(t *testing.T) {
	path := writeConfig(t, `
version: "1"
migrations:
  local_folder: "./versions"
  database_url: "sqlite:///tmp/app.db"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./versions", cfg.Folder)
	assert.Equal(t, "sqlite:///tmp/app.db", cfg.DatabaseURL)
}

func Test_ConfigValuesCanBeIndirectedThroughEnv(t *testing.T) {
	os.Setenv("STEPWISE_TEST_DB", "mysql://user:secret@(127.0.0.1:3306)/app")
	os.Setenv("STEPWISE_TEST_FOLDER", "/var/lib/app/versions")
	defer os.Unsetenv("STEPWISE_TEST_DB")
	defer os.Unsetenv("STEPWISE_TEST_FOLDER")

	path := writeConfig(t, `
version: "1"
migrations:
  local_folder: "%%STEPWISE_TEST_FOLDER%%"
  database_url: "%%STEPWISE_TEST_DB%%"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/app/versions", cfg.Folder)
	assert.Equal(t, "mysql://user:secret@(127.0.0.1:3306)/app", cfg.DatabaseURL)
}

func Test_EnvFallbacksFillMissingValues(t *testing.T) {
	os.Setenv(EnvDatabaseURL, "sqlite:///tmp/fallback.db")
	os.Setenv(EnvFolder, "/tmp/fallback-versions")
	defer os.Unsetenv(EnvDatabaseURL)
	defer os.Unsetenv(EnvFolder)

	cfg := Config{}
	cfg.MergeEnv()

	assert.Equal(t, "sqlite:///tmp/fallback.db", cfg.DatabaseURL)
	assert.Equal(t, "/tmp/fallback-versions", cfg.Folder)

	t.Run("explicit values win over the environment", func(t *testing.T) {
		cfg := Config{DatabaseURL: "mysql://explicit", Folder: "./explicit"}
		cfg.MergeEnv()

		assert.Equal(t, "mysql://explicit", cfg.DatabaseURL)
		assert.Equal(t, "./explicit", cfg.Folder)
	})
}

func Test_IncompleteConfigIsRejected(t *testing.T) {
	_, _, err := New(Config{})
	assert.Equal(t, ErrNoDatabaseURL, err)

	_, _, err = New(Config{DatabaseURL: "sqlite:///tmp/app.db"})
	assert.Equal(t, ErrNoFolder, err)
}

func Test_UnknownDriverIsRejected(t *testing.T) {
	_, _, err := New(Config{DatabaseURL: "postgres://localhost/app", Folder: t.TempDir()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown DB driver")
}

func Test_ConfigStubCanBeWritten(t *testing.T) {
	os.Unsetenv(EnvDatabaseURL)
	os.Unsetenv(EnvFolder)

	path := filepath.Join(t.TempDir(), "stepwise.yaml")

	require.NoError(t, InitCfg(path))
	assert.True(t, FileExists(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "", cfg.Folder)
}

func Test_AppRunsAgainstSqlite(t *testing.T) {
	folder := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "app.db")

	app, closer, err := New(Config{
		DatabaseURL: "sqlite://" + dbPath,
		Folder:      folder,
	})
	require.NoError(t, err)

	defer func() {
		if err := closer(); err != nil {
			t.Error(err)
		}
	}()

	name, err := app.Generate("create accounts")
	require.NoError(t, err)
	assert.Equal(t, "0001_create_accounts", name)
}
