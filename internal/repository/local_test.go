package repository

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, folder string, names ...string) {
	t.Helper()

	for _, name := range names {
		if err := ioutil.WriteFile(filepath.Join(folder, name), []byte{}, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func Test_FirstMigrationPairIsNamedInitial(t *testing.T) {
	r := NewLocal(t.TempDir(), &logger.NullLogger{})

	name, err := r.NextName("completely ignored")
	require.NoError(t, err)
	assert.Equal(t, "0001_initial", name)
}

func Test_NextNameIncrementsHighestExistingVersion(t *testing.T) {
	folder := t.TempDir()
	createFiles(
		t,
		folder,
		"0001_initial_upgrade.sql",
		"0001_initial_downgrade.sql",
		"0042_add_users_upgrade.sql",
		"0042_add_users_downgrade.sql",
		"0007_add_index_upgrade.sql",
		"0007_add_index_downgrade.sql",
	)

	r := NewLocal(folder, &logger.NullLogger{})

	t.Run("supplied label with spaces", func(t *testing.T) {
		name, err := r.NextName("drop old index")
		require.NoError(t, err)
		assert.Equal(t, "0043_drop_old_index", name)
	})

	t.Run("label synthesized from clock when omitted", func(t *testing.T) {
		r.clock = func() time.Time {
			return time.Date(2021, 3, 14, 15, 9, 26, 0, time.UTC)
		}

		name, err := r.NextName("")
		require.NoError(t, err)
		assert.Equal(t, "0043_auto_20210314_1509", name)
	})
}

func Test_NextNameFailsAtVersionCeiling(t *testing.T) {
	folder := t.TempDir()
	createFiles(t, folder, "9999_last_upgrade.sql", "9999_last_downgrade.sql")

	r := NewLocal(folder, &logger.NullLogger{})

	_, err := r.NextName("one too many")
	assert.True(t, errors.Is(err, version.ErrOverflow))
}

func Test_UnrecognizedFilesAreIgnored(t *testing.T) {
	folder := t.TempDir()
	createFiles(
		t,
		folder,
		"0003_add_bar_upgrade.sql",
		"0003_add_bar_downgrade.sql",
		"README.md",
		".gitkeep",
		"notes.sql",
	)

	r := NewLocal(folder, &logger.NullLogger{})

	name, err := r.NextName("next one")
	require.NoError(t, err)
	assert.Equal(t, "0004_next_one", name)
}

func Test_EmptyPairCanBeCreated(t *testing.T) {
	folder := t.TempDir()
	r := NewLocal(folder, &logger.NullLogger{})

	require.NoError(t, r.CreateEmptyPair("0001_initial"))

	for _, name := range []string{"0001_initial_upgrade.sql", "0001_initial_downgrade.sql"} {
		info, err := os.Stat(filepath.Join(folder, name))
		require.NoError(t, err, "expected %s to exist", name)
		assert.Equal(t, int64(0), info.Size())
	}
}

func Test_UpgradeAndDowngradeFilesFollowRequestedVersionOrder(t *testing.T) {
	folder := t.TempDir()
	createFiles(
		t,
		folder,
		"0001_initial_upgrade.sql",
		"0001_initial_downgrade.sql",
		"0002_add_foo_upgrade.sql",
		"0002_add_foo_downgrade.sql",
		"0003_add_bar_upgrade.sql",
		"0003_add_bar_downgrade.sql",
	)

	r := NewLocal(folder, &logger.NullLogger{})

	up, err := r.UpgradeFiles([]version.Version{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_initial_upgrade.sql", "0002_add_foo_upgrade.sql"}, up)

	down, err := r.DowngradeFiles([]version.Version{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"0003_add_bar_downgrade.sql", "0002_add_foo_downgrade.sql"}, down)

	t.Run("versions without files are skipped", func(t *testing.T) {
		up, err := r.UpgradeFiles([]version.Version{2, 5})
		require.NoError(t, err)
		assert.Equal(t, []string{"0002_add_foo_upgrade.sql"}, up)
	})
}

func Test_ReadReturnsRawContents(t *testing.T) {
	folder := t.TempDir()
	script := "CREATE TABLE foo (id INTEGER PRIMARY KEY);"
	if err := ioutil.WriteFile(filepath.Join(folder, "0001_initial_upgrade.sql"), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewLocal(folder, &logger.NullLogger{})

	contents, err := r.Read("0001_initial_upgrade.sql")
	require.NoError(t, err)
	assert.Equal(t, script, contents)

	_, err = r.Read("0002_missing_upgrade.sql")
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func Test_FolderValidity(t *testing.T) {
	assert.True(t, NewLocal(t.TempDir(), &logger.NullLogger{}).IsValid())
	assert.False(t, NewLocal("/definitely/not/there", &logger.NullLogger{}).IsValid())
}
