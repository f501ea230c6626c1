package repository

import (
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

var ErrFileNotFound = errors.New("migration file not found")
var ErrFolderInvalid = errors.New("migrations folder is invalid")

const (
	UpgradeSuffix   = "_upgrade.sql"
	DowngradeSuffix = "_downgrade.sql"

	initialPairName = "0001_initial"
	autoLabelLayout = "20060102_1504"
)

// Repository is the catalog of version-prefixed migration script
// pairs. Filenames returned by UpgradeFiles and DowngradeFiles are
// relative to the repository and can be fed back into Read.
type Repository interface {
	// NextName computes the base name of the next migration pair:
	// "<4-digit-version>_<label>". It fails with
	// version.ErrOverflow when the highest existing version is 9999.
	NextName(label string) (string, error)

	// UpgradeFiles resolves the upgrade script filenames for the given
	// versions, preserving the requested version order and, within a
	// version, the repository listing order.
	UpgradeFiles(versions []version.Version) ([]string, error)

	// DowngradeFiles is the downgrade-suffix counterpart of
	// UpgradeFiles.
	DowngradeFiles(versions []version.Version) ([]string, error)

	// CreateEmptyPair creates "<name>_upgrade.sql" and
	// "<name>_downgrade.sql", both empty.
	CreateEmptyPair(name string) error

	// Read returns the raw SQL text of a previously listed file, or
	// ErrFileNotFound when it no longer exists.
	Read(filename string) (string, error)
}
