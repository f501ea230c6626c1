package database

import (
	"context"
	"io"

	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

var ErrUnsupportedDBDriver = errors.New("unknown DB driver")

const DefaultVersionTable = "migrations"

type CommonOptions struct {
	VersionTable string
}

// Gateway owns the database side of a migration run: the single
// version row and the per-step transactions. One gateway holds one
// exclusively-owned connection for the whole run.
type Gateway interface {
	io.Closer

	SetLogger(lg logger.Logger)

	// CurrentVersion creates the version table when absent, inserts
	// the 0000 sentinel row when the table is empty, and returns the
	// stored version. Exactly one row exists after this call.
	CurrentVersion(ctx context.Context) (version.Version, error)

	// ApplyStep executes one migration script and moves the stored
	// version to next inside a single transaction. On any failure the
	// transaction is rolled back and the stored version is unchanged.
	ApplyStep(ctx context.Context, script string, next version.Version) error
}

// queryBuilder renders the version-table queries for one SQL dialect.
type queryBuilder interface {
	createVersionTableQuery() string
	readVersionQuery() string
	initVersionQuery() string
	updateVersionQuery() string
}
