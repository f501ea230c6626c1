package stepwise

import (
	"database/sql"
	"time"

	"github.com/akorzh/stepwise/internal/database"
	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/repository"
)

type (
	OptionFunc func(*Migrator) error

	MySQLOptionFunc  func(*database.MySQLOptions, *database.ConnectOptions)
	SqliteOptionFunc func(*database.SqliteOptions, *database.ConnectOptions)
)

func UseMySQL(db *sql.DB, options ...MySQLOptionFunc) OptionFunc {
	return func(m *Migrator) error {
		mysqlOpts := &database.MySQLOptions{
			CommonOptions: database.CommonOptions{
				VersionTable: database.DefaultVersionTable,
			},
		}

		connectOpts := database.NewDefaultConnectOptions()

		for _, oFunc := range options {
			oFunc(mysqlOpts, connectOpts)
		}

		gateway, err := database.NewMySQLGateway(db, database.MakeRetryingConnector(connectOpts), mysqlOpts)
		if err != nil {
			return err
		}

		m.gateway = gateway

		return nil
	}
}

func UseSqlite(db *sql.DB, options ...SqliteOptionFunc) OptionFunc {
	return func(m *Migrator) error {
		sqliteOpts := &database.SqliteOptions{
			CommonOptions: database.CommonOptions{
				VersionTable: database.DefaultVersionTable,
			},
		}

		connectOpts := database.NewDefaultConnectOptions()

		for _, oFunc := range options {
			oFunc(sqliteOpts, connectOpts)
		}

		gateway, err := database.NewSqliteGateway(db, database.MakeRetryingConnector(connectOpts), sqliteOpts)
		if err != nil {
			return err
		}

		m.gateway = gateway

		return nil
	}
}

// UseLocalFolder stores and discovers migration pairs in the given
// directory.
func UseLocalFolder(folder string) OptionFunc {
	return func(m *Migrator) error {
		m.repo = repository.NewLocal(folder, m.lg)
		return nil
	}
}

// UseRepository swaps in any Repository implementation, such as the
// in-memory one used by tests.
func UseRepository(repo repository.Repository) OptionFunc {
	return func(m *Migrator) error {
		m.repo = repo
		return nil
	}
}

func UseColorLogger(p logger.Printer, printSQL, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewColorLogger(p, printSQL, printDebug)
		return nil
	}
}

func WithMySQLVersionTable(table string) MySQLOptionFunc {
	return func(mysqlOpts *database.MySQLOptions, connectOpts *database.ConnectOptions) {
		mysqlOpts.VersionTable = table
	}
}

func WithMySQLMaxConnectionAttempts(attempts int) MySQLOptionFunc {
	return func(mysqlOpts *database.MySQLOptions, connectOpts *database.ConnectOptions) {
		connectOpts.MaxAttempts = attempts
	}
}

func WithMySQLConnectionTimeout(timeout time.Duration) MySQLOptionFunc {
	return func(mysqlOpts *database.MySQLOptions, connectOpts *database.ConnectOptions) {
		connectOpts.MaxTimeout = timeout
	}
}

func WithSqliteVersionTable(table string) SqliteOptionFunc {
	return func(sqliteOpts *database.SqliteOptions, connectOpts *database.ConnectOptions) {
		sqliteOpts.VersionTable = table
	}
}
