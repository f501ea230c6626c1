package database

import (
	"database/sql"
	"fmt"
)

const (
	sqliteCreateVersionTable = `
		CREATE TABLE IF NOT EXISTS %s (
			version VARCHAR(4) NOT NULL UNIQUE PRIMARY KEY
		);
	`
	sqliteReadVersionQuery   = "SELECT version FROM %s;"
	sqliteInitVersionQuery   = "INSERT INTO %s (version) VALUES (?);"
	sqliteUpdateVersionQuery = "UPDATE %s SET version = ?;"
)

type SqliteOptions struct {
	CommonOptions
}

// NewSqliteGateway creates a SQLite-backed gateway.
func NewSqliteGateway(db *sql.DB, c RetryingConnector, options *SqliteOptions) (*SQLGateway, error) {
	table := options.VersionTable
	if table == "" {
		table = DefaultVersionTable
	}

	return newSQLGateway(db, c, sqliteQueryBuilder{versionTable: table})
}

type sqliteQueryBuilder struct {
	versionTable string
}

func (qb sqliteQueryBuilder) createVersionTableQuery() string {
	return fmt.Sprintf(sqliteCreateVersionTable, qb.versionTable)
}

func (qb sqliteQueryBuilder) readVersionQuery() string {
	return fmt.Sprintf(sqliteReadVersionQuery, qb.versionTable)
}

func (qb sqliteQueryBuilder) initVersionQuery() string {
	return fmt.Sprintf(sqliteInitVersionQuery, qb.versionTable)
}

func (qb sqliteQueryBuilder) updateVersionQuery() string {
	return fmt.Sprintf(sqliteUpdateVersionQuery, qb.versionTable)
}
