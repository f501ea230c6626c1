package database

import (
	"database/sql"
	"fmt"
)

const (
	mysqlCreateVersionTable = `
		CREATE TABLE IF NOT EXISTS %s (
			version VARCHAR(4) NOT NULL UNIQUE PRIMARY KEY
		) ENGINE=INNODB;
	`
	mysqlReadVersionQuery   = "SELECT version FROM %s;"
	mysqlInitVersionQuery   = "INSERT INTO %s (version) VALUES (?);"
	mysqlUpdateVersionQuery = "UPDATE %s SET version = ?;"
)

type MySQLOptions struct {
	CommonOptions
}

// NewMySQLGateway creates a MySQL-backed gateway, using the connector
// to acquire the single connection the run will own.
func NewMySQLGateway(db *sql.DB, c RetryingConnector, options *MySQLOptions) (*SQLGateway, error) {
	table := options.VersionTable
	if table == "" {
		table = DefaultVersionTable
	}

	return newSQLGateway(db, c, mysqlQueryBuilder{versionTable: table})
}

type mysqlQueryBuilder struct {
	versionTable string
}

func (qb mysqlQueryBuilder) createVersionTableQuery() string {
	return fmt.Sprintf(mysqlCreateVersionTable, qb.versionTable)
}

func (qb mysqlQueryBuilder) readVersionQuery() string {
	return fmt.Sprintf(mysqlReadVersionQuery, qb.versionTable)
}

func (qb mysqlQueryBuilder) initVersionQuery() string {
	return fmt.Sprintf(mysqlInitVersionQuery, qb.versionTable)
}

func (qb mysqlQueryBuilder) updateVersionQuery() string {
	return fmt.Sprintf(mysqlUpdateVersionQuery, qb.versionTable)
}
