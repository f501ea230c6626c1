package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

// SQLGateway implements Gateway for any engine reachable through
// database/sql; dialect differences live in the queryBuilder.
type SQLGateway struct {
	db   *sql.DB
	conn *sql.Conn
	lg   logger.Logger
	qb   queryBuilder
}

var _ Gateway = (*SQLGateway)(nil)

func newSQLGateway(db *sql.DB, c connector, qb queryBuilder) (*SQLGateway, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout())
	defer cancel()

	conn, err := c.connect(ctx, db)
	if err != nil {
		return nil, err
	}

	return &SQLGateway{
		db:   db,
		conn: conn,
		lg:   &logger.NullLogger{},
		qb:   qb,
	}, nil
}

func (g *SQLGateway) SetLogger(lg logger.Logger) {
	g.lg = lg
}

// Close releases the exclusively-held connection and the underlying
// pool. The gateway owns both for the duration of the run.
func (g *SQLGateway) Close() error {
	if err := g.conn.Close(); err != nil {
		if dbErr := g.db.Close(); dbErr != nil {
			return errors.Wrapf(dbErr, "could not close DB handle after connection close error: %s", err)
		}

		return errors.Wrap(err, "could not close DB connection")
	}

	if err := g.db.Close(); err != nil {
		return errors.Wrap(err, "could not close DB handle")
	}

	return nil
}

func (g *SQLGateway) CurrentVersion(ctx context.Context) (version.Version, error) {
	if err := g.ensureSchema(ctx); err != nil {
		return version.Zero, err
	}

	q := g.qb.readVersionQuery()
	g.lg.SQL(q)

	var stored string
	err := g.conn.QueryRowContext(ctx, q).Scan(&stored)
	if err == sql.ErrNoRows {
		return g.initVersion(ctx)
	}

	if err != nil {
		return version.Zero, errors.Wrap(err, "could not read current migration version")
	}

	v, err := version.Parse(stored)
	if err != nil {
		return version.Zero, errors.Wrapf(err, "stored migration version [%s] is corrupt", stored)
	}

	return v, nil
}

func (g *SQLGateway) ApplyStep(ctx context.Context, script string, next version.Version) error {
	return inTransaction(ctx, g.conn, func(tx *sql.Tx) error {
		// generated scripts may legitimately be empty; drivers reject
		// an empty statement, so only the version row moves then
		if strings.TrimSpace(script) != "" {
			g.lg.SQL(script)
			if _, err := tx.ExecContext(ctx, script); err != nil {
				return errors.Wrap(err, "could not execute migration script")
			}
		}

		q := g.qb.updateVersionQuery()
		g.lg.SQL(q, next.String())
		if _, err := tx.ExecContext(ctx, q, next.String()); err != nil {
			return errors.Wrapf(err, "could not update stored version to [%s]", next)
		}

		return nil
	})
}

func (g *SQLGateway) ensureSchema(ctx context.Context) error {
	q := g.qb.createVersionTableQuery()
	g.lg.SQL(q)

	if _, err := g.conn.ExecContext(ctx, q); err != nil {
		return errors.Wrap(err, "could not create version table")
	}

	return nil
}

func (g *SQLGateway) initVersion(ctx context.Context) (version.Version, error) {
	q := g.qb.initVersionQuery()
	g.lg.SQL(q, version.Zero.String())

	if _, err := g.conn.ExecContext(ctx, q, version.Zero.String()); err != nil {
		return version.Zero, errors.Wrap(err, "could not insert initial migration version")
	}

	return version.Zero, nil
}
