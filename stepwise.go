package stepwise

import (
	"context"

	"github.com/akorzh/stepwise/internal/database"
	"github.com/akorzh/stepwise/internal/logger"
	"github.com/akorzh/stepwise/internal/repository"
	"github.com/akorzh/stepwise/internal/version"
	"github.com/pkg/errors"
)

var ErrGatewayNotInitialized = errors.New("database gateway has not been initialized")

type CloserFunc func() error

// Migrator moves a database between schema versions by applying or
// reverting one migration file per step, each step inside its own
// transaction together with the version-marker update.
type Migrator struct {
	lg      logger.Logger
	gateway database.Gateway
	repo    repository.Repository
}

// NewMigrator creates a migrator from option callbacks. A database
// option (UseMySQL or UseSqlite) is mandatory; the repository defaults
// to the local folder implementation.
func NewMigrator(opts ...OptionFunc) (*Migrator, CloserFunc, error) {
	m := new(Migrator)
	m.lg = &logger.NullLogger{}

	for _, oFunc := range opts {
		if err := oFunc(m); err != nil {
			return nil, nil, err
		}
	}

	if m.gateway == nil {
		return nil, nil, ErrGatewayNotInitialized
	}

	if m.repo == nil {
		m.repo = repository.NewLocal(repository.DefaultFolder, m.lg)
	}

	m.gateway.SetLogger(m.lg)

	return m, m.close, nil
}

// Generate creates the next-numbered empty migration pair and returns
// its base name. No database interaction takes place.
func (m *Migrator) Generate(label string) (string, error) {
	name, err := m.repo.NextName(label)
	if err != nil {
		m.lg.Error(err)
		return "", err
	}

	if err := m.repo.CreateEmptyPair(name); err != nil {
		m.lg.Error(err)
		return "", err
	}

	m.lg.Successf("generated migration pair %s", name)

	return name, nil
}

// UpgradeTo applies the pending upgrade scripts from the current
// version up to target, one transaction per file, and returns the
// filenames that were applied. A target at or below the current
// version is a no-op. On failure the already-applied files are
// returned together with the error; the stored version stays at the
// last successful step.
func (m *Migrator) UpgradeTo(ctx context.Context, target string) ([]string, error) {
	tv, err := version.Parse(target)
	if err != nil {
		m.lg.Error(err)
		return nil, errors.Wrap(err, "invalid upgrade target")
	}

	current, err := m.gateway.CurrentVersion(ctx)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	pending := version.Ascending(current, tv)
	if len(pending) == 0 {
		m.lg.Debugf("nothing to upgrade: current version %s, target %s", current, tv)
		return nil, nil
	}

	files, err := m.repo.UpgradeFiles(pending)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	var applied []string
	for _, f := range files {
		fv, err := version.FromPrefix(f)
		if err != nil {
			m.lg.Error(err)
			return applied, err
		}

		if err := m.applyOne(ctx, f, fv); err != nil {
			return applied, err
		}

		m.lg.Successf("migrated %s", f)
		applied = append(applied, f)
	}

	return applied, nil
}

// DowngradeTo reverts scripts from the current version down to, but
// not including, target. After each file the stored version becomes
// one less than that file's own version, so an interrupted run resumes
// exactly where it stopped.
func (m *Migrator) DowngradeTo(ctx context.Context, target string) ([]string, error) {
	tv, err := version.Parse(target)
	if err != nil {
		m.lg.Error(err)
		return nil, errors.Wrap(err, "invalid downgrade target")
	}

	current, err := m.gateway.CurrentVersion(ctx)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	pending := version.Descending(current, tv)
	if len(pending) == 0 {
		m.lg.Debugf("nothing to downgrade: current version %s, target %s", current, tv)
		return nil, nil
	}

	files, err := m.repo.DowngradeFiles(pending)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	var reverted []string
	for _, f := range files {
		fv, err := version.FromPrefix(f)
		if err != nil {
			m.lg.Error(err)
			return reverted, err
		}

		if err := m.applyOne(ctx, f, fv.Prev()); err != nil {
			return reverted, err
		}

		m.lg.Successf("reverted %s", f)
		reverted = append(reverted, f)
	}

	return reverted, nil
}

// Version reports the currently stored schema version, initializing
// the version table when needed.
func (m *Migrator) Version(ctx context.Context) (string, error) {
	v, err := m.gateway.CurrentVersion(ctx)
	if err != nil {
		m.lg.Error(err)
		return "", err
	}

	return v.String(), nil
}

func (m *Migrator) applyOne(ctx context.Context, filename string, next version.Version) error {
	script, err := m.repo.Read(filename)
	if err != nil {
		m.lg.Error(err)
		return err
	}

	if err := m.gateway.ApplyStep(ctx, script, next); err != nil {
		err = errors.Wrapf(err, "could not apply migration [%s]", filename)
		m.lg.Error(err)
		return err
	}

	return nil
}

func (m *Migrator) close() error {
	if m.gateway == nil {
		return ErrGatewayNotInitialized
	}

	if err := m.gateway.Close(); err != nil {
		m.lg.Error(err)
		return err
	}

	return nil
}
