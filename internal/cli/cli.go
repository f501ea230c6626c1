package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/akorzh/stepwise"
	"github.com/pkg/errors"
)

var (
	ErrFolderInvalid = errors.New("migrations folder is invalid")
	ErrNoDatabaseURL = errors.New("database url was not defined")
	ErrNoFolder      = errors.New("migrations folder was not defined")
)

const (
	// environment fallbacks honored when neither flags nor the config
	// file define a value
	EnvDatabaseURL = "MIGRATE_DATABASE_URL"
	EnvFolder      = "VERSIONS_URI"
)

type (
	CloserFunc func() error

	Config struct {
		DatabaseURL string
		Folder      string
		Verbose     bool
		PrintSQL    bool
	}

	// App is the command-facing facade over the migrator.
	App struct {
		migrator *stepwise.Migrator
	}
)

// MergeEnv fills empty config fields from the environment.
func (cfg *Config) MergeEnv() {
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}

	if cfg.Folder == "" {
		cfg.Folder = os.Getenv(EnvFolder)
	}
}

func (cfg Config) validate() error {
	if cfg.DatabaseURL == "" {
		return ErrNoDatabaseURL
	}

	if cfg.Folder == "" {
		return ErrNoFolder
	}

	return nil
}

// New builds the application: it bootstraps the migrations folder,
// selects the driver from the URL scheme and wires up the migrator.
func New(cfg Config) (*App, CloserFunc, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	// folder bootstrapping belongs to the CLI, not the core
	if err := os.MkdirAll(cfg.Folder, 0755); err != nil {
		return nil, nil, errors.Wrapf(ErrFolderInvalid, "could not create [%s]: %s", cfg.Folder, err)
	}

	m, closer, err := createMigrator(cfg)
	if err != nil {
		return nil, nil, err
	}

	return &App{migrator: m}, CloserFunc(closer), nil
}

func (app *App) Generate(label string) (string, error) {
	return app.migrator.Generate(label)
}

func (app *App) Upgrade(ctx context.Context, target string) error {
	if _, err := app.migrator.UpgradeTo(ctx, target); err != nil {
		return err
	}

	return nil
}

func (app *App) Downgrade(ctx context.Context, target string) error {
	if _, err := app.migrator.DowngradeTo(ctx, target); err != nil {
		return err
	}

	return nil
}

func (app *App) Version(ctx context.Context) (string, error) {
	return app.migrator.Version(ctx)
}

// InitCfg writes a fresh config file stub to path.
func InitCfg(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create config file")
	}

	defer func() {
		if errClose := f.Close(); errClose != nil {
			panic(errClose)
		}
	}()

	r := strings.NewReader(configFileStub)

	if _, err := io.Copy(f, r); err != nil {
		return err
	}

	return nil
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
