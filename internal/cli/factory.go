package cli

import (
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/akorzh/stepwise"
	"github.com/akorzh/stepwise/internal/database"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type (
	migratorFactory    func(cfg Config) (*stepwise.Migrator, stepwise.CloserFunc, error)
	migratorFactoryMap map[string]migratorFactory

	migrations struct {
		LocalFolder string `yaml:"local_folder"`
		DatabaseURL string `yaml:"database_url"`
	}

	configFile struct {
		Version    string     `yaml:"version"`
		Migrations migrations `yaml:"migrations"`
	}
)

// LoadConfig reads a YAML config file. Values wrapped in %% markers
// are resolved from the environment, so credentials can stay out of
// the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "could not open stepwise configuration file")
	}

	defer func() {
		if errClose := f.Close(); errClose != nil {
			panic(errClose)
		}
	}()

	b, err := ioutil.ReadAll(f)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read stepwise configuration file")
	}

	var cfgFile configFile
	if err := yaml.Unmarshal(b, &cfgFile); err != nil {
		return cfg, errors.Wrap(err, "could not parse stepwise configuration file")
	}

	cfg.DatabaseURL = resolveEnvIndirection(cfgFile.Migrations.DatabaseURL)
	cfg.Folder = resolveEnvIndirection(cfgFile.Migrations.LocalFolder)

	return cfg, nil
}

func resolveEnvIndirection(value string) string {
	if strings.HasPrefix(value, "%%") && strings.HasSuffix(value, "%%") {
		return os.Getenv(strings.ReplaceAll(value, "%%", ""))
	}

	return value
}

func createMySQLMigrator(cfg Config) (*stepwise.Migrator, stepwise.CloserFunc, error) {
	db, err := sqlx.Open("mysql", strings.TrimPrefix(cfg.DatabaseURL, "mysql://"))
	if err != nil {
		return nil, nil, err
	}

	return stepwise.NewMigrator(
		stepwise.UseColorLogger(log.New(os.Stdout, "", 0), cfg.PrintSQL, cfg.Verbose),
		stepwise.UseMySQL(db.DB),
		stepwise.UseLocalFolder(cfg.Folder),
	)
}

func createSqliteMigrator(cfg Config) (*stepwise.Migrator, stepwise.CloserFunc, error) {
	db, err := sqlx.Open("sqlite3", strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
	if err != nil {
		return nil, nil, err
	}

	return stepwise.NewMigrator(
		stepwise.UseColorLogger(log.New(os.Stdout, "", 0), cfg.PrintSQL, cfg.Verbose),
		stepwise.UseSqlite(db.DB),
		stepwise.UseLocalFolder(cfg.Folder),
	)
}

func createMigrator(cfg Config) (*stepwise.Migrator, stepwise.CloserFunc, error) {
	factoryMap := make(migratorFactoryMap)
	factoryMap["mysql"] = createMySQLMigrator
	factoryMap["sqlite"] = createSqliteMigrator

	var driver string
	if strings.HasPrefix(cfg.DatabaseURL, "mysql") {
		driver = "mysql"
	} else if strings.HasPrefix(cfg.DatabaseURL, "sqlite") {
		driver = "sqlite"
	} else {
		return nil, nil, errors.Wrapf(database.ErrUnsupportedDBDriver, "[%s]", cfg.DatabaseURL)
	}

	return createMigratorFrom(driver, factoryMap, cfg)
}

func createMigratorFrom(
	driver string,
	factoryMap migratorFactoryMap,
	cfg Config,
) (*stepwise.Migrator, stepwise.CloserFunc, error) {
	factory, ok := factoryMap[driver]
	if !ok {
		return nil, nil, errors.Errorf("could not find factory for driver [%s]", driver)
	}

	return factory(cfg)
}
