package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/akorzh/stepwise/internal/cli"
	"github.com/logrusorgru/aurora/v3"
)

const defaultConfigPath = "./stepwise.yaml"

func main() {
	generateCmd := flag.Bool("generate", false, "create the next-numbered empty migration pair")
	upgradeTarget := flag.String("upgrade", "", "apply upgrade scripts up to the given 4-digit version")
	downgradeTarget := flag.String("downgrade", "", "apply downgrade scripts down to the given 4-digit version")
	versionCmd := flag.Bool("version", false, "print the currently stored schema version")
	initCmd := flag.Bool("init", false, "write a config file stub and exit")

	name := flag.String("name", "", "label for the generated migration pair")
	databaseURL := flag.String("db", "", "database URL (fallback: config file, then "+cli.EnvDatabaseURL+")")
	folder := flag.String("folder", "", "migrations folder (fallback: config file, then "+cli.EnvFolder+")")
	configPath := flag.String("config", defaultConfigPath, "path to the YAML config file")
	verbose := flag.Bool("verbose", false, "print debug output")
	printSQL := flag.Bool("sql", false, "print executed SQL")

	flag.Parse()

	if *initCmd {
		if err := cli.InitCfg(*configPath); err != nil {
			fail(err.Error())
		}

		fmt.Println(aurora.Green("stepwise: "), "config stub written to", *configPath)
		os.Exit(0)
	}

	cfg := resolveConfig(*databaseURL, *folder, *configPath)
	cfg.Verbose = *verbose
	cfg.PrintSQL = *printSQL

	if *generateCmd {
		app, closer, err := cli.New(cfg)
		if err != nil {
			fail(err.Error())
		}
		defer mustClose(closer)

		pair, err := app.Generate(*name)
		if err != nil {
			fail(err.Error())
		}

		fmt.Println(aurora.Green("stepwise: "), "generated", pair)
		return
	}

	if *upgradeTarget != "" || *downgradeTarget != "" || *versionCmd {
		app, closer, err := cli.New(cfg)
		if err != nil {
			fail(err.Error())
		}
		defer mustClose(closer)

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		switch {
		case *upgradeTarget != "":
			if err := app.Upgrade(ctx, *upgradeTarget); err != nil {
				fail(err.Error())
			}
		case *downgradeTarget != "":
			if err := app.Downgrade(ctx, *downgradeTarget); err != nil {
				fail(err.Error())
			}
		default:
			v, err := app.Version(ctx)
			if err != nil {
				fail(err.Error())
			}

			fmt.Println(aurora.Green("stepwise: "), "current version", v)
			return
		}

		fmt.Println(aurora.Green("stepwise: "), "all done")
		return
	}

	fail("no command given: use -generate, -upgrade, -downgrade, -version or -init")
}

// resolveConfig applies the precedence flags > config file > env.
func resolveConfig(databaseURL, folder, configPath string) cli.Config {
	cfg := cli.Config{
		DatabaseURL: databaseURL,
		Folder:      folder,
	}

	if (cfg.DatabaseURL == "" || cfg.Folder == "") && cli.FileExists(configPath) {
		fromFile, err := cli.LoadConfig(configPath)
		if err != nil {
			fail(err.Error())
		}

		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = fromFile.DatabaseURL
		}

		if cfg.Folder == "" {
			cfg.Folder = fromFile.Folder
		}
	}

	cfg.MergeEnv()

	return cfg
}

func mustClose(closer cli.CloserFunc) {
	if err := closer(); err != nil {
		fail(err.Error())
	}
}

func fail(msg string) {
	fmt.Println(aurora.Red("stepwise: "), msg)
	os.Exit(1)
}
