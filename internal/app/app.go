// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package app provides the impex command line interface.
package app

import (
	"flag"
	"fmt"
	"os"

	"github.com/cristalhq/acmd"
	"github.com/redis/go-redis/v9"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/bus"
	"codeberg.org/impex/impex/internal/db"
	"codeberg.org/impex/impex/internal/impex"
)

var commands []acmd.Command

// Run executes the application's command line.
func Run() error {
	r := acmd.RunnerOf(commands, acmd.Config{
		AppName:        "impex",
		AppDescription: "Bulk import and export of database records",
		Version:        configs.Version(),
	})
	return r.Run()
}

type appFlags struct {
	configFile string
}

// Flags returns the flag set common to every command.
func (f *appFlags) Flags() *flag.FlagSet {
	fs := flag.NewFlagSet("impex", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "config.toml", "configuration file")
	return fs
}

// appPreRun loads the configuration and opens every resource a command
// needs. Commands must call appPostRun when they're done.
func appPreRun(flags *appFlags) error {
	if err := configs.LoadConfiguration(flags.configFile); err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	initLogger()

	if err := os.MkdirAll(configs.Config.Main.DataDirectory, 0o750); err != nil {
		return err
	}
	if err := db.Open(configs.Config.Database.Source); err != nil {
		return fmt.Errorf("could not open database: %w", err)
	}

	if uri := configs.Config.Bus.RedisURI; uri != "" {
		opts, err := redis.ParseURL(uri)
		if err != nil {
			return err
		}
		bus.InitStore(bus.NewRedisStore(redis.NewClient(opts), "impex"))
	}

	impex.EnableHistory()

	return nil
}

func appPostRun() {
	if err := db.Close(); err != nil {
		fatal("error closing the database", err)
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, err)
	os.Exit(1)
}
