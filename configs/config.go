// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package configs handles the application configuration, loaded from an
// optional TOML file and overridden by environment variables.
package configs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/komkom/toml"
)

var version = "dev"

// Version returns the current Impex version.
func Version() string {
	return version
}

type (
	// MainConfiguration is the application's main configuration section.
	MainConfiguration struct {
		LogLevel      slog.Level `json:"log_level" env:"IMPEX_LOG_LEVEL"`
		DevMode       bool       `json:"dev_mode" env:"IMPEX_DEV_MODE"`
		DataDirectory string     `json:"data_directory" env:"IMPEX_DATA_DIRECTORY"`
	}

	// ServerConfiguration is the HTTP server configuration section.
	ServerConfiguration struct {
		Host string `json:"host" env:"IMPEX_SERVER_HOST"`
		Port int    `json:"port" env:"IMPEX_SERVER_PORT"`
	}

	// DatabaseConfiguration is the database configuration section.
	DatabaseConfiguration struct {
		Source string `json:"source" env:"IMPEX_DATABASE_SOURCE"`
	}

	// BusConfiguration is the event store configuration section. When
	// RedisURI is empty the store stays in memory.
	BusConfiguration struct {
		RedisURI string `json:"redis_uri" env:"IMPEX_REDIS_URI"`
	}

	// ExportConfiguration is the export configuration section. Formats is
	// the ordered list of format titles offered by the views; it is
	// explicit configuration, never a shared default list.
	ExportConfiguration struct {
		Formats []string `json:"formats" env:"IMPEX_EXPORT_FORMATS"`
	}
)

type configuration struct {
	Main     MainConfiguration     `json:"main"`
	Server   ServerConfiguration   `json:"server"`
	Database DatabaseConfiguration `json:"database"`
	Bus      BusConfiguration      `json:"bus"`
	Export   ExportConfiguration   `json:"export"`
}

// Config holds the configuration data for the whole application.
var Config = configuration{
	Main: MainConfiguration{
		LogLevel:      slog.LevelInfo,
		DataDirectory: "data",
	},
	Server: ServerConfiguration{
		Host: "127.0.0.1",
		Port: 8002,
	},
	Database: DatabaseConfiguration{
		Source: "data/impex.db",
	},
	Export: ExportConfiguration{
		Formats: []string{"csv", "tsv", "json", "yaml", "xlsx", "toml"},
	},
}

// LoadConfiguration loads the configuration file when it exists, then
// applies environment overrides.
func LoadConfiguration(filename string) error {
	if filename != "" {
		if err := loadFile(filename); err != nil {
			return err
		}
	}

	return env.Parse(&Config)
}

func loadFile(filename string) error {
	fd, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer fd.Close() //nolint:errcheck

	if err := json.NewDecoder(toml.New(fd)).Decode(&Config); err != nil {
		return fmt.Errorf("configuration file %s: %w", filename, err)
	}
	return nil
}

// ListenAddr returns the server's listen address.
func ListenAddr() string {
	return fmt.Sprintf("%s:%d", Config.Server.Host, Config.Server.Port)
}
