// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"log/slog"
	"os"

	"github.com/phsym/console-slog"

	"codeberg.org/impex/impex/configs"
)

// initLogger sets the default slog handler according to the configuration.
func initLogger() {
	handler := console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level:      configs.Config.Main.LogLevel,
		AddSource:  configs.Config.Main.DevMode,
		TimeFormat: "15:04:05.000",
	})

	slog.SetDefault(slog.New(handler))
	slog.SetLogLoggerLevel(configs.Config.Main.LogLevel)
}
