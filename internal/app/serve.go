// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristalhq/acmd"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/contacts"
	"codeberg.org/impex/impex/internal/impex"
	"codeberg.org/impex/impex/internal/impex/formats"
	"codeberg.org/impex/impex/internal/server"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "serve",
		Description: "Start the HTTP server",
		ExecFunc:    runServe,
	})
}

func runServe(ctx context.Context, args []string) error {
	var flags appFlags
	fs := flags.Flags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}
	defer appPostRun()

	s := server.New()

	view := contacts.NewView(formats.Lookup(configs.Config.Export.Formats))
	contacts.SetupRoutes(s, view)
	s.AddRoute("/api/exports", http.HandlerFunc(impex.HistoryHandler))

	srv := &http.Server{
		Addr:    configs.ListenAddr(),
		Handler: s,
	}

	done := make(chan error, 1)
	go func() {
		slog.Info("server started",
			slog.String("addr", srv.Addr),
			slog.String("version", configs.Version()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	slog.Info("stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
