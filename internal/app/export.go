// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/cristalhq/acmd"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/contacts"
	"codeberg.org/impex/impex/internal/impex/formats"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "export",
		Description: "Export contacts to a file",
		ExecFunc:    runExport,
	})
}

func runExport(ctx context.Context, args []string) error {
	var format string

	var flags appFlags
	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: export [arguments...] FILE")
		fmt.Fprintln(fs.Output(), "  FILE")
		fmt.Fprintln(fs.Output(), "    \tdestination file")
		fs.PrintDefaults()
	}
	fs.StringVar(&format, "format", "csv", "export format")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	dest := strings.TrimSpace(fs.Arg(0))
	if dest == "" {
		return errors.New("output file is required")
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}
	defer appPostRun()

	view := contacts.NewView(formats.Lookup(configs.Config.Export.Formats))
	f := formats.ByTitle(view.ExportFormats(), format)
	if f == nil {
		return fmt.Errorf("format %q is not supported", format)
	}

	// The export pipeline is request driven; commands run it on a
	// synthetic request carrying the command context.
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}

	ds, err := view.DataForExport(r, view.Queryset(r))
	if err != nil {
		return err
	}

	fd, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fd.Close() //nolint:errcheck

	if err := f.Export(fd, ds); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d contacts exported to %s\n", ds.Len(), dest) //nolint:errcheck
	return nil
}
