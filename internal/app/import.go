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
	"path"
	"strings"

	"github.com/cristalhq/acmd"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/contacts"
	"codeberg.org/impex/impex/internal/impex/formats"
)

func init() {
	commands = append(commands, acmd.Command{
		Name:        "import",
		Description: "Import contacts from a file",
		ExecFunc:    runImport,
	})
}

func runImport(ctx context.Context, args []string) error {
	var format string

	var flags appFlags
	fs := flags.Flags()
	// nolint: errcheck
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: import [arguments...] FILE")
		fmt.Fprintln(fs.Output(), "  FILE")
		fmt.Fprintln(fs.Output(), "    \tsource file")
		fs.PrintDefaults()
	}
	fs.StringVar(&format, "format", "", "import format (default: from the file extension)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	src := strings.TrimSpace(fs.Arg(0))
	if src == "" {
		return errors.New("input file is required")
	}
	if format == "" {
		format = strings.TrimPrefix(path.Ext(src), ".")
	}

	if err := appPreRun(&flags); err != nil {
		return err
	}
	defer appPostRun()

	view := contacts.NewView(formats.Lookup(configs.Config.Export.Formats))
	f := formats.ByTitle(view.ImportFormats(), format)
	if f == nil {
		return fmt.Errorf("format %q is not supported", format)
	}

	fd, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fd.Close() //nolint:errcheck

	ds, err := f.Import(fd)
	if err != nil {
		return fmt.Errorf("invalid file: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", nil)
	if err != nil {
		return err
	}

	count, err := view.ImportData(r, f, ds)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d contacts imported from %s\n", count, src) //nolint:errcheck
	return nil
}
