// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package server

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"reflect"
	"sync"

	"github.com/CloudyKit/jet/v6"

	"codeberg.org/impex/impex/configs"
)

//go:embed templates
var templateFiles embed.FS

// TC is a simple type to carry template context.
type TC map[string]any

// views holds all the views (templates). It's built on first use so the
// configuration is loaded before its options are read.
var views = sync.OnceValue(newViews)

func newViews() *jet.Set {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}

	options := []jet.Option{}
	if configs.Config.Main.DevMode {
		options = append(options, jet.InDevelopmentMode())
	}
	set := jet.NewSet(fsLoader{sub}, options...)

	set.AddGlobalFunc("version", func(args jet.Arguments) reflect.Value {
		args.RequireNumOfArguments("version", 0, 0)
		return reflect.ValueOf(configs.Version())
	})

	return set
}

// RenderTemplate yields an HTML response using the given template and context.
func RenderTemplate(w http.ResponseWriter, r *http.Request,
	status int, name string, ctx TC,
) {
	t, err := views().GetTemplate(name)
	if err != nil {
		Err(w, r, err)
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(status)

	vars := make(jet.VarMap).Set("request", r)
	if err = t.Execute(w, vars, ctx); err != nil {
		panic(err)
	}
}

// fsLoader is a [jet.Loader] reading templates from an [fs.FS].
type fsLoader struct {
	fs fs.FS
}

func (l fsLoader) Exists(templatePath string) bool {
	_, err := fs.Stat(l.fs, normalizePath(templatePath))
	return err == nil
}

func (l fsLoader) Open(templatePath string) (io.ReadCloser, error) {
	return l.fs.Open(normalizePath(templatePath))
}

func normalizePath(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
