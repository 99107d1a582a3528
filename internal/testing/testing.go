// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing provides tools to test the HTTP routes, the message bus
// and the import/export flows.
package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/kinbiko/jsonassert"
	"github.com/stretchr/testify/require"

	"codeberg.org/impex/impex/configs"
	"codeberg.org/impex/impex/internal/contacts"
	"codeberg.org/impex/impex/internal/db"
	"codeberg.org/impex/impex/internal/impex"
	"codeberg.org/impex/impex/internal/impex/formats"
	"codeberg.org/impex/impex/internal/server"
)

// Fixtures is the contact set every test application starts with. Names
// were picked so the default ordering (name, then id) is obvious.
var Fixtures = []contacts.Contact{
	{Name: "alice", Email: "alice@localhost", Company: "acme", Role: "ceo"},
	{Name: "bob", Email: "bob@localhost", Company: "acme"},
	{Name: "carol", Email: "carol@localhost", Company: "initech", Role: "dev"},
}

// TestApp holds information of the application for testing.
type TestApp struct {
	TmpDir   string
	Srv      *server.Server
	View     *impex.View[contacts.Contact]
	Contacts []*contacts.Contact
}

// NewTestApp initializes TestApp with a default configuration, a few
// contacts, and an http muxer ready to accept requests.
func NewTestApp(t *testing.T) *TestApp {
	tmpDir, err := os.MkdirTemp(os.TempDir(), "impex_*")
	if err != nil {
		t.Fatal(err)
	}

	configs.Config.Main.LogLevel = slog.LevelError
	configs.Config.Main.DataDirectory = tmpDir
	configs.Config.Database.Source = ":memory:"

	if err := db.Open(configs.Config.Database.Source); err != nil {
		t.Fatal(err)
	}

	ta := &TestApp{
		TmpDir:   tmpDir,
		Contacts: []*contacts.Contact{},
	}

	for _, fx := range Fixtures {
		c := fx
		if err := contacts.Contacts.Create(&c); err != nil {
			t.Fatal(err)
		}
		ta.Contacts = append(ta.Contacts, &c)
	}

	ta.View = contacts.NewView(formats.Lookup(configs.Config.Export.Formats))
	ta.Srv = server.New()
	contacts.SetupRoutes(ta.Srv, ta.View)
	ta.Srv.AddRoute("/api/exports", http.HandlerFunc(impex.HistoryHandler))
	impex.EnableHistory()

	return ta
}

// Close removes artifacts that were needed for testing.
func (ta *TestApp) Close(t *testing.T) {
	if err := db.Close(); err != nil {
		t.Logf("error closing database: %s", err)
	}
	if err := os.RemoveAll(ta.TmpDir); err != nil {
		t.Logf("error removing temporary folder: %s", err)
	}
}

// Client creates a new [Client] instance.
func (ta *TestApp) Client(options ...ClientOption) *Client {
	c := &Client{
		app:    ta,
		URL:    &url.URL{Scheme: "http", Host: "impex.example.org"},
		Header: http.Header{},
	}

	for _, f := range options {
		f(c)
	}

	return c
}

// ClientOption is a function passed to [TestApp.Client].
type ClientOption func(c *Client)

// WithAccept sets the client's Accept header.
func WithAccept(value string) ClientOption {
	return func(c *Client) {
		c.Header.Set("Accept", value)
	}
}

// Client is a thin HTTP client over the main server router.
type Client struct {
	app    *TestApp
	URL    *url.URL
	Header http.Header
}

// NewRequest creates a new [http.Request].
//
// body of types [io.Reader], []byte, string or nil are passed as is.
//
// When the body is of type [url.Values], the request's
// Content-Type is set to "application/x-www-form-urlencoded".
//
// Otherwise, the body is marshaled and the Content-Type is set to "application/json".
func (c *Client) NewRequest(method, target string, body any) (*http.Request, error) {
	header := http.Header{}
	maps.Copy(header, c.Header)

	var b io.Reader

	switch t := body.(type) {
	case io.Reader:
		b = t
	case []byte:
		b = bytes.NewReader(t)
	case string:
		b = strings.NewReader(t)
	case url.Values:
		b = strings.NewReader(t.Encode())
		header.Set("Content-Type", "application/x-www-form-urlencoded")
	case nil:
		b = nil
	default:
		b = new(bytes.Buffer)
		if err := json.NewEncoder(b.(io.Writer)).Encode(t); err != nil {
			return nil, err
		}
		header.Set("Content-Type", "application/json")
	}

	req := httptest.NewRequest(method, target, b)
	req.URL.Host = c.URL.Host
	req.URL.Scheme = c.URL.Scheme
	req.Host = c.URL.Host

	maps.Copy(req.Header, header)

	return req, nil
}

// Request performs a Request using httptest tools.
// It returns a Response instance that can be evaluated for testing
// purposes.
func (c *Client) Request(t *testing.T, req *http.Request) *Response {
	w := httptest.NewRecorder()

	c.app.Srv.ServeHTTP(w, req)

	rsp, err := NewResponse(w, req)
	if err != nil {
		t.Fatal(err)
	}

	return rsp
}

// RT prepares a [RequestTest] and returns a function that receives a
// [testing.T] variable, runs the request and performs the assertions.
func (c *Client) RT(options ...TestOption) func(t *testing.T) bool {
	return func(t *testing.T) bool {
		return c.Run(t, RT(options...))
	}
}

// Run runs the request from [RequestTest] and performs
// the assertions.
func (c *Client) Run(t *testing.T, rt *RequestTest) bool {
	return t.Run(rt.Name, func(t *testing.T) {
		req, err := c.NewRequest(rt.Method, rt.Target, rt.Body)
		if err != nil {
			t.Fatal(err)
		}
		maps.Copy(req.Header, rt.Header)
		rsp := c.Request(t, req)
		for _, f := range rt.Assert {
			f(t, rsp)
		}
	})
}

// Sequence returns a function that receives a [testing.T] variable and runs
// the given [RequestTest] list.
func (c *Client) Sequence(tests ...*RequestTest) func(t *testing.T) bool {
	return func(t *testing.T) bool {
		for _, rt := range tests {
			if !c.Run(t, rt) {
				return false
			}
		}
		return true
	}
}

type (
	// TestOption is an option for [RequestTest].
	TestOption func(rt *RequestTest)

	// RspAssertion is a [Response] assertion function.
	RspAssertion func(t *testing.T, rsp *Response)

	// RequestTest contains data that are used to perform requests.
	RequestTest struct {
		Name   string
		Method string
		Target string
		Body   any
		Header http.Header
		Assert []RspAssertion
	}
)

// RT creates a new [RequestTest].
func RT(options ...TestOption) *RequestTest {
	rt := &RequestTest{
		Method: http.MethodGet,
		Header: http.Header{},
	}

	for _, f := range options {
		f(rt)
	}

	if rt.Name == "" {
		rt.Name = rt.Method + "[" + rt.Target + "]"
	}

	return rt
}

// WithName sets the [RequestTest.Name].
func WithName(name string) TestOption {
	return func(rt *RequestTest) {
		rt.Name = name
	}
}

// WithMethod sets the [RequestTest.Method].
func WithMethod(method string) TestOption {
	return func(rt *RequestTest) {
		rt.Method = method
	}
}

// WithTarget sets the [RequestTest.Target].
func WithTarget(target string) TestOption {
	return func(rt *RequestTest) {
		rt.Target = target
	}
}

// WithBody sets the [RequestTest.Body].
func WithBody(body any) TestOption {
	return func(rt *RequestTest) {
		rt.Body = body
	}
}

// WithFormFile sets the [RequestTest.Body] to a multipart form carrying
// the given content in a "data" file field.
func WithFormFile(filename string, content []byte) TestOption {
	return func(rt *RequestTest) {
		buf := new(bytes.Buffer)
		mp := multipart.NewWriter(buf)
		fd, err := mp.CreateFormFile("data", filename)
		if err != nil {
			panic(err)
		}
		if _, err := fd.Write(content); err != nil {
			panic(err)
		}
		if err := mp.Close(); err != nil {
			panic(err)
		}

		rt.Body = buf
		rt.Header.Set("Content-Type", mp.FormDataContentType())
	}
}

// WithHeader adds a value to [RequestTest.Header].
func WithHeader(name, value string) TestOption {
	return func(rt *RequestTest) {
		rt.Header.Add(name, value)
	}
}

// WithAssert adds an [RspAssertion] to the [RequestTest.Assert].
func WithAssert(assertion RspAssertion) TestOption {
	return func(rt *RequestTest) {
		rt.Assert = append(rt.Assert, assertion)
	}
}

// AssertStatus checks the response's expected status.
func AssertStatus(status int) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		rsp.AssertStatus(t, status)
	})
}

// AssertContains checks that the response's body contains the expected string.
func AssertContains(expected string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		rsp.AssertContains(t, expected)
	})
}

// AssertHeader checks the value of a response header.
func AssertHeader(name, expected string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		require.Equal(t, expected, rsp.Header.Get(name))
	})
}

// AssertJSON checks that the response's JSON matches what we expect.
func AssertJSON(expected string) TestOption {
	return WithAssert(func(t *testing.T, rsp *Response) {
		rsp.AssertJSON(t, expected)
	})
}

// Response is a wrapper around http.Response where the body is stored and
// the HTML (when applicable) is parsed in advance.
type Response struct {
	*http.Response
	URL  *url.URL
	Body []byte
	HTML *html.Node
	JSON any
}

// NewResponse returns a Response instance based on the ResponseRecorder
// given in input.
func NewResponse(rec *httptest.ResponseRecorder, req *http.Request) (*Response, error) {
	var err error
	r := &Response{Response: rec.Result()} //nolint:bodyclose
	r.URL = req.URL

	r.Body, err = io.ReadAll(r.Response.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(r.Header.Get("content-type"), "text/html"):
		r.HTML, err = html.Parse(bytes.NewReader(r.Body))
		if err != nil {
			return nil, err
		}
	case strings.HasPrefix(r.Header.Get("content-type"), "application/json"):
		if err := json.Unmarshal(r.Body, &r.JSON); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// AssertStatus checks the response's expected status.
func (r *Response) AssertStatus(t *testing.T, expected int) {
	require.Equal(t, expected, r.StatusCode)
}

// AssertContains checks that the response's body contains the expected string.
func (r *Response) AssertContains(t *testing.T, expected string) {
	require.Contains(t, string(r.Body), expected)
}

// AssertJSON checks that the response's JSON matches what we expect.
func (r *Response) AssertJSON(t *testing.T, expected string) {
	jsonassert.New(t).Assertf(string(r.Body), "%s", expected)
	if t.Failed() {
		t.Errorf("Received JSON: %s\n", string(r.Body))
		t.FailNow()
	}
}
