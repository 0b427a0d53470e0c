// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package testing provides some tools to serve stylesheets and fonts
// as HTTP mock responses.
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"

	"github.com/jarcoal/httpmock"

	"codeberg.org/readeck/fontgrab/internal/httpclient"
)

// MockClient replaces the round tripper of an [httpclient.New] client with
// a new [httpmock.MockTransport]. The returned function restores the
// original round tripper.
func MockClient(client *http.Client) (*httpmock.MockTransport, func()) {
	t := client.Transport.(*httpclient.Transport)
	ot := t.RoundTripper
	mt := httpmock.NewMockTransport()
	t.RoundTripper = mt

	return mt, func() {
		t.RoundTripper = ot
	}
}

func readFixture(name string) []byte {
	fd, err := os.Open(path.Join("test-fixtures", name))
	if err != nil {
		panic(err)
	}
	defer fd.Close() //nolint:errcheck

	data, err := io.ReadAll(fd)
	if err != nil {
		panic(err)
	}

	return data
}

// NewContentResponder returns a mock response for a file in test-fixtures,
// with extra headers.
func NewContentResponder(status int, headers map[string]string, name string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		data := readFixture(name)
		rsp := httpmock.NewBytesResponse(status, data)
		rsp.ContentLength = int64(len(data))
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		return rsp, nil
	}
}

// NewStringResponder returns a mock response with a given body and headers.
func NewStringResponder(status int, headers map[string]string, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewStringResponse(status, body)
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.ContentLength = int64(len(body))
		rsp.Request = req
		return rsp, nil
	}
}

// NewCSSResponder returns a mock response with a CSS content-type.
func NewCSSResponder(status int, name string) httpmock.Responder {
	return NewContentResponder(
		status,
		map[string]string{"content-type": "text/css; charset=utf-8"},
		name)
}

// NewFontResponder returns a mock response with a woff2 content-type.
func NewFontResponder(name string) httpmock.Responder {
	return NewContentResponder(
		200,
		map[string]string{"content-type": "font/woff2"},
		name)
}

type errReader int

func (errReader) Read([]byte) (n int, err error) {
	return 0, errors.New("read error")
}

func (errReader) Close() error {
	return nil
}

// NewIOErrorResponder returns a mock response with a faulty body.
func NewIOErrorResponder(status int, headers map[string]string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		rsp := httpmock.NewBytesResponse(status, []byte{})
		for k, v := range headers {
			rsp.Header.Set(k, v)
		}
		rsp.Request = req
		rsp.Body = errReader(0)
		return rsp, nil
	}
}
