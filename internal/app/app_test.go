// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/fontgrab/configs"
	"codeberg.org/readeck/fontgrab/internal/httpclient"
	"codeberg.org/readeck/fontgrab/pkg/archiver"
	. "codeberg.org/readeck/fontgrab/pkg/archiver/testing" //revive:disable:dot-imports
	"codeberg.org/readeck/fontgrab/pkg/fontface"
)

const (
	cssURL  = "https://fonts.googleapis.com/css2?family=Roboto"
	fontURL = "https://fonts.gstatic.com/s/roboto/v30/KFOmCnqEu92Fr1Mu4mxK.woff2"
)

const stylesheet = `/* latin */
@font-face {
  font-family: 'Roboto';
  font-style: normal;
  font-weight: 400;
  src: url(` + fontURL + `) format('woff2');
}
/* greek */
@font-face {
  font-family: 'Roboto';
  src: url(https://fonts.gstatic.com/s/roboto/v30/greek.woff2) format('woff2');
}
`

var (
	cssHeaders  = map[string]string{"content-type": "text/css; charset=utf-8"}
	fontHeaders = map[string]string{"content-type": "font/woff2"}
	htmlHeaders = map[string]string{"content-type": "text/html"}
)

type appTest struct {
	mt     *httpmock.MockTransport
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func newAppTest(t *testing.T) *appTest {
	client := httpclient.New()
	mt, restore := MockClient(client)

	at := &appTest{
		mt:     mt,
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
		dir:    filepath.Join(t.TempDir(), "fonts"),
	}

	oldClient, oldStdout, oldStderr := newClient, stdout, stderr
	newClient = func() *http.Client { return client }
	stdout, stderr = at.stdout, at.stderr

	t.Cleanup(func() {
		restore()
		newClient, stdout, stderr = oldClient, oldStdout, oldStderr
		logger = nil
	})

	return at
}

func (at *appTest) registerDefaults() {
	at.mt.RegisterResponder("GET", cssURL, NewStringResponder(200, cssHeaders, stylesheet))
	at.mt.RegisterResponder("GET", fontURL, NewStringResponder(200, fontHeaders, "wOF2 font data"))
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{fmt.Errorf("%w: flag provided but not defined", errUsage), 2},
		{fmt.Errorf("%w: bad level", configs.ErrConfig), 2},
		{archiver.ErrNoURL, 2},
		{fmt.Errorf("%w: ftp://x", archiver.ErrInvalidURL), 2},
		{&archiver.StatusError{Status: 404, Body: "Not Found"}, 3},
		{fmt.Errorf("%w: x", archiver.ErrNotCSS), 4},
		{fmt.Errorf("%w: x", archiver.ErrEmptyBody), 5},
		{fmt.Errorf("%w: x (no such host)", archiver.ErrUnreachable), 6},
		{fmt.Errorf("%w: x", archiver.ErrNotFont), 7},
		{fmt.Errorf("%w: fonts.css", archiver.ErrOutput), 8},
		{&fontface.ParseError{Err: fontface.ErrUnexpectedURL}, 1},
	}

	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			require.Equal(t, test.expected, exitCodeFor(test.err))
		})
	}
}

func TestFetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		assert := require.New(t)
		at := newAppTest(t)
		at.registerDefaults()

		code := Run([]string{"fetch", "-out", at.dir, "-url", cssURL})
		assert.Equal(0, code, at.stderr.String())

		data, err := os.ReadFile(filepath.Join(at.dir, "roboto-v30-400-normal-latin.woff2"))
		assert.NoError(err)
		assert.Equal("wOF2 font data", string(data))

		data, err = os.ReadFile(filepath.Join(at.dir, archiver.StylesheetName))
		assert.NoError(err)
		assert.Contains(string(data), "url(./roboto-v30-400-normal-latin.woff2)")
		assert.NotContains(string(data), fontURL)

		assert.Contains(at.stderr.String(), "could not parse font block")
		assert.Contains(at.stderr.String(), "font saved")
		assert.Contains(at.stderr.String(), "1 font downloaded to "+at.dir)
	})

	t.Run("positional url", func(t *testing.T) {
		at := newAppTest(t)
		at.registerDefaults()

		code := Run([]string{"fetch", "-out", at.dir, cssURL})
		require.Equal(t, 0, code, at.stderr.String())
		require.FileExists(t, filepath.Join(at.dir, archiver.StylesheetName))
	})

	t.Run("user agent", func(t *testing.T) {
		at := newAppTest(t)
		at.registerDefaults()
		t.Setenv("FONTGRAB_USER_AGENT", "fontgrab-test")

		var ua string
		at.mt.RegisterResponder("GET", cssURL, func(req *http.Request) (*http.Response, error) {
			ua = req.Header.Get("User-Agent")
			return NewStringResponder(200, cssHeaders, stylesheet)(req)
		})

		require.Equal(t, 0, Run([]string{"fetch", "-out", at.dir, cssURL}))
		require.Equal(t, "fontgrab-test", ua)
	})

	t.Run("config precedence", func(t *testing.T) {
		assert := require.New(t)
		at := newAppTest(t)
		at.registerDefaults()

		fileDir := filepath.Join(t.TempDir(), "from-file")
		envDir := filepath.Join(t.TempDir(), "from-env")

		cf := filepath.Join(t.TempDir(), "fontgrab.toml")
		assert.NoError(os.WriteFile(cf, []byte(fmt.Sprintf("output_dir = %q\n", fileDir)), 0o600))

		assert.Equal(0, Run([]string{"fetch", "-config", cf, cssURL}))
		assert.DirExists(fileDir)

		t.Setenv("FONTGRAB_OUTPUT_DIR", envDir)
		assert.Equal(0, Run([]string{"fetch", "-config", cf, cssURL}))
		assert.DirExists(envDir)

		assert.Equal(0, Run([]string{"fetch", "-config", cf, "-out", at.dir, cssURL}))
		assert.DirExists(at.dir)
	})

	t.Run("exit codes", func(t *testing.T) {
		tests := []struct {
			name     string
			args     []string
			css      httpmock.Responder
			font     httpmock.Responder
			expected int
		}{
			{"no args", []string{}, nil, nil, 2},
			{"help", []string{"fetch", "-h"}, nil, nil, 0},
			{"no url", []string{"fetch"}, nil, nil, 2},
			{"invalid url", []string{"fetch", "fonts.googleapis.com"}, nil, nil, 2},
			{"bad flag", []string{"fetch", "-nope", cssURL}, nil, nil, 2},
			{"bad level", []string{"fetch", "-log-level", "loud", cssURL}, nil, nil, 2},
			{"missing config", []string{"fetch", "-config", "/nonexistent/fontgrab.toml", cssURL}, nil, nil, 2},
			{
				"status", []string{"fetch", cssURL},
				NewStringResponder(404, htmlHeaders, "Not Found"), nil, 3,
			},
			{
				"not css", []string{"fetch", cssURL},
				NewStringResponder(200, htmlHeaders, "<html></html>"), nil, 4,
			},
			{
				"empty", []string{"fetch", cssURL},
				NewStringResponder(200, cssHeaders, ""), nil, 5,
			},
			{
				"unreachable", []string{"fetch", cssURL},
				httpmock.NewErrorResponder(errors.New("no such host")), nil, 6,
			},
			{
				"not a font", []string{"fetch", cssURL},
				NewStringResponder(200, cssHeaders, stylesheet),
				NewStringResponder(200, htmlHeaders, "<html></html>"), 7,
			},
		}

		for _, test := range tests {
			t.Run(test.name, func(t *testing.T) {
				at := newAppTest(t)
				if test.css != nil {
					at.mt.RegisterResponder("GET", cssURL, test.css)
				}
				if test.font != nil {
					at.mt.RegisterResponder("GET", fontURL, test.font)
				}

				args := test.args
				if len(args) > 0 {
					args = append([]string{args[0], "-out", at.dir}, args[1:]...)
				}
				require.Equal(t, test.expected, Run(args), at.stderr.String())
			})
		}
	})

	t.Run("output error", func(t *testing.T) {
		at := newAppTest(t)
		at.registerDefaults()
		require.NoError(t, os.WriteFile(at.dir, []byte("a file"), 0o600))

		require.Equal(t, 8, Run([]string{"fetch", "-out", at.dir, cssURL}))
	})
}

func TestSummary(t *testing.T) {
	require.Equal(t, "0 fonts downloaded to downloads", summary(0, "downloads"))
	require.Equal(t, "1 font downloaded to downloads", summary(1, "downloads"))
	require.Equal(t, "12 fonts downloaded to /tmp/fonts", summary(12, "/tmp/fonts"))
}

func TestList(t *testing.T) {
	assert := require.New(t)
	at := newAppTest(t)
	at.registerDefaults()

	code := Run([]string{"list", "-out", at.dir, cssURL})
	assert.Equal(0, code, at.stderr.String())
	assert.Equal(fontURL+"\troboto-v30-400-normal-latin.woff2\n", at.stdout.String())
	assert.NoDirExists(at.dir)
	assert.Equal(0, at.mt.GetCallCountInfo()["GET "+fontURL])
}
