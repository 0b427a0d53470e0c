// SPDX-FileCopyrightText: © 2020 Radhi Fadlillah
// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: MIT

package archiver

import (
	"errors"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

var rxStyleURL = regexp.MustCompile(`(?i)^url\((.+)\)$`)

// URLLogValue is a [slog.LogValuer] for URLs.
// It truncates the string when there too long.
type URLLogValue string

// LogValue implements [slog.LogValuer].
func (s URLLogValue) LogValue() slog.Value {
	if len(s) > 256 {
		return slog.StringValue(string(s)[0:40] + "..." + string(s)[len(s)-40:])
	}

	return slog.StringValue(string(s))
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func isValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isRemoteURL(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "//")
}

// sanitizeStyleURL sanitizes the URL in CSS by removing `url()`,
// quotation marks.
func sanitizeStyleURL(uri string) string {
	cssURL := rxStyleURL.ReplaceAllString(uri, "$1")
	cssURL = strings.TrimSpace(cssURL)

	if strings.HasPrefix(cssURL, `"`) {
		return strings.Trim(cssURL, `"`)
	}

	if strings.HasPrefix(cssURL, `'`) {
		return strings.Trim(cssURL, `'`)
	}

	return strings.TrimSpace(cssURL)
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

// MultiReadCloser returns an [io.ReadCloser] that's the concatenation
// of multiple [io.Reader]. It stores a reader resulting from [io.MultiReader]
// and a list of [io.Closer] for the provided readers that implement [io.Closer].
func MultiReadCloser(readers ...io.Reader) io.ReadCloser {
	res := &multiReadCloser{
		Reader: io.MultiReader(readers...),
	}

	for _, r := range readers {
		if r, ok := r.(io.Closer); ok {
			res.closers = append(res.closers, r)
		}
	}

	return res
}

func (mrc *multiReadCloser) Close() error {
	errs := []error{}
	for _, c := range mrc.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
