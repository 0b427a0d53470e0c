// SPDX-FileCopyrightText: © 2020 Radhi Fadlillah
// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: MIT

package archiver

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"codeberg.org/readeck/fontgrab/pkg/fontface"
)

// Rewrite replaces every occurrence of the manifest's URLs in a stylesheet
// with the "./" prefixed local file names.
// URLs are plain strings, not patterns. When a URL is a prefix of another
// one, the longest always wins.
func Rewrite(stylesheet string, m *fontface.Manifest) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return stylesheet
	}

	slices.SortStableFunc(entries, func(a, b fontface.Entry) int {
		return cmp.Compare(len(b.URL), len(a.URL))
	})

	replacer := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		replacer = append(replacer, e.URL, "./"+e.Filename)
	}

	return strings.NewReplacer(replacer...).Replace(stylesheet)
}

// RemoteURLs returns the remote URLs of every url() token in a stylesheet,
// in document order.
func RemoteURLs(stylesheet string) []string {
	res := []string{}
	lexer := css.NewLexer(parse.NewInputBytes([]byte(stylesheet)))

	for {
		token, bt := lexer.Next()
		if token == css.ErrorToken {
			break
		}
		if token != css.URLToken {
			continue
		}

		if uri := sanitizeStyleURL(string(bt)); isRemoteURL(uri) {
			res = append(res, uri)
		}
	}

	return res
}
