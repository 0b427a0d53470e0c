// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package fontface extracts the font resources declared by a web font
// stylesheet, as served by font APIs like Google Fonts.
//
// Such a stylesheet is a list of @font-face rules, each one preceded by a
// comment holding the charset (or subset) label:
//
//	/* latin */
//	@font-face {
//	  font-family: 'Roboto';
//	  font-style: normal;
//	  font-weight: 400;
//	  src: url(https://fonts.gstatic.com/s/roboto/v30/KFOmCnqEu92Fr1Mu4mxK.woff2) format('woff2');
//	}
//
// [BuildManifest] turns such a document into a [Manifest], an ordered mapping
// of font URLs to local file names.
package fontface

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnexpectedURL is returned when a font URL doesn't have the
	// expected <host>/<path>/<slug>/<version>/<file> shape.
	ErrUnexpectedURL = errors.New("unexpected font URL")

	// ErrUnsafeFilename is returned when a block's metadata would produce
	// a file name that is not a single path element.
	ErrUnsafeFilename = errors.New("unsafe file name")
)

var (
	rxFamily = regexp.MustCompile(`font-family:\s*([^;}]+)`)
	rxStyle  = regexp.MustCompile(`font-style:\s*([^;}]+)`)
	rxWeight = regexp.MustCompile(`font-weight:\s*([^;}]+)`)
	rxSrc    = regexp.MustCompile(`src:\s*url\(([^)]+)`)

	quoteRemover = strings.NewReplacer(
		`"`, "",
		`'`, "",
		"‘", "",
		"’", "",
		"“", "",
		"”", "",
	)
)

// FieldError is returned when a block lacks one of its required fields.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return "missing " + e.Field
}

// Block is the parsed content of a single @font-face block.
type Block struct {
	Charset   string
	Family    string
	Style     string
	Weight    string
	Src       string
	Extension string
	Slug      string
	Version   string
}

// Filename returns the local file name of the block's font. It only
// depends on the block's URL structure and metadata.
func (b *Block) Filename() string {
	return strings.Join(
		[]string{b.Slug, b.Version, b.Weight, b.Style, b.Charset},
		"-",
	) + "." + b.Extension
}

// ParseBlock extracts a [Block] from a raw font block, that is, the text
// following a "/* " delimiter. Every field is required; the first missing
// one voids the whole block.
func ParseBlock(raw string) (*Block, error) {
	b := &Block{}

	charset, _, ok := strings.Cut(raw, " ")
	if !ok || charset == "" {
		return nil, &FieldError{"charset"}
	}
	b.Charset = charset

	lookups := []struct {
		field string
		rx    *regexp.Regexp
		dest  *string
	}{
		{"font-family", rxFamily, &b.Family},
		{"font-style", rxStyle, &b.Style},
		{"font-weight", rxWeight, &b.Weight},
		{"src", rxSrc, &b.Src},
	}
	for _, l := range lookups {
		m := l.rx.FindStringSubmatch(raw)
		if m == nil {
			return nil, &FieldError{l.field}
		}
		*l.dest = m[1]
	}

	b.Family = strings.TrimSpace(quoteRemover.Replace(b.Family))
	b.Style = strings.TrimSpace(b.Style)
	b.Weight = strings.TrimSpace(b.Weight)

	i := strings.LastIndexByte(b.Src, '.')
	if i < 0 || i == len(b.Src)-1 || strings.Contains(b.Src[i+1:], "/") {
		return nil, &FieldError{"extension"}
	}
	b.Extension = b.Src[i+1:]

	var err error
	if b.Slug, b.Version, err = urlSegments(b.Src); err != nil {
		return nil, err
	}

	if !isSafeFilename(b.Filename()) {
		return nil, fmt.Errorf("%w: %q", ErrUnsafeFilename, b.Filename())
	}

	return b, nil
}

// urlSegments returns the slug and version parts of a font URL.
func urlSegments(src string) (slug, version string, err error) {
	rest, ok := strings.CutPrefix(src, "https://")
	if !ok {
		if _, rest, ok = strings.Cut(src, "://"); !ok {
			return "", "", fmt.Errorf("%w: %s", ErrUnexpectedURL, src)
		}
	}

	parts := strings.Split(rest, "/")
	if len(parts) < 5 || parts[2] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnexpectedURL, src)
	}

	return parts[2], parts[3], nil
}

func isSafeFilename(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
