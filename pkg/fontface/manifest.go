// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package fontface

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// BlockDelimiter is the comment opening that precedes every font block.
const BlockDelimiter = "/* "

// ErrDuplicateFilename is returned when two distinct URLs would be
// saved under the same file name.
var ErrDuplicateFilename = errors.New("duplicate file name")

// ParseError is a font block that could not be used.
type ParseError struct {
	Block string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse font block: %s", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Entry is a [Manifest] entry.
type Entry struct {
	URL      string
	Filename string
}

// Manifest is an ordered mapping of font URLs to local file names.
// Its iteration order is the insertion order.
type Manifest struct {
	entries []Entry
	urls    map[string]int
	names   map[string]string
}

// NewManifest returns an empty [Manifest].
func NewManifest() *Manifest {
	return &Manifest{
		urls:  map[string]int{},
		names: map[string]string{},
	}
}

// Add adds an entry to the manifest. It returns false, without changing
// anything, when the URL is already present. It returns an error when
// the file name is already used by another URL.
func (m *Manifest) Add(uri, filename string) (bool, error) {
	if _, ok := m.urls[uri]; ok {
		return false, nil
	}
	if other, ok := m.names[filename]; ok {
		return false, fmt.Errorf("%w: %s (already used by %s)", ErrDuplicateFilename, filename, other)
	}

	m.urls[uri] = len(m.entries)
	m.names[filename] = uri
	m.entries = append(m.entries, Entry{URL: uri, Filename: filename})
	return true, nil
}

// Get returns the file name for a given URL.
func (m *Manifest) Get(uri string) (string, bool) {
	i, ok := m.urls[uri]
	if !ok {
		return "", false
	}
	return m.entries[i].Filename, true
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// All returns an iterator over URLs and file names, in insertion order.
func (m *Manifest) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range m.entries {
			if !yield(e.URL, e.Filename) {
				return
			}
		}
	}
}

// Entries returns a copy of the manifest's entries.
func (m *Manifest) Entries() []Entry {
	res := make([]Entry, len(m.entries))
	copy(res, m.entries)
	return res
}

// BuildManifest parses a stylesheet and returns the [Manifest] of the fonts
// it references. Blocks that can't be parsed are skipped and returned as
// [*ParseError] values; they never prevent other blocks from being used.
func BuildManifest(css string) (*Manifest, []*ParseError) {
	m := NewManifest()
	var errs []*ParseError

	segments := strings.Split(css, BlockDelimiter)
	for _, raw := range segments[1:] {
		if raw == "" {
			continue
		}

		b, err := ParseBlock(raw)
		if err == nil {
			_, err = m.Add(b.Src, b.Filename())
		}
		if err != nil {
			errs = append(errs, &ParseError{Block: BlockDelimiter + raw, Err: err})
		}
	}

	return m, errs
}
