// SPDX-FileCopyrightText: © 2020 Radhi Fadlillah
// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: MIT

package archiver

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Resource is a saved resource.
type Resource struct {
	url string

	Name        string
	ContentType string
	Size        int64 // declared length, -1 when unknown
	Written     int64
}

// URL returns the resource's URL. It's empty for the stylesheet.
func (r *Resource) URL() string {
	return r.url
}

// Collector describes a resource collector.
// Its role is to fetch remote resources and to provide
// a destination for them.
// A collector is orchestrated by [Archiver.Materialize].
type Collector interface {
	Prepare() error
	Fetch(req *http.Request) (*http.Response, error)
	Create(res *Resource) (io.Writer, error)
}

// FileCollector is a [Collector] that saves resources in a directory.
type FileCollector struct {
	client *http.Client
	root   string
}

// NewFileCollector returns a new [*FileCollector].
// A nil client means [http.DefaultClient].
func NewFileCollector(root string, client *http.Client) *FileCollector {
	if client == nil {
		client = http.DefaultClient
	}

	return &FileCollector{
		client: client,
		root:   root,
	}
}

// Root returns the collector's destination directory.
func (c *FileCollector) Root() string {
	return c.root
}

// Prepare implements [Collector]. It creates the destination directory
// and its parents, if needed.
func (c *FileCollector) Prepare() error {
	return os.MkdirAll(c.root, 0o750)
}

// Fetch calls the collector's HTTP client and returns an [*http.Response].
func (c *FileCollector) Fetch(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}

// Create implements [Collector]. It creates, or truncates, the resource's
// file in the destination directory.
func (c *FileCollector) Create(res *Resource) (io.Writer, error) {
	w, err := os.Create(filepath.Join(c.root, res.Name))
	if err != nil {
		return nil, err
	}
	return w, nil
}
