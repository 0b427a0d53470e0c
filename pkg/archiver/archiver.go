// SPDX-FileCopyrightText: © 2020 Radhi Fadlillah
// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: MIT

// Package archiver downloads the fonts of a [fontface.Manifest] and
// rewrites their stylesheet so it references the local copies.
package archiver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"codeberg.org/readeck/fontgrab/pkg/fontface"
)

// StylesheetName is the file name of the rewritten stylesheet.
const StylesheetName = "fonts.css"

const fontType = "font/woff2"

var nullLogger = slog.New(slog.DiscardHandler)

// Archiver downloads fonts and saves them, along with their stylesheet,
// using a [Collector].
// Fonts are fetched one after the other; font servers tend to block
// clients performing parallel requests.
type Archiver struct {
	collector Collector
	logger    *slog.Logger
}

// Option is a function that can set an [Archiver] options.
type Option func(arc *Archiver)

// WithCollector sets a [Collector] to an [Archiver].
func WithCollector(collector Collector) Option {
	return func(arc *Archiver) {
		arc.collector = collector
	}
}

// WithLogger sets the [Archiver]'s logger.
func WithLogger(logger *slog.Logger) Option {
	return func(arc *Archiver) {
		arc.logger = logger
	}
}

// New creates a new [Archiver].
// Without a collector, it saves files in a "downloads" directory.
func New(options ...Option) *Archiver {
	arc := &Archiver{}

	for _, fn := range options {
		fn(arc)
	}

	if arc.collector == nil {
		arc.collector = NewFileCollector("downloads", http.DefaultClient)
	}
	if arc.logger == nil {
		arc.logger = nullLogger
	}

	return arc
}

func (arc *Archiver) log() *slog.Logger {
	return arc.logger
}

// Result is the outcome of [Archiver.Materialize].
type Result struct {
	Count     int
	CSS       string
	Resources []*Resource
}

// Materialize downloads every font of the manifest, in order, then
// saves the stylesheet with its font URLs replaced by local file names.
// The first failing font stops the process. Files that were already
// saved are kept and the stylesheet is not written.
func (arc *Archiver) Materialize(ctx context.Context, m *fontface.Manifest, stylesheet string) (*Result, error) {
	if err := arc.collector.Prepare(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}

	res := &Result{Resources: make([]*Resource, 0, m.Len())}

	for uri, name := range m.All() {
		r, err := arc.processFont(ctx, uri, name)
		if err != nil {
			return nil, err
		}
		res.Resources = append(res.Resources, r)
		res.Count++
	}

	res.CSS = Rewrite(stylesheet, m)
	for _, uri := range RemoteURLs(res.CSS) {
		arc.log().Warn("remote font reference kept", slog.Any("url", URLLogValue(uri)))
	}

	if _, err := arc.saveResource(ctx, io.NopCloser(strings.NewReader(res.CSS)), &Resource{
		Name:        StylesheetName,
		ContentType: "text/css",
		Size:        int64(len(res.CSS)),
	}); err != nil {
		return nil, err
	}

	return res, nil
}

// processFont fetches a font, checks it and saves it.
func (arc *Archiver) processFont(ctx context.Context, uri, name string) (*Resource, error) {
	body, res, err := arc.fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	res.Name = name
	if res, err = arc.saveResource(ctx, body, res); err != nil {
		return nil, err
	}

	arc.log().Info("font saved",
		slog.String("name", res.Name),
		slog.Int64("length", res.Size),
		slog.Int64("written", res.Written),
	)
	return res, nil
}

// fetch performs a font request and checks its response.
// It sniffs the beginning of the body to warn about content
// that doesn't look like a woff2 font.
func (arc *Archiver) fetch(ctx context.Context, uri string) (io.ReadCloser, *Resource, error) {
	log := arc.log().With(slog.Any("url", URLLogValue(uri)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s (%w)", ErrUnreachable, uri, err)
	}
	req.Header = FontHeader()

	rsp, err := arc.collector.Fetch(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s (%w)", ErrUnreachable, uri, err)
	}

	contentType := rsp.Header.Get("Content-Type")
	switch {
	case rsp.Body == nil || rsp.Body == http.NoBody:
		err = errors.New("no body")
	case rsp.StatusCode/100 != 2:
		err = fmt.Errorf("status %d", rsp.StatusCode)
	case !containsFold(contentType, "woff2"):
		err = fmt.Errorf("content-type %q", contentType)
	}
	if err != nil {
		if rsp.Body != nil {
			rsp.Body.Close() //nolint:errcheck
		}
		return nil, nil, fmt.Errorf("%w: %s (%w)", ErrNotFont, uri, err)
	}

	buf := new(bytes.Buffer)
	sniffed, err := mimetype.DetectReader(io.TeeReader(rsp.Body, buf))
	if err != nil {
		rsp.Body.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("%w: %s (%w)", ErrUnreachable, uri, err)
	}
	if !sniffed.Is(fontType) {
		log.Warn("font content mismatch", slog.String("detected", sniffed.String()))
	}

	return MultiReadCloser(buf, rsp.Body), &Resource{
		url:         uri,
		ContentType: contentType,
		Size:        rsp.ContentLength,
	}, nil
}

// saveResource saves a [io.Reader] into the collector's storage.
func (arc *Archiver) saveResource(ctx context.Context, r io.ReadCloser, res *Resource) (_ *Resource, err error) {
	w, err := arc.collector.Create(res)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%w)", ErrOutput, res.Name, err)
	}

	defer func() {
		// If our writer is an [io.Closer], we close it
		// when we're done writing.
		if c, ok := w.(io.Closer); ok {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("%w: %s (%w)", ErrOutput, res.Name, cerr)
			}
		}
	}()

	if res.Written, err = io.Copy(w, r); err != nil {
		return nil, fmt.Errorf("%w: %s (%w)", ErrOutput, res.Name, err)
	}

	arc.log().LogAttrs(ctx, slog.LevelDebug, "save resource",
		slog.String("name", res.Name),
		slog.Any("url", URLLogValue(res.URL())),
	)

	return res, nil
}
