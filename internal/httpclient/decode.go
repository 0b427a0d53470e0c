// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// ErrUnsupportedEncoding is returned when a response uses a content encoding
// the client can't decode.
var ErrUnsupportedEncoding = errors.New("unsupported content encoding")

type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (b *decodedBody) Close() error {
	errs := []error{}
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// decodeBody replaces the response's body with a decoding reader when
// the response has a Content-Encoding header.
// [http.Transport] only does it when it set Accept-Encoding itself,
// which is never the case when a request carries its own header.
func decodeBody(rsp *http.Response) error {
	enc := strings.ToLower(strings.TrimSpace(rsp.Header.Get("Content-Encoding")))
	if enc == "" || enc == "identity" || rsp.Body == nil || rsp.Body == http.NoBody {
		return nil
	}

	body := &decodedBody{closers: []io.Closer{rsp.Body}}

	switch enc {
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(rsp.Body)
		if errors.Is(err, io.EOF) {
			body.Reader = strings.NewReader("")
			break
		}
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		body.Reader = r
		body.closers = append(body.closers, r)
	case "deflate":
		r, err := zlib.NewReader(rsp.Body)
		if errors.Is(err, io.EOF) {
			body.Reader = strings.NewReader("")
			break
		}
		if err != nil {
			return fmt.Errorf("deflate: %w", err)
		}
		body.Reader = r
		body.closers = append(body.closers, r)
	case "br":
		body.Reader = brotli.NewReader(rsp.Body)
	case "zstd":
		r, err := zstd.NewReader(rsp.Body)
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		rc := r.IOReadCloser()
		body.Reader = rc
		body.closers = append(body.closers, rc)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}

	rsp.Body = body
	rsp.Header.Del("Content-Encoding")
	rsp.Header.Del("Content-Length")
	rsp.ContentLength = -1
	rsp.Uncompressed = true

	return nil
}
