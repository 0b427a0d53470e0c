// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package archiver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 4 << 10

// StylesheetHeader returns the headers of a stylesheet request.
func StylesheetHeader() http.Header {
	return http.Header{
		"Accept":          {"*/*"},
		"Accept-Encoding": {"gzip, deflate, br"},
	}
}

// FontHeader returns the headers of a font request.
func FontHeader() http.Header {
	return http.Header{
		"Accept":          {"*/*"},
		"Accept-Encoding": {"none"},
	}
}

// FetchStylesheet retrieves a stylesheet and returns its content.
// The response must have a successful status, a CSS content type
// and a non empty body.
func FetchStylesheet(ctx context.Context, client *http.Client, uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", ErrNoURL
	}
	if !isValidURL(uri) {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, uri)
	}

	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header = StylesheetHeader()

	rsp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s (%w)", ErrUnreachable, uri, err)
	}
	defer rsp.Body.Close() //nolint:errcheck

	if rsp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(rsp.Body, maxErrorBody))
		return "", &StatusError{Status: rsp.StatusCode, Body: string(body)}
	}

	if !containsFold(rsp.Header.Get("Content-Type"), "css") {
		return "", fmt.Errorf("%w: %s", ErrNotCSS, uri)
	}

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %s (%w)", ErrUnreachable, uri, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyBody, uri)
	}

	return string(data), nil
}
