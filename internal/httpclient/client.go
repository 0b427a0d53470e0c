// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

// Package httpclient is fontgrab's own HTTP client.
// It provides an [http.RoundTripper] with default headers that
// make outgoing requests look like they come from a browser.
package httpclient

import (
	"context"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// LevelTrace is the log level of request details.
const LevelTrace = slog.LevelDebug - 10

// UserAgent is the default User-Agent header value.
const UserAgent = "Mozilla/5.0 AppleWebKit/537.36 Chrome/104.0.0.0 Safari/537.36"

type ctxProxyURLKey struct{}

// defaultDialer is our own default net.Dialer with shorter timeout and keepalive.
var defaultDialer = net.Dialer{
	Timeout:   15 * time.Second,
	KeepAlive: 30 * time.Second,
}

// defaultTransport is our http.RoundTripper with some custom settings.
var defaultTransport = &http.Transport{
	DialContext:           defaultDialer.DialContext,
	Proxy:                 proxyMatcher,
	ForceAttemptHTTP2:     true,
	DisableKeepAlives:     false,
	MaxIdleConns:          10,
	MaxIdleConnsPerHost:   1,
	IdleConnTimeout:       30 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// defaultHeaders are the HTTP headers that are sent with every new request.
// They're attached to the transport and can be overridden and/or modified
// while using the associated client.
var defaultHeaders = http.Header{
	"User-Agent":      []string{UserAgent},
	"Accept":          []string{"*/*"},
	"Accept-Language": []string{"en-US,en;q=0.9"},
	"Cache-Control":   []string{"no-cache"},
	"Connection":      []string{"keep-alive"},
}

func proxyMatcher(req *http.Request) (*url.URL, error) {
	u, err := http.ProxyFromEnvironment(req)
	if u != nil {
		*req = *(req.WithContext(context.WithValue(req.Context(), ctxProxyURLKey{}, u)))
	}

	return u, err
}

// Transport wraps an [http.RoundTripper].
type Transport struct {
	http.RoundTripper
	header http.Header
	logger *slog.Logger
}

// RoundTrip implements [http.RoundTripper].
// It adds default headers, decodes compressed responses and
// logs (trace level) every request.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	// A RoundTripper should not modify the request. Since we only want to add
	// headers, we can work with a shallow copy.
	req := new(http.Request)
	*req = *r
	req.Header = req.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	// Add the client's default headers that don't exist in the
	// current request.
	for k, values := range t.header {
		if _, ok := r.Header[textproto.CanonicalMIMEHeaderKey(k)]; !ok {
			req.Header[k] = values
		}
	}

	attrs := []slog.Attr{
		slog.Group("request",
			slog.String("url", req.URL.String()),
			slog.String("method", req.Method),
			slog.Any("headers", req.Header),
		),
	}

	now := time.Now()
	rsp, err := t.RoundTripper.RoundTrip(req)

	if p, ok := req.Context().Value(ctxProxyURLKey{}).(*url.URL); ok {
		t.Log().Debug("using proxy",
			slog.Any("domain", req.URL.Host),
			slog.Any("proxy", p.String()),
		)
	}

	if err == nil {
		err = decodeBody(rsp)
		if err != nil {
			rsp.Body.Close() //nolint:errcheck
			rsp = nil
		}
	}

	if err != nil {
		attrs = append(attrs, slog.Group("response",
			slog.Any("err", err),
		))
	} else {
		attrs = append(attrs, slog.Group("response",
			slog.Int("status", rsp.StatusCode),
			slog.Any("headers", rsp.Header),
		))
	}
	attrs = append(attrs, slog.Duration("time", time.Since(now)))
	t.Log().LogAttrs(context.Background(), LevelTrace, "request", attrs...)

	return rsp, err
}

// Log returns the transport's logger.
func (t *Transport) Log() *slog.Logger {
	return t.logger
}

// SetLogger sets the transport's logger.
func (t *Transport) SetLogger(l *slog.Logger) {
	t.logger = l
}

// Header returns a copy of the transport's default headers.
func (t *Transport) Header() http.Header {
	return t.header.Clone()
}

// SetHeader receives a function that can manipulate the
// transport's default headers.
func (t *Transport) SetHeader(fn func(h http.Header)) {
	fn(t.header)
}

// New returns a new client with an empty cookie storage and a [Transport] instance.
// The client has no timeout.
func New() *http.Client {
	cookies, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &http.Client{
		Transport: &Transport{
			RoundTripper: defaultTransport.Clone(),
			header:       maps.Clone(defaultHeaders),
			logger:       slog.Default(),
		},
		Jar: cookies,
	}
}
