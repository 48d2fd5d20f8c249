// Package httpreq describes a single outbound HTTP exchange as an immutable
// value and performs it on demand.
//
// A Builder never owns a live connection. Every Send, Stream or
// ResponseHeaders call acquires a fresh transport and releases it before
// returning (or, for Stream, when the returned body is closed).
package httpreq

import (
	"maps"
	"strings"
	"time"
)

// OptionKey names a transport option. Setters on Builder are thin wrappers
// around Option with the matching key.
type OptionKey int

const (
	OptURL OptionKey = iota + 1
	OptMethod
	OptHeaders
	OptBody
	OptTimeout
	OptEncoding
	OptFollowRedirects
	OptMaxRedirects
	OptVerifyPeer
	OptProxy
	OptHTTPVersion
	OptUserAgent
)

// HTTPVersion selects the protocol the transport may negotiate.
type HTTPVersion int

const (
	HTTP11 HTTPVersion = iota + 1
	HTTP2
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
)

// Builder is a staged request specification. All methods return a modified
// copy; the receiver is never changed, so a configured Builder can be shared
// as a template.
type Builder struct {
	opts map[OptionKey]any
}

// New returns a Builder carrying the defaults: TLS peer verification off,
// transparent decompression, up to 10 redirects, 30s timeout, HTTP/1.1.
func New() Builder {
	return Builder{opts: map[OptionKey]any{
		OptMethod:          "",
		OptTimeout:         DefaultTimeout,
		OptEncoding:        "",
		OptFollowRedirects: true,
		OptMaxRedirects:    DefaultMaxRedirects,
		OptVerifyPeer:      false,
		OptHTTPVersion:     HTTP11,
	}}
}

// Option sets an arbitrary transport option. Values are not validated; a
// value of an unexpected type is kept but ignored by the transport.
func (b Builder) Option(key OptionKey, value any) Builder {
	opts := maps.Clone(b.opts)
	if opts == nil {
		opts = map[OptionKey]any{}
	}
	opts[key] = value
	return Builder{opts: opts}
}

// Headers replaces the request headers with raw "Name: value" lines.
func (b Builder) Headers(lines []string) Builder {
	return b.Option(OptHeaders, append([]string(nil), lines...))
}

// Timeout bounds the whole exchange. Zero means no bound.
func (b Builder) Timeout(d time.Duration) Builder { return b.Option(OptTimeout, d) }

func (b Builder) URL(u string) Builder { return b.Option(OptURL, u) }

func (b Builder) Method(m string) Builder { return b.Option(OptMethod, strings.ToUpper(m)) }

func (b Builder) Body(body []byte) Builder {
	return b.Option(OptBody, append([]byte(nil), body...))
}

func (b Builder) BodyString(body string) Builder { return b.Option(OptBody, []byte(body)) }

// Encoding sets the accepted content encodings (gzip, deflate, br). The
// response body is decoded accordingly.
func (b Builder) Encoding(encodings ...string) Builder {
	return b.Option(OptEncoding, strings.Join(encodings, ","))
}

func (b Builder) MaxRedirects(n int) Builder { return b.Option(OptMaxRedirects, n) }

func (b Builder) FollowRedirects(follow bool) Builder { return b.Option(OptFollowRedirects, follow) }

func (b Builder) VerifyPeer(verify bool) Builder { return b.Option(OptVerifyPeer, verify) }

// Proxy routes the exchange through the given proxy URL. A bare host:port is
// treated as an HTTP proxy.
func (b Builder) Proxy(proxy string) Builder { return b.Option(OptProxy, proxy) }

func (b Builder) UserAgent(ua string) Builder { return b.Option(OptUserAgent, ua) }

// Get returns the raw value stored for key.
func (b Builder) Get(key OptionKey) (any, bool) {
	v, ok := b.opts[key]
	return v, ok
}

func (b Builder) str(key OptionKey) string {
	s, _ := b.opts[key].(string)
	return s
}

func (b Builder) flag(key OptionKey, def bool) bool {
	if v, ok := b.opts[key].(bool); ok {
		return v
	}
	return def
}

func (b Builder) timeout() time.Duration {
	switch v := b.opts[OptTimeout].(type) {
	case time.Duration:
		return v
	case int: // seconds
		return time.Duration(v) * time.Second
	}
	return DefaultTimeout
}

func (b Builder) maxRedirects() int {
	if v, ok := b.opts[OptMaxRedirects].(int); ok {
		return v
	}
	return DefaultMaxRedirects
}

func (b Builder) httpVersion() HTTPVersion {
	if v, ok := b.opts[OptHTTPVersion].(HTTPVersion); ok {
		return v
	}
	return HTTP11
}

func (b Builder) headers() []string {
	h, _ := b.opts[OptHeaders].([]string)
	return h
}

func (b Builder) body() []byte {
	body, _ := b.opts[OptBody].([]byte)
	return body
}

func (b Builder) method() string {
	if m := b.str(OptMethod); m != "" {
		return m
	}
	if b.body() != nil {
		return "POST"
	}
	return "GET"
}
