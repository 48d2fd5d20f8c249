package httpreq

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Response is the outcome of a completed exchange. Any HTTP status counts as
// completed.
type Response struct {
	StatusCode  int
	Header      http.Header
	HeaderLines []string
	Body        []byte
}

// Stream is a response whose body has not been read yet. Close must be
// called; it releases the transport.
type Stream struct {
	StatusCode    int
	Header        http.Header
	ContentLength int64

	body    io.Reader
	closer  io.Closer
	release func()
}

func (s *Stream) Read(p []byte) (int, error) { return s.body.Read(p) }

func (s *Stream) Close() error {
	err := s.closer.Close()
	s.release()
	return err
}

// Send performs the exchange and buffers the response body.
func (b Builder) Send(ctx context.Context) (*Response, error) {
	resp, release, err := b.do(ctx, b.method())
	if err != nil {
		return nil, err
	}
	defer release()
	defer resp.Body.Close()

	rd, _, err := decodeBody(resp, b.str(OptEncoding) != "")
	if err != nil {
		return nil, newTransportError(b.str(OptURL), err)
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, newTransportError(b.str(OptURL), err)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		Header:      resp.Header,
		HeaderLines: headerLines(resp),
		Body:        data,
	}, nil
}

// Stream performs the exchange and hands the body back unread.
func (b Builder) Stream(ctx context.Context) (*Stream, error) {
	resp, release, err := b.do(ctx, b.method())
	if err != nil {
		return nil, err
	}
	rd, decoded, err := decodeBody(resp, b.str(OptEncoding) != "")
	if err != nil {
		resp.Body.Close()
		release()
		return nil, newTransportError(b.str(OptURL), err)
	}
	length := resp.ContentLength
	if decoded {
		length = -1
	}
	return &Stream{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		ContentLength: length,
		body:          rd,
		closer:        resp.Body,
		release:       release,
	}, nil
}

// ResponseHeaders performs a separate HEAD exchange and returns the status
// line followed by "Name: value" lines.
func (b Builder) ResponseHeaders(ctx context.Context) ([]string, error) {
	resp, release, err := b.do(ctx, http.MethodHead)
	if err != nil {
		return nil, err
	}
	defer release()
	defer resp.Body.Close()
	return headerLines(resp), nil
}

func (b Builder) do(ctx context.Context, method string) (*http.Response, func(), error) {
	rawURL := b.str(OptURL)

	tr, err := b.transport()
	if err != nil {
		return nil, nil, &TransportError{Code: CodeProxy, URL: rawURL, Err: err}
	}
	cancel := context.CancelFunc(func() {})
	if d := b.timeout(); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	}
	release := func() {
		cancel()
		tr.CloseIdleConnections()
	}

	var body io.Reader
	if p := b.body(); p != nil {
		body = bytes.NewReader(p)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		release()
		return nil, nil, &TransportError{Code: CodeRequest, URL: rawURL, Err: err}
	}
	applyHeaders(req, b.headers())
	if ua := b.str(OptUserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	if enc := b.str(OptEncoding); enc != "" {
		req.Header.Set("Accept-Encoding", enc)
	}

	client := &http.Client{Transport: tr, CheckRedirect: b.checkRedirect}
	resp, err := client.Do(req)
	if err != nil {
		release()
		return nil, nil, newTransportError(rawURL, err)
	}
	return resp, release, nil
}

func (b Builder) transport() (*http.Transport, error) {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: !b.flag(OptVerifyPeer, false)}, //nolint:gosec // opt-in verification
		DisableCompression:  b.str(OptEncoding) != "",
	}
	if b.httpVersion() == HTTP2 {
		tr.ForceAttemptHTTP2 = true
	} else {
		// a non-nil empty map disables the h2 upgrade
		tr.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}
	if p := b.str(OptProxy); p != "" {
		if !strings.Contains(p, "://") {
			p = "http://" + p
		}
		pu, err := url.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		tr.Proxy = http.ProxyURL(pu)
	}
	return tr, nil
}

func (b Builder) checkRedirect(_ *http.Request, via []*http.Request) error {
	if !b.flag(OptFollowRedirects, true) {
		return http.ErrUseLastResponse
	}
	if limit := b.maxRedirects(); len(via) > limit {
		return fmt.Errorf("maximum (%d) redirects followed: %w", limit, errTooManyRedirects)
	}
	return nil
}

func applyHeaders(req *http.Request, lines []string) {
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "Host") {
			req.Host = value
			continue
		}
		req.Header.Add(name, value)
	}
}

func headerLines(resp *http.Response) []string {
	lines := []string{resp.Proto + " " + resp.Status}
	for _, k := range slices.Sorted(maps.Keys(resp.Header)) {
		for _, v := range resp.Header[k] {
			lines = append(lines, k+": "+v)
		}
	}
	return lines
}
