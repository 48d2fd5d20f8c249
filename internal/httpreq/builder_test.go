//go:build !integration

package httpreq

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func TestBuilderIsImmutable(t *testing.T) {
	base := New().URL("http://example.invalid").Headers([]string{"X-A: 1"})
	derived := base.Method("post").Headers([]string{"X-B: 2"}).Timeout(0)

	if got := base.method(); got != "GET" {
		t.Errorf("base method changed: %s", got)
	}
	if got := derived.method(); got != "POST" {
		t.Errorf("expected upper-cased POST, got %s", got)
	}
	if h := base.headers(); len(h) != 1 || h[0] != "X-A: 1" {
		t.Errorf("base headers changed: %v", h)
	}
	if base.timeout() != DefaultTimeout {
		t.Errorf("base timeout changed: %s", base.timeout())
	}
	if derived.timeout() != 0 {
		t.Errorf("expected unbounded timeout, got %s", derived.timeout())
	}
}

func TestDefaults(t *testing.T) {
	b := New()
	if b.flag(OptVerifyPeer, true) {
		t.Error("peer verification must be off by default")
	}
	if !b.flag(OptFollowRedirects, false) {
		t.Error("redirects must be followed by default")
	}
	if b.maxRedirects() != 10 {
		t.Errorf("expected 10 redirects, got %d", b.maxRedirects())
	}
	if b.httpVersion() != HTTP11 {
		t.Error("expected HTTP/1.1")
	}
	if b.BodyString("x").method() != "POST" {
		t.Error("a body without explicit method should POST")
	}
	if New().Option(OptTimeout, 5).timeout() != 5*time.Second {
		t.Error("integer timeout should be read as seconds")
	}
}

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Custom", r.Header.Get("X-Custom"))
		w.Header().Set("X-Proto", r.Proto)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	t.Run("returns body and status", func(t *testing.T) {
		resp, err := New().URL(srv.URL).Method("put").
			Headers([]string{"X-Custom: hello", "malformed line"}).
			BodyString(`{"a":1}`).
			Send(context.Background())
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if string(resp.Body) != `{"a":1}` {
			t.Errorf("unexpected body %q", resp.Body)
		}
		if resp.Header.Get("X-Method") != "PUT" {
			t.Errorf("expected PUT, got %q", resp.Header.Get("X-Method"))
		}
		if resp.Header.Get("X-Custom") != "hello" {
			t.Errorf("header not forwarded: %q", resp.Header.Get("X-Custom"))
		}
		if resp.Header.Get("X-Proto") != "HTTP/1.1" {
			t.Errorf("expected HTTP/1.1, got %q", resp.Header.Get("X-Proto"))
		}
	})

	t.Run("non-2xx is not an error", func(t *testing.T) {
		resp, err := New().URL(srv.URL + "/missing").Send(context.Background())
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestSendTLSWithoutVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer srv.Close()

	resp, err := New().URL(srv.URL).Send(context.Background())
	if err != nil {
		t.Fatalf("expected self-signed cert to be accepted, got %v", err)
	}
	if string(resp.Body) != "secure" {
		t.Errorf("unexpected body %q", resp.Body)
	}

	_, err = New().URL(srv.URL).VerifyPeer(true).Send(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Code != CodeTLS {
		t.Errorf("expected tls code, got %s", te.Code)
	}
}

func TestSendConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	_, err = New().URL("http://" + addr).Send(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Code != CodeConnect {
		t.Errorf("expected connect code, got %s (%v)", te.Code, te.Err)
	}
	if !IsTransport(err) {
		t.Error("IsTransport should report true")
	}
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	_, err := New().URL(srv.URL).Timeout(50 * time.Millisecond).Send(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if te.Code != CodeTimeout {
		t.Errorf("expected timeout code, got %s", te.Code)
	}
}

func TestRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/"))
		if n > 0 {
			http.Redirect(w, r, srv.URL+"/"+strconv.Itoa(n-1), http.StatusFound)
			return
		}
		_, _ = w.Write([]byte("landed"))
	}))
	defer srv.Close()

	resp, err := New().URL(srv.URL + "/3").Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "landed" {
		t.Errorf("expected to follow redirects, got %q", resp.Body)
	}

	_, err = New().URL(srv.URL + "/3").MaxRedirects(2).Send(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.Code != CodeRedirect {
		t.Fatalf("expected redirect error, got %v", err)
	}

	resp, err = New().URL(srv.URL + "/1").FollowRedirects(false).Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 when not following, got %d", resp.StatusCode)
	}
}

func TestResponseHeadersUsesHead(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		w.Header().Set("X-Media", "video")
		_, _ = w.Write([]byte("body"))
	}))
	defer srv.Close()

	lines, err := New().URL(srv.URL).Method("POST").ResponseHeaders(context.Background())
	if err != nil {
		t.Fatalf("ResponseHeaders failed: %v", err)
	}
	if len(methods) != 1 || methods[0] != http.MethodHead {
		t.Fatalf("expected a single HEAD request, got %v", methods)
	}
	if lines[0] != "HTTP/1.1 200 OK" {
		t.Errorf("unexpected status line %q", lines[0])
	}
	found := false
	for _, l := range lines {
		if l == "X-Media: video" {
			found = true
		}
	}
	if !found {
		t.Errorf("X-Media header missing from %v", lines)
	}
}

func TestExplicitEncodings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		switch {
		case strings.Contains(r.Header.Get("Accept-Encoding"), "br"):
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte("brotli payload"))
			_ = bw.Close()
		default:
			w.Header().Set("Content-Encoding", "gzip")
			gw := gzip.NewWriter(&buf)
			_, _ = gw.Write([]byte("gzip payload"))
			_ = gw.Close()
		}
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	resp, err := New().URL(srv.URL).Encoding("gzip", "deflate").Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "gzip payload" {
		t.Errorf("unexpected gzip body %q", resp.Body)
	}

	resp, err = New().URL(srv.URL).Encoding("br").Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if string(resp.Body) != "brotli payload" {
		t.Errorf("unexpected br body %q", resp.Body)
	}
}

func TestStream(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	s, err := New().URL(srv.URL).Timeout(0).Stream(context.Background())
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	defer s.Close()

	if s.ContentLength != int64(len(payload)) {
		t.Errorf("expected content length %d, got %d", len(payload), s.ContentLength)
	}
	got, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("stream body mismatch")
	}
}
