package httpreq

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorCode classifies why an exchange could not complete.
type ErrorCode string

const (
	CodeDNS      ErrorCode = "dns"
	CodeConnect  ErrorCode = "connect"
	CodeTLS      ErrorCode = "tls"
	CodeTimeout  ErrorCode = "timeout"
	CodeRedirect ErrorCode = "redirect"
	CodeProxy    ErrorCode = "proxy"
	CodeCanceled ErrorCode = "canceled"
	CodeRequest  ErrorCode = "request"
	CodeOther    ErrorCode = "other"
)

var errTooManyRedirects = errors.New("too many redirects")

// TransportError reports an exchange that never produced an HTTP response.
type TransportError struct {
	Code ErrorCode
	URL  string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func newTransportError(rawURL string, err error) *TransportError {
	cause := err
	var ue *url.Error
	if errors.As(err, &ue) {
		cause = ue.Err
	}
	return &TransportError{Code: classify(err), URL: rawURL, Err: cause}
}

func classify(err error) ErrorCode {
	if errors.Is(err, errTooManyRedirects) {
		return CodeRedirect
	}
	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeDNS
	}

	var (
		certErr    *tls.CertificateVerificationError
		recErr     tls.RecordHeaderError
		unknownErr x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	if errors.As(err, &certErr) || errors.As(err, &recErr) || errors.As(err, &unknownErr) ||
		errors.As(err, &hostErr) || errors.As(err, &invalidErr) {
		return CodeTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case opErr.Op == "proxyconnect":
			return CodeProxy
		case opErr.Timeout():
			return CodeTimeout
		case opErr.Op == "dial":
			return CodeConnect
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}
	return CodeOther
}
