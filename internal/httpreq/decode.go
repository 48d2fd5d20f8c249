package httpreq

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// decodeBody wraps the response body according to Content-Encoding when the
// caller asked for explicit encodings. Without them the transport already
// handled gzip transparently.
func decodeBody(resp *http.Response, explicit bool) (io.Reader, bool, error) {
	if !explicit {
		return resp.Body, false, nil
	}
	enc := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch enc {
	case "", "identity":
		return resp.Body, false, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("gzip: %w", err)
		}
		return zr, true, nil
	case "deflate":
		// servers disagree on zlib-wrapped vs raw deflate
		br := bufio.NewReader(resp.Body)
		if hdr, err := br.Peek(2); err == nil && isZlibHeader(hdr) {
			zr, err := zlib.NewReader(br)
			if err != nil {
				return nil, false, fmt.Errorf("deflate: %w", err)
			}
			return zr, true, nil
		}
		return flate.NewReader(br), true, nil
	case "br":
		return brotli.NewReader(resp.Body), true, nil
	}
	return nil, false, fmt.Errorf("unsupported content encoding %q", enc)
}

func isZlibHeader(h []byte) bool {
	return h[0]&0x0f == 8 && (uint16(h[0])<<8|uint16(h[1]))%31 == 0
}
