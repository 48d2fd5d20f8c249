// Package cobalt is a client for the Cobalt media resolution API.
package cobalt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-igdl-bot/internal/httpreq"
	"telegram-igdl-bot/internal/infra/metrics"
)

const DefaultEndpoint = "https://api.cobalt.tools/api/json"

// Client dispatches Options to the API endpoint.
type Client struct {
	endpoint string
	base     httpreq.Builder
	log      *zerolog.Logger
}

// NewClient returns a client posting to endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string, logger *zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &Client{
		endpoint: endpoint,
		// resolution can legitimately take long server-side; callers bound it via ctx
		base: httpreq.New().URL(endpoint).Method("POST").Timeout(0),
		log:  logger,
	}
}

// Dispatch sends opts once and normalizes the reply. Transport and remote
// failures come back as a negative Result; only a non-JSON body is returned
// as an error (*DecodeError).
func (c *Client) Dispatch(ctx context.Context, opts *Options) (Result, error) {
	if opts.consumed {
		return Result{}, ErrOptionsConsumed
	}
	opts.consumed = true

	body, err := json.Marshal(opts.Payload())
	if err != nil {
		return Result{}, fmt.Errorf("encode payload: %w", err)
	}

	start := time.Now()
	resp, err := c.base.Headers(opts.Headers()).Body(body).Send(ctx)
	if err != nil {
		metrics.ObserveCobaltRequest("transport_error", time.Since(start))
		c.log.Warn().Err(err).Str("source", opts.SourceURL()).Msg("cobalt request failed")
		return Result{OK: false, Text: "Error in sending request. " + err.Error()}, nil
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		metrics.ObserveCobaltRequest("decode_error", time.Since(start))
		return Result{}, &DecodeError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == 200 {
		metrics.ObserveCobaltRequest("ok", time.Since(start))
		c.log.Debug().Str("source", opts.SourceURL()).Dur("elapsed", time.Since(start)).Msg("cobalt resolved")
		return Result{OK: true, StatusCode: resp.StatusCode, Payload: json.RawMessage(resp.Body)}, nil
	}

	metrics.ObserveCobaltRequest("remote_error", time.Since(start))
	text := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	if m, ok := decoded.(map[string]any); ok {
		if t, ok := m["text"].(string); ok {
			text = t
		}
	}
	c.log.Info().Int("status", resp.StatusCode).Str("text", text).Msg("cobalt rejected request")
	return Result{OK: false, StatusCode: resp.StatusCode, Text: text}, nil
}
