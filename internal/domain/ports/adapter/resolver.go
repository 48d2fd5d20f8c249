package adapter

import (
	"context"

	"telegram-igdl-bot/internal/cobalt"
)

// MediaResolver turns a page URL into downloadable media.
type MediaResolver interface {
	Dispatch(ctx context.Context, opts *cobalt.Options) (cobalt.Result, error)
}
