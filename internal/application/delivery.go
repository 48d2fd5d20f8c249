package application

import (
	"errors"
	"net/url"

	"telegram-igdl-bot/internal/domain"
	"telegram-igdl-bot/internal/httpreq"
)

// IsDeliveryError reports failures caused by the media source rather than by
// the bot: unreachable hosts, malformed URIs and error statuses on the media URL.
// These are shown to the user but not escalated to the report peers.
func IsDeliveryError(err error) bool {
	if err == nil {
		return false
	}
	if httpreq.IsTransport(err) || errors.Is(err, domain.ErrMediaUnavailable) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
