package model

// InboundMessage is a text message delivered by the messaging platform.
type InboundMessage struct {
	ChatID    int64
	MessageID int
	SenderID  int64
	Username  string
	Private   bool
	Edited    bool
	Text      string
}

// SentMessage identifies a message the bot posted, for later edits.
type SentMessage struct {
	ChatID    int64
	MessageID int
}

// MediaKind selects how an upload is presented in the chat.
type MediaKind string

const (
	MediaDocument MediaKind = "document"
	MediaVideo    MediaKind = "video"
	MediaPhoto    MediaKind = "photo"
)
