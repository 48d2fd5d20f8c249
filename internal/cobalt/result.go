package cobalt

import "encoding/json"

// Result is produced once per dispatch.
type Result struct {
	OK         bool
	StatusCode int
	// Payload is the raw JSON body on success. Its shape belongs to the API.
	Payload json.RawMessage
	// Text is the failure description when OK is false.
	Text string
}

type Kind int

const (
	KindUnknown Kind = iota
	KindSingle
	KindPicker
)

type PickerItem struct {
	Type  string `json:"type"` // video | photo
	URL   string `json:"url"`
	Thumb string `json:"thumb,omitempty"`
}

// Media is the part of a successful payload the bot acts on.
type Media struct {
	Status string       `json:"status"`
	URL    string       `json:"url"`
	Picker []PickerItem `json:"picker"`
}

func (m Media) Kind() Kind {
	switch {
	case m.URL != "":
		return KindSingle
	case len(m.Picker) > 0:
		return KindPicker
	}
	return KindUnknown
}

// Media decodes the payload. A payload that is not an object yields an
// empty Media whose Kind is KindUnknown.
func (r Result) Media() Media {
	var m Media
	if len(r.Payload) == 0 {
		return m
	}
	if err := json.Unmarshal(r.Payload, &m); err != nil {
		return Media{}
	}
	return m
}
