package cobalt

import "slices"

// Allowed values for the enumerated options.
var (
	VideoCodecs      = []string{"h264", "av1", "vp9"}
	VideoQualities   = []string{"max", "2160", "1440", "1080", "720", "480", "360", "240", "144"}
	AudioFormats     = []string{"best", "mp3", "ogg", "wav", "opus"}
	FilenamePatterns = []string{"classic", "pretty", "basic", "nerdy"}
)

const (
	DefaultVideoCodec      = "h264"
	DefaultVideoQuality    = "720"
	DefaultAudioFormat     = "mp3"
	DefaultFilenamePattern = "classic"
)

// Options describes one download request. It is built per incoming link,
// configured, dispatched once and then discarded.
type Options struct {
	sourceURL string

	videoCodec      string
	videoQuality    string
	audioFormat     string
	filenamePattern string

	audioOnly       bool
	ttFullAudio     bool
	audioMuted      bool
	dubLang         bool
	disableMetadata bool
	twitterGif      bool
	tiktokH265      bool

	acceptLanguage    string
	hasAcceptLanguage bool

	consumed bool
}

// NewOptions returns options for sourceURL with every other field at its
// default. The URL is not validated here.
func NewOptions(sourceURL string) *Options {
	return &Options{
		sourceURL:       sourceURL,
		videoCodec:      DefaultVideoCodec,
		videoQuality:    DefaultVideoQuality,
		audioFormat:     DefaultAudioFormat,
		filenamePattern: DefaultFilenamePattern,
	}
}

func (o *Options) SetQuality(q string) error {
	if !slices.Contains(VideoQualities, q) {
		return &InvalidOptionError{Field: "video quality", Value: q}
	}
	o.videoQuality = q
	return nil
}

func (o *Options) SetFilenamePattern(p string) error {
	if !slices.Contains(FilenamePatterns, p) {
		return &InvalidOptionError{Field: "filename pattern", Value: p}
	}
	o.filenamePattern = p
	return nil
}

func (o *Options) SetVideoCodec(c string) error {
	if !slices.Contains(VideoCodecs, c) {
		return &InvalidOptionError{Field: "video codec", Value: c}
	}
	o.videoCodec = c
	return nil
}

func (o *Options) SetAudioFormat(f string) error {
	if !slices.Contains(AudioFormats, f) {
		return &InvalidOptionError{Field: "audio format", Value: f}
	}
	o.audioFormat = f
	return nil
}

// SetAcceptLanguage overrides the Accept-Language header sent to the API.
func (o *Options) SetAcceptLanguage(lang string) {
	o.acceptLanguage = lang
	o.hasAcceptLanguage = true
}

func (o *Options) EnableAudioOnly()       { o.audioOnly = true }
func (o *Options) EnableTTFullAudio()     { o.ttFullAudio = true }
func (o *Options) EnableAudioMuted()      { o.audioMuted = true }
func (o *Options) EnableDubLang()         { o.dubLang = true }
func (o *Options) EnableDisableMetadata() { o.disableMetadata = true }
func (o *Options) EnableTwitterGif()      { o.twitterGif = true }
func (o *Options) EnableTiktokH265()      { o.tiktokH265 = true }

func (o *Options) SourceURL() string       { return o.sourceURL }
func (o *Options) VideoCodec() string      { return o.videoCodec }
func (o *Options) VideoQuality() string    { return o.videoQuality }
func (o *Options) AudioFormat() string     { return o.audioFormat }
func (o *Options) FilenamePattern() string { return o.filenamePattern }

// AcceptLanguage returns the override and whether one was set.
func (o *Options) AcceptLanguage() (string, bool) {
	return o.acceptLanguage, o.hasAcceptLanguage
}

// Payload is the JSON body sent to the API. The four enumerated fields are
// always present; boolean flags only appear when enabled.
func (o *Options) Payload() map[string]any {
	data := map[string]any{
		"url":             o.sourceURL,
		"vQuality":        o.videoQuality,
		"filenamePattern": o.filenamePattern,
		"vCodec":          o.videoCodec,
		"aFormat":         o.audioFormat,
	}
	flags := []struct {
		key string
		on  bool
	}{
		{"isAudioOnly", o.audioOnly},
		{"isTTFullAudio", o.ttFullAudio},
		{"isAudioMuted", o.audioMuted},
		{"dubLang", o.dubLang},
		{"disableMetadata", o.disableMetadata},
		{"twitterGif", o.twitterGif},
		{"tiktokH265", o.tiktokH265},
	}
	for _, f := range flags {
		if f.on {
			data[f.key] = true
		}
	}
	return data
}

// Headers are the request headers for this dispatch.
func (o *Options) Headers() []string {
	h := []string{
		"Accept: application/json",
		"Content-Type: application/json",
	}
	if o.hasAcceptLanguage {
		h = append(h, "Accept-Language: "+o.acceptLanguage)
	}
	return h
}
