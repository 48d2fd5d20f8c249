//go:build !integration

package cobalt

import (
	"errors"
	"testing"
)

var boolKeys = []string{
	"isAudioOnly", "isTTFullAudio", "isAudioMuted",
	"dubLang", "disableMetadata", "twitterGif", "tiktokH265",
}

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions("https://www.instagram.com/p/abc/")
	p := o.Payload()

	want := map[string]any{
		"url":             "https://www.instagram.com/p/abc/",
		"vQuality":        "720",
		"filenamePattern": "classic",
		"vCodec":          "h264",
		"aFormat":         "mp3",
	}
	if len(p) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), p)
	}
	for k, v := range want {
		if p[k] != v {
			t.Errorf("%s: wanted %v, got %v", k, v, p[k])
		}
	}
	for _, k := range boolKeys {
		if _, ok := p[k]; ok {
			t.Errorf("default payload must not carry %s", k)
		}
	}
	if _, ok := o.AcceptLanguage(); ok {
		t.Error("accept-language should be unset by default")
	}
}

func TestSettersAcceptAllowedValues(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		key     string
		set     func(*Options, string) error
	}{
		{"quality", VideoQualities, "vQuality", (*Options).SetQuality},
		{"pattern", FilenamePatterns, "filenamePattern", (*Options).SetFilenamePattern},
		{"codec", VideoCodecs, "vCodec", (*Options).SetVideoCodec},
		{"audio", AudioFormats, "aFormat", (*Options).SetAudioFormat},
	}
	for _, tc := range cases {
		for _, v := range tc.allowed {
			t.Run(tc.name+"="+v, func(t *testing.T) {
				o := NewOptions("u")
				if err := tc.set(o, v); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got := o.Payload()[tc.key]; got != v {
					t.Errorf("payload %s: wanted %q, got %v", tc.key, v, got)
				}
			})
		}
	}
}

func TestSettersRejectDisallowedValues(t *testing.T) {
	o := NewOptions("u")
	if err := o.SetQuality("1080"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name  string
		call  func() error
		check func() string
		want  string
	}{
		{"quality", func() error { return o.SetQuality("4320") }, o.VideoQuality, "1080"},
		{"pattern", func() error { return o.SetFilenamePattern("fancy") }, o.FilenamePattern, "classic"},
		{"codec", func() error { return o.SetVideoCodec("hevc") }, o.VideoCodec, "h264"},
		{"audio", func() error { return o.SetAudioFormat("flac") }, o.AudioFormat, "mp3"},
		{"empty", func() error { return o.SetAudioFormat("") }, o.AudioFormat, "mp3"},
		{"case", func() error { return o.SetVideoCodec("AV1") }, o.VideoCodec, "h264"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if !errors.Is(err, ErrInvalidOption) {
				t.Fatalf("expected ErrInvalidOption, got %v", err)
			}
			var ioe *InvalidOptionError
			if !errors.As(err, &ioe) || ioe.Field == "" {
				t.Errorf("error should name the field: %v", err)
			}
			if got := tc.check(); got != tc.want {
				t.Errorf("value changed to %q, wanted %q", got, tc.want)
			}
		})
	}
}

func TestEnableFlags(t *testing.T) {
	enablers := map[string]func(*Options){
		"isAudioOnly":     (*Options).EnableAudioOnly,
		"isTTFullAudio":   (*Options).EnableTTFullAudio,
		"isAudioMuted":    (*Options).EnableAudioMuted,
		"dubLang":         (*Options).EnableDubLang,
		"disableMetadata": (*Options).EnableDisableMetadata,
		"twitterGif":      (*Options).EnableTwitterGif,
		"tiktokH265":      (*Options).EnableTiktokH265,
	}
	for key, enable := range enablers {
		t.Run(key, func(t *testing.T) {
			o := NewOptions("u")
			enable(o)
			p := o.Payload()
			if p[key] != true {
				t.Errorf("expected %s=true, got %v", key, p[key])
			}
			for _, other := range boolKeys {
				if other == key {
					continue
				}
				if _, ok := p[other]; ok {
					t.Errorf("unexpected key %s", other)
				}
			}
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		o := NewOptions("u")
		o.EnableAudioOnly()
		o.EnableAudioOnly()
		if o.Payload()["isAudioOnly"] != true {
			t.Error("second enable must not toggle the flag off")
		}
	})
}

func TestHeaders(t *testing.T) {
	o := NewOptions("u")
	if h := o.Headers(); len(h) != 2 {
		t.Fatalf("expected two headers, got %v", h)
	}
	o.SetAcceptLanguage("fa-IR")
	h := o.Headers()
	if len(h) != 3 || h[2] != "Accept-Language: fa-IR" {
		t.Errorf("unexpected headers %v", h)
	}
}
