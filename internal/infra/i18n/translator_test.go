//go:build !integration

package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTranslator(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "test_fa.yaml")
	contentBytes := []byte("greeting: سلام\nwelcome_user: سلام %s\nprogress: \"%d%%\"")
	if err := os.WriteFile(filePath, contentBytes, 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	translator, err := newTranslatorFromBytes(contentBytes)
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		got := translator.T("greeting")
		want := "سلام"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		got := translator.T("nonexistent_key")
		want := "nonexistent_key"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		got := translator.T("welcome_user", "Ali")
		want := "سلام Ali"
		if got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should keep literal percent", func(t *testing.T) {
		if got := translator.T("progress", 40); got != "40%" {
			t.Errorf("wanted '40%%', got '%s'", got)
		}
	})
}

func TestEmbeddedLocalesShareKeys(t *testing.T) {
	fa, err := NewTranslator(LocalesFS, "fa")
	if err != nil {
		t.Fatalf("load fa: %v", err)
	}
	en, err := NewTranslator(LocalesFS, "en")
	if err != nil {
		t.Fatalf("load en: %v", err)
	}
	if fa.Lang() != "fa" {
		t.Errorf("wanted lang fa, got %s", fa.Lang())
	}
	for key := range fa.translations {
		if _, ok := en.translations[key]; !ok {
			t.Errorf("en locale is missing %q", key)
		}
	}
	if got := fa.T("invalid_link"); got != "لطفاً یک لینک معتبر ارسال کنید." {
		t.Errorf("unexpected invalid_link text %q", got)
	}
	if got := fa.T("upload_progress", 30); got != "پیشرفت آپلود: 30%" {
		t.Errorf("unexpected progress text %q", got)
	}
}

func TestNewTranslatorMissingLocale(t *testing.T) {
	if _, err := NewTranslator(LocalesFS, "xx"); err == nil {
		t.Fatal("expected error for missing locale")
	}
}
