package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/username/tradejournal/backend/src/logger"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func init() {
	logger.InitLogger("error")
}

func TestValidateScreenshotContent(t *testing.T) {
	t.Run("png accepted", func(t *testing.T) {
		file := bytes.NewReader(append(pngHeader, make([]byte, 64)...))
		detected, err := ValidateScreenshotContent(file)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detected != "image/png" {
			t.Errorf("detected %q, want image/png", detected)
		}
	})

	t.Run("gif accepted", func(t *testing.T) {
		file := bytes.NewReader(append([]byte("GIF89a"), make([]byte, 64)...))
		if _, err := ValidateScreenshotContent(file); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("declared type is ignored", func(t *testing.T) {
		// An executable renamed to .png is still rejected.
		file := bytes.NewReader([]byte("MZ\x90\x00 definitely not an image"))
		if _, err := ValidateScreenshotContent(file); err == nil {
			t.Fatal("non-image content accepted")
		}
	})

	t.Run("plain text rejected", func(t *testing.T) {
		file := bytes.NewReader([]byte("hello world"))
		if _, err := ValidateScreenshotContent(file); err == nil {
			t.Fatal("text content accepted")
		}
	})

	t.Run("empty file rejected", func(t *testing.T) {
		if _, err := ValidateScreenshotContent(bytes.NewReader(nil)); err == nil {
			t.Fatal("empty file accepted")
		}
	})

	t.Run("read pointer reset", func(t *testing.T) {
		payload := append(pngHeader, make([]byte, 64)...)
		file := bytes.NewReader(payload)
		if _, err := ValidateScreenshotContent(file); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rest, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("reading after validation: %v", err)
		}
		if !bytes.Equal(rest, payload) {
			t.Errorf("read pointer not reset: got %d of %d bytes", len(rest), len(payload))
		}
	})
}
