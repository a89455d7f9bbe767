package validation

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
)

// allowedImageTypes lists the screenshot formats accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// ValidateScreenshotContent sniffs the actual file content (magic
// bytes) and ensures it is one of the allowed image formats. The
// client-declared Content-Type header is not trusted. The read pointer
// is reset so the caller can store the full file afterwards.
func ValidateScreenshotContent(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}
	if n == 0 {
		return "", fmt.Errorf("file is empty")
	}

	detected := http.DetectContentType(buffer[:n])
	detected = strings.ToLower(strings.Split(detected, ";")[0])

	if !allowedImageTypes[detected] {
		logger.L.Warn("Screenshot rejected: disallowed content type", "detected", detected)
		return detected, fmt.Errorf("file type %q is not an allowed screenshot format", detected)
	}
	return detected, nil
}
