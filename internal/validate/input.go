package validate

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/veritas/internal/model"
)

// MinWords is the shortest text accepted for analysis
const MinWords = 10

// Error is a user-input validation failure. Message is shown to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidationError reports whether err carries a *Error
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Supported upload types
var (
	ImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
	VideoTypes = []string{"video/mp4", "video/quicktime"}
)

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".qt":   "video/quicktime",
}

// Text validates pasted article text and returns it trimmed
func Text(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Field: "text", Message: "Please enter some text to analyze"}
	}
	if CountWords(text) < MinWords {
		return "", &Error{Field: "text", Message: "Please enter at least 10 words for accurate analysis"}
	}
	return text, nil
}

// CountWords counts whitespace-separated words
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// URL validates an article URL and returns it trimmed
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &Error{Field: "url", Message: "Please enter a URL to analyze"}
	}
	if !IsValidURL(raw) {
		return "", &Error{Field: "url", Message: "Please enter a valid URL"}
	}
	return raw, nil
}

// IsValidURL accepts absolute URLs with a scheme and a host
func IsValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// MediaFile validates a selected upload and describes it.
// maxBytes <= 0 disables the size check.
func MediaFile(path string, maxBytes int64) (model.MediaFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.MediaFile{}, &Error{Field: "file", Message: "Please select a file to analyze"}
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return model.MediaFile{}, &Error{Field: "file", Message: "Please select a file to analyze"}
	}

	contentType, err := DetectContentType(path)
	if err != nil {
		return model.MediaFile{}, fmt.Errorf("detect content type: %w", err)
	}
	if !IsSupportedType(contentType) {
		return model.MediaFile{}, &Error{
			Field:   "file",
			Message: "Please select a valid image (JPEG, PNG, WebP) or video (MP4, MOV) file",
		}
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		return model.MediaFile{}, &Error{Field: "file", Message: "File too large"}
	}

	return model.MediaFile{
		Path:        path,
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

// DetectContentType resolves the MIME type from the extension, falling back
// to sniffing the first 512 bytes.
func DetectContentType(path string) (string, error) {
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "application/octet-stream", nil
	}

	ct := http.DetectContentType(buf[:n])
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return ct, nil
}

// IsSupportedType reports whether the MIME type is an accepted image or video
func IsSupportedType(contentType string) bool {
	for _, t := range ImageTypes {
		if t == contentType {
			return true
		}
	}
	for _, t := range VideoTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
