package application

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
)

// maxUploadBytes mirrors the backend's image upload limit so oversized
// files are rejected before any bytes leave the machine.
const maxUploadBytes = 5 << 20

// CheckImageUpload validates an image file against the upload
// constraints: the name must carry an image MIME type and the file
// must not exceed 5 MiB.
func CheckImageUpload(filename string, size int64) error {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%s: not an image file", filepath.Base(filename))
	}
	if size > maxUploadBytes {
		return fmt.Errorf("%s: %d bytes exceeds the %d byte upload limit", filepath.Base(filename), size, maxUploadBytes)
	}
	return nil
}

// CheckRecordingURL validates a transcription download URL: absolute,
// http or https.
func CheckRecordingURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse recording url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("recording url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("recording url %q: missing host", raw)
	}
	return nil
}
