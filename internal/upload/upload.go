// Package upload decodes the data-URL/base64 payloads that Element Send
// Keys accepts for <input type="file"> targets (a documented
// Selenium-compatible extension to W3C Send Keys) and hands the backend a
// path it can pass to SetFileInputFiles.
package upload

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// mimeExtTable maps the MIME types this module expects to see in a data URL
// header to their on-disk extension.
var mimeExtTable = map[string]string{
	"image/png":       ".png",
	"image/jpeg":       ".jpg",
	"image/gif":        ".gif",
	"image/webp":       ".webp",
	"application/pdf":  ".pdf",
	"text/plain":       ".txt",
}

// mimeToExt looks up the extension for a MIME type, defaulting to .bin for
// anything it doesn't recognize.
func mimeToExt(mime string) string {
	if ext, ok := mimeExtTable[mime]; ok {
		return ext
	}
	return ".bin"
}

// sniffExt inspects magic bytes when no MIME type is available, covering
// the handful of payload types this module's callers actually see in
// practice (image uploads and PDFs); anything else is ".bin".
func sniffExt(data []byte) string {
	switch {
	case len(data) >= 2 && data[0] == 0x89 && data[1] == 'P':
		return ".png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return ".jpg"
	case len(data) >= 6 && string(data[:6]) == "GIF89a" || len(data) >= 6 && string(data[:6]) == "GIF87a":
		return ".gif"
	case len(data) >= 4 && string(data[:4]) == "%PDF":
		return ".pdf"
	default:
		return ".bin"
	}
}

// decodeFileData decodes a data-URL ("data:<mime>;base64,<payload>") or a
// raw base64 string into its bytes and a best-guess file extension: the
// data URL's declared MIME type if present, else a magic-byte sniff.
func decodeFileData(input string) ([]byte, string, error) {
	if strings.HasPrefix(input, "data:") {
		comma := strings.IndexByte(input, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("malformed data URL: no comma separator")
		}
		header := input[len("data:"):comma]
		payload := input[comma+1:]

		mime := header
		if semi := strings.IndexByte(header, ';'); semi >= 0 {
			mime = header[:semi]
		}

		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64 payload: %w", err)
		}
		ext := mimeToExt(mime)
		if ext == ".bin" {
			ext = sniffExt(data)
		}
		return data, ext, nil
	}

	data, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64 payload: %w", err)
	}
	return data, sniffExt(data), nil
}

// SaveToTempFile decodes payload (a data URL or raw base64 string) and
// writes it to a fresh temp file, returning the path for
// Backend.SetFileInputFiles to hand to the host's file input.
func SaveToTempFile(payload string) (string, error) {
	data, ext, err := decodeFileData(payload)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "pinchtab-upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return f.Name(), nil
}
