// Package intake validates uploaded medical images before they are sent
// anywhere. Nothing is resized or normalized here; the payload that comes
// out is byte-for-byte the upload that came in.
package intake

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("image could not be decoded")
)

// formatByExt maps a claimed file extension to the decoder format name
// reported by image.DecodeConfig.
var formatByExt = map[string]string{
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".png":  "png",
	".bmp":  "bmp",
	".gif":  "gif",
}

var mimeByFormat = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"bmp":  "image/bmp",
	"gif":  "image/gif",
}

// Payload is a validated upload. It lives for the duration of one request.
type Payload struct {
	Data   []byte
	Format string
	MIME   string
	Width  int
	Height int
}

// SupportedExtensions returns the accepted upload extensions in a stable order.
func SupportedExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}
}

// Read validates raw upload bytes against the claimed filename. The extension
// must be in the supported set and the bytes must actually decode as that
// format with non-zero dimensions.
func Read(filename string, data []byte) (*Payload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	claimed, ok := formatByExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions(), ", "))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if format != claimed {
		return nil, fmt.Errorf("%w: content is %s but filename claims %s", ErrDecode, format, claimed)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: image has zero dimensions", ErrDecode)
	}

	return &Payload{
		Data:   data,
		Format: format,
		MIME:   mimeByFormat[format],
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
