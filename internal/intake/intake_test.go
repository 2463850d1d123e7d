package intake

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := testImage(w, h)
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	default:
		t.Fatalf("unknown format %q", format)
	}
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestReadAcceptsAllSupportedFormats(t *testing.T) {
	cases := []struct {
		filename string
		format   string
		mime     string
	}{
		{"scan.jpg", "jpeg", "image/jpeg"},
		{"scan.jpeg", "jpeg", "image/jpeg"},
		{"scan.png", "png", "image/png"},
		{"scan.bmp", "bmp", "image/bmp"},
		{"scan.gif", "gif", "image/gif"},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			data := encode(t, tc.format, 32, 24)
			payload, err := Read(tc.filename, data)
			assert.NoError(t, err)
			assert.Equal(t, tc.format, payload.Format)
			assert.Equal(t, tc.mime, payload.MIME)
			assert.Equal(t, 32, payload.Width)
			assert.Equal(t, 24, payload.Height)
			assert.Equal(t, data, payload.Data, "payload bytes must be unchanged")
		})
	}
}

func TestReadRejectsUnsupportedExtension(t *testing.T) {
	for _, filename := range []string{"scan.tiff", "scan.webp", "scan.txt", "scan"} {
		t.Run(filename, func(t *testing.T) {
			_, err := Read(filename, encode(t, "png", 8, 8))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.Contains(t, err.Error(), ".png", "error must name the supported set")
		})
	}
}

func TestReadRejectsUndecodableContent(t *testing.T) {
	// A text file renamed to .png must fail at decode, regardless of extension.
	for _, ext := range SupportedExtensions() {
		t.Run(ext, func(t *testing.T) {
			_, err := Read("report"+ext, []byte("this is not an image at all"))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestReadRejectsFormatMismatch(t *testing.T) {
	// Decodable content whose real format differs from the claimed one.
	_, err := Read("scan.jpg", encode(t, "png", 8, 8))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Read("scan.gif", encode(t, "bmp", 8, 8))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestReadAccepts512PNG(t *testing.T) {
	payload, err := Read("chest-xray.png", encode(t, "png", 512, 512))
	assert.NoError(t, err)
	assert.Equal(t, 512, payload.Width)
	assert.Equal(t, 512, payload.Height)
}
