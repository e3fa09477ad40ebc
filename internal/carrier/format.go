package carrier

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format describes a lossless carrier format.
type Format struct {
	Name        string
	Extension   string
	ContentType string
	encode      func(io.Writer, image.Image) error
}

var formats = map[string]Format{
	"png": {
		Name:        "png",
		Extension:   ".png",
		ContentType: "image/png",
		encode:      png.Encode,
	},
	"bmp": {
		Name:        "bmp",
		Extension:   ".bmp",
		ContentType: "image/bmp",
		encode:      bmp.Encode,
	},
	"tiff": {
		Name:        "tiff",
		Extension:   ".tiff",
		ContentType: "image/tiff",
		encode: func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		},
	},
}

// DefaultFormat is used for images that were not decoded from a file.
const DefaultFormat = "png"

// LookupFormat returns the carrier format registered under name.
func LookupFormat(name string) (Format, bool) {
	f, ok := formats[strings.ToLower(name)]
	return f, ok
}

// FormatForPath guesses a carrier format from a file extension.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png":
		return formats["png"], true
	case ".bmp":
		return formats["bmp"], true
	case ".tif", ".tiff":
		return formats["tiff"], true
	}
	return Format{}, false
}

// Config reports the dimensions and format of encoded image data without decoding pixels.
func Config(data []byte) (image.Config, string, error) {
	return ConfigReader(bytes.NewReader(data))
}

// ConfigReader is Config for a stream. It reads only as far as the image header.
func ConfigReader(r io.Reader) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("reading image header: %v: %w", err, kerrors.ErrInvalidImage)
	}
	return cfg, format, nil
}

// ConfigFile reads the header of the carrier at path without loading the whole file.
func ConfigFile(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return image.Config{}, "", fmt.Errorf("%s: %w", path, kerrors.ErrFileNotFound)
		}
		return image.Config{}, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return ConfigReader(bufio.NewReader(f))
}

// Decode decodes a lossless carrier. maxPixels bounds width*height before any
// pixel data is allocated; zero disables the check.
func Decode(data []byte, maxPixels int) (*Image, error) {
	cfg, format, err := Config(data)
	if err != nil {
		return nil, err
	}

	if _, ok := formats[format]; !ok {
		return nil, fmt.Errorf("%s images are lossy or palette based and cannot carry a message: %w",
			strings.ToUpper(format), kerrors.ErrUnsupportedFormat)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no pixels: %w", kerrors.ErrInvalidImage)
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("image is %dx%d, larger than the %d pixel limit: %w",
			cfg.Width, cfg.Height, maxPixels, kerrors.ErrInvalidImage)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s image: %v: %w", format, err, kerrors.ErrInvalidImage)
	}

	img := FromImage(src)
	img.Format = format
	return img, nil
}

// Encode writes img in its source format, or PNG when it has none.
func Encode(w io.Writer, img *Image) error {
	name := img.Format
	if name == "" {
		name = DefaultFormat
	}
	f, ok := formats[name]
	if !ok {
		return fmt.Errorf("cannot encode %q: %w", name, kerrors.ErrUnsupportedFormat)
	}

	return f.encode(w, img.ToNRGBA())
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(img *Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads and decodes a carrier from disk.
func Load(path string, maxPixels int) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, kerrors.ErrFileNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	img, err := Decode(data, maxPixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Save encodes img and writes it to path with 0600 permissions.
func Save(path string, img *Image) error {
	data, err := EncodeBytes(img)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
