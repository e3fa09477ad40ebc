package carrier

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

// BitsPerPixel is the number of payload bits each pixel carries (R, G and B LSBs).
const BitsPerPixel = 3

// Image is a decoded 8-bit raster in row-major RGB or RGBA order.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte

	// Format is the name of the format the image was decoded from ("png", "bmp", "tiff").
	// Empty for images built from raw buffers; Encode then defaults to PNG.
	Format string
}

// New wraps pix as an Image after checking it matches the given geometry.
func New(width, height, channels int, pix []byte) (*Image, error) {
	img := &Image{Width: width, Height: height, Channels: channels, Pix: pix}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate checks that Pix holds exactly Width*Height*Channels bytes of
// 3- or 4-channel data. Images built as literals should be validated before
// their pixels are indexed.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("no image: %w", kerrors.ErrInvalidImage)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d: %w", img.Width, img.Height, kerrors.ErrInvalidImage)
	}
	if img.Channels != 3 && img.Channels != 4 {
		return fmt.Errorf("image must have 3 or 4 channels, got %d: %w", img.Channels, kerrors.ErrInvalidImage)
	}
	if want := img.Width * img.Height * img.Channels; len(img.Pix) != want {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%dx%d: %w",
			len(img.Pix), want, img.Width, img.Height, img.Channels, kerrors.ErrInvalidImage)
	}
	return nil
}

// CapacityBits returns how many payload bits a width x height carrier holds.
func CapacityBits(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * BitsPerPixel
}

// CapacityBits returns the payload capacity of img.
func (img *Image) CapacityBits() int {
	return CapacityBits(img.Width, img.Height)
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	return &Image{
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Pix:      pix,
		Format:   img.Format,
	}
}

// FromImage copies src into a 4-channel Image.
//
// Pixels go through image.NRGBA, not image.RGBA, so colour values of
// translucent pixels are stored exactly rather than premultiplied.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Stride != w*4 || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	pix := make([]byte, w*h*4)
	copy(pix, nrgba.Pix)

	return &Image{Width: w, Height: h, Channels: 4, Pix: pix}
}

// ToNRGBA renders img as an image.NRGBA. Three-channel images get an opaque alpha.
func (img *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))

	if img.Channels == 4 {
		copy(out.Pix, img.Pix)
		return out
	}

	for i, j := 0, 0; i < len(img.Pix); i, j = i+3, j+4 {
		out.Pix[j+0] = img.Pix[i+0]
		out.Pix[j+1] = img.Pix[i+1]
		out.Pix[j+2] = img.Pix[i+2]
		out.Pix[j+3] = 0xff
	}
	return out
}

// At returns the colour of the pixel at (x, y).
func (img *Image) At(x, y int) color.NRGBA {
	idx := (y*img.Width + x) * img.Channels
	c := color.NRGBA{R: img.Pix[idx], G: img.Pix[idx+1], B: img.Pix[idx+2], A: 0xff}
	if img.Channels == 4 {
		c.A = img.Pix[idx+3]
	}
	return c
}
