package stego

import (
	"fmt"

	"github.com/PolarWolf314/securehide/internal/carrier"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

// Payload bits are laid out in a fixed traversal shared by Embed and Unpack:
// pixels in row-major order, channels R then G then B (alpha skipped), and the
// bits of every byte most significant first. Bit i of the stream therefore
// lives in the low bit of channel i%3 of pixel i/3.

// channelOffset returns the Pix index holding stream bit i.
func channelOffset(img *carrier.Image, i int) int {
	return (i/carrier.BitsPerPixel)*img.Channels + i%carrier.BitsPerPixel
}

// Embed writes data into the low bits of a copy of img and returns the copy.
//
// Returns a *CapacityError before touching any pixel when data needs more bits
// than img provides, and ErrInvalidImage when img's buffer does not match its geometry.
func Embed(img *carrier.Image, data []byte) (*carrier.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	capacity := img.CapacityBits()
	required := len(data) * 8
	if required > capacity {
		return nil, &kerrors.CapacityError{CapacityBits: capacity, RequiredBits: required}
	}

	out := img.Clone()
	for i := 0; i < required; i++ {
		bit := (data[i/8] >> (7 - uint(i%8))) & 1
		idx := channelOffset(out, i)
		out.Pix[idx] = (out.Pix[idx] &^ 1) | bit
	}
	return out, nil
}

// readBits reassembles n bytes starting at stream bit offset start.
func readBits(img *carrier.Image, start, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n*8; i++ {
		bit := img.Pix[channelOffset(img, start+i)] & 1
		out[i/8] |= bit << (7 - uint(i%8))
	}
	return out
}

// Unpack extracts the envelope bytes embedded in img.
//
// It reads the fixed-size header first, then exactly as many further bytes as
// the header's length prefix declares. Images that are too small for the header
// or for the declared length return ErrTruncatedCarrier; images whose header is
// not an envelope return ErrMalformedEnvelope. Inconsistent images return ErrInvalidImage.
func Unpack(img *carrier.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	capacity := img.CapacityBits()
	if capacity < HeaderBits {
		return nil, fmt.Errorf("carrier holds %d bits, envelope header needs %d: %w",
			capacity, HeaderBits, kerrors.ErrTruncatedCarrier)
	}

	header := readBits(img, 0, HeaderSize)
	h, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}

	total := h.Size()
	if total*8 > uint64(capacity) {
		return nil, fmt.Errorf("envelope declares %d bits, carrier holds %d: %w",
			total*8, capacity, kerrors.ErrTruncatedCarrier)
	}

	body := readBits(img, HeaderBits, int(total)-HeaderSize)
	return append(header, body...), nil
}
