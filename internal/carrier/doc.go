// Package carrier holds the decoded raster that hidden messages are written into.
//
// An Image is a plain pixel buffer (width, height, 3 or 4 channels of 8 bits,
// row-major) so the stego codec can be exercised without any file format.
// Decode and Encode convert between that buffer and the lossless formats
// SecureHide accepts as carriers: PNG, BMP and TIFF. JPEG and GIF decode
// fine but are rejected, since re-encoding them would destroy the low bits.
//
// # Capacity
//
// Every pixel contributes one bit per colour channel, so
//
//	CapacityBits(w, h) == w * h * 3
//
// Alpha never carries payload.
package carrier
