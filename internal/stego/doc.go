// Package stego hides password-protected messages in the low bits of carrier images.
//
// It is split along the three stages of the pipeline:
//
//   - Codec (Seal, Open): Argon2id key derivation and XChaCha20-Poly1305
//     authenticated encryption into a self-describing Envelope.
//   - Packer (Embed, Unpack): maps envelope bytes onto the R, G and B least
//     significant bits of a carrier.Image in row-major order.
//   - Operations (Hide, Reveal): run the stages in order, checking input
//     policy and capacity before key derivation and honouring context
//     cancellation between stages.
//
// # Envelope
//
// The envelope header carries the magic "SHD", a version byte, the Argon2id
// parameters, the salt, the nonce and a 32-bit ciphertext length. Header and
// tag add a fixed Overhead of 73 bytes, so
//
//	RequiredBits(len(message)) == (73 + len(message)) * 8
//
// exactly. The header is authenticated as associated data.
//
// # Errors
//
// Hide returns ErrInvalidInput or a *CapacityError before any crypto work.
// Reveal returns ErrTruncatedCarrier or ErrMalformedEnvelope when the image
// holds no envelope, and ErrAuthentication when the password is wrong or the
// carrier was modified.
//
// Everything here is stateless and safe for concurrent use. Derived keys are
// wiped before returning; callers own and wipe passwords.
package stego
