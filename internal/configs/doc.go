// Package configs manages SecureHide configuration.
//
// Configuration is stored in TOML at $XDG_CONFIG_HOME/securehide/config.toml,
// or wherever SECUREHIDE_CONFIG points. A missing file means defaults; a
// partial file overrides only the keys it names.
//
// # Sections
//
//	[kdf]     Argon2id cost for new envelopes (time, memory_kib, threads)
//	[policy]  min_password_length, max_image_pixels
//	[server]  listen, max_concurrent, request_timeout_seconds,
//	          max_upload_bytes, allowed_origins
//
// KDF settings only affect hiding. Every envelope records the parameters it
// was sealed with, so changing them never breaks extraction of older images.
//
// Validate collects every problem into a single multierror so a user can fix
// the whole file in one pass.
package configs
