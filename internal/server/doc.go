// Package server exposes the stego codec over HTTP.
//
// # Routes
//
//	GET  /          health
//	POST /hide      multipart image, message, password; returns the stego image
//	POST /extract   multipart image, password; returns {"success":true,"message":...}
//	GET  /capacity  ?width=&height=&message_bytes=
//	POST /capacity  multipart image, optional message
//	GET  /metrics   Prometheus
//
// /api/hide and /api/extract are accepted as aliases.
//
// # Errors
//
// Failures are JSON {"error":kind,"detail":text}. Capacity failures also carry
// capacity_bits and required_bits. A wrong password and a modified image
// produce the same authentication_failed response.
//
// # Concurrency
//
// Hide and extract run on a bounded Pool sized by server.max_concurrent.
// Each call is limited to server.request_timeout_seconds; a call that times out
// answers 504 immediately while its worker finishes in the background.
package server
