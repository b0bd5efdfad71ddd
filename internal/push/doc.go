// Package push delivers notification events to the push service over a raw
// TLS socket with a hand-built HTTP/1.1 request.
//
// The wire handling is deliberately minimal (manual Content-Length
// arithmetic, manual status-line scan) and is isolated behind Client.Deliver
// so it could be swapped for a full HTTP client without touching the
// detector or the formatter.
package push
