// Package mqtt mirrors notification events to an MQTT broker so other home
// automation consumers can react to panel status transitions.
//
// The mirror is optional and fire-and-forget: publish failures are surfaced
// to the log sink and never block or retry, matching the delivery stance of
// the push transport.
package mqtt
