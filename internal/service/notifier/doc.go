// Package notifier hosts the status change detector and the notification
// dispatch loop of the bridge.
//
// The detector consumes edge-triggered changed flags from the panel decoder
// once per processing cycle; detected transitions become events delivered by
// a single dispatch worker, so panel intake is never stalled by network
// waits and at most one delivery is in flight at a time.
package notifier
