// Package notify maps panel status transitions to push-notification events.
//
// Format is a pure, total function over the closed topic set; Event is the
// immutable value carried from the detector to the delivery transports.
package notify
