package push

import "fmt"

// Status classifies the outcome of one delivery attempt.
type Status uint8

const (
	// StatusDelivered means the server answered with a 2xx status.
	StatusDelivered Status = iota
	// StatusConnectFailed means the connection could not be established
	// or used; nothing was delivered.
	StatusConnectFailed
	// StatusTimeout means no usable response arrived inside the wait
	// window; the connection was closed and the push abandoned.
	StatusTimeout
	// StatusRejected means the server answered with a non-2xx status.
	StatusRejected
)

// String implements fmt.Stringer for log lines.
func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusConnectFailed:
		return "connect failed"
	case StatusTimeout:
		return "timeout"
	case StatusRejected:
		return "rejected by server"
	default:
		return fmt.Sprintf("unknown status %d", uint8(s))
	}
}

// Result is the outcome of a single connect, write, wait, classify, close
// cycle. It is transient: nothing outlives the Deliver call that produced it.
type Result struct {
	// Status classifies the attempt.
	Status Status
	// StatusDigit is the first digit of the HTTP status code when the
	// server rejected the push, zero otherwise.
	StatusDigit byte
	// Err carries the underlying failure for the log sink, if any.
	Err error
}

// Delivered reports whether the push was accepted by the server.
func (r Result) Delivered() bool {
	return r.Status == StatusDelivered
}

// String implements fmt.Stringer for log lines.
func (r Result) String() string {
	if r.Status == StatusRejected {
		return fmt.Sprintf("rejected by server (%cxx)", r.StatusDigit)
	}

	return r.Status.String()
}
