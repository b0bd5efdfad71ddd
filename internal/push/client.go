package push

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/avolkoff/panelbridge/internal/logger"
	"github.com/avolkoff/panelbridge/internal/version"
)

const (
	// envelopePrefix and envelopeSuffix wrap the payload into the push
	// service's JSON body. Content-Length arithmetic below relies on
	// these exact constants, keep them in lock-step.
	envelopePrefix = `{"body":"`
	envelopeSuffix = `","type":"note"}`

	// envelopeOverhead is the byte cost of the envelope around the payload.
	envelopeOverhead = len(envelopePrefix) + len(envelopeSuffix)

	// requestPath is the push service endpoint.
	requestPath = "/v2/pushes"

	// DefaultResponseTimeout bounds the wait for the response, measured
	// once from the start of the wait.
	DefaultResponseTimeout = 3000 * time.Millisecond

	// maxStatusLineScan caps the bytes skipped while looking for the
	// space after the HTTP version token, so a malformed status line
	// cannot soak an unbounded stream.
	maxStatusLineScan = 512

	// maxResponseBytes caps how much of the response is drained or
	// surfaced for diagnostics.
	maxResponseBytes = 64 << 10
)

// errMalformedStatusLine is returned when no space-delimited status code
// shows up within the scan cap.
var errMalformedStatusLine = errors.New("malformed status line")

// Dialer opens the raw encrypted connection for a delivery attempt.
// It is injectable for tests.
type Dialer func(ctx context.Context, network, address string) (net.Conn, error)

// Client performs single-attempt push deliveries. Each call to Deliver opens
// one connection, writes one request, waits for the status line and closes
// the connection on every exit path. Connections are never pooled or reused.
type Client struct {
	// host is the push service hostname, also sent as the Host header.
	host string
	// port is the TLS port of the push service.
	port uint16
	// accessToken is the opaque credential for the Access-Token header.
	accessToken string
	// userAgent is sent as the User-Agent header.
	userAgent string
	// responseTimeout bounds the response wait and the status-line scan.
	responseTimeout time.Duration
	// dial opens the connection; defaults to a TLS dialer.
	dial Dialer
}

// Option configures client behaviour.
type Option func(*Client)

// WithResponseTimeout overrides the response wait bound.
func WithResponseTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.responseTimeout = timeout
		}
	}
}

// WithDialer overrides how connections are opened.
func WithDialer(dial Dialer) Option {
	return func(c *Client) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// New returns a client for the given push endpoint and credential.
func New(host string, port uint16, accessToken string, opts ...Option) *Client {
	client := &Client{
		host:            host,
		port:            port,
		accessToken:     accessToken,
		userAgent:       "panelbridge/" + version.Short(),
		responseTimeout: DefaultResponseTimeout,
		dial:            dialTLS,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// dialTLS is the production dialer.
func dialTLS(ctx context.Context, network, address string) (net.Conn, error) {
	var d tls.Dialer

	return d.DialContext(ctx, network, address)
}

// Deliver performs one connect, write, wait, classify, close cycle for the
// given payload. The payload must already be escaped for embedding in a JSON
// string (see notify.Escape). Failures are classified, never retried.
func (c *Client) Deliver(ctx context.Context, payload string) Result {
	address := net.JoinHostPort(c.host, strconv.FormatUint(uint64(c.port), 10))

	conn, err := c.dial(ctx, "tcp", address)
	if err != nil {
		return Result{
			Status: StatusConnectFailed,
			Err:    fmt.Errorf("connect %s: %w", address, err),
		}
	}

	defer func() {
		_ = conn.Close()
	}()

	if err = c.writeRequest(conn, payload); err != nil {
		return Result{Status: StatusConnectFailed, Err: err}
	}

	// One wall-clock deadline, taken at the start of the wait, covers both
	// the wait for the first response byte and the status-line scan.
	_ = conn.SetReadDeadline(time.Now().Add(c.responseTimeout))

	response := bufio.NewReader(conn)

	digit, err := readStatusDigit(response)
	if err != nil {
		return Result{Status: StatusTimeout, Err: err}
	}

	if digit == '2' {
		// Leave no residue on the socket before closing.
		_, _ = io.Copy(io.Discard, io.LimitReader(response, maxResponseBytes))

		return Result{Status: StatusDelivered}
	}

	// Surface the raw server response for diagnostics before closing.
	rest, _ := io.ReadAll(io.LimitReader(response, maxResponseBytes))
	logger.WarnKV(ctx, "Server response",
		"status_digit", string(digit),
		"response", string(rest))

	return Result{Status: StatusRejected, StatusDigit: digit}
}

// writeRequest writes the full HTTP/1.1 request. The declared Content-Length
// and the body bytes written both derive from envelopeOverhead plus the
// payload length, so they cannot drift apart.
func (c *Client) writeRequest(conn net.Conn, payload string) error {
	contentLength := envelopeOverhead + len(payload)

	var head strings.Builder

	fmt.Fprintf(&head, "POST %s HTTP/1.1\r\n", requestPath)
	fmt.Fprintf(&head, "Host: %s\r\n", c.host)
	fmt.Fprintf(&head, "User-Agent: %s\r\n", c.userAgent)
	head.WriteString("Accept: */*\r\n")
	head.WriteString("Content-Type: application/json\r\n")
	fmt.Fprintf(&head, "Content-Length: %d\r\n", contentLength)
	fmt.Fprintf(&head, "Access-Token: %s\r\n", c.accessToken)
	head.WriteString("\r\n")
	head.WriteString(envelopePrefix)

	// Head with the envelope prefix, then the message, then the suffix.
	for _, chunk := range []string{head.String(), payload, envelopeSuffix} {
		if _, err := io.WriteString(conn, chunk); err != nil {
			return fmt.Errorf("write request: %w", err)
		}
	}

	return nil
}

// readStatusDigit skips the HTTP version token of the status line and
// returns the first digit of the status code.
func readStatusDigit(response *bufio.Reader) (byte, error) {
	for scanned := 0; ; scanned++ {
		if scanned >= maxStatusLineScan {
			return 0, errMalformedStatusLine
		}

		b, err := response.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("await response: %w", err)
		}

		if b == ' ' {
			break
		}
	}

	digit, err := response.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("read status code: %w", err)
	}

	return digit, nil
}
