package push

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pipeDialer returns a Dialer handing out the provided connection.
func pipeDialer(conn net.Conn) Dialer {
	return func(_ context.Context, _, _ string) (net.Conn, error) {
		return conn, nil
	}
}

// capturedRequest is what the scripted server saw on the wire.
type capturedRequest struct {
	head string
	body string
	err  error
}

// readRequest consumes one HTTP request from the connection: the head up to
// the blank line, then exactly Content-Length body bytes.
func readRequest(conn net.Conn) capturedRequest {
	reader := bufio.NewReader(conn)

	var head strings.Builder

	for !strings.HasSuffix(head.String(), "\r\n\r\n") {
		b, err := reader.ReadByte()
		if err != nil {
			return capturedRequest{err: err}
		}

		head.WriteByte(b)
	}

	contentLength := 0

	for _, line := range strings.Split(head.String(), "\r\n") {
		if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			contentLength, _ = strconv.Atoi(v)
		}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		return capturedRequest{err: err}
	}

	return capturedRequest{head: head.String(), body: string(body)}
}

// serveOnce reads one request, waits, writes the response and closes the
// server side of the connection.
func serveOnce(conn net.Conn, delay time.Duration, response string) <-chan capturedRequest {
	requests := make(chan capturedRequest, 1)

	go func() {
		defer func() {
			_ = conn.Close()
		}()

		request := readRequest(conn)
		requests <- request

		if request.err != nil {
			return
		}

		if delay > 0 {
			time.Sleep(delay)
		}

		if response != "" {
			_, _ = io.WriteString(conn, response)
		}
	}()

	return requests
}

// TestDeliverStatusClassification maps response status lines to results.
func TestDeliverStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		response  string
		want      Status
		wantDigit byte
	}{
		{"ok", "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", StatusDelivered, 0},
		{"no content", "HTTP/1.1 204 No Content\r\n\r\n", StatusDelivered, 0},
		{"unauthorized", "HTTP/1.1 401 Unauthorized\r\n\r\n", StatusRejected, '4'},
		{"server error", "HTTP/1.1 500 Internal Server Error\r\n\r\n", StatusRejected, '5'},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clientConn, serverConn := net.Pipe()
			serveOnce(serverConn, 0, tc.response)

			client := New("push.test", 443, "o.token",
				WithDialer(pipeDialer(clientConn)),
				WithResponseTimeout(time.Second))

			result := client.Deliver(context.Background(), "hello")
			require.Equal(t, tc.want, result.Status)
			require.Equal(t, tc.wantDigit, result.StatusDigit)
			require.Equal(t, tc.want == StatusDelivered, result.Delivered())
		})
	}
}

// TestDeliverRequestWire checks the request framing and the Content-Length
// lock-step for the reference payload.
func TestDeliverRequestWire(t *testing.T) {
	t.Parallel()

	clientConn, serverConn := net.Pipe()
	requests := serveOnce(serverConn, 0, "HTTP/1.1 200 OK\r\n\r\n")

	client := New("push.test", 443, "o.token",
		WithDialer(pipeDialer(clientConn)),
		WithResponseTimeout(time.Second))

	payload := "Security system in alarm"
	result := client.Deliver(context.Background(), payload)
	require.Equal(t, StatusDelivered, result.Status)

	request := <-requests
	require.NoError(t, request.err)

	require.True(t, strings.HasPrefix(request.head, "POST /v2/pushes HTTP/1.1\r\n"))
	require.Contains(t, request.head, "Host: push.test\r\n")
	require.Contains(t, request.head, "Accept: */*\r\n")
	require.Contains(t, request.head, "Content-Type: application/json\r\n")
	require.Contains(t, request.head, "Access-Token: o.token\r\n")

	// The declared length equals envelope overhead plus the payload and
	// matches the body bytes actually written.
	wantLength := envelopeOverhead + len(payload)
	require.Contains(t, request.head, "Content-Length: "+strconv.Itoa(wantLength)+"\r\n")
	require.Equal(t, `{"body":"Security system in alarm","type":"note"}`, request.body)
	require.Len(t, request.body, wantLength)
}

// TestDeliverEmptyPayload sends a notification with an empty body.
func TestDeliverEmptyPayload(t *testing.T) {
	t.Parallel()

	clientConn, serverConn := net.Pipe()
	requests := serveOnce(serverConn, 0, "HTTP/1.1 200 OK\r\n\r\n")

	client := New("push.test", 443, "o.token",
		WithDialer(pipeDialer(clientConn)),
		WithResponseTimeout(time.Second))

	result := client.Deliver(context.Background(), "")
	require.Equal(t, StatusDelivered, result.Status)

	request := <-requests
	require.NoError(t, request.err)
	require.Equal(t, `{"body":"","type":"note"}`, request.body)
	require.Contains(t, request.head, "Content-Length: "+strconv.Itoa(envelopeOverhead)+"\r\n")
}

// TestDeliverConnectFailed returns immediately when the dial fails; nothing
// is written anywhere.
func TestDeliverConnectFailed(t *testing.T) {
	t.Parallel()

	dialErr := errors.New("no route to host")
	client := New("push.test", 443, "o.token",
		WithDialer(func(_ context.Context, _, _ string) (net.Conn, error) {
			return nil, dialErr
		}))

	result := client.Deliver(context.Background(), "hello")
	require.Equal(t, StatusConnectFailed, result.Status)
	require.ErrorIs(t, result.Err, dialErr)
	require.False(t, result.Delivered())
}

// TestDeliverTimeout abandons the attempt and closes the connection when the
// server withholds the response past the deadline.
func TestDeliverTimeout(t *testing.T) {
	t.Parallel()

	clientConn, serverConn := net.Pipe()

	// The server holds the connection open well past the deadline without
	// sending a byte.
	requests := serveOnce(serverConn, 300*time.Millisecond, "")

	const timeout = 80 * time.Millisecond

	client := New("push.test", 443, "o.token",
		WithDialer(pipeDialer(clientConn)),
		WithResponseTimeout(timeout))

	start := time.Now()
	result := client.Deliver(context.Background(), "hello")
	require.Equal(t, StatusTimeout, result.Status)
	require.GreaterOrEqual(t, time.Since(start), timeout)

	require.NoError(t, (<-requests).err)

	// The client side is closed on the timeout path.
	_ = clientConn.SetReadDeadline(time.Now().Add(time.Second))

	_, err := clientConn.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

// TestDeliverTimeoutBoundary classifies a response inside the window and
// times out on one outside it.
func TestDeliverTimeoutBoundary(t *testing.T) {
	t.Parallel()

	t.Run("inside window", func(t *testing.T) {
		t.Parallel()

		clientConn, serverConn := net.Pipe()
		serveOnce(serverConn, 50*time.Millisecond, "HTTP/1.1 200 OK\r\n\r\n")

		client := New("push.test", 443, "o.token",
			WithDialer(pipeDialer(clientConn)),
			WithResponseTimeout(400*time.Millisecond))

		result := client.Deliver(context.Background(), "hello")
		require.Equal(t, StatusDelivered, result.Status)
	})

	t.Run("outside window", func(t *testing.T) {
		t.Parallel()

		clientConn, serverConn := net.Pipe()
		serveOnce(serverConn, 400*time.Millisecond, "HTTP/1.1 200 OK\r\n\r\n")

		client := New("push.test", 443, "o.token",
			WithDialer(pipeDialer(clientConn)),
			WithResponseTimeout(50*time.Millisecond))

		result := client.Deliver(context.Background(), "hello")
		require.Equal(t, StatusTimeout, result.Status)
	})
}

// TestDeliverMalformedStatusLine bounds the status-line scan when the server
// never sends a space-delimited status code.
func TestDeliverMalformedStatusLine(t *testing.T) {
	t.Parallel()

	clientConn, serverConn := net.Pipe()
	serveOnce(serverConn, 0, strings.Repeat("#", maxStatusLineScan+64))

	client := New("push.test", 443, "o.token",
		WithDialer(pipeDialer(clientConn)),
		WithResponseTimeout(time.Second))

	result := client.Deliver(context.Background(), "hello")
	require.Equal(t, StatusTimeout, result.Status)
	require.ErrorIs(t, result.Err, errMalformedStatusLine)
}
