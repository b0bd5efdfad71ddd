package console

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
)

// fakeClock is a manually advanced clock for timestamp tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// TestPrintFrameTimestampFormat checks the fixed-width elapsed prefix.
func TestPrintFrameTimestampFormat(t *testing.T) {
	t.Parallel()

	frame := panel.Frame{Data: []byte{0x05}, Text: "Partition 1 armed"}

	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "    0.00: 00000101 [0x05] Partition 1 armed\n"},
		{3500 * time.Millisecond, "    3.50: 00000101 [0x05] Partition 1 armed\n"},
		{123456 * time.Millisecond, "  123.46: 00000101 [0x05] Partition 1 armed\n"},
		{12345678 * time.Millisecond, "12345.68: 00000101 [0x05] Partition 1 armed\n"},
	}

	for _, tc := range cases {
		var out bytes.Buffer

		clock := &fakeClock{t: time.Unix(1000, 0)}
		printer := NewPrinter(&out, WithClock(clock.now))

		clock.advance(tc.elapsed)
		printer.PrintFrame(frame)
		require.Equal(t, tc.want, out.String())
	}
}
