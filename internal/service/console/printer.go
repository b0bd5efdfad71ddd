package console

import (
	"fmt"
	"io"
	"time"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
)

// Printer renders decoded frames prefixed with the elapsed time since the
// printer was created: seconds with two decimals, left-padded to a width of
// five before the decimal point, followed by a colon.
type Printer struct {
	// out is the line sink.
	out io.Writer
	// start anchors the elapsed timestamp.
	start time.Time
	// now samples the clock; injectable for tests.
	now func() time.Time
}

// PrinterOption configures printer behaviour.
type PrinterOption func(*Printer)

// WithClock overrides the clock used for timestamp samples.
func WithClock(now func() time.Time) PrinterOption {
	return func(p *Printer) {
		if now != nil {
			p.now = now
			p.start = now()
		}
	}
}

// NewPrinter returns a printer writing to out, with the elapsed clock
// anchored at the call.
func NewPrinter(out io.Writer, opts ...PrinterOption) *Printer {
	printer := &Printer{
		out:   out,
		start: time.Now(),
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(printer)
	}

	return printer
}

// PrintFrame emits one diagnostic line. Every call samples its own
// timestamp, so two frames from the same cycle may carry stamps differing by
// the processing time between them.
func (p *Printer) PrintFrame(frame panel.Frame) {
	elapsed := p.now().Sub(p.start).Seconds()
	fmt.Fprintf(p.out, "%8.2f: %s\n", elapsed, frame)
}
