package panel

// Interface is the contract of the bus decoder consumed by the bridge.
//
// Process is non-blocking: it handles at most one pending bus frame and
// reports whether a new, valid command was processed this cycle. Only then do
// the status flags and the per-cycle frames reflect fresh data.
type Interface interface {
	// Process handles the next available bus frame, if any, and returns
	// true when a new valid command was decoded this cycle.
	Process() bool

	// Flags returns the process-lifetime status flag set. The decoder
	// updates it on every valid cycle; consumers clear changed bits via
	// Flag.Consume.
	Flags() *StatusFlags

	// PanelFrame returns the panel frame decoded this cycle, if one is
	// newly available.
	PanelFrame() (Frame, bool)

	// KeypadFrame returns the keypad frame decoded this cycle, if one is
	// newly available. A cycle may yield both a panel and a keypad frame.
	KeypadFrame() (Frame, bool)

	// Write sends keystrokes to the bus through the virtual keypad.
	Write(keys string) error
}
