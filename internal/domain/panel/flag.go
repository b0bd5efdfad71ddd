package panel

import "sync"

// Topic names one observable status of the panel.
type Topic string

const (
	// TopicPartitionAlarm reports whether a partition is in alarm.
	TopicPartitionAlarm Topic = "partition_alarm"
	// TopicPowerTrouble reports whether AC power is in trouble.
	TopicPowerTrouble Topic = "power_trouble"
)

// Topics is the closed set of topics observed by the bridge. Zone, armed and
// fire topics extend the set by the same pattern.
//
//nolint:gochecknoglobals // Fixed topic set shared by detector and tests.
var Topics = []Topic{TopicPartitionAlarm, TopicPowerTrouble}

// Flag is one topic's (value, changed) pair. The decoder writes it on every
// protocol cycle; the detector consumes the changed bit exactly once per
// observation. The changed bit is edge-triggered: it stays set until consumed.
type Flag struct {
	mu      sync.Mutex
	value   bool
	changed bool
}

// Value returns the current topic value.
func (f *Flag) Value() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.value
}

// Changed reports whether the value differs from the previously consumed
// observation.
func (f *Flag) Changed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.changed
}

// Set records a new observation from the decoder. The changed bit is raised
// only when the value actually transitions.
func (f *Flag) Set(value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.value != value {
		f.value = value
		f.changed = true
	}
}

// Consume atomically returns the current value together with the changed bit
// and clears the changed bit. Read-and-clear is a single critical section so
// a concurrent decoder write can never be lost or double-counted.
func (f *Flag) Consume() (value, changed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, changed = f.value, f.changed
	f.changed = false

	return value, changed
}

// StatusFlags maps every topic to its flag. It lives for the process
// lifetime: the decoder mutates it on every cycle, the detector reads and
// consumes it.
type StatusFlags struct {
	flags map[Topic]*Flag
}

// NewStatusFlags returns a flag set covering the full topic set.
func NewStatusFlags() *StatusFlags {
	flags := make(map[Topic]*Flag, len(Topics))
	for _, topic := range Topics {
		flags[topic] = new(Flag)
	}

	return &StatusFlags{flags: flags}
}

// Flag returns the flag for the given topic. The topic set is closed and
// known at compile time, so a miss is a programming error.
func (s *StatusFlags) Flag(topic Topic) *Flag {
	flag, ok := s.flags[topic]
	if !ok {
		panic("panel: unknown topic " + string(topic))
	}

	return flag
}
