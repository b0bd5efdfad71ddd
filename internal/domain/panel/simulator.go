package panel

import "sync"

// Step is one scripted decoder cycle for the Simulator.
//
// A step may carry a panel frame, a keypad frame, status transitions, or any
// combination of those. An Idle step models a cycle in which no new valid
// command arrived on the bus.
type Step struct {
	// Panel is the panel frame decoded this cycle, if any.
	Panel *Frame
	// Keypad is the keypad frame decoded this cycle, if any.
	Keypad *Frame
	// Alarm, when set, is the partition alarm value derived this cycle.
	Alarm *bool
	// Power, when set, is the AC power trouble value derived this cycle.
	Power *bool
	// Idle marks a cycle with no new valid command.
	Idle bool
}

// Simulator implements Interface from a script of steps. It stands in for a
// hardware bus decoder in the binaries and in tests.
type Simulator struct {
	mu     sync.Mutex
	flags  *StatusFlags
	steps  []Step
	pos    int
	panel  *Frame
	keypad *Frame
	keys   []string
}

var _ Interface = (*Simulator)(nil)

// NewSimulator returns a simulator that replays the provided steps in order.
// Once the script is exhausted, Process reports no new commands.
func NewSimulator(steps ...Step) *Simulator {
	return &Simulator{
		flags: NewStatusFlags(),
		steps: steps,
	}
}

// Process advances the script by one step.
func (s *Simulator) Process() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Frames are visible for one cycle only.
	s.panel, s.keypad = nil, nil

	if s.pos >= len(s.steps) {
		return false
	}

	step := s.steps[s.pos]
	s.pos++

	if step.Idle {
		return false
	}

	if step.Alarm != nil {
		s.flags.Flag(TopicPartitionAlarm).Set(*step.Alarm)
	}

	if step.Power != nil {
		s.flags.Flag(TopicPowerTrouble).Set(*step.Power)
	}

	s.panel, s.keypad = step.Panel, step.Keypad

	return true
}

// Flags returns the simulated status flag set.
func (s *Simulator) Flags() *StatusFlags {
	return s.flags
}

// PanelFrame returns the panel frame staged by the current cycle.
func (s *Simulator) PanelFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.panel == nil {
		return Frame{}, false
	}

	return *s.panel, true
}

// KeypadFrame returns the keypad frame staged by the current cycle.
func (s *Simulator) KeypadFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keypad == nil {
		return Frame{}, false
	}

	return *s.keypad, true
}

// Write records keystrokes sent to the virtual keypad.
func (s *Simulator) Write(keys string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys = append(s.keys, keys)

	return nil
}

// Keys returns all keystrokes written to the virtual keypad so far.
func (s *Simulator) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, len(s.keys))
	copy(keys, s.keys)

	return keys
}
