// Package console implements the diagnostic print pipeline: every decoded
// panel or keypad frame becomes one timestamped fixed-width line, and console
// input is forwarded to the virtual keypad.
package console
