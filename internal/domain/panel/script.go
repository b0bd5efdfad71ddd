package panel

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Script format, one step per line, '#' starts a comment:
//
//	panel <hex bytes> | <decoded message>
//	keypad <hex bytes> | <decoded message>
//	alarm on|off
//	power trouble|restored
//	idle
//
// Example:
//
//	panel 05 81 01 | Partition 1 in alarm
//	alarm on
//	idle

// errEmptyScript is returned when a script contains no steps.
var errEmptyScript = errors.New("script contains no steps")

// LoadScript parses a replay script from the reader.
func LoadScript(r io.Reader) ([]Step, error) {
	var (
		steps   []Step
		lineNum int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		step, err := parseStep(line)
		if err != nil {
			return nil, fmt.Errorf("script line %d: %w", lineNum, err)
		}

		steps = append(steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	if len(steps) == 0 {
		return nil, errEmptyScript
	}

	return steps, nil
}

// LoadScriptFile parses a replay script from the named file.
func LoadScriptFile(path string) ([]Step, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	return LoadScript(f)
}

// parseStep parses a single non-empty script line.
func parseStep(line string) (Step, error) {
	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch keyword {
	case "panel", "keypad":
		frame, err := parseFrame(rest)
		if err != nil {
			return Step{}, err
		}

		if keyword == "panel" {
			return Step{Panel: &frame}, nil
		}

		return Step{Keypad: &frame}, nil

	case "alarm":
		value, err := parseOnOff(rest, "on", "off")
		if err != nil {
			return Step{}, err
		}

		return Step{Alarm: &value}, nil

	case "power":
		value, err := parseOnOff(rest, "trouble", "restored")
		if err != nil {
			return Step{}, err
		}

		return Step{Power: &value}, nil

	case "idle":
		if rest != "" {
			return Step{}, fmt.Errorf("unexpected argument %q after idle", rest)
		}

		return Step{Idle: true}, nil

	default:
		return Step{}, fmt.Errorf("unknown keyword %q", keyword)
	}
}

// parseFrame parses "<hex bytes> | <message>" into a Frame.
func parseFrame(s string) (Frame, error) {
	bytesPart, text, _ := strings.Cut(s, "|")

	fields := strings.Fields(bytesPart)
	if len(fields) == 0 {
		return Frame{}, errors.New("frame has no data bytes")
	}

	data := make([]byte, 0, len(fields))

	for _, field := range fields {
		b, err := hex.DecodeString(field)
		if err != nil || len(b) != 1 {
			return Frame{}, fmt.Errorf("invalid frame byte %q", field)
		}

		data = append(data, b[0])
	}

	return Frame{Data: data, Text: strings.TrimSpace(text)}, nil
}

// parseOnOff maps the raised/cleared keyword pair of a status directive to a bool.
func parseOnOff(s, raised, cleared string) (bool, error) {
	switch s {
	case raised:
		return true, nil
	case cleared:
		return false, nil
	default:
		return false, fmt.Errorf("expected %q or %q, got %q", raised, cleared, s)
	}
}
