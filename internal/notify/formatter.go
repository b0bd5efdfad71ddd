package notify

import (
	"encoding/json"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
)

// StartupMessage is the synthetic event sent once when the bridge starts.
const StartupMessage = "Security system initializing"

// Format returns the notification message for a topic transition. It is pure
// and total for the defined topic set; an unknown topic is a programming
// error, not a runtime case.
func Format(topic panel.Topic, newValue bool) string {
	switch topic {
	case panel.TopicPartitionAlarm:
		if newValue {
			return "Security system in alarm"
		}

		return "Security system disarmed after alarm"

	case panel.TopicPowerTrouble:
		if newValue {
			return "Security system AC power trouble"
		}

		return "Security system AC power restored"

	default:
		panic("notify: unknown topic " + string(topic))
	}
}

// Escape renders a message safe for embedding inside a JSON string literal.
// Quote and control characters are escaped here, in the formatter, so the
// transport can splice the payload into its envelope verbatim.
func Escape(message string) string {
	encoded, err := json.Marshal(message)
	if err != nil {
		// Strings always marshal.
		panic(err)
	}

	// Strip the surrounding quotes added by Marshal.
	return string(encoded[1 : len(encoded)-1])
}
