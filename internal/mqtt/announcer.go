package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/logger"
	"github.com/avolkoff/panelbridge/internal/notify"
)

const (
	// connectTimeout bounds the initial broker handshake.
	connectTimeout = 10 * time.Second

	// publishTimeout bounds the wait for a publish acknowledgement.
	publishTimeout = 5 * time.Second

	// publishQoS is at-least-once: a missed event is worse than a
	// duplicate for an alarm feed.
	publishQoS byte = 1
)

var (
	// errBrokerRequired is returned when no broker URI is configured.
	errBrokerRequired = errors.New("MQTT broker must be provided")
	// errTokenTimeout is returned when a broker operation does not
	// complete in time.
	errTokenTimeout = errors.New("MQTT operation timed out")
)

// publisher is the slice of the paho client the announcer uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Announcer publishes notification events to a broker topic.
type Announcer struct {
	// client is the underlying MQTT session.
	client publisher
	// topic is the destination topic for mirrored events.
	topic string
}

// NewAnnouncer connects to the configured broker. The returned announcer must
// be closed to flush the session.
func NewAnnouncer(cfg config.MQTTConfig) (*Announcer, error) {
	if cfg.Broker == "" {
		return nil, errBrokerRequired
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(connectTimeout)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := pahomqtt.NewClient(opts)
	if err := awaitToken(client.Connect()); err != nil {
		return nil, fmt.Errorf("connect broker %s: %w", cfg.Broker, err)
	}

	return &Announcer{client: client, topic: cfg.Topic}, nil
}

// Announce publishes one event as JSON. Failures are reported, not retried.
func (a *Announcer) Announce(ctx context.Context, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err = awaitToken(a.client.Publish(a.topic, publishQoS, false, payload)); err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}

	logger.DebugKV(ctx, "Event mirrored", "event_id", event.ID, "topic", a.topic)

	return nil
}

// Close disconnects from the broker, letting in-flight work finish.
func (a *Announcer) Close() {
	if a == nil || a.client == nil {
		return
	}

	const quiesceMillis = 250

	a.client.Disconnect(quiesceMillis)
}

// awaitToken waits for a broker operation with a bounded timeout.
func awaitToken(token pahomqtt.Token) error {
	if !token.WaitTimeout(publishTimeout) {
		return errTokenTimeout
	}

	return token.Error()
}
