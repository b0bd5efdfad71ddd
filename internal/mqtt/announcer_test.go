package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/avolkoff/panelbridge/internal/config"
	"github.com/avolkoff/panelbridge/internal/domain/panel"
	"github.com/avolkoff/panelbridge/internal/notify"
)

// fakeToken is a completed paho token with a scripted outcome.
type fakeToken struct {
	err      error
	timedOut bool
}

func (t *fakeToken) Wait() bool {
	return !t.timedOut
}

func (t *fakeToken) WaitTimeout(time.Duration) bool {
	return !t.timedOut
}

func (t *fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)

	return done
}

func (t *fakeToken) Error() error {
	return t.err
}

// fakePublisher records published messages.
type fakePublisher struct {
	token    *fakeToken
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token {
	p.topic, p.qos, p.retained = topic, qos, retained
	p.payload, _ = payload.([]byte)

	return p.token
}

func (p *fakePublisher) Disconnect(uint) {}

// TestAnnounce publishes the event as JSON with QoS 1.
func TestAnnounce(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{token: new(fakeToken)}
	announcer := &Announcer{client: pub, topic: "panel/events"}

	event := notify.NewEvent(panel.TopicPartitionAlarm, true)
	require.NoError(t, announcer.Announce(context.Background(), event))

	require.Equal(t, "panel/events", pub.topic)
	require.Equal(t, publishQoS, pub.qos)
	require.False(t, pub.retained)

	var decoded notify.Event
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	require.Equal(t, event.ID, decoded.ID)
	require.Equal(t, "Security system in alarm", decoded.Message)
}

// TestAnnounceFailures propagates broker errors and timeouts.
func TestAnnounceFailures(t *testing.T) {
	t.Parallel()

	brokerErr := errors.New("not authorized")
	pub := &fakePublisher{token: &fakeToken{err: brokerErr}}
	announcer := &Announcer{client: pub, topic: "panel/events"}

	err := announcer.Announce(context.Background(), notify.NewStartupEvent())
	require.ErrorIs(t, err, brokerErr)

	pub.token = &fakeToken{timedOut: true}
	err = announcer.Announce(context.Background(), notify.NewStartupEvent())
	require.ErrorIs(t, err, errTokenTimeout)
}

// TestNewAnnouncerRequiresBroker rejects an empty broker URI.
func TestNewAnnouncerRequiresBroker(t *testing.T) {
	t.Parallel()

	_, err := NewAnnouncer(config.MQTTConfig{})
	require.ErrorIs(t, err, errBrokerRequired)
}

// TestCloseNil is safe on a nil announcer.
func TestCloseNil(t *testing.T) {
	t.Parallel()

	var announcer *Announcer
	announcer.Close()
}
