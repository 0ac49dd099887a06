package relay

import (
	"encoding/json"
	"time"

	"github.com/fenwick-labs/camlink-core/internal/control"
	"github.com/fenwick-labs/camlink-core/internal/eventbus"
	"github.com/fenwick-labs/camlink-core/internal/host"
	"github.com/fenwick-labs/camlink-core/internal/session"
)

// Publisher is the broker surface the relay needs. Satisfied by Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Subscriber is the event bus surface the relay needs.
type Subscriber interface {
	Subscribe(event string, handler eventbus.Handler) func()
}

// Logger is the subset of logging used by the relay. Nil-safe via
// noopLogger.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Envelope is the JSON structure published for each relayed event.
type Envelope struct {
	Event     string    `json:"event"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Relay forwards event bus traffic to the MQTT broker. Publishing is
// best-effort: a failed publish is logged and never affects the operation
// that produced the event.
type Relay struct {
	publisher Publisher
	qos       byte
	logger    Logger
}

// New creates a Relay publishing through publisher at the given QoS.
func New(publisher Publisher, qos byte, logger Logger) *Relay {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Relay{publisher: publisher, qos: qos, logger: logger}
}

// relayedEvents is the set of bus events forwarded to the broker.
func relayedEvents() []string {
	return []string{
		host.EventReady,
		host.EventWindowSelect,
		host.EventWindowDoubleClick,
		host.EventPluginEvent,
		host.EventPluginError,
		session.EventConnected,
		session.EventDisconnected,
		control.EventPreviewStarted,
		control.EventPreviewStopped,
		control.EventRecordStarted,
		control.EventRecordStopped,
		control.EventSnapshot,
	}
}

// Attach subscribes the relay to the forwarded events and returns a
// function that detaches all subscriptions.
func (r *Relay) Attach(bus Subscriber) func() {
	var unsubs []func()
	for _, event := range relayedEvents() {
		event := event
		unsubs = append(unsubs, bus.Subscribe(event, func(payload any) {
			r.forward(event, payload)
		}))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// forward marshals and publishes one event.
func (r *Relay) forward(event string, payload any) {
	body, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Warn("relay marshal failed", "event", event, "error", err)
		return
	}
	if err := r.publisher.Publish(Topics{}.Event(event), body, r.qos, false); err != nil {
		r.logger.Warn("relay publish failed", "event", event, "error", err)
	}
}
