package audit

import (
	"context"

	"github.com/fenwick-labs/camlink-core/internal/control"
	"github.com/fenwick-labs/camlink-core/internal/eventbus"
	"github.com/fenwick-labs/camlink-core/internal/host"
	"github.com/fenwick-labs/camlink-core/internal/session"
)

// Subscriber is the event bus surface the recorder needs.
type Subscriber interface {
	Subscribe(event string, handler eventbus.Handler) func()
}

// Logger is the subset of logging used by the recorder. Nil-safe via
// noopLogger.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder subscribes to bus events and persists them to the audit trail.
// Writes are best-effort: a failed insert is logged and never blocks or
// fails the operation that produced the event.
type Recorder struct {
	repo   Repository
	logger Logger
}

// NewRecorder creates a Recorder writing through repo.
func NewRecorder(repo Repository, logger Logger) *Recorder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{repo: repo, logger: logger}
}

// Attach subscribes the recorder to the audited events and returns a
// function that detaches all subscriptions.
func (r *Recorder) Attach(ctx context.Context, bus Subscriber) func() {
	unsubs := []func(){
		bus.Subscribe(host.EventReady, func(payload any) {
			container, _ := payload.(string)
			r.record(ctx, AuditLog{
				Action:  host.EventReady,
				Details: map[string]any{"container_id": container},
			})
		}),
		bus.Subscribe(session.EventConnected, func(payload any) {
			sess, ok := payload.(session.Session)
			if !ok {
				return
			}
			r.record(ctx, AuditLog{
				Action:   session.EventConnected,
				DeviceID: sess.ID,
				Details:  map[string]any{"host": sess.Host, "port": sess.Port},
			})
		}),
		bus.Subscribe(session.EventDisconnected, func(payload any) {
			sess, ok := payload.(session.Session)
			if !ok {
				return
			}
			r.record(ctx, AuditLog{
				Action:   session.EventDisconnected,
				DeviceID: sess.ID,
			})
		}),
	}

	for _, event := range []string{
		control.EventPreviewStarted,
		control.EventPreviewStopped,
		control.EventRecordStarted,
		control.EventRecordStopped,
		control.EventSnapshot,
	} {
		event := event
		unsubs = append(unsubs, bus.Subscribe(event, func(payload any) {
			stream, ok := payload.(control.StreamEvent)
			if !ok {
				return
			}
			r.record(ctx, AuditLog{
				Action:   event,
				DeviceID: stream.DeviceID,
				Details:  map[string]any{"window": stream.Window, "channel": stream.Channel},
			})
		}))
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

func (r *Recorder) record(ctx context.Context, log AuditLog) {
	if err := r.repo.Create(ctx, &log); err != nil {
		r.logger.Warn("audit write failed", "action", log.Action, "error", err)
	}
}
