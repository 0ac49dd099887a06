package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/fenwick-labs/camlink-core/internal/sdk"
)

// Caller is the bridge surface the registry needs.
type Caller interface {
	CallAsync(ctx context.Context, method string, args ...any) (any, error)
}

// WindowSource provides the plugin host's live window set, used during
// disconnect cleanup. The plugin, not the registry, knows what is playing
// where.
type WindowSource interface {
	WindowSet() ([]sdk.WindowStatus, error)
}

// Publisher is the event bus surface the registry needs.
type Publisher interface {
	Publish(event string, payload any)
}

// Tracer records best-effort sub-operations whose failure was suppressed,
// keeping them distinguishable from success. Satisfied by telemetry.Client.
type Tracer interface {
	RecordSuppressed(op, deviceID string, err error)
}

type noopTracer struct{}

func (noopTracer) RecordSuppressed(string, string, error) {}

// Logger is the optional logging interface used by the registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Registry tracks connected device sessions. All methods are safe for
// concurrent use.
//
// Concurrent Connect calls for the same host:port are intentionally not
// deduplicated; each issues its own login call, matching the permissive
// behaviour of the wrapped surface.
type Registry struct {
	caller  Caller
	windows WindowSource
	bus     Publisher
	tracer  Tracer
	logger  Logger

	mu       sync.Mutex
	sessions map[string]Session
}

// NewRegistry creates an empty registry.
func NewRegistry(caller Caller, windows WindowSource, bus Publisher) *Registry {
	return &Registry{
		caller:   caller,
		windows:  windows,
		bus:      bus,
		tracer:   noopTracer{},
		logger:   noopLogger{},
		sessions: make(map[string]Session),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetTracer sets the telemetry hook for suppressed best-effort failures.
func (r *Registry) SetTracer(tracer Tracer) {
	if tracer != nil {
		r.tracer = tracer
	}
}

// Connect validates the credentials, logs in through the bridge, records the
// session, publishes EventConnected and returns the session.
//
// Validation failures return ErrValidation before any plugin call is made.
func (r *Registry) Connect(ctx context.Context, creds Credentials) (Session, error) {
	protocol := creds.Protocol
	if protocol == "" {
		protocol = ProtocolHTTP
	}
	if protocol != ProtocolHTTP && protocol != ProtocolHTTPS {
		return Session{}, fmt.Errorf("%w: unknown protocol %q", ErrValidation, creds.Protocol)
	}
	if err := ValidateHost(creds.Host); err != nil {
		return Session{}, err
	}
	port, err := NormalizePort(creds.Port, protocol)
	if err != nil {
		return Session{}, err
	}

	protocolCode := sdk.ProtocolHTTP
	if protocol == ProtocolHTTPS {
		protocolCode = sdk.ProtocolHTTPS
	}

	args := []any{creds.Host, protocolCode, port, creds.Username, creds.Password}
	if len(creds.Options) > 0 {
		args = append(args, creds.Options)
	}
	if _, err := r.caller.CallAsync(ctx, sdk.MethodLogin, args...); err != nil {
		return Session{}, fmt.Errorf("logging in to %s:%d: %w", creds.Host, port, err)
	}

	sess := Session{
		ID:       DeriveDeviceID(creds.Host, port),
		Host:     creds.Host,
		Port:     port,
		Protocol: protocol,
		Username: creds.Username,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	r.logger.Info("device connected", "device", sess.ID, "user", sess.Username)
	r.bus.Publish(EventConnected, sess)
	return sess, nil
}

// Disconnect logs the device out, reconciles its display windows and removes
// the session.
//
// A failed logout leaves the registry entry untouched so the call can be
// retried. On success, every window still bound to the device gets a
// best-effort stop-stream and clear-secret-key before the session is removed
// and EventDisconnected published, so subscribers never observe a
// disconnected device with a window the plugin still reports active.
func (r *Registry) Disconnect(ctx context.Context, deviceID string) error {
	r.mu.Lock()
	sess, ok := r.sessions[deviceID]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	result, err := r.caller.CallAsync(ctx, sdk.MethodLogout, deviceID)
	if err != nil {
		return fmt.Errorf("logging out %s: %w", deviceID, err)
	}
	if status, isInt := result.(int); isInt && status != sdk.StatusOK {
		return fmt.Errorf("%w: logout returned %d", ErrOperationFailed, status)
	}

	r.cleanupWindows(ctx, deviceID)

	r.mu.Lock()
	delete(r.sessions, deviceID)
	r.mu.Unlock()

	r.logger.Info("device disconnected", "device", deviceID)
	r.bus.Publish(EventDisconnected, sess)
	return nil
}

// cleanupWindows stops streams and clears secret keys for every window bound
// to the device. Individual failures are suppressed but traced; partial
// cleanup must not block session removal.
func (r *Registry) cleanupWindows(ctx context.Context, deviceID string) {
	windows, err := r.windows.WindowSet()
	if err != nil {
		r.logger.Warn("window reconciliation skipped", "device", deviceID, "error", err)
		r.tracer.RecordSuppressed("window_set", deviceID, err)
		return
	}
	for _, w := range windows {
		if w.DeviceID != deviceID {
			continue
		}
		if _, err := r.caller.CallAsync(ctx, sdk.MethodStopPreview, w.Index); err != nil {
			r.logger.Warn("stop stream failed during disconnect",
				"device", deviceID, "window", w.Index, "error", err)
			r.tracer.RecordSuppressed("stop_preview", deviceID, err)
		}
		if _, err := r.caller.CallAsync(ctx, sdk.MethodClearSecretKey, w.Index); err != nil {
			r.logger.Warn("clear secret key failed during disconnect",
				"device", deviceID, "window", w.Index, "error", err)
			r.tracer.RecordSuppressed("clear_secret_key", deviceID, err)
		}
	}
}

// Channels discovers the device's channels across the three channel classes.
//
// Discovery is best-effort per class: a failed class query is traced and
// contributes no channels, so the result may be incomplete rather than the
// call failing. Unnamed entries get a deterministic generated name; digital
// and zero channels are filtered to those the device flags online.
func (r *Registry) Channels(ctx context.Context, deviceID string) ([]Channel, error) {
	if !r.Has(deviceID) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	var out []Channel
	out = append(out, r.channelClass(ctx, deviceID, sdk.MethodGetAnalogChannels,
		ChannelAnalog, "Camera", false)...)
	out = append(out, r.channelClass(ctx, deviceID, sdk.MethodGetDigitalChannels,
		ChannelDigital, "IPCamera", true)...)
	out = append(out, r.channelClass(ctx, deviceID, sdk.MethodGetZeroChannels,
		ChannelZero, "Zero Channel", true)...)
	return out, nil
}

// channelClass runs one class query. Names are generated from the entry's
// position in the raw class list, before the online filter, so a device's
// generated names are stable regardless of which channels are up.
func (r *Registry) channelClass(ctx context.Context, deviceID, method, class, label string, onlineOnly bool) []Channel {
	result, err := r.caller.CallAsync(ctx, method, deviceID)
	if err != nil {
		r.logger.Warn("channel class query failed", "device", deviceID, "class", class, "error", err)
		r.tracer.RecordSuppressed("channels_"+class, deviceID, err)
		return nil
	}
	entries, ok := result.([]sdk.ChannelInfo)
	if !ok {
		return nil
	}

	var out []Channel
	for i, entry := range entries {
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("%s %02d", label, i+1)
		}
		online := entry.Online
		if class == ChannelAnalog {
			// Analog channels carry no online flag; present means present.
			online = true
		}
		if onlineOnly && !online {
			continue
		}
		out = append(out, Channel{
			ID:     entry.ID,
			Name:   name,
			Type:   class,
			Online: online,
			Zero:   class == ChannelZero,
		})
	}
	return out
}

// Info queries the device information block.
func (r *Registry) Info(ctx context.Context, deviceID string) (sdk.DeviceInfo, error) {
	if !r.Has(deviceID) {
		return sdk.DeviceInfo{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	result, err := r.caller.CallAsync(ctx, sdk.MethodGetDeviceInfo, deviceID)
	if err != nil {
		return sdk.DeviceInfo{}, err
	}
	info, ok := result.(sdk.DeviceInfo)
	if !ok {
		return sdk.DeviceInfo{}, fmt.Errorf("%w: unexpected device info shape %T",
			ErrOperationFailed, result)
	}
	return info, nil
}

// Has reports whether the device id is registered.
func (r *Registry) Has(deviceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[deviceID]
	return ok
}

// Get returns the session for a device id.
func (r *Registry) Get(deviceID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[deviceID]
	return sess, ok
}

// Sessions returns a snapshot of all registered sessions.
func (r *Registry) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
