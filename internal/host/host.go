package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fenwick-labs/camlink-core/internal/sdk"
)

// State is the persisted plugin lifecycle state.
type State int

const (
	// StateUninitialized is the state before Init completes. There is no
	// persisted "initializing" state; an in-flight Init is tracked by a
	// separate guard flag.
	StateUninitialized State = iota

	// StateReady is the state after the plugin's init-complete signal.
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Caller is the bridge surface the host needs.
type Caller interface {
	CallSync(method string, args ...any) (any, error)
	CallAsync(ctx context.Context, method string, args ...any) (any, error)
}

// Publisher is the event bus surface the host needs.
type Publisher interface {
	Publish(event string, payload any)
}

// Logger is the optional logging interface used by the host.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// InitConfig configures plugin initialization.
//
// ContainerID names the display container the plugin mounts into; when empty
// an id is generated so the plugin can target the container by id. Width and
// Height are pixel sizes; zero means "fill" (100%).
//
// The On* callbacks are optional. Each fires after the corresponding event
// bus publication.
type InitConfig struct {
	ContainerID string
	Width       int
	Height      int

	OnWindowSelect       func(index int)
	OnWindowDoubleClick  func(index int)
	OnEvent              func(ev PluginEvent)
	OnError              func(ev PluginError)
	OnPerformanceLack    func()
	OnSecretKeyError     func()
	OnRemoteConfigClosed func()
}

// Host is the session root: plugin lifecycle, active window, and layout
// operations. All methods are safe for concurrent use.
type Host struct {
	caller Caller
	bus    Publisher
	logger Logger

	mu           sync.Mutex
	state        State
	initializing bool
	activeWindow int
	containerID  string
	initErr      error
}

// New creates a Host in the Uninitialized state.
func New(caller Caller, bus Publisher) *Host {
	return &Host{
		caller: caller,
		bus:    bus,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the host.
func (h *Host) SetLogger(logger Logger) {
	if logger != nil {
		h.logger = logger
	}
}

// State returns the current lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ActiveWindow returns the currently active window index. Meaningful only
// once Ready; before that it is 0.
func (h *Host) ActiveWindow() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activeWindow
}

// ResolveWindow resolves an explicit caller override against the active
// window. A negative override means "use the active window"; a non-negative
// one becomes the new active window. This and the window-select hook are the
// only two paths that mutate the index.
func (h *Host) ResolveWindow(override int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if override >= 0 {
		h.activeWindow = override
	}
	return h.activeWindow
}

// Init initializes the vendor plugin: resolves the container, normalises the
// requested size, installs the fixed hook set and, on the plugin's
// init-complete signal, mounts it into the container and flips the lifecycle
// to Ready with window 0 active.
//
// Only one initialization may ever run. A second call fails with
// ErrAlreadyInitialized (or ErrInitInProgress while one is in flight)
// without contacting the plugin.
func (h *Host) Init(ctx context.Context, cfg InitConfig) error {
	h.mu.Lock()
	switch {
	case h.state == StateReady:
		h.mu.Unlock()
		return ErrAlreadyInitialized
	case h.initializing:
		h.mu.Unlock()
		return ErrInitInProgress
	}
	h.initializing = true
	h.initErr = nil
	containerID := cfg.ContainerID
	if containerID == "" {
		containerID = "camlink-" + uuid.NewString()[:8]
	}
	h.containerID = containerID
	h.mu.Unlock()

	opts := sdk.Options{
		sdk.HookWindowSelect:       h.windowSelectHook(cfg.OnWindowSelect),
		sdk.HookWindowDoubleClick:  h.windowDoubleClickHook(cfg.OnWindowDoubleClick),
		sdk.HookPluginEvent:        h.pluginEventHook(cfg.OnEvent),
		sdk.HookInitComplete:       h.initCompleteHook(containerID),
		sdk.HookPluginError:        h.pluginErrorHook(cfg.OnError),
		sdk.HookPerformanceLack:    h.signalHook(EventPerformanceLack, cfg.OnPerformanceLack),
		sdk.HookSecretKeyError:     h.signalHook(EventSecretKeyError, cfg.OnSecretKeyError),
		sdk.HookRemoteConfigClosed: h.signalHook(EventRemoteConfigClosed, cfg.OnRemoteConfigClosed),
	}

	_, err := h.caller.CallAsync(ctx, sdk.MethodInit,
		containerID, sizeString(cfg.Width), sizeString(cfg.Height), opts)

	h.mu.Lock()
	h.initializing = false
	if err == nil {
		err = h.initErr
	}
	if err == nil && h.state != StateReady {
		// The call settled but the plugin never raised its init-complete
		// hook, so nothing was mounted. Reporting success here would leave
		// an Uninitialized host the caller believes is usable.
		err = fmt.Errorf("%w: init settled without completion signal", ErrOperationFailed)
	}
	if err != nil {
		h.state = StateUninitialized
	}
	h.mu.Unlock()

	if err != nil {
		return fmt.Errorf("initializing plugin: %w", err)
	}
	h.logger.Info("plugin ready", "container", containerID)
	return nil
}

// sizeString normalises a pixel size for the plugin: positive values become
// "Npx", zero/absent becomes "100%".
func sizeString(v int) string {
	if v > 0 {
		return fmt.Sprintf("%dpx", v)
	}
	return "100%"
}

func (h *Host) initCompleteHook(containerID string) func() {
	return func() {
		// Mount into the resolved container, then flip to Ready.
		if _, err := h.caller.CallSync(sdk.MethodEmbed, containerID); err != nil {
			h.mu.Lock()
			h.initErr = fmt.Errorf("mounting plugin: %w", err)
			h.mu.Unlock()
			return
		}
		h.mu.Lock()
		h.state = StateReady
		h.activeWindow = 0
		h.mu.Unlock()
		h.bus.Publish(EventReady, containerID)
	}
}

func (h *Host) windowSelectHook(cb func(int)) func(int) {
	return func(index int) {
		h.mu.Lock()
		h.activeWindow = index
		h.mu.Unlock()
		h.bus.Publish(EventWindowSelect, index)
		if cb != nil {
			cb(index)
		}
	}
}

func (h *Host) windowDoubleClickHook(cb func(int)) func(int) {
	return func(index int) {
		h.bus.Publish(EventWindowDoubleClick, index)
		if cb != nil {
			cb(index)
		}
	}
}

func (h *Host) pluginEventHook(cb func(PluginEvent)) func(int, int) {
	return func(code, param int) {
		ev := PluginEvent{Code: code, Param: param}
		h.bus.Publish(EventPluginEvent, ev)
		if cb != nil {
			cb(ev)
		}
	}
}

func (h *Host) pluginErrorHook(cb func(PluginError)) func(int, int) {
	return func(index, code int) {
		ev := PluginError{Window: index, Code: code}
		h.logger.Error("plugin reported window error", "window", index, "code", code)
		h.bus.Publish(EventPluginError, ev)
		if cb != nil {
			cb(ev)
		}
	}
}

func (h *Host) signalHook(event string, cb func()) func() {
	return func() {
		h.bus.Publish(event, nil)
		if cb != nil {
			cb()
		}
	}
}

// requireReady fails operations that need a mounted plugin.
func (h *Host) requireReady() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateReady {
		return ErrNotInitialized
	}
	return nil
}

// ChangeLayout switches the plugin to an n-window layout. Forwarded
// synchronously; a rejected layout surfaces as ErrOperationFailed.
func (h *Host) ChangeLayout(count int) error {
	if err := h.requireReady(); err != nil {
		return err
	}
	result, err := h.caller.CallSync(sdk.MethodChangeLayout, count)
	if err != nil {
		return err
	}
	if status, ok := result.(int); ok && status != sdk.StatusOK {
		return fmt.Errorf("%w: changeLayout returned %d", ErrOperationFailed, status)
	}
	h.logger.Debug("layout changed", "windows", count)
	return nil
}

// WindowStatus queries the plugin's live status for one window. A negative
// index targets the active window. No local cache: the plugin is the
// authority on what is playing where.
func (h *Host) WindowStatus(index int) (sdk.WindowStatus, error) {
	if err := h.requireReady(); err != nil {
		return sdk.WindowStatus{}, err
	}
	if index < 0 {
		index = h.ActiveWindow()
	}
	result, err := h.caller.CallSync(sdk.MethodGetWindowStatus, index)
	if err != nil {
		return sdk.WindowStatus{}, err
	}
	status, ok := result.(sdk.WindowStatus)
	if !ok {
		return sdk.WindowStatus{}, fmt.Errorf("%w: unexpected window status shape %T",
			ErrOperationFailed, result)
	}
	return status, nil
}

// WindowSet queries the plugin's live window list. A result that is not a
// window slice normalises to an empty set rather than propagating a type
// error.
func (h *Host) WindowSet() ([]sdk.WindowStatus, error) {
	if err := h.requireReady(); err != nil {
		return nil, err
	}
	result, err := h.caller.CallSync(sdk.MethodGetWindowSet)
	if err != nil {
		return nil, err
	}
	windows, ok := result.([]sdk.WindowStatus)
	if !ok {
		return []sdk.WindowStatus{}, nil
	}
	return windows, nil
}

// ContainerID returns the resolved container id, or "" before Init.
func (h *Host) ContainerID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.containerID
}
