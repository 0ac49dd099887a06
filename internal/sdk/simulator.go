package sdk

import (
	"fmt"
	"sync"
)

// SimDevice is one device known to the Simulator, with the credentials it
// accepts and the channels it reports.
type SimDevice struct {
	Host     string
	Port     int
	Username string
	Password string

	Analog  []ChannelInfo
	Digital []ChannelInfo
	Zero    []ChannelInfo

	Info DeviceInfo
}

// Simulator is an in-memory vendor plugin. It implements Handle with the
// full method surface and faithfully reproduces the legacy convention:
// callbacks fire synchronously from inside the method call, and methods
// that report synchronously return a numeric status.
//
// All methods are safe for concurrent use.
type Simulator struct {
	mu       sync.Mutex
	devices  map[string]SimDevice // keyed host_port
	sessions map[string]bool      // logged-in device ids
	windows  []WindowStatus
	hooks    Options
	mounted  string // container id after embedPlugin

	// CallLog records method names in invocation order. Tests use it to
	// assert that validation failures never reach the plugin.
	calls   []string
	callsMu sync.Mutex
}

// NewSimulator creates a Simulator with a single 1x1 window layout and no
// devices.
func NewSimulator() *Simulator {
	return &Simulator{
		devices:  make(map[string]SimDevice),
		sessions: make(map[string]bool),
		windows:  []WindowStatus{{Index: 0}},
	}
}

// AddDevice registers a device the simulator will accept logins for.
func (s *Simulator) AddDevice(d SimDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[fmt.Sprintf("%s_%d", d.Host, d.Port)] = d
}

// Calls returns the method names invoked so far, in order.
func (s *Simulator) Calls() []string {
	s.callsMu.Lock()
	defer s.callsMu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// FireWindowSelect simulates the user clicking a window, invoking the
// window-select hook installed at init time.
func (s *Simulator) FireWindowSelect(index int) {
	s.mu.Lock()
	hook, _ := s.hooks[HookWindowSelect].(func(int))
	s.mu.Unlock()
	if hook != nil {
		hook(index)
	}
}

// FirePluginEvent simulates a generic numbered plugin event.
func (s *Simulator) FirePluginEvent(code, param int) {
	s.mu.Lock()
	hook, _ := s.hooks[HookPluginEvent].(func(int, int))
	s.mu.Unlock()
	if hook != nil {
		hook(code, param)
	}
}

// Mounted returns the container id passed to embedPlugin, or "" before mount.
func (s *Simulator) Mounted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Lookup implements Handle.
func (s *Simulator) Lookup(name string) (Func, bool) {
	var fn Func
	switch name {
	case MethodInit:
		fn = s.initPlugin
	case MethodEmbed:
		fn = s.embedPlugin
	case MethodChangeLayout:
		fn = s.changeLayout
	case MethodGetWindowStatus:
		fn = s.getWindowStatus
	case MethodGetWindowSet:
		fn = s.getWindowSet
	case MethodLogin:
		fn = s.login
	case MethodLogout:
		fn = s.logout
	case MethodGetDeviceInfo:
		fn = s.getDeviceInfo
	case MethodGetAnalogChannels:
		fn = s.channelQuery(func(d SimDevice) []ChannelInfo { return d.Analog })
	case MethodGetDigitalChannels:
		fn = s.channelQuery(func(d SimDevice) []ChannelInfo { return d.Digital })
	case MethodGetZeroChannels:
		fn = s.channelQuery(func(d SimDevice) []ChannelInfo { return d.Zero })
	case MethodStartPreview:
		fn = s.startPreview
	case MethodStopPreview:
		fn = s.stopPreview
	case MethodPTZControl, MethodSetVolume, MethodCapturePicture,
		MethodStartRecord, MethodStopRecord, MethodClearSecretKey:
		fn = s.windowNoop
	default:
		return nil, false
	}
	return s.recorded(name, fn), true
}

// recorded wraps fn so every invocation lands in the call log.
func (s *Simulator) recorded(name string, fn Func) Func {
	return func(args ...any) any {
		s.callsMu.Lock()
		s.calls = append(s.calls, name)
		s.callsMu.Unlock()
		return fn(args...)
	}
}

// trailingOptions extracts the options map from the last argument, if any.
func trailingOptions(args []any) Options {
	if len(args) == 0 {
		return nil
	}
	o, _ := args[len(args)-1].(Options)
	return o
}

func succeed(opts Options, data any) {
	if opts == nil {
		return
	}
	if cb, ok := opts.Success(); ok {
		cb(data)
	}
}

func fail(opts Options, status int, diagnostic string, cause error) {
	if opts == nil {
		return
	}
	if cb, ok := opts.Error(); ok {
		cb(status, diagnostic, cause)
	}
}

func intArg(args []any, i int) int {
	if i >= len(args) {
		return 0
	}
	n, _ := args[i].(int)
	return n
}

func stringArg(args []any, i int) string {
	if i >= len(args) {
		return ""
	}
	str, _ := args[i].(string)
	return str
}

func (s *Simulator) initPlugin(args ...any) any {
	// Hooks travel in the documented positional slot after container id,
	// width and height. The trailing argument is the caller's options
	// object, carrying only the success/error callbacks.
	hooks := optionsArg(args, 3)
	opts := trailingOptions(args)

	s.mu.Lock()
	s.hooks = hooks
	complete, _ := hooks[HookInitComplete].(func())
	s.mu.Unlock()

	if complete != nil {
		complete()
	}
	succeed(opts, nil)
	return nil
}

func optionsArg(args []any, i int) Options {
	if i >= len(args) {
		return nil
	}
	o, _ := args[i].(Options)
	return o
}

func (s *Simulator) embedPlugin(args ...any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = stringArg(args, 0)
	return StatusOK
}

func (s *Simulator) changeLayout(args ...any) any {
	count := intArg(args, 0)
	if count <= 0 {
		return StatusFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	windows := make([]WindowStatus, count)
	for i := range windows {
		if i < len(s.windows) {
			windows[i] = s.windows[i]
		}
		windows[i].Index = i
	}
	s.windows = windows
	return StatusOK
}

func (s *Simulator) getWindowStatus(args ...any) any {
	index := intArg(args, 0)
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.windows) {
		return WindowStatus{Index: index}
	}
	return s.windows[index]
}

func (s *Simulator) getWindowSet(_ ...any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WindowStatus, len(s.windows))
	copy(out, s.windows)
	return out
}

func (s *Simulator) login(args ...any) any {
	opts := trailingOptions(args)
	host := stringArg(args, 0)
	port := intArg(args, 2)
	username := stringArg(args, 3)
	password := stringArg(args, 4)

	id := fmt.Sprintf("%s_%d", host, port)
	s.mu.Lock()
	dev, known := s.devices[id]
	s.mu.Unlock()

	if !known {
		fail(opts, StatusFailed, `<status><code>404</code></status>`,
			fmt.Errorf("no such device %s", id))
		return nil
	}
	if dev.Username != username || dev.Password != password {
		fail(opts, StatusFailed, `<status><code>401</code></status>`,
			fmt.Errorf("bad credentials for %s", id))
		return nil
	}

	s.mu.Lock()
	s.sessions[id] = true
	s.mu.Unlock()
	succeed(opts, id)
	return nil
}

func (s *Simulator) logout(args ...any) any {
	opts := trailingOptions(args)
	id := stringArg(args, 0)

	s.mu.Lock()
	loggedIn := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !loggedIn {
		fail(opts, StatusFailed, "", fmt.Errorf("not logged in: %s", id))
		return nil
	}
	succeed(opts, nil)
	return StatusOK
}

func (s *Simulator) getDeviceInfo(args ...any) any {
	opts := trailingOptions(args)
	id := stringArg(args, 0)

	s.mu.Lock()
	dev, known := s.devices[id]
	loggedIn := s.sessions[id]
	s.mu.Unlock()

	if !known || !loggedIn {
		fail(opts, StatusFailed, "", fmt.Errorf("not logged in: %s", id))
		return nil
	}
	succeed(opts, dev.Info)
	return nil
}

func (s *Simulator) channelQuery(pick func(SimDevice) []ChannelInfo) Func {
	return func(args ...any) any {
		opts := trailingOptions(args)
		id := stringArg(args, 0)

		s.mu.Lock()
		dev, known := s.devices[id]
		loggedIn := s.sessions[id]
		s.mu.Unlock()

		if !known || !loggedIn {
			fail(opts, StatusFailed, "", fmt.Errorf("not logged in: %s", id))
			return nil
		}
		channels := pick(dev)
		out := make([]ChannelInfo, len(channels))
		copy(out, channels)
		succeed(opts, out)
		return nil
	}
}

func (s *Simulator) startPreview(args ...any) any {
	opts := trailingOptions(args)
	id := stringArg(args, 0)
	channel := intArg(args, 1)
	window := intArg(args, 2)

	s.mu.Lock()
	loggedIn := s.sessions[id]
	valid := window >= 0 && window < len(s.windows)
	if loggedIn && valid {
		s.windows[window].DeviceID = id
		s.windows[window].Channel = channel
		s.windows[window].Playing = true
	}
	s.mu.Unlock()

	switch {
	case !loggedIn:
		fail(opts, StatusFailed, "", fmt.Errorf("not logged in: %s", id))
	case !valid:
		fail(opts, StatusFailed, "", fmt.Errorf("no such window %d", window))
	default:
		succeed(opts, nil)
	}
	return nil
}

func (s *Simulator) stopPreview(args ...any) any {
	opts := trailingOptions(args)
	window := intArg(args, 0)

	s.mu.Lock()
	valid := window >= 0 && window < len(s.windows)
	if valid {
		s.windows[window] = WindowStatus{Index: window}
	}
	s.mu.Unlock()

	if !valid {
		fail(opts, StatusFailed, "", fmt.Errorf("no such window %d", window))
		return nil
	}
	succeed(opts, nil)
	return nil
}

// windowNoop backs the control methods whose effects the simulator does not
// model (PTZ, volume, capture, record, secret key). It validates the window
// argument and reports success.
func (s *Simulator) windowNoop(args ...any) any {
	opts := trailingOptions(args)
	window := intArg(args, 0)

	s.mu.Lock()
	valid := window >= 0 && window < len(s.windows)
	s.mu.Unlock()

	if !valid {
		fail(opts, StatusFailed, "", fmt.Errorf("no such window %d", window))
		return nil
	}
	succeed(opts, nil)
	return nil
}
