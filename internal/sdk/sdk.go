package sdk

// Synchronous status codes returned by vendor methods.
//
// Methods that report a result synchronously return an int. StatusOK means
// the call was accepted; StatusFailed means it was rejected outright and no
// callback will follow. Any other value is method-specific (a handle, a
// count) and is passed through to the caller untouched.
const (
	StatusOK     = 0
	StatusFailed = -1
)

// Func is a single vendor plugin method. Arguments are positional and
// untyped, matching the plugin's native convention. The return value is nil
// for methods that only report through callbacks.
type Func func(args ...any) any

// Handle is the vendor plugin's global entry point.
//
// Exactly one Handle exists per bridge instance. Lookup resolves a method by
// name; ok is false when the method does not exist on the current plugin
// build. Callers must treat a missing method as a hard error, never a no-op.
type Handle interface {
	Lookup(name string) (Func, bool)
}

// SuccessFunc is the success callback carried in an Options map.
type SuccessFunc func(data any)

// ErrorFunc is the error callback carried in an Options map. status is the
// vendor's numeric code (StatusFailed when unknown), diagnostic is a
// serialised diagnostic document if the plugin supplied one, and cause is the
// underlying error payload.
type ErrorFunc func(status int, diagnostic string, cause error)

// Options keys recognised by the plugin's callback convention.
const (
	OptSuccess = "success"
	OptError   = "error"
)

// Options is the trailing options object accepted by asynchronous vendor
// methods. Besides the two callback keys it may carry method-specific
// sub-options which are passed through untouched.
type Options map[string]any

// Success returns the success callback if the map carries one.
func (o Options) Success() (SuccessFunc, bool) {
	fn, ok := o[OptSuccess].(SuccessFunc)
	return fn, ok
}

// Error returns the error callback if the map carries one.
func (o Options) Error() (ErrorFunc, bool) {
	fn, ok := o[OptError].(ErrorFunc)
	return fn, ok
}

// AsOptions reports whether v looks like a callback-carrying options object:
// an Options map with at least one of the success/error keys present. This is
// an explicit capability check; any other value is positional data.
func AsOptions(v any) (Options, bool) {
	o, ok := v.(Options)
	if !ok {
		return nil, false
	}
	if _, ok := o[OptSuccess]; ok {
		return o, true
	}
	if _, ok := o[OptError]; ok {
		return o, true
	}
	return nil, false
}

// WindowStatus describes one display window as reported by the plugin's live
// window queries. The plugin is the sole authority on window state; CamLink
// never caches these.
type WindowStatus struct {
	Index    int    `json:"index"`
	DeviceID string `json:"device_id"`
	Channel  int    `json:"channel"`
	Playing  bool   `json:"playing"`
}

// ChannelInfo describes one device channel as returned by the channel query
// methods. Name may be empty; Online is meaningless for analog channels
// (they are always reported present).
type ChannelInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// DeviceInfo is the payload of the device information query.
type DeviceInfo struct {
	DeviceID        string `json:"device_id"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serial_number"`
	FirmwareVersion string `json:"firmware_version"`
	ChannelCount    int    `json:"channel_count"`
}
