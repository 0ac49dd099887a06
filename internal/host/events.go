package host

// Event names published by the host on the event bus.
const (
	// EventReady fires once, when initialization completes and the plugin
	// is mounted. Payload: the container id (string).
	EventReady = "plugin.ready"

	// EventWindowSelect fires when the plugin reports a window selection.
	// Payload: the window index (int).
	EventWindowSelect = "plugin.window_select"

	// EventWindowDoubleClick fires on a window double-click.
	// Payload: the window index (int).
	EventWindowDoubleClick = "plugin.window_double_click"

	// EventPluginEvent fires for generic numbered plugin events.
	// Payload: PluginEvent.
	EventPluginEvent = "plugin.event"

	// EventPluginError fires for per-window plugin errors.
	// Payload: PluginError.
	EventPluginError = "plugin.error"

	// EventPerformanceLack fires when the plugin warns about decode
	// performance. Payload: nil.
	EventPerformanceLack = "plugin.performance_lack"

	// EventSecretKeyError fires on stream secret key errors. Payload: nil.
	EventSecretKeyError = "plugin.secret_key_error"

	// EventRemoteConfigClosed fires when the plugin's remote configuration
	// dialog closes. Payload: nil.
	EventRemoteConfigClosed = "plugin.remote_config_closed"
)

// PluginEvent is the payload of EventPluginEvent.
type PluginEvent struct {
	Code  int `json:"code"`
	Param int `json:"param"`
}

// PluginError is the payload of EventPluginError.
type PluginError struct {
	Window int `json:"window"`
	Code   int `json:"code"`
}
