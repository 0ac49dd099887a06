package sdk

// Vendor method names.
//
// The plugin's method surface is fixed but undocumented; these constants are
// the single place the names appear. Everything else refers to them through
// the bridge.
const (
	// Plugin lifecycle.
	MethodInit  = "initPlugin"  // async; installs the hook set, fires HookInitComplete
	MethodEmbed = "embedPlugin" // sync; mounts the plugin into a container by id

	// Window layout and state.
	MethodChangeLayout    = "changeWindowCount" // sync; status return
	MethodGetWindowStatus = "getWindowStatus"   // sync; returns WindowStatus
	MethodGetWindowSet    = "getWindowSet"      // sync; returns []WindowStatus

	// Device session.
	MethodLogin         = "login"  // async
	MethodLogout        = "logout" // async; status return on some builds
	MethodGetDeviceInfo = "getDeviceInfo"

	// Channel discovery.
	MethodGetAnalogChannels  = "getAnalogChannels"
	MethodGetDigitalChannels = "getDigitalChannels"
	MethodGetZeroChannels    = "getZeroChannels"

	// Streaming control.
	MethodStartPreview   = "startPreview"
	MethodStopPreview    = "stopPreview"
	MethodPTZControl     = "ptzControl"
	MethodSetVolume      = "setVolume"
	MethodCapturePicture = "capturePicture"
	MethodStartRecord    = "startRecord"
	MethodStopRecord     = "stopRecord"
	MethodClearSecretKey = "clearSecretKey"
)

// Hook keys accepted by MethodInit's options object. The plugin invokes these
// callbacks asynchronously for the lifetime of the mount.
const (
	HookWindowSelect       = "onWindowSelect"       // func(index int)
	HookWindowDoubleClick  = "onWindowDoubleClick"  // func(index int)
	HookPluginEvent        = "onPluginEvent"        // func(code, param int)
	HookInitComplete       = "onInitComplete"       // func()
	HookPluginError        = "onPluginError"        // func(index, code int)
	HookPerformanceLack    = "onPerformanceLack"    // func()
	HookSecretKeyError     = "onSecretKeyError"     // func()
	HookRemoteConfigClosed = "onRemoteConfigClosed" // func()
)

// Protocol codes accepted by MethodLogin.
const (
	ProtocolHTTP  = 1
	ProtocolHTTPS = 2
)
