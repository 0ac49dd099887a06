package session

// Protocols accepted by Connect.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// Credentials is the caller-supplied input to Connect.
type Credentials struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`     // 0 = protocol default
	Protocol string `json:"protocol"` // "" = http
	Username string `json:"username"`
	Password string `json:"-"`

	// Options carries vendor-specific login sub-options, passed through
	// to the plugin untouched.
	Options map[string]any `json:"-"`
}

// Session is the registry's record of an authenticated device.
type Session struct {
	ID       string `json:"id"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	Username string `json:"username"`
}

// Channel classes reported by discovery.
const (
	ChannelAnalog  = "analog"
	ChannelDigital = "digital"
	ChannelZero    = "zero"
)

// Channel is one discovered device channel.
type Channel struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Online bool   `json:"online"`
	Zero   bool   `json:"is_zero"`
}

// Event names published by the registry on the event bus.
const (
	// EventConnected fires after a successful login. Payload: Session.
	EventConnected = "device.connected"

	// EventDisconnected fires after logout and window cleanup complete.
	// Payload: Session.
	EventDisconnected = "device.disconnected"
)
