package relay

import (
	"fmt"
	"strings"
)

// Topic prefixes for CamLink MQTT traffic.
const (
	// TopicPrefix is the base for all CamLink topics.
	TopicPrefix = "camlink"

	// TopicPrefixEvent is the base for relayed event bus traffic.
	TopicPrefixEvent = "camlink/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "camlink/system"
)

// Topics provides builders for CamLink MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// Event returns the topic for a relayed event bus event. The event name's
// dots become topic levels.
//
// Example: Event("device.connected") = "camlink/event/device/connected"
func (Topics) Event(name string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixEvent, strings.ReplaceAll(name, ".", "/"))
}

// SystemStatus returns the topic for the daemon's online/offline status.
//
// Example: camlink/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
