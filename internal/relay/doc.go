// Package relay publishes CamLink events to an MQTT broker.
//
// It wraps paho.mqtt.golang with CamLink-specific patterns for connection
// management and automatic reconnection, and forwards event bus traffic to
// the broker so external consumers (dashboards, recorders, automations) can
// observe plugin, session and stream activity without linking against this
// process.
//
// # Topic Hierarchy
//
// Events are published under the camlink prefix, with the event name's dots
// mapped to topic levels:
//
//	camlink/event/device/connected
//	camlink/event/preview/started
//	camlink/system/status
//
// # Usage
//
//	client, err := relay.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	r := relay.New(client, byte(cfg.MQTT.QoS), logger)
//	detach := r.Attach(bus)
//	defer detach()
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package relay
