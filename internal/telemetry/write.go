package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordCallFailure records a failed plugin call.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - method: The plugin method name (e.g., "startRealPlay")
//   - status: The status code the plugin returned
func (c *Client) RecordCallFailure(method string, status int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"plugin_call_failures",
		map[string]string{
			"method": method,
		},
		map[string]interface{}{
			"status": status,
			"count":  1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordSuppressed records a best-effort sub-operation whose failure was
// suppressed, keeping suppressed failures distinguishable from success.
//
// Used by disconnect cleanup: a stopped stream or key-clear that fails does
// not fail the disconnect, but the failure still lands here.
func (c *Client) RecordSuppressed(op, deviceID string, err error) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"suppressed_ops",
		map[string]string{
			"op":        op,
			"device_id": deviceID,
		},
		map[string]interface{}{
			"error": err.Error(),
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordSessionCount records the current number of connected device sessions.
func (c *Client) RecordSessionCount(count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sessions",
		nil,
		map[string]interface{}{
			"count": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
