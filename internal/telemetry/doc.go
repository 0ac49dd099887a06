// Package telemetry provides InfluxDB connectivity for CamLink Core.
//
// It wraps the official influxdb-client-go v2 library with CamLink-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Plugin call failures (method, status)
//   - Suppressed best-effort sub-operation failures during cleanup
//   - Session counts and stream activity
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.RecordCallFailure("startRealPlay", -1)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
package telemetry
