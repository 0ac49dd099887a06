// Package sdk defines the contract CamLink Core requires from the vendor
// surveillance plugin.
//
// The vendor plugin is an opaque, externally supplied component. It exposes a
// flat set of named methods with a legacy calling convention:
//
//   - positional arguments, optionally followed by an Options map
//   - an Options map may carry "success" / "error" callbacks
//   - some methods return a numeric status synchronously; StatusFailed
//     signals immediate failure
//
// Nothing in this package talks to hardware. The bridge package normalises
// this convention into ordinary Go calls; every other package goes through
// the bridge and never sees an Options map.
//
// Simulator is an in-memory implementation of the full method surface, used
// by the camlink binary when no real plugin is attached and by package tests
// throughout the repository.
package sdk
