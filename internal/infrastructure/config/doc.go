// Package config loads and validates CamLink Core configuration.
//
// Configuration is read from a single YAML file, with selected secrets and
// deployment-specific values overridable through CAMLINK_* environment
// variables. Load returns a fully validated Config; nothing else in the
// codebase re-validates configuration values.
package config
