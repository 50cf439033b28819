// Package config loads application settings from defaults, an optional
// config.yaml and SHOP_ prefixed environment variables, then validates them
// before any component is built.
package config
