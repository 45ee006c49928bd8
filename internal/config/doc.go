// Package config loads the server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// CLUSTERVIZ_* environment variables (which may come from a .env file).
package config
