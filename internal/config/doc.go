// Package config defines the settings used by the panelbridge binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the push endpoint, the optional MQTT mirror and the
// panel frame source.
package config
