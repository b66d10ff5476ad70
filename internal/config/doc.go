// Package config provides configuration management for the upnpcp CLI.
//
// This package manages a YAML-based configuration file that stores CLI
// preferences (search timeout, default interface, output format) and a
// small cache of previously discovered devices, keyed by UDN. It is
// consumed only by cmd/upnpctl; the pkg/upnp control point has no
// dependency on it.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/upnpcp/config.yaml or $HOME/.config/upnpcp/config.yaml
//   - macOS: $HOME/.config/upnpcp/config.yaml
//   - Windows: %LOCALAPPDATA%\upnpcp\config.yaml
//
// # Security
//
// This package never stores device credentials.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("uuid:1234", "Living Room Receiver")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
