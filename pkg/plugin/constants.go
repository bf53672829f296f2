// Package plugin provides the public API for seasonal segmentation plugins.
// External segmenters import this package and call Serve from main.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	ProtocolVersion = "0.1.0"

	// PluginName is the name the segmenter is dispensed under.
	PluginName = "segmenter"
)

// Handshake is the handshake configuration for the go-plugin protocol.
// Hosts refuse to launch binaries that do not present the same cookie.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SEASONAL_PLUGIN",
	MagicCookieValue: "seasonal_segmenter",
}

// PluginMap returns the plugin set served or dispensed for a segmenter.
// Hosts pass a nil impl.
func PluginMap(impl Segmenter) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &SegmenterRPC{Impl: impl},
	}
}

// Serve runs impl as a plugin process. It blocks until the host disconnects.
func Serve(impl Segmenter) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}
