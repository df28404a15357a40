// Package protocol defines the exporter plugin protocol, version and
// compatibility checking used by the host.
package protocol

import (
	"github.com/jmylchreest/pixelpalette/internal/colour"
	"github.com/jmylchreest/pixelpalette/pkg/plugin"
)

// Type aliases to the public plugin API.
// External plugins should import github.com/jmylchreest/pixelpalette/pkg/plugin directly.
type (
	PluginInfo              = plugin.PluginInfo
	PluginType              = plugin.PluginType
	PaletteData             = plugin.PaletteData
	ColourData              = plugin.ColourData
	RGBColour               = plugin.RGBColour
	ExporterPlugin          = plugin.ExporterPlugin
	ExporterPluginRPC       = plugin.ExporterPluginRPC
	ExporterPluginRPCClient = plugin.ExporterPluginRPCClient
	RPCError                = plugin.RPCError
)

const (
	PluginTypeGoPlugin = plugin.PluginTypeGoPlugin
	PluginTypeJSON     = plugin.PluginTypeJSON

	// ExporterPluginName is the name go-plugin exporters are dispensed under.
	ExporterPluginName = plugin.ExporterPluginName
)

// Handshake is the handshake configuration shared with go-plugin exporters.
var Handshake = plugin.Handshake

// ConvertPalette converts a ranked palette into the form sent to plugins.
// Unknown populations are sent as -1.
func ConvertPalette(p *colour.Palette, pluginArgs map[string]any, dryRun bool) PaletteData {
	data := PaletteData{
		Colours:    make([]ColourData, 0, p.Len()),
		PluginArgs: pluginArgs,
		DryRun:     dryRun,
	}
	for i, c := range p.Colours {
		data.Colours = append(data.Colours, ColourData{
			RGB:        RGBColour{R: c.R, G: c.G, B: c.B},
			Hex:        c.Hex(),
			Index:      i,
			Population: p.Population(i),
		})
	}
	return data
}
