// pixelpalette-css exports a palette as CSS custom properties and a JSON
// design-token file. It is a go-plugin exporter:
//
//	pixelpalette export --plugin ./pixelpalette-css --plugin-arg prefix=brand -o styles
package main

import (
	"context"

	"github.com/jmylchreest/pixelpalette/pkg/plugin"
)

const (
	pluginName        = "css"
	pluginDescription = "CSS custom properties and JSON design tokens"
	pluginVersion     = "0.1.0"
)

type cssExporter struct{}

func (cssExporter) GetMetadata() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:            pluginName,
		Version:         pluginVersion,
		ProtocolVersion: plugin.ProtocolVersion,
		Description:     pluginDescription,
		PluginProtocol:  string(plugin.PluginTypeGoPlugin),
	}
}

func (cssExporter) Export(_ context.Context, palette plugin.PaletteData) (map[string][]byte, error) {
	return render(palette)
}

func main() {
	plugin.Serve(cssExporter{})
}
