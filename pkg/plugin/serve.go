package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-plugin"
)

// Serve runs impl as a go-plugin exporter. When the process is started with
// --plugin-info it prints the plugin metadata as JSON and returns instead.
func Serve(impl ExporterPlugin) {
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		if err := WriteInfo(os.Stdout, impl.GetMetadata()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins: map[string]plugin.Plugin{
			ExporterPluginName: &ExporterPluginRPC{Impl: impl},
		},
	})
}

// WriteInfo writes info as the JSON document hosts expect from --plugin-info.
func WriteInfo(w io.Writer, info PluginInfo) error {
	if info.ProtocolVersion == "" {
		info.ProtocolVersion = ProtocolVersion
	}
	if info.PluginProtocol == "" {
		info.PluginProtocol = string(PluginTypeGoPlugin)
	}
	if err := json.NewEncoder(w).Encode(info); err != nil {
		return fmt.Errorf("failed to encode plugin info: %w", err)
	}
	return nil
}
