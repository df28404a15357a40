package plugin

import (
	"context"
)

// ExporterPlugin is the interface that exporter plugins must implement for go-plugin RPC.
type ExporterPlugin interface {
	// Export renders the palette into one or more files, keyed by relative path.
	Export(ctx context.Context, palette PaletteData) (map[string][]byte, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}
