package plugin

// PaletteData is the palette sent to exporter plugins.
type PaletteData struct {
	Colours    []ColourData   `json:"colours"`
	PluginArgs map[string]any `json:"plugin_args,omitempty"`
	DryRun     bool           `json:"dry_run"`
}

// ColourData is one palette entry, in rank order.
type ColourData struct {
	RGB   RGBColour `json:"rgb"`
	Hex   string    `json:"hex"`
	Index int       `json:"index"`

	// Population is the number of sampled points behind the colour, or -1
	// when it is not known.
	Population int `json:"population"`
}

// RGBColour represents an RGB color.
type RGBColour struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}
