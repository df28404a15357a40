// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Palette is the ranked set of colours extracted from an image.
type Palette struct {
	Colours []RGB

	// Populations holds the number of sampled points behind each colour, in
	// the same order as Colours. It is nil when the algorithm does not report
	// cluster sizes or when the palette was restored from a record.
	Populations []int
}

// NewPalette creates a new Palette with the given colours.
func NewPalette(colours []RGB) *Palette {
	return &Palette{
		Colours: colours,
	}
}

// NewPaletteWithPopulations creates a Palette with a population per colour.
func NewPaletteWithPopulations(colours []RGB, populations []int) *Palette {
	return &Palette{
		Colours:     colours,
		Populations: populations,
	}
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// Population returns the population of the colour at index i, or -1 when unknown.
func (p *Palette) Population(i int) int {
	if i < 0 || i >= len(p.Populations) {
		return -1
	}
	return p.Populations[i]
}

// Total returns the sum of all populations.
func (p *Palette) Total() int {
	total := 0
	for _, n := range p.Populations {
		total += n
	}
	return total
}

// ToHex converts the palette colors to hex strings.
// Returns a slice of hex color codes (e.g., ["#1A2B3C", "#4D5E6F"]).
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// HexList returns one hex code per line, ready for the clipboard.
func (p *Palette) HexList() string {
	return strings.Join(p.ToHex(), "\n")
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex        string `json:"hex"`
	RGB        RGB    `json:"rgb"`
	Population *int   `json:"population,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []ColourJSON `json:"colours"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		colours[i] = ColourJSON{
			Hex: c.Hex(),
			RGB: c,
		}
		if n := p.Population(i); n >= 0 {
			colours[i].Population = &n
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.Colours),
		Colours: colours,
	}, "", "  ")
}

// MarshalRecord encodes the palette as a compact JSON array of [r, g, b] triples.
// Populations are not part of the record.
func (p *Palette) MarshalRecord() ([]byte, error) {
	triples := make([][3]int, len(p.Colours))
	for i, c := range p.Colours {
		triples[i] = [3]int{int(c.R), int(c.G), int(c.B)}
	}
	return json.Marshal(triples)
}

// ParseRecord decodes a record written by MarshalRecord.
func ParseRecord(data []byte) (*Palette, error) {
	var triples [][]int
	if err := json.Unmarshal(data, &triples); err != nil {
		return nil, fmt.Errorf("failed to parse palette record: %w", err)
	}

	colours := make([]RGB, len(triples))
	for i, t := range triples {
		if len(t) != 3 {
			return nil, fmt.Errorf("invalid palette record: entry %d has %d channels, want 3", i, len(t))
		}
		for _, v := range t {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("invalid palette record: entry %d channel %d out of range", i, v)
			}
		}
		colours[i] = RGB{R: uint8(t[0]), G: uint8(t[1]), B: uint8(t[2])}
	}

	return NewPalette(colours), nil
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Colours) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colours:\n", len(p.Colours))
	for i, c := range p.Colours {
		fmt.Fprintf(&sb, "  %2d: %s (%s)", i+1, c.Hex(), c.String())
		if n := p.Population(i); n >= 0 {
			fmt.Fprintf(&sb, " x%d", n)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
