package cli

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/pixelpalette/internal/colour"
)

// Table is a plain text table whose column widths fit their content.
// Widths ignore ANSI colour escapes, so swatches can be placed in cells.
type Table struct {
	headers []string
	rows    [][]string
	padding int
	right   map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
		right:   make(map[int]bool),
	}
}

// AlignRight right-aligns a column, typically a numeric one.
func (t *Table) AlignRight(col int) {
	t.right[col] = true
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleLen(cell))
		}
	}

	var sb strings.Builder
	sep := strings.Repeat(" ", t.padding)

	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = t.pad(i, c, widths[i])
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		sb.WriteString("\n")
	}

	writeLine(t.headers)
	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	writeLine(rules)
	for _, row := range t.rows {
		writeLine(row)
	}

	return sb.String()
}

func (t *Table) pad(col int, s string, width int) string {
	gap := width - visibleLen(s)
	if gap <= 0 {
		return s
	}
	if t.right[col] {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// visibleLen returns the printed width of s, skipping ANSI SGR sequences.
func visibleLen(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		n++
	}
	return n
}

// paletteTable lays the palette out one colour per row with its share of the
// sampled points.
func paletteTable(p *colour.Palette, showPreview bool) *Table {
	headers := []string{"#", "HEX", "RGB", "POPULATION", "SHARE"}
	if showPreview {
		headers = append([]string{"#", "SWATCH"}, headers[1:]...)
	}

	table := NewTable(headers)
	table.AlignRight(0)
	table.AlignRight(len(headers) - 2)
	table.AlignRight(len(headers) - 1)

	total := p.Total()
	for i, c := range p.Colours {
		population, share := "-", "-"
		if n := p.Population(i); n >= 0 {
			population = fmt.Sprint(n)
			if total > 0 {
				share = fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
			}
		}

		row := []string{fmt.Sprint(i + 1), c.Hex(), fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B), population, share}
		if showPreview {
			row = append([]string{row[0], colour.ColourPreview(c, previewWidth)}, row[1:]...)
		}
		table.AddRow(row)
	}
	return table
}
