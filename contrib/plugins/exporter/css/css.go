package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"text/template"

	"github.com/jmylchreest/pixelpalette/pkg/plugin"
)

const (
	defaultPrefix = "palette"
	cssFile       = "palette.css"
	tokensFile    = "palette.tokens.json"
)

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

var cssTemplate = template.Must(template.New(cssFile).Parse(`/* Generated by pixelpalette. Colours are ordered by population. */
:root {
{{- range .Colours }}
  --{{ $.Prefix }}-{{ .Rank }}: {{ .Hex }};
  --{{ $.Prefix }}-{{ .Rank }}-rgb: {{ .RGB.R }} {{ .RGB.G }} {{ .RGB.B }};
{{- end }}
}
`))

type cssColour struct {
	plugin.ColourData
	Rank int
}

type cssData struct {
	Prefix  string
	Colours []cssColour
}

// tokenFile lists tokens in palette order, most populous first.
type tokenFile struct {
	Tokens []token `json:"tokens"`
}

// token is one entry of the design-token file.
type token struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	Type       string `json:"type"`
	Population *int   `json:"population,omitempty"`
}

// render produces the CSS and token files for a palette.
func render(palette plugin.PaletteData) (map[string][]byte, error) {
	prefix, err := prefixArg(palette.PluginArgs)
	if err != nil {
		return nil, err
	}
	if len(palette.Colours) == 0 {
		return nil, fmt.Errorf("palette has no colours")
	}

	data := cssData{Prefix: prefix}
	tokens := tokenFile{Tokens: make([]token, 0, len(palette.Colours))}
	for i, c := range palette.Colours {
		data.Colours = append(data.Colours, cssColour{ColourData: c, Rank: i + 1})

		t := token{Name: fmt.Sprintf("%s-%d", prefix, i+1), Value: c.Hex, Type: "color"}
		if c.Population >= 0 {
			n := c.Population
			t.Population = &n
		}
		tokens.Tokens = append(tokens.Tokens, t)
	}

	var css bytes.Buffer
	if err := cssTemplate.Execute(&css, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	tokenJSON, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tokens: %w", err)
	}

	return map[string][]byte{
		cssFile:    css.Bytes(),
		tokensFile: append(tokenJSON, '\n'),
	}, nil
}

// prefixArg reads the optional "prefix" plugin argument.
func prefixArg(args map[string]any) (string, error) {
	raw, ok := args["prefix"]
	if !ok {
		return defaultPrefix, nil
	}
	prefix, ok := raw.(string)
	if !ok || !prefixPattern.MatchString(prefix) {
		return "", fmt.Errorf("invalid prefix %v: use lower-case letters, digits and dashes", raw)
	}
	return prefix, nil
}
