package protocol

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/pixelpalette/internal/colour"
)

func TestConvertPalette(t *testing.T) {
	p := colour.NewPaletteWithPopulations(
		[]colour.RGB{{R: 255}, {G: 128, B: 1}},
		[]int{7, 3},
	)

	data := ConvertPalette(p, map[string]any{"name": "x"}, true)

	if len(data.Colours) != 2 {
		t.Fatalf("got %d colours, want 2", len(data.Colours))
	}
	if !data.DryRun {
		t.Error("DryRun not carried over")
	}
	second := data.Colours[1]
	if second.Hex != "#008001" || second.Index != 1 || second.Population != 3 {
		t.Errorf("second colour = %+v", second)
	}
	if second.RGB != (RGBColour{G: 128, B: 1}) {
		t.Errorf("second RGB = %+v", second.RGB)
	}
}

func TestConvertPaletteUnknownPopulation(t *testing.T) {
	data := ConvertPalette(colour.NewPalette([]colour.RGB{{B: 9}}), nil, false)
	if data.Colours[0].Population != -1 {
		t.Errorf("Population = %d, want -1", data.Colours[0].Population)
	}
}

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    PluginType
		wantErr string
	}{
		{name: "go-plugin", output: `{"name":"a","plugin_protocol":"go-plugin","protocol_version":"0.1.0"}`, want: PluginTypeGoPlugin},
		{name: "json-stdio", output: `{"name":"b","plugin_protocol":"json-stdio"}`, want: PluginTypeJSON},
		{name: "empty protocol", output: `{"name":"c"}`, want: PluginTypeJSON},
		{name: "unknown protocol", output: `{"name":"d","plugin_protocol":"grpc"}`, wantErr: "unknown plugin_protocol"},
		{name: "incompatible", output: `{"name":"e","protocol_version":"3.0.0"}`, wantErr: "incompatible major version"},
		{name: "not json", output: `hello`, wantErr: "failed to parse plugin info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseInfo([]byte(tt.output))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseInfo() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInfo() error = %v", err)
			}
			if result.Type != tt.want {
				t.Errorf("Type = %s, want %s", result.Type, tt.want)
			}
			if result.SupportsGoPlugin != (tt.want == PluginTypeGoPlugin) {
				t.Errorf("SupportsGoPlugin = %v", result.SupportsGoPlugin)
			}
		})
	}
}

func TestDetectQueryError(t *testing.T) {
	query := func(context.Context, string) ([]byte, error) {
		return nil, errors.New("exec format error")
	}
	if _, err := Detect(context.Background(), "/bin/nope", query); err == nil {
		t.Fatal("Detect() expected error")
	}
}

func TestDetectAppliesTimeout(t *testing.T) {
	query := func(ctx context.Context, _ string) ([]byte, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("query context has no deadline")
		}
		return []byte(`{"name":"x"}`), nil
	}
	if _, err := Detect(context.Background(), "p", query); err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
}

func TestDetectProtocolMissingBinary(t *testing.T) {
	if _, err := DetectProtocol(context.Background(), "/nonexistent/plugin"); err == nil {
		t.Fatal("DetectProtocol() expected error")
	}
}
