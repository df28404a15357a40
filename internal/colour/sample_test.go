package colour

import (
	"errors"
	"testing"
)

func TestSampleAlphaThreshold(t *testing.T) {
	buf := []uint8{
		10, 10, 10, 0,
		20, 20, 20, 15,
		30, 30, 30, 16,
		40, 40, 40, 255,
	}

	got := Sample(buf, 4)

	want := []RGB{{R: 30, G: 30, B: 30}, {R: 40, G: 40, B: 40}}
	if len(got) != len(want) {
		t.Fatalf("Sample() returned %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sample()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSampleStride(t *testing.T) {
	// Eight opaque pixels, each with a distinct red channel.
	buf := make([]uint8, 0, 32)
	for i := range 8 {
		buf = append(buf, uint8(i), 0, 0, 255)
	}

	tests := []struct {
		name   string
		stride int
		want   []uint8
	}{
		{name: "every pixel", stride: 4, want: []uint8{0, 1, 2, 3, 4, 5, 6, 7}},
		{name: "default stride", stride: DefaultStride, want: []uint8{0, 4}},
		{name: "every other pixel", stride: 8, want: []uint8{0, 2, 4, 6}},
		{name: "non-positive falls back", stride: 0, want: []uint8{0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(buf, tt.stride)
			if len(got) != len(tt.want) {
				t.Fatalf("Sample() returned %d points, want %d", len(got), len(tt.want))
			}
			for i, r := range tt.want {
				if got[i].R != r {
					t.Errorf("Sample()[%d].R = %d, want %d", i, got[i].R, r)
				}
			}
		})
	}
}

func TestSampleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		buf  []uint8
	}{
		{name: "nil", buf: nil},
		{name: "shorter than a pixel", buf: []uint8{255, 0, 0}},
		{name: "all transparent", buf: []uint8{255, 0, 0, 0, 0, 255, 0, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sample(tt.buf, 4); len(got) != 0 {
				t.Errorf("Sample() = %v, want no points", got)
			}
		})
	}
}

func TestSampleTrailingPartialPixel(t *testing.T) {
	buf := []uint8{1, 2, 3, 255, 4, 5}

	got := Sample(buf, 4)
	if len(got) != 1 || got[0] != (RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("Sample() = %v, want single point {1 2 3}", got)
	}
}

func TestValidateBuffer(t *testing.T) {
	tests := []struct {
		name    string
		buf     []uint8
		stride  int
		wantErr bool
	}{
		{name: "valid", buf: make([]uint8, 16), stride: 16},
		{name: "empty", buf: nil, stride: 4},
		{name: "ragged buffer", buf: make([]uint8, 6), stride: 4, wantErr: true},
		{name: "zero stride", buf: make([]uint8, 8), stride: 0, wantErr: true},
		{name: "misaligned stride", buf: make([]uint8, 8), stride: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBuffer(tt.buf, tt.stride)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBuffer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ValidateBuffer() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
