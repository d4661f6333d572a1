package utils

import (
	"image/color"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", color.RGBA{A: 0xff}},
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}},
		{"#FFFFFF", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}},
		{"#11223380", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}},
		{"112233", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}},
		{"transparent", color.RGBA{}},
		{"", color.RGBA{}},
	}
	for _, tc := range tests {
		got, err := ParseHexColor(tc.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHexColor(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseHexColorRejectsInvalid(t *testing.T) {
	for _, in := range []string{"#12", "#12345", "red", "#zzzzzz"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) was expected to fail", in)
		}
	}
}

func TestWithOpacity(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 200}
	if got := WithOpacity(c, 0.5); got.A != 100 {
		t.Errorf("got alpha %d, want 100", got.A)
	}
	if got := WithOpacity(c, 2); got.A != 200 {
		t.Errorf("opacity above 1 must clamp, got alpha %d", got.A)
	}
	if got := WithOpacity(c, -1); got.A != 0 {
		t.Errorf("negative opacity must clamp to 0, got alpha %d", got.A)
	}
}
