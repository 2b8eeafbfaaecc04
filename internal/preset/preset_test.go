package preset

import (
	"errors"
	"testing"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
)

func TestParse_SingleAndChain(t *testing.T) {
	tests := []struct {
		expr string
		want colormatrix.Matrix
	}{
		{"sepia", colormatrix.Sepia(1)},
		{"Sepia:0.5", colormatrix.Sepia(0.5)},
		{"polaroid", colormatrix.Polaroid},
		{"hue", colormatrix.Hue(180)},
		{"grayscale601, contrast:1.2", colormatrix.Mul(colormatrix.GrayscaleBT601(1), colormatrix.Contrast(1.2))},
		{"identity", colormatrix.Identity()},
	}
	for _, tt := range tests {
		got, err := Parse(tt.expr)
		if err != nil {
			t.Errorf("%q: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q:\n%v\nwant\n%v", tt.expr, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrBadArgument},
		{"vintage", ErrUnknownFilter},
		{"sepia:lots", ErrBadArgument},
		{"polaroid:0.5", ErrBadArgument},
		{"sepia,nope", ErrUnknownFilter},
		{"matrix:1 2 3", ErrBadArgument},
		{"hue:inf", ErrBadArgument},
		{"brightness:+Inf", ErrBadArgument},
		{"sepia:NaN", ErrBadArgument},
		{"contrast:1e40", ErrBadArgument},
		{"matrix:NaN 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1 0 0 0 0", ErrBadArgument},
		{"matrix:1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1 -Inf 0 0 0", ErrBadArgument},
		{"brightness:1e30,brightness:1e30", ErrBadArgument},
		{"grayscale,inverse", colormatrix.ErrSingular},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.expr); !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.expr, err, tt.want)
		}
	}
}

func TestParseMatrix(t *testing.T) {
	m, err := Parse("matrix:1 0 0 0; 0 1 0 0; 0 0 1 0; 0 0 0 1; 0.5 0 0 0")
	if err != nil {
		t.Fatal(err)
	}
	want := colormatrix.Identity()
	want[4][0] = 0.5
	if m != want {
		t.Errorf("got\n%v\nwant\n%v", m, want)
	}
	if _, err := ParseMatrix("1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1 0 0 0 x"); !errors.Is(err, ErrBadArgument) {
		t.Errorf("non-number: got %v", err)
	}
}

func TestAll_SortedAndComplete(t *testing.T) {
	all := All()
	if len(all) != len(presets) {
		t.Fatalf("got %d presets, want %d", len(all), len(presets))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name >= all[i].Name {
			t.Errorf("not sorted at %d: %s >= %s", i, all[i-1].Name, all[i].Name)
		}
	}
	for _, p := range all {
		if p.Description == "" {
			t.Errorf("%s: missing description", p.Name)
		}
		if got, ok := Get(p.Name); !ok || got.Name != p.Name {
			t.Errorf("Get(%q) failed", p.Name)
		}
	}
}

func TestAdjustable(t *testing.T) {
	if p, _ := Get("sepia"); !p.Adjustable() {
		t.Error("sepia should take an amount")
	}
	if p, _ := Get("kodachrome"); p.Adjustable() {
		t.Error("kodachrome is fixed")
	}
}

func TestParse_Inverse(t *testing.T) {
	got, err := Parse("sepia:0.5, contrast:1.2, inverse")
	if err != nil {
		t.Fatal(err)
	}
	want, err := colormatrix.Invert(colormatrix.Mul(colormatrix.Sepia(0.5), colormatrix.Contrast(1.2)))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got\n%v\nwant\n%v", got, want)
	}

	// Steps after the inverse apply on top of it.
	undo, err := Parse("brightness:2,inverse,brightness:2")
	if err != nil {
		t.Fatal(err)
	}
	if !undo.IsIdentity() {
		t.Errorf("brightness round trip:\n%v", undo)
	}
}
