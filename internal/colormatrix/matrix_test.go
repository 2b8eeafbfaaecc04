package colormatrix

import (
	"errors"
	"math"
	"testing"

	"github.com/AnyUserName/colorfx/internal/pixel"
)

func near(a, b pixel.Vector4, eps float64) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

func TestIdentity_Transform(t *testing.T) {
	m := Identity()
	v := pixel.Vector4{0.1, 0.2, 0.3, 0.4}
	if got := m.Transform(v); got != v {
		t.Errorf("identity: got %v, want %v", got, v)
	}
	if !m.IsIdentity() {
		t.Error("IsIdentity false for Identity()")
	}
	if m.HasOffset() {
		t.Error("identity reports an offset")
	}
}

func TestTransform_Offset(t *testing.T) {
	m := Contrast(0)
	got := m.Transform(pixel.Vector4{0.9, 0.1, 0.4, 1})
	want := pixel.Vector4{0.5, 0.5, 0.5, 1}
	if !near(got, want, 1e-6) {
		t.Errorf("flat contrast: got %v, want %v", got, want)
	}
	if !m.HasOffset() {
		t.Error("contrast matrix should carry an offset")
	}
}

func TestTransform_NoSaturation(t *testing.T) {
	m := Brightness(3)
	got := m.Transform(pixel.Vector4{0.5, 0.5, 0.5, 1})
	if got[0] != 1.5 {
		t.Errorf("values must leave [0,1] untouched by the transform, got %v", got[0])
	}
}

func TestTransformRow_MatchesTransform(t *testing.T) {
	m := Sepia(0.7)
	row := []pixel.Vector4{{1, 0, 0, 1}, {0, 1, 0, 1}, {0.3, 0.3, 0.3, 0.5}}
	want := make([]pixel.Vector4, len(row))
	for i, v := range row {
		want[i] = m.Transform(v)
	}
	m.TransformRow(row)
	for i := range row {
		if row[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, row[i], want[i])
		}
	}
}

func TestGrayscaleBT601_Luminance(t *testing.T) {
	m := GrayscaleBT601(1)
	v := m.Transform(pixel.Vector4{1, 0, 0, 1})
	want := pixel.Vector4{0.299, 0.299, 0.299, 1}
	if !near(v, want, 1e-6) {
		t.Errorf("red: got %v, want %v", v, want)
	}
	none := GrayscaleBT601(0)
	v = pixel.Vector4{0.2, 0.4, 0.6, 1}
	if got := none.Transform(v); !near(got, v, 1e-6) {
		t.Errorf("amount 0 should leave colors unchanged, got %v", got)
	}
}

func TestMul_Order(t *testing.T) {
	// Brightness then offset differs from offset then brightness.
	shift := Identity()
	shift[4][0] = 0.1
	a := Mul(Brightness(0.5), shift)
	b := Mul(shift, Brightness(0.5))

	v := pixel.Vector4{0.4, 0, 0, 1}
	if got := a.Transform(v)[0]; math.Abs(float64(got)-0.3) > 1e-6 {
		t.Errorf("scale then shift: got %v, want 0.3", got)
	}
	if got := b.Transform(v)[0]; math.Abs(float64(got)-0.25) > 1e-6 {
		t.Errorf("shift then scale: got %v, want 0.25", got)
	}
}

func TestChain_EqualsSequentialTransforms(t *testing.T) {
	steps := []Matrix{Hue(40), Contrast(1.2), Opacity(0.8)}
	c := Chain(steps...)

	v := pixel.Vector4{0.2, 0.5, 0.7, 1}
	seq := v
	for i := range steps {
		seq = steps[i].Transform(seq)
	}
	if got := c.Transform(v); !near(got, seq, 1e-5) {
		t.Errorf("chain: got %v, sequential %v", got, seq)
	}
	if empty := Chain(); !empty.IsIdentity() {
		t.Error("empty chain should be the identity")
	}
}

func TestInvert_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"identity", Identity()},
		{"brightness", Brightness(0.8)},
		{"contrast", Contrast(1.4)},
		{"hue", Hue(75)},
		{"polaroid", Polaroid},
		{"sepia-half", Sepia(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Invert(tt.m)
			if err != nil {
				t.Fatalf("invert: %v", err)
			}
			p := Mul(tt.m, inv)
			id := Identity()
			for i := range p {
				for j := range p[i] {
					if math.Abs(float64(p[i][j]-id[i][j])) > 1e-4 {
						t.Fatalf("M·M⁻¹[%d][%d] = %v", i, j, p[i][j])
					}
				}
			}
		})
	}
}

func TestInvert_Singular(t *testing.T) {
	_, err := Invert(GrayscaleBT601(1))
	if !errors.Is(err, ErrSingular) {
		t.Errorf("grayscale: got %v, want ErrSingular", err)
	}
	if _, err := Invert(Matrix{}); !errors.Is(err, ErrSingular) {
		t.Errorf("zero matrix: got %v, want ErrSingular", err)
	}
}

func TestFromLinear_NoOffset(t *testing.T) {
	m := FromLinear([4][4]float32{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
	if m.HasOffset() {
		t.Error("linear matrix has an offset")
	}
	got := m.Transform(pixel.Vector4{0.25, 0.75, 0.5, 1})
	if got != (pixel.Vector4{0.75, 0.25, 0.5, 1}) {
		t.Errorf("swap: got %v", got)
	}
}

func TestFixedFilters_KeepAlpha(t *testing.T) {
	named := map[string]Matrix{
		"achromatomaly": Achromatomaly,
		"achromatopsia": Achromatopsia,
		"deuteranomaly": Deuteranomaly,
		"deuteranopia":  Deuteranopia,
		"protanomaly":   Protanomaly,
		"protanopia":    Protanopia,
		"tritanomaly":   Tritanomaly,
		"tritanopia":    Tritanopia,
		"blackwhite":    BlackWhite,
		"kodachrome":    Kodachrome,
		"lomograph":     Lomograph,
		"polaroid":      Polaroid,
	}
	for name, m := range named {
		got := m.Transform(pixel.Vector4{0.3, 0.6, 0.9, 0.5})
		if math.Abs(float64(got[3])-0.5) > 1e-6 {
			t.Errorf("%s: alpha changed to %v", name, got[3])
		}
	}
}

func TestInvertColors(t *testing.T) {
	m := InvertColors(1)
	got := m.Transform(pixel.Vector4{0.2, 0.6, 1, 1})
	if !near(got, pixel.Vector4{0.8, 0.4, 0, 1}, 1e-6) {
		t.Errorf("negative: got %v", got)
	}
}

func TestString(t *testing.T) {
	s := Identity().String()
	if len(s) == 0 {
		t.Fatal("empty string")
	}
	lines := 1
	for _, c := range s {
		if c == '\n' {
			lines++
		}
	}
	if lines != 5 {
		t.Errorf("got %d lines, want 5", lines)
	}
}

func BenchmarkTransformRow(b *testing.B) {
	m := Sepia(1)
	row := make([]pixel.Vector4, 1920)
	for i := range row {
		row[i] = pixel.Vector4{0.5, 0.25, 0.75, 1}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.TransformRow(row)
	}
}

func TestIsFinite(t *testing.T) {
	m := Sepia(1)
	if !m.IsFinite() {
		t.Error("sepia reported non-finite")
	}
	m[4][2] = float32(math.Inf(-1))
	if m.IsFinite() {
		t.Error("-Inf offset accepted")
	}
	m = Identity()
	m[1][3] = float32(math.NaN())
	if m.IsFinite() {
		t.Error("NaN accepted")
	}
}
