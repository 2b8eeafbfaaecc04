package colormatrix

import "math"

// Fixed filters.
var (
	// Achromatomaly simulates partial color blindness.
	Achromatomaly = FromLinear([4][4]float32{
		{.618, .163, .163, 0},
		{.320, .775, .320, 0},
		{.062, .062, .516, 0},
		{0, 0, 0, 1},
	})
	// Achromatopsia simulates total color blindness.
	Achromatopsia = FromLinear([4][4]float32{
		{.299, .299, .299, 0},
		{.587, .587, .587, 0},
		{.114, .114, .114, 0},
		{0, 0, 0, 1},
	})
	// Deuteranomaly simulates green-weak vision.
	Deuteranomaly = FromLinear([4][4]float32{
		{.8, .258, 0, 0},
		{.2, .742, .142, 0},
		{0, 0, .858, 0},
		{0, 0, 0, 1},
	})
	// Deuteranopia simulates green-blind vision.
	Deuteranopia = FromLinear([4][4]float32{
		{.625, .7, 0, 0},
		{.375, .3, .3, 0},
		{0, 0, .7, 0},
		{0, 0, 0, 1},
	})
	// Protanomaly simulates red-weak vision.
	Protanomaly = FromLinear([4][4]float32{
		{.817, .333, 0, 0},
		{.183, .667, .125, 0},
		{0, 0, .875, 0},
		{0, 0, 0, 1},
	})
	// Protanopia simulates red-blind vision.
	Protanopia = FromLinear([4][4]float32{
		{.567, .558, 0, 0},
		{.433, .442, .242, 0},
		{0, 0, .758, 0},
		{0, 0, 0, 1},
	})
	// Tritanomaly simulates blue-weak vision.
	Tritanomaly = FromLinear([4][4]float32{
		{.967, 0, 0, 0},
		{.33, .733, .183, 0},
		{0, .267, .817, 0},
		{0, 0, 0, 1},
	})
	// Tritanopia simulates blue-blind vision.
	Tritanopia = FromLinear([4][4]float32{
		{.95, 0, 0, 0},
		{.05, .433, .475, 0},
		{0, .567, .525, 0},
		{0, 0, 0, 1},
	})

	// BlackWhite pushes every channel towards pure black or white.
	BlackWhite = Matrix{
		{1.5, 1.5, 1.5, 0},
		{1.5, 1.5, 1.5, 0},
		{1.5, 1.5, 1.5, 0},
		{0, 0, 0, 1},
		{-1, -1, -1, 0},
	}
	// Kodachrome imitates the film stock: warm shift plus extra saturation.
	Kodachrome = Mul(Matrix{
		{.7297023, 0, 0, 0},
		{0, .6109577, 0, 0},
		{0, 0, .597218, 0},
		{0, 0, 0, 1},
		{.105, .145, .155, 0},
	}, Saturate(1.2))
	// Lomograph gives a high-contrast, slightly green look.
	Lomograph = Chain(
		Brightness(1.5),
		Saturate(1.5),
		Contrast(1.35),
		Matrix{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
			{0, .05, 0, 0},
		},
	)
	// Polaroid imitates an instant camera print.
	Polaroid = Matrix{
		{1.538, -.062, -.262, 0},
		{-.022, 1.578, -.022, 0},
		{.216, -.16, 1.5831, 0},
		{0, 0, 0, 1},
		{.02, -.05, -.05, 0},
	}
)

// Brightness scales R, G and B by amount. 1 is unchanged, 0 is black.
func Brightness(amount float32) Matrix {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = amount, amount, amount
	return m
}

// Contrast scales R, G and B around mid-gray. 1 is unchanged, 0 is flat
// gray.
func Contrast(amount float32) Matrix {
	offset := -.5*amount + .5
	m := Brightness(amount)
	m[4][0], m[4][1], m[4][2] = offset, offset, offset
	return m
}

// Grayscale blends towards BT.709 luma. amount runs from 0 (unchanged)
// to 1 (fully gray).
func Grayscale(amount float32) Matrix {
	return lumaBlend(.2126, .7152, .0722, amount)
}

// GrayscaleBT601 blends towards BT.601 luma (0.299 R + 0.587 G + 0.114 B).
func GrayscaleBT601(amount float32) Matrix {
	return lumaBlend(.299, .587, .114, amount)
}

func lumaBlend(kr, kg, kb, amount float32) Matrix {
	a := 1 - clampAmount(amount)
	m := Identity()
	m[0] = [4]float32{kr + (1-kr)*a, kr - kr*a, kr - kr*a, 0}
	m[1] = [4]float32{kg - kg*a, kg + (1-kg)*a, kg - kg*a, 0}
	m[2] = [4]float32{kb - kb*a, kb - kb*a, kb + (1-kb)*a, 0}
	return m
}

// Hue rotates hues by degrees.
func Hue(degrees float32) Matrix {
	rad := float64(degrees) * math.Pi / 180
	c := float32(math.Cos(rad))
	s := float32(math.Sin(rad))

	m := Identity()
	m[0] = [4]float32{.213 + c*.787 - s*.213, .213 - c*.213 + s*.143, .213 - c*.213 - s*.787, 0}
	m[1] = [4]float32{.715 - c*.715 - s*.715, .715 + c*.285 + s*.140, .715 - c*.715 + s*.715, 0}
	m[2] = [4]float32{.072 - c*.072 + s*.928, .072 - c*.072 - s*.283, .072 + c*.928 + s*.072, 0}
	return m
}

// InvertColors inverts R, G and B by amount, 0 (unchanged) to 1 (negative).
func InvertColors(amount float32) Matrix {
	amount = clampAmount(amount)
	v := 1 - 2*amount
	m := Brightness(v)
	m[4][0], m[4][1], m[4][2] = amount, amount, amount
	return m
}

// Opacity multiplies alpha by amount.
func Opacity(amount float32) Matrix {
	m := Identity()
	m[3][3] = clampAmount(amount)
	return m
}

// Saturate scales saturation. 1 is unchanged, 0 is gray, above 1
// oversaturates.
func Saturate(amount float32) Matrix {
	if amount < 0 {
		amount = 0
	}
	m := Identity()
	m[0] = [4]float32{.213 + .787*amount, .213 - .213*amount, .213 - .213*amount, 0}
	m[1] = [4]float32{.715 - .715*amount, .715 + .285*amount, .715 - .715*amount, 0}
	m[2] = [4]float32{.072 - .072*amount, .072 - .072*amount, .072 + .928*amount, 0}
	return m
}

// Sepia blends towards sepia tones, 0 (unchanged) to 1 (full sepia).
func Sepia(amount float32) Matrix {
	a := 1 - clampAmount(amount)
	m := Identity()
	m[0] = [4]float32{.393 + .607*a, .349 - .349*a, .272 - .272*a, 0}
	m[1] = [4]float32{.769 - .769*a, .686 + .314*a, .534 - .534*a, 0}
	m[2] = [4]float32{.189 - .189*a, .168 - .168*a, .131 + .869*a, 0}
	return m
}

func clampAmount(a float32) float32 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
