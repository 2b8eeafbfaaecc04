// Package preset names the built-in color filters and parses filter chains
// such as "sepia:0.6,contrast:1.2".
package preset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/AnyUserName/colorfx/internal/colormatrix"
)

var (
	// ErrUnknownFilter is returned for names not in the catalog.
	ErrUnknownFilter = errors.New("preset: unknown filter")
	// ErrBadArgument is returned for unparsable or unexpected arguments.
	ErrBadArgument = errors.New("preset: bad argument")
)

// Preset is one named filter.
type Preset struct {
	Name        string
	Description string
	// Default is the amount used when none is given. Fixed presets ignore
	// amounts and leave this at 0.
	Default float32
	build   func(amount float32) colormatrix.Matrix
}

// Adjustable reports whether the preset takes an amount.
func (p Preset) Adjustable() bool { return p.Default != 0 }

// Matrix builds the preset's matrix for amount.
func (p Preset) Matrix(amount float32) colormatrix.Matrix {
	return p.build(amount)
}

func fixed(m colormatrix.Matrix) func(float32) colormatrix.Matrix {
	return func(float32) colormatrix.Matrix { return m }
}

// Built-in presets.
var presets = map[string]Preset{
	"identity":      {Name: "identity", Description: "leave colors unchanged", build: fixed(colormatrix.Identity())},
	"grayscale":     {Name: "grayscale", Description: "BT.709 luma, amount 0..1", Default: 1, build: colormatrix.Grayscale},
	"grayscale601":  {Name: "grayscale601", Description: "BT.601 luma, amount 0..1", Default: 1, build: colormatrix.GrayscaleBT601},
	"sepia":         {Name: "sepia", Description: "sepia tone, amount 0..1", Default: 1, build: colormatrix.Sepia},
	"brightness":    {Name: "brightness", Description: "scale RGB, 1 = unchanged", Default: 1, build: colormatrix.Brightness},
	"contrast":      {Name: "contrast", Description: "scale around mid-gray, 1 = unchanged", Default: 1, build: colormatrix.Contrast},
	"saturate":      {Name: "saturate", Description: "saturation, 1 = unchanged", Default: 1, build: colormatrix.Saturate},
	"hue":           {Name: "hue", Description: "rotate hue by degrees", Default: 180, build: colormatrix.Hue},
	"invert":        {Name: "invert", Description: "negative, amount 0..1", Default: 1, build: colormatrix.InvertColors},
	"opacity":       {Name: "opacity", Description: "multiply alpha, amount 0..1", Default: 1, build: colormatrix.Opacity},
	"blackwhite":    {Name: "blackwhite", Description: "hard black and white", build: fixed(colormatrix.BlackWhite)},
	"kodachrome":    {Name: "kodachrome", Description: "Kodachrome film look", build: fixed(colormatrix.Kodachrome)},
	"lomograph":     {Name: "lomograph", Description: "lomography look", build: fixed(colormatrix.Lomograph)},
	"polaroid":      {Name: "polaroid", Description: "instant print look", build: fixed(colormatrix.Polaroid)},
	"achromatomaly": {Name: "achromatomaly", Description: "partial color blindness", build: fixed(colormatrix.Achromatomaly)},
	"achromatopsia": {Name: "achromatopsia", Description: "total color blindness", build: fixed(colormatrix.Achromatopsia)},
	"deuteranomaly": {Name: "deuteranomaly", Description: "green-weak", build: fixed(colormatrix.Deuteranomaly)},
	"deuteranopia":  {Name: "deuteranopia", Description: "green-blind", build: fixed(colormatrix.Deuteranopia)},
	"protanomaly":   {Name: "protanomaly", Description: "red-weak", build: fixed(colormatrix.Protanomaly)},
	"protanopia":    {Name: "protanopia", Description: "red-blind", build: fixed(colormatrix.Protanopia)},
	"tritanomaly":   {Name: "tritanomaly", Description: "blue-weak", build: fixed(colormatrix.Tritanomaly)},
	"tritanopia":    {Name: "tritanopia", Description: "blue-blind", build: fixed(colormatrix.Tritanopia)},
}

// Get returns a preset by name.
func Get(name string) (Preset, bool) {
	p, ok := presets[strings.ToLower(name)]
	return p, ok
}

// All returns every preset sorted by name.
func All() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parse builds the matrix for a comma-separated chain of filters, applied
// left to right. Each element is "name" or "name:amount"; the element
// "matrix:" followed by 20 space-separated numbers (row-major, 5 rows of
// 4) gives a raw matrix. The element "inverse" replaces everything to its
// left with its inverse, so "sepia,inverse" undoes sepia.
func Parse(expr string) (colormatrix.Matrix, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return colormatrix.Matrix{}, fmt.Errorf("%w: empty filter", ErrBadArgument)
	}

	acc := colormatrix.Identity()
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if strings.EqualFold(part, "inverse") {
			inv, err := colormatrix.Invert(acc)
			if err != nil {
				return colormatrix.Matrix{}, fmt.Errorf("%w: inverse: %w", ErrBadArgument, err)
			}
			acc = inv
			continue
		}
		m, err := parseStep(part)
		if err != nil {
			return colormatrix.Matrix{}, err
		}
		acc = colormatrix.Mul(acc, m)
	}
	if !acc.IsFinite() {
		return colormatrix.Matrix{}, fmt.Errorf("%w: %q overflows", ErrBadArgument, expr)
	}
	return acc, nil
}

func parseStep(step string) (colormatrix.Matrix, error) {
	name, arg, hasArg := strings.Cut(step, ":")
	name = strings.ToLower(strings.TrimSpace(name))

	if name == "matrix" {
		return ParseMatrix(arg)
	}

	p, ok := Get(name)
	if !ok {
		return colormatrix.Matrix{}, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	if !hasArg {
		return p.Matrix(p.Default), nil
	}
	if !p.Adjustable() {
		return colormatrix.Matrix{}, fmt.Errorf("%w: %s takes no amount", ErrBadArgument, name)
	}
	amount, err := parseFinite(arg)
	if err != nil {
		return colormatrix.Matrix{}, fmt.Errorf("%w: %s amount %q", ErrBadArgument, name, arg)
	}
	return p.Matrix(float32(amount)), nil
}

// parseFinite parses a float32, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return v, nil
}

// ParseMatrix reads 20 numbers separated by spaces or semicolons.
func ParseMatrix(s string) (colormatrix.Matrix, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ';' || r == '\t'
	})
	if len(fields) != 20 {
		return colormatrix.Matrix{}, fmt.Errorf("%w: matrix needs 20 numbers, got %d", ErrBadArgument, len(fields))
	}
	var m colormatrix.Matrix
	for i, f := range fields {
		v, err := parseFinite(f)
		if err != nil {
			return colormatrix.Matrix{}, fmt.Errorf("%w: matrix element %d: %q", ErrBadArgument, i, f)
		}
		m[i/4][i%4] = float32(v)
	}
	return m, nil
}
