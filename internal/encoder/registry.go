package encoder

import (
	"fmt"
	"strings"
)

// priority is the order formats are listed and tried in.
var priority = []string{"png", "webp", "tiff", "jpeg", "bmp"}

// aliases maps alternate names to registered formats.
var aliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// Registry holds all available encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	return NewRegistryWith(
		&PNGEncoder{},
		&WebPEncoder{},
		&TIFFEncoder{},
		&JPEGEncoder{},
		&BMPEncoder{},
	)
}

// NewRegistryWith registers the given encoders, skipping unavailable ones.
func NewRegistryWith(all ...Encoder) *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// Normalize lowercases a format name and resolves aliases.
func Normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[Normalize(format)]
}

// Available returns all available format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range priority {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve picks the output format for one image. An empty request keeps
// the source format when it can be written. Unavailable requests fall back
// to png for images with alpha and jpeg otherwise.
func (r *Registry) Resolve(requested, source string, hasAlpha bool) (Encoder, error) {
	if requested != "" {
		if enc := r.Get(requested); enc != nil {
			return enc, nil
		}
	} else if source != "" {
		if enc := r.Get(source); enc != nil && (enc.Alpha() || !hasAlpha) {
			return enc, nil
		}
	}

	fallback := "jpeg"
	if hasAlpha {
		fallback = "png"
	}
	if enc := r.encoders[fallback]; enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: no encoder for %q", ErrUnavailable, requested)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
