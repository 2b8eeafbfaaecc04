package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/colorfx/internal/hasher"
)

// Validate checks the manifest against the files under baseDir and
// returns one message per problem. With checkHashes, file contents are
// re-hashed and compared with the recorded hash.
func (m *Manifest) Validate(baseDir string, checkHashes bool) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}
	if m.Filter == "" {
		errs = append(errs, "missing filter")
	}

	keys := make([]string, 0, len(m.Outputs))
	for k := range m.Outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seenPaths := map[string]string{}
	var pixels, outBytes int64
	for _, key := range keys {
		o := m.Outputs[key]
		pixels += o.Effective.Pixels()
		outBytes += o.Size

		if o.Source.Width <= 0 || o.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("output %q: invalid source dimensions %dx%d",
				key, o.Source.Width, o.Source.Height))
		}
		if o.Region.Width < 0 || o.Region.Height < 0 {
			errs = append(errs, fmt.Sprintf("output %q: negative region %dx%d", key, o.Region.Width, o.Region.Height))
		}
		if o.Effective.Width > o.Source.Width || o.Effective.Height > o.Source.Height {
			errs = append(errs, fmt.Sprintf("output %q: effective region %dx%d exceeds source %dx%d",
				key, o.Effective.Width, o.Effective.Height, o.Source.Width, o.Source.Height))
		}
		if o.Width != o.Source.Width || o.Height != o.Source.Height {
			errs = append(errs, fmt.Sprintf("output %q: size %dx%d differs from source %dx%d",
				key, o.Width, o.Height, o.Source.Width, o.Source.Height))
		}
		if o.Format == "" {
			errs = append(errs, fmt.Sprintf("output %q: empty format", key))
		}
		if o.Hash == "" {
			errs = append(errs, fmt.Sprintf("output %q: missing hash", key))
		}
		if o.Path == "" {
			errs = append(errs, fmt.Sprintf("output %q: missing path", key))
			continue
		}
		if prev, dup := seenPaths[o.Path]; dup {
			errs = append(errs, fmt.Sprintf("output %q: path %q already used by %q", key, o.Path, prev))
		}
		seenPaths[o.Path] = key

		fullPath := filepath.Join(baseDir, filepath.FromSlash(o.Path))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("output %q: file not found: %s", key, o.Path))
			continue
		}
		if info.Size() != o.Size {
			errs = append(errs, fmt.Sprintf("output %q: size mismatch: manifest=%d, disk=%d", key, o.Size, info.Size()))
		}
		if checkHashes && o.Hash != "" {
			got, err := hashFile(fullPath)
			switch {
			case err != nil:
				errs = append(errs, fmt.Sprintf("output %q: hash: %v", key, err))
			case got != o.Hash:
				errs = append(errs, fmt.Sprintf("output %q: hash mismatch: manifest=%s, disk=%s", key, o.Hash, got))
			}
		}
	}

	if m.Stats.TotalOutputs != len(m.Outputs) {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, len(m.Outputs)))
	}
	if m.Stats.TotalOutputBytes != outBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d", m.Stats.TotalOutputBytes, outBytes))
	}
	if m.Stats.FilteredPixels != pixels {
		errs = append(errs, fmt.Sprintf("stats.filtered_pixels mismatch: %d != %d", m.Stats.FilteredPixels, pixels))
	}
	return errs
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hasher.ContentHashReader(f, 16)
}
