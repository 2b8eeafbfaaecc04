package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	AbsPath string
	// RelPath is relative to the input directory, with forward slashes.
	RelPath string
	// Key is RelPath without its extension.
	Key string
	// Format is the normalized source format (png, jpeg, gif, bmp, tiff, webp).
	Format string
	Size   int64
}

// formats maps recognized extensions to format names.
var formats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ScanImages walks inputDir and returns its images sorted by key, then
// by path. Hidden
// directories and any directory in skip are not entered.
func ScanImages(inputDir string, skip ...string) ([]Source, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	var sources []Source
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && skipped[abs] && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		format, ok := formats[ext]
		if !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: rel,
			Key:     rel[:len(rel)-len(ext)],
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Key != sources[j].Key {
			return sources[i].Key < sources[j].Key
		}
		return sources[i].RelPath < sources[j].RelPath
	})
	return sources, nil
}
