package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/colorfx/internal/encoder"
	"github.com/AnyUserName/colorfx/internal/filter"
	"github.com/AnyUserName/colorfx/internal/hasher"
	"github.com/AnyUserName/colorfx/internal/manifest"
	"github.com/AnyUserName/colorfx/internal/surface"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key    string
	output manifest.Output
	err    error
}

// processImage handles one source: decode, filter, encode, write.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}

	img, err := imaging.Open(src.AbsPath, imaging.AutoOrientation(true))
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	bounds := img.Bounds()

	region := filter.Whole(bounds)
	if p.cfg.Region != nil {
		region = *p.cfg.Region
	}

	result.output = manifest.Output{
		Source: manifest.SourceInfo{
			Path:     src.RelPath,
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: encoder.HasAlpha(img),
		},
		Region: toManifestRegion(region),
	}

	buf, dst, err := surface.Adopt(img)
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}
	if err := p.proc.Apply(buf, region); err != nil {
		result.err = fmt.Errorf("filter %s: %w", src.RelPath, err)
		return result
	}
	effective := filter.Effective(bounds, region)
	result.output.Effective = toManifestRegion(filter.RegionOf(effective))

	digest, err := hasher.PixelDigest(buf, region)
	if err != nil {
		result.err = fmt.Errorf("digest %s: %w", src.RelPath, err)
		return result
	}
	result.output.PixelDigest = digest

	enc, err := p.registry.Resolve(p.cfg.Format, src.Format, encoder.HasAlpha(dst))
	if err != nil {
		result.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return result
	}
	data, err := enc.Encode(dst, p.cfg.Quality)
	if err != nil {
		result.err = fmt.Errorf("encode %s as %s: %w", src.RelPath, enc.Format(), err)
		return result
	}

	contentHash := hasher.ContentHash(data, 16)
	relPath := outputPath(src.Key, p.matrixHash, contentHash, enc.Extension())
	outPath := filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("mkdir for %s: %w", relPath, err)
		return result
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.output.Format = enc.Format()
	result.output.Width = bounds.Dx()
	result.output.Height = bounds.Dy()
	result.output.Size = int64(len(data))
	result.output.Hash = contentHash
	result.output.Path = relPath
	return result
}

// outputPath builds the content-addressed name key.filter.content.ext,
// using forward slashes.
func outputPath(key, matrixHash, contentHash, ext string) string {
	return fmt.Sprintf("%s.%s.%s.%s", key, matrixHash[:8], contentHash[:8], ext)
}

func toManifestRegion(r filter.Region) manifest.Region {
	return manifest.Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
