package segment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/jmylchreest/seasonal/internal/sampler"
	"github.com/jmylchreest/seasonal/internal/security"
	"github.com/jmylchreest/seasonal/pkg/plugin"
)

// MaskDir serves precomputed masks stored as <region>.png files.
// Regions without a file are left out, so sampling reports them as empty.
type MaskDir struct {
	fsys fs.FS
	dir  string
}

// NewMaskDir reads masks from a directory on disk.
func NewMaskDir(dir string) *MaskDir {
	return &MaskDir{fsys: os.DirFS(dir), dir: dir}
}

// NewMaskFS reads masks from any file system.
func NewMaskFS(fsys fs.FS) *MaskDir {
	return &MaskDir{fsys: fsys, dir: "."}
}

// Segment loads the masks. The image is not inspected; mask dimensions are
// checked against it by the sampler.
func (m *MaskDir) Segment(ctx context.Context, _ image.Image) (sampler.Masks, error) {
	named := make(map[string]*image.Gray)
	for _, r := range sampler.Regions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := string(r) + ".png"
		if err := security.ValidateFilePath(name, m.dir); err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(m.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s mask: %w", r, err)
		}

		gray, err := plugin.DecodeGray(data)
		if err != nil {
			return nil, fmt.Errorf("%s mask: %w", r, err)
		}
		named[string(r)] = gray
	}

	return FromNamed(named)
}
