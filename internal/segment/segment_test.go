package segment

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jmylchreest/seasonal/internal/sampler"
	"github.com/jmylchreest/seasonal/pkg/plugin"
)

func maskPNG(t *testing.T, value uint8) []byte {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range g.Pix {
		g.Pix[i] = value
	}
	data, err := plugin.EncodePNG(g)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestFromNamed(t *testing.T) {
	named := map[string]*image.Gray{
		"skin": image.NewGray(image.Rect(0, 0, 1, 1)),
		"hair": image.NewGray(image.Rect(0, 0, 1, 1)),
	}
	masks, err := FromNamed(named)
	if err != nil {
		t.Fatalf("FromNamed error = %v", err)
	}
	if len(masks) != 2 || masks[sampler.RegionSkin] == nil || masks[sampler.RegionHair] == nil {
		t.Errorf("FromNamed = %v", masks)
	}
	if masks[sampler.RegionSkin].Threshold != sampler.DefaultMaskThreshold {
		t.Errorf("threshold = %d", masks[sampler.RegionSkin].Threshold)
	}

	_, err = FromNamed(map[string]*image.Gray{"nose": image.NewGray(image.Rect(0, 0, 1, 1))})
	if !errors.Is(err, sampler.ErrInvalidRegion) {
		t.Errorf("FromNamed error = %v, want ErrInvalidRegion", err)
	}

	if _, err := FromNamed(map[string]*image.Gray{"skin": nil}); err == nil {
		t.Error("expected error for nil mask")
	}
}

func TestMaskDir(t *testing.T) {
	fsys := fstest.MapFS{
		"skin.png":  &fstest.MapFile{Data: maskPNG(t, 255)},
		"hair.png":  &fstest.MapFile{Data: maskPNG(t, 0)},
		"eyes.png":  &fstest.MapFile{Data: maskPNG(t, 200)},
		"notes.txt": &fstest.MapFile{Data: []byte("ignored")},
	}

	masks, err := NewMaskFS(fsys).Segment(context.Background(), nil)
	if err != nil {
		t.Fatalf("Segment error = %v", err)
	}
	if len(masks) != 3 {
		t.Fatalf("expected 3 masks, got %d", len(masks))
	}
	if _, ok := masks[sampler.RegionLips]; ok {
		t.Error("lips mask should be absent")
	}
	if !masks[sampler.RegionSkin].Selected(1, 1) || masks[sampler.RegionHair].Selected(1, 1) {
		t.Error("mask values not preserved")
	}
}

func TestMaskDirCorrupt(t *testing.T) {
	fsys := fstest.MapFS{"skin.png": &fstest.MapFile{Data: []byte("garbage")}}
	if _, err := NewMaskFS(fsys).Segment(context.Background(), nil); err == nil {
		t.Error("expected error for corrupt mask")
	}
}

func TestMaskDirCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMaskDir(t.TempDir()).Segment(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Segment error = %v, want context.Canceled", err)
	}
}

func TestPluginMissingBinary(t *testing.T) {
	p := NewPlugin(filepath.Join(t.TempDir(), "no-such-plugin"), nil)
	defer p.Close()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	if _, err := p.Segment(context.Background(), img); err == nil {
		t.Error("expected error for a missing plugin binary")
	}
}

func TestPluginCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPlugin("/does/not/matter", nil)
	if _, err := p.Segment(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Segment error = %v, want context.Canceled", err)
	}
}
