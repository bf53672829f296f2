package analysis

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/jmylchreest/seasonal/internal/classify"
	"github.com/jmylchreest/seasonal/internal/colour"
	"github.com/jmylchreest/seasonal/internal/metrics"
	"github.com/jmylchreest/seasonal/internal/palette"
	"github.com/jmylchreest/seasonal/internal/sampler"
)

var portraitColours = map[sampler.Region]colour.RGB{
	sampler.RegionSkin: {R: 224, G: 172, B: 105},
	sampler.RegionHair: {R: 92, G: 51, B: 23},
	sampler.RegionLips: {R: 170, G: 74, B: 68},
	sampler.RegionEyes: {R: 99, G: 78, B: 52},
}

// quadrant positions of each region in the synthetic portrait.
var quadrants = map[sampler.Region]image.Point{
	sampler.RegionSkin: {0, 0},
	sampler.RegionHair: {1, 0},
	sampler.RegionLips: {0, 1},
	sampler.RegionEyes: {1, 1},
}

func portrait(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := size / 2
	for r, q := range quadrants {
		c := portraitColours[r].Color()
		for y := q.Y * half; y < (q.Y+1)*half; y++ {
			for x := q.X * half; x < (q.X+1)*half; x++ {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

func portraitMasks(size int) sampler.Masks {
	masks := sampler.Masks{}
	half := size / 2
	for r, q := range quadrants {
		g := image.NewGray(image.Rect(0, 0, size, size))
		for y := q.Y * half; y < (q.Y+1)*half; y++ {
			for x := q.X * half; x < (q.X+1)*half; x++ {
				g.SetGray(x, y, color.Gray{Y: 255})
			}
		}
		masks[r] = sampler.NewMask(g)
	}
	return masks
}

func newPipeline(t *testing.T, seg Segmenter) *Pipeline {
	t.Helper()
	cat, err := palette.Default(nil)
	if err != nil {
		t.Fatalf("palette.Default error = %v", err)
	}
	p, err := New(cat, seg, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	return p
}

func expectedResult(t *testing.T) classify.Result {
	t.Helper()
	v, err := metrics.Compute(portraitColours, metrics.DefaultContrastMode)
	if err != nil {
		t.Fatalf("Compute error = %v", err)
	}
	cat, _ := palette.Default(nil)
	c, err := classify.New(cat)
	if err != nil {
		t.Fatalf("classify.New error = %v", err)
	}
	return c.Classify(v)
}

func TestAnalyze(t *testing.T) {
	p := newPipeline(t, nil)

	report, err := p.AnalyzeReport(context.Background(), portrait(240), portraitMasks(240))
	if err != nil {
		t.Fatalf("AnalyzeReport error = %v", err)
	}

	if report.Size != image.Pt(100, 100) {
		t.Errorf("analysed size = %v, want 100x100", report.Size)
	}
	for r, want := range portraitColours {
		if got := report.Colours[r]; got != want {
			t.Errorf("region %s = %v, want %v", r, got, want)
		}
	}

	want := expectedResult(t)
	if report.Result != want {
		t.Errorf("Result = %+v, want %+v", report.Result, want)
	}
	if len(report.Ranking) != 4 || report.Ranking[0].Season != want.Season {
		t.Errorf("Ranking = %v, want %s first", report.Ranking, want.Season)
	}

	result, err := p.Analyze(context.Background(), portrait(240), portraitMasks(240))
	if err != nil {
		t.Fatalf("Analyze error = %v", err)
	}
	if result != want {
		t.Errorf("Analyze = %+v, want %+v", result, want)
	}
}

func TestAnalyzeSmallImageNotResized(t *testing.T) {
	p := newPipeline(t, nil)
	report, err := p.AnalyzeReport(context.Background(), portrait(40), portraitMasks(40))
	if err != nil {
		t.Fatalf("AnalyzeReport error = %v", err)
	}
	if report.Size != image.Pt(40, 40) {
		t.Errorf("analysed size = %v, want 40x40", report.Size)
	}
}

func TestAnalyzeEmptyRegion(t *testing.T) {
	p := newPipeline(t, nil)
	masks := portraitMasks(120)
	masks[sampler.RegionLips] = sampler.NewMask(image.NewGray(image.Rect(0, 0, 120, 120)))

	_, err := p.Analyze(context.Background(), portrait(120), masks)
	if !errors.Is(err, sampler.ErrEmptyRegion) {
		t.Errorf("Analyze error = %v, want ErrEmptyRegion", err)
	}
}

func TestAnalyzeMaskShape(t *testing.T) {
	p := newPipeline(t, nil)
	masks := portraitMasks(120)
	masks[sampler.RegionEyes] = sampler.NewMask(image.NewGray(image.Rect(0, 0, 60, 120)))

	_, err := p.Analyze(context.Background(), portrait(120), masks)
	if !errors.Is(err, sampler.ErrMaskShape) {
		t.Errorf("Analyze error = %v, want ErrMaskShape", err)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	p := newPipeline(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Analyze(ctx, portrait(120), portraitMasks(120)); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze error = %v, want context.Canceled", err)
	}
}

func TestAnalyzeConcurrent(t *testing.T) {
	p := newPipeline(t, nil)
	want := expectedResult(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Analyze(context.Background(), portrait(160), portraitMasks(160))
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

type fakeSegmenter struct {
	got   image.Rectangle
	err   error
	calls int
}

func (f *fakeSegmenter) Segment(_ context.Context, img image.Image) (sampler.Masks, error) {
	f.calls++
	f.got = img.Bounds()
	if f.err != nil {
		return nil, f.err
	}
	return portraitMasks(img.Bounds().Dx()), nil
}

func TestAnalyzeImage(t *testing.T) {
	seg := &fakeSegmenter{}
	p := newPipeline(t, seg)

	report, err := p.AnalyzeImage(context.Background(), portrait(300))
	if err != nil {
		t.Fatalf("AnalyzeImage error = %v", err)
	}
	if seg.got.Dx() != 100 || seg.got.Dy() != 100 {
		t.Errorf("segmenter received %v, want the downsampled 100x100 image", seg.got)
	}
	if report.Result != expectedResult(t) {
		t.Errorf("Result = %+v", report.Result)
	}
}

func TestAnalyzeImageErrors(t *testing.T) {
	if _, err := newPipeline(t, nil).AnalyzeImage(context.Background(), portrait(10)); !errors.Is(err, ErrNoSegmenter) {
		t.Errorf("AnalyzeImage error = %v, want ErrNoSegmenter", err)
	}

	boom := errors.New("model unavailable")
	if _, err := newPipeline(t, &fakeSegmenter{err: boom}).AnalyzeImage(context.Background(), portrait(10)); !errors.Is(err, boom) {
		t.Errorf("AnalyzeImage error = %v, want wrapped segmenter error", err)
	}

	seg := &fakeSegmenter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newPipeline(t, seg).AnalyzeImage(ctx, portrait(10)); !errors.Is(err, context.Canceled) {
		t.Errorf("AnalyzeImage error = %v, want context.Canceled", err)
	}
	if seg.calls != 0 {
		t.Error("segmenter should not run on a cancelled context")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, nil, DefaultConfig(), nil); !errors.Is(err, palette.ErrEmptyCatalog) {
		t.Errorf("New error = %v, want ErrEmptyCatalog", err)
	}

	cat, _ := palette.Default(nil)
	bad := DefaultConfig()
	bad.Contrast = "lips-eyes"
	if _, err := New(cat, nil, bad, nil); err == nil {
		t.Error("expected error for invalid contrast mode")
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{name: "landscape", w: 200, h: 100, max: 100, wantW: 100, wantH: 50},
		{name: "portrait", w: 300, h: 450, max: 100, wantW: 67, wantH: 100},
		{name: "already small", w: 50, h: 30, max: 100, wantW: 50, wantH: 30},
		{name: "exact", w: 100, h: 80, max: 100, wantW: 100, wantH: 80},
		{name: "sliver", w: 1000, h: 1, max: 100, wantW: 100, wantH: 1},
		{name: "disabled", w: 500, h: 400, max: 0, wantW: 500, wantH: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := TargetSize(image.Rect(0, 0, tt.w, tt.h), tt.max)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("TargetSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownsampleKeepsOriginalColours(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 301, 199))
	stripes := []color.RGBA{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}}
	for y := 0; y < 199; y++ {
		for x := 0; x < 301; x++ {
			src.Set(x, y, stripes[(x+y)%3])
		}
	}

	dst := Downsample(src, 100)
	if dst.Bounds().Dx() != 100 {
		t.Fatalf("width = %d, want 100", dst.Bounds().Dx())
	}
	for y := dst.Bounds().Min.Y; y < dst.Bounds().Max.Y; y++ {
		for x := dst.Bounds().Min.X; x < dst.Bounds().Max.X; x++ {
			c := colour.ToRGB(dst.At(x, y))
			if c != (colour.RGB{R: 255}) && c != (colour.RGB{G: 255}) && c != (colour.RGB{B: 255}) {
				t.Fatalf("pixel (%d,%d) = %v is not an original colour", x, y, c)
			}
		}
	}

	if Downsample(src, 1000) != image.Image(src) {
		t.Error("image within bounds should be returned unchanged")
	}
}
