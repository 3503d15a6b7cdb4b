package pipeline_test

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devignette/internal/config"
	"devignette/internal/illumination"
	"devignette/internal/native"
	"devignette/internal/pipeline"
)

type fixture struct {
	dir   string
	cfg   config.Config
	codec *native.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	refDir := filepath.Join(dir, "background")
	require.NoError(t, os.Mkdir(refDir, 0o755))

	cfg := config.Default()
	cfg.Backend = config.BackendNative
	cfg.ReferenceDir = refDir
	cfg.MaskPath = filepath.Join(dir, "illumination_mask.png")
	cfg.InputPath = filepath.Join(dir, "capture.bmp")
	cfg.OutputPath = filepath.Join(dir, "capture_corrected.bmp")
	require.NoError(t, cfg.Validate())

	return &fixture{dir: dir, cfg: cfg, codec: native.NewCodec(cfg.JPEGQuality)}
}

func (f *fixture) write(t *testing.T, path string, rows, cols int, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	require.NoError(t, f.codec.Save(path, img))
}

func (f *fixture) pipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	smoother, err := native.NewGaussianSmoother(f.cfg.BlurKernel)
	require.NoError(t, err)
	backend := pipeline.Backend{Name: config.BackendNative, Codec: f.codec, Smoother: smoother}
	return pipeline.New(f.cfg, backend, nil)
}

func (f *fixture) ref(name string) string {
	return filepath.Join(f.cfg.ReferenceDir, name)
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.Truef(t, os.IsNotExist(err), "%s should not exist", path)
}

func TestRunUniformScenario(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a.bmp", "b.bmp", "c.bmp"} {
		f.write(t, f.ref(name), 4, 4, 100)
	}
	f.write(t, f.cfg.InputPath, 4, 4, 150)

	maskReport, correctReport, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, maskReport.References)
	assert.Equal(t, illumination.Shape{Rows: 4, Cols: 4}, maskReport.Shape)
	assert.Equal(t, 100.0, maskReport.Stats.Mean)

	mask, err := f.codec.Load(f.cfg.MaskPath)
	require.NoError(t, err)
	for _, v := range mask.Pix {
		assert.Equal(t, uint8(100), v)
	}

	assert.Equal(t, 1.5, correctReport.Result.Max)
	out, err := f.codec.Load(f.cfg.OutputPath)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestCorrectTwiceIsBitIdentical(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.ref("a.bmp"), 5, 6, 80)
	f.write(t, f.ref("b.bmp"), 5, 6, 120)

	input := image.NewGray(image.Rect(0, 0, 6, 5))
	for i := range input.Pix {
		input.Pix[i] = uint8(i * 7)
	}
	require.NoError(t, f.codec.Save(f.cfg.InputPath, input))

	p := f.pipeline(t)
	_, err := p.BuildMask(context.Background())
	require.NoError(t, err)

	_, err = p.Correct(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(f.cfg.OutputPath)
	require.NoError(t, err)

	_, err = p.Correct(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(f.cfg.OutputPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildMaskWithoutReferences(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.ref("ignored.png"), 4, 4, 100)

	_, err := f.pipeline(t).BuildMask(context.Background())
	assert.ErrorIs(t, err, illumination.ErrNoReferences)
	assertMissing(t, f.cfg.MaskPath)
}

func TestBuildMaskDimensionMismatch(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.ref("a.bmp"), 4, 4, 100)
	f.write(t, f.ref("b.bmp"), 4, 5, 100)

	_, err := f.pipeline(t).BuildMask(context.Background())
	assert.ErrorIs(t, err, illumination.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "b.bmp")
	assertMissing(t, f.cfg.MaskPath)
}

func TestBuildMaskConfiguredShape(t *testing.T) {
	f := newFixture(t)
	f.cfg.ImageHeight, f.cfg.ImageWidth = 8, 8
	f.write(t, f.ref("a.bmp"), 4, 4, 100)

	_, err := f.pipeline(t).BuildMask(context.Background())
	assert.ErrorIs(t, err, illumination.ErrDimensionMismatch)
	assertMissing(t, f.cfg.MaskPath)
}

func TestBuildMaskCorruptReference(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.ref("a.bmp"), 4, 4, 100)
	require.NoError(t, os.WriteFile(f.ref("b.bmp"), []byte("BM garbage"), 0o644))

	_, err := f.pipeline(t).BuildMask(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.bmp")
	assertMissing(t, f.cfg.MaskPath)
}

func TestBuildMaskCancelled(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.ref("a.bmp"), 4, 4, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline(t).BuildMask(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assertMissing(t, f.cfg.MaskPath)
}

func TestBuildMaskWithSmoothing(t *testing.T) {
	f := newFixture(t)
	f.cfg.BlurKernel = 3
	f.write(t, f.ref("a.bmp"), 6, 6, 60)
	f.write(t, f.ref("b.bmp"), 6, 6, 90)

	report, err := f.pipeline(t).BuildMask(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 75.0, report.Stats.Mean, 1)

	mask, err := f.codec.Load(f.cfg.MaskPath)
	require.NoError(t, err)
	for _, v := range mask.Pix {
		assert.InDelta(t, 75, int(v), 1)
	}
}

func TestCorrectAllZeroMaskFails(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.MaskPath, 4, 4, 0)
	f.write(t, f.cfg.InputPath, 4, 4, 200)

	_, err := f.pipeline(t).Correct(context.Background())
	assert.ErrorIs(t, err, illumination.ErrDegenerateOutput)
	assertMissing(t, f.cfg.OutputPath)
}

func TestCorrectMaskShapeMismatch(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.MaskPath, 4, 4, 100)
	f.write(t, f.cfg.InputPath, 3, 4, 200)

	_, err := f.pipeline(t).Correct(context.Background())
	assert.ErrorIs(t, err, illumination.ErrDimensionMismatch)
	assertMissing(t, f.cfg.OutputPath)
}

func TestCorrectRequiresPaths(t *testing.T) {
	f := newFixture(t)
	f.cfg.InputPath = ""

	_, err := f.pipeline(t).Correct(context.Background())
	assert.Error(t, err)
}

func TestCorrectMissingMask(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.cfg.InputPath, 4, 4, 200)

	_, err := f.pipeline(t).Correct(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mask")
}

func TestDiscoverReferencesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.bmp", "a.bmp", "b.bmp", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	paths, err := pipeline.DiscoverReferences(dir, "*.bmp")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.bmp"),
		filepath.Join(dir, "b.bmp"),
		filepath.Join(dir, "c.bmp"),
	}, paths)

	_, err = pipeline.DiscoverReferences(dir, "[")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]pipeline.Format{
		"mask.png":  pipeline.FormatPNG,
		"mask.JPG":  pipeline.FormatJPEG,
		"mask.jpeg": pipeline.FormatJPEG,
		"mask.bmp":  pipeline.FormatBMP,
		"mask.tif":  pipeline.FormatTIFF,
		"mask.tiff": pipeline.FormatTIFF,
	}
	for path, want := range cases {
		got, err := pipeline.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := pipeline.FormatFromPath("mask.gif")
	assert.Error(t, err)
	assert.False(t, pipeline.FormatJPEG.Lossless())
	assert.True(t, pipeline.FormatPNG.Lossless())
}
