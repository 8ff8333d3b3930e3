package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"github.com/banshee-data/seedterrain/internal/fsutil"
	"github.com/banshee-data/seedterrain/internal/pipeline"
	"github.com/banshee-data/seedterrain/internal/telemetry"
	"github.com/banshee-data/seedterrain/internal/terrain"
	"github.com/banshee-data/seedterrain/internal/timeutil"
)

var _ plotter.GridXYZ = terrain.Grid{}

func smallStyle() Style {
	return Style{SizeInches: 1, DPI: 64, ContourLevels: 5}
}

func constantFrame(index int, v float64) pipeline.Frame {
	f := terrain.NewField(8, 8)
	for i := range f.Values() {
		f.Values()[i] = v
	}
	return pipeline.Frame{
		Step:  pipeline.Step{Index: index, Kind: pipeline.KindReal, Source: index, Next: index, Row: telemetry.Row{Altitude: 650}},
		Total: 2,
		Field: f,
	}
}

func luminance(c color.Color) uint32 {
	g := color.GrayModel.Convert(c).(color.Gray)
	return uint32(g.Y)
}

func TestRunNaming(t *testing.T) {
	ts := time.Date(2026, 3, 9, 7, 5, 4, 0, time.UTC)
	assert.Equal(t, "out/seed_2026-03-09_07-05-04", RunDir("out", ts))
	assert.Equal(t, "animation_2026-03-09_07-05-04.gif", GIFName(ts))
	assert.Equal(t, "frame_0042.png", FrameName(42))
}

func TestGrayR(t *testing.T) {
	cols := grayR(256).Colors()
	require.Len(t, cols, 256)
	assert.Equal(t, color.Gray{Y: 255}, cols[0])
	assert.Equal(t, color.Gray{Y: 0}, cols[255])
}

func TestDraw_GrayscaleReversed(t *testing.T) {
	s := smallStyle()
	s.ContourLevels = 0

	low, err := Draw(constantFrame(0, 0), s)
	require.NoError(t, err)
	high, err := Draw(constantFrame(0, 1), s)
	require.NoError(t, err)

	b := low.Image().Bounds()
	assert.Equal(t, 64, b.Dx())
	assert.Equal(t, 64, b.Dy())

	cx, cy := b.Dx()/2, b.Dy()/2+4
	assert.Greater(t, luminance(low.Image().At(cx, cy)), uint32(200))
	assert.Less(t, luminance(high.Image().At(cx, cy)), uint32(55))
}

func TestDraw_Errors(t *testing.T) {
	_, err := Draw(pipeline.Frame{}, smallStyle())
	assert.Error(t, err)

	bad := smallStyle()
	bad.DPI = 0
	_, err = Draw(constantFrame(0, 0.5), bad)
	assert.Error(t, err)
}

func TestRenderer_WritesFrames(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	dir := RunDir("/out", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	r, err := NewRenderer(Options{
		Dir:        dir,
		Style:      smallStyle(),
		FS:         mfs,
		Clock:      timeutil.NewMockClock(time.Unix(0, 0)),
		KeepImages: true,
	})
	require.NoError(t, err)

	f := terrain.NewField(10, 10)
	for i := range f.Values() {
		f.Values()[i] = float64(i%10) / 9
	}
	frames := []pipeline.Frame{constantFrame(0, 0.3), {Step: pipeline.Step{Index: 1, Kind: pipeline.KindInterpolated, Next: 1, T: 0.5}, Field: f}}
	for _, fr := range frames {
		require.NoError(t, r.Consume(context.Background(), fr))
	}

	assert.Equal(t, []string{dir + "/frame_0000.png", dir + "/frame_0001.png"}, r.Paths())
	assert.Len(t, r.Images(), 2)
	assert.Equal(t, dir, r.Dir())

	names, err := mfs.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"frame_0000.png", "frame_0001.png"}, names)

	data, err := mfs.ReadFile(dir + "/frame_0001.png")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
}

func TestRenderer_NoImagesByDefault(t *testing.T) {
	r, err := NewRenderer(Options{Dir: "/run", Style: smallStyle(), FS: fsutil.NewMemoryFileSystem()})
	require.NoError(t, err)
	require.NoError(t, r.Consume(context.Background(), constantFrame(0, 0.5)))
	assert.Empty(t, r.Images())
	assert.Len(t, r.Paths(), 1)
}

func TestNewRenderer_Validation(t *testing.T) {
	_, err := NewRenderer(Options{Style: smallStyle(), FS: fsutil.NewMemoryFileSystem()})
	assert.Error(t, err)

	_, err = NewRenderer(Options{Dir: "/run", Style: Style{}, FS: fsutil.NewMemoryFileSystem()})
	assert.Error(t, err)
}

func TestFrameDelay(t *testing.T) {
	assert.Equal(t, 7, FrameDelay(15))
	assert.Equal(t, 10, FrameDelay(10))
	assert.Equal(t, 1, FrameDelay(500))
	assert.Equal(t, 0, FrameDelay(0))
}

func solidImage(w, h int, y uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = y
	}
	return img
}

func TestWriteGIF(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/run", 0755))

	frames := []image.Image{solidImage(40, 20, 0), solidImage(40, 20, 128), solidImage(40, 20, 255)}
	require.NoError(t, WriteGIF(mfs, "/run/a.gif", frames, GIFOptions{FPS: 15, Width: 20}))

	data, err := mfs.ReadFile("/run/a.gif")
	require.NoError(t, err)
	g, err := gif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{7, 7, 7}, g.Delay)
	assert.Equal(t, 0, g.LoopCount)
	assert.Equal(t, 20, g.Image[0].Bounds().Dx())
	assert.Equal(t, 10, g.Image[0].Bounds().Dy())
	assert.InDelta(t, 128, luminance(g.Image[1].At(5, 5)), 1)
}

func TestWriteGIF_KeepsSmallFrames(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, WriteGIF(mfs, "a.gif", []image.Image{solidImage(8, 8, 10)}, GIFOptions{FPS: 10, Width: 100}))

	data, err := mfs.ReadFile("a.gif")
	require.NoError(t, err)
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)
}

func TestWriteGIF_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	assert.ErrorIs(t, WriteGIF(mfs, "a.gif", nil, GIFOptions{FPS: 15}), ErrNoFrames)
	assert.Error(t, WriteGIF(mfs, "a.gif", []image.Image{solidImage(2, 2, 0)}, GIFOptions{FPS: 0}))
	assert.Error(t, WriteGIF(mfs, "/missing/a.gif", []image.Image{solidImage(2, 2, 0)}, GIFOptions{FPS: 15}))
}
