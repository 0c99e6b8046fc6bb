package matrix

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/matrix/pixel"
)

type testSink struct {
	frames []Pattern
	failAt int // 1-based draw that fails, 0 never fails
	err    error
	closed bool
}

func (s *testSink) String() string { return "test" }

func (s *testSink) Draw(frame image.Image) error {
	if s.failAt > 0 && len(s.frames)+1 == s.failAt {
		return s.err
	}
	var p Pattern
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			p[y][x] = pixel.CRGB16Model.Convert(frame.At(x, y)).(pixel.CRGB16)
		}
	}
	s.frames = append(s.frames, p)
	return nil
}

func (s *testSink) Close() error {
	s.closed = true
	return nil
}

type testDisplay struct {
	*Display
	sink   *testSink
	delays []time.Duration
}

func newTestDisplay(t *testing.T, config *Config) *testDisplay {
	t.Helper()
	sink := new(testSink)
	d, err := New(sink, config)
	require.NoError(t, err)
	td := &testDisplay{Display: d, sink: sink}
	d.sleep = func(ctx context.Context, delay time.Duration) error {
		td.delays = append(td.delays, delay)
		return ctx.Err()
	}
	return td
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrSinkUnavailable)

	_, err = New(new(testSink), &Config{Orientation: 45})
	assert.ErrorIs(t, err, ErrOrientation)

	d := newTestDisplay(t, nil)
	assert.Equal(t, Rotate0, d.Orientation())
	assert.Equal(t, pixel.Blue, d.Color())
	assert.Equal(t, DefaultGaugeStyle, d.gauges)
	assert.Equal(t, DefaultDashboard, d.dashboard)
	assert.Equal(t, Fill(pixel.Black), d.Buffer())

	d = newTestDisplay(t, &Config{Orientation: -90})
	assert.Equal(t, Rotate270, d.Orientation())
}

func TestClose(t *testing.T) {
	d := newTestDisplay(t, nil)
	require.NoError(t, d.Close())
	assert.True(t, d.sink.closed)
	assert.ErrorIs(t, d.Refresh(), ErrSinkUnavailable)
	assert.ErrorIs(t, d.WipeScreen(), ErrSinkUnavailable)
	assert.NoError(t, d.Close())
}

func TestSetPixelWraps(t *testing.T) {
	d := newTestDisplay(t, &Config{Orientation: Rotate90})
	require.NoError(t, d.SetPixel(-3, 9, pixel.Red))
	assert.Equal(t, pixel.Red, d.Pixel(0, 1), "physical coordinates ignore the orientation")
	assert.Equal(t, pixel.Red, d.Pixel(8, 9))
	require.Len(t, d.sink.frames, 1)
	assert.Equal(t, pixel.Red, d.sink.frames[0][0][1])
}

func TestClear(t *testing.T) {
	d := newTestDisplay(t, nil)
	require.NoError(t, d.Clear(pixel.Orange))
	assert.Equal(t, Fill(pixel.Orange), d.Buffer())
	require.NoError(t, d.WipeScreen())
	assert.Equal(t, Fill(pixel.Black), d.sink.frames[1])
}

func TestSetOrientation(t *testing.T) {
	d := newTestDisplay(t, nil)
	require.NoError(t, d.SetPixel(0, 1, pixel.Red))
	require.NoError(t, d.SetOrientation(-180))
	assert.Equal(t, Rotate180, d.Orientation())
	assert.Equal(t, pixel.Red, d.Pixel(0, 1), "buffer is left untouched")

	assert.ErrorIs(t, d.SetOrientation(45), ErrOrientation)
	assert.Equal(t, Rotate180, d.Orientation())
}

func TestViewPattern(t *testing.T) {
	var p Pattern
	p[0][1] = pixel.Red

	tests := []struct {
		degrees  int
		row, col int
	}{
		{0, 0, 1},
		{90, 6, 0},
		{-270, 6, 0},
		{180, 7, 6},
		{270, 1, 7},
		{-90, 1, 7},
	}
	for _, test := range tests {
		d := newTestDisplay(t, nil)
		require.NoError(t, d.SetOrientation(test.degrees))
		require.NoError(t, d.ViewPattern(p))
		assert.Equalf(t, pixel.Red, d.Pixel(test.row, test.col), "orientation %d°", test.degrees)
		assert.Len(t, d.sink.frames, 1)
	}
}

func TestRotatePattern(t *testing.T) {
	d := newTestDisplay(t, nil)
	require.NoError(t, d.SetPixel(0, 1, pixel.Red))
	require.NoError(t, d.RotatePattern(90))
	assert.Equal(t, pixel.Red, d.Pixel(6, 0))
	assert.Equal(t, pixel.Black, d.Pixel(0, 1))

	assert.ErrorIs(t, d.RotatePattern(30), ErrOrientation)

	// The session orientation applies on top of the rotation.
	d = newTestDisplay(t, &Config{Orientation: Rotate90})
	require.NoError(t, d.SetPixel(0, 1, pixel.Red))
	require.NoError(t, d.RotatePattern(90))
	assert.Equal(t, pixel.Red, d.Pixel(7, 6))
}

func TestViewLetter(t *testing.T) {
	d := newTestDisplay(t, nil)
	require.NoError(t, d.ViewLetter('A', pixel.White, pixel.Blue))
	assert.Equal(t, Render(nil, 'A', pixel.White, pixel.Blue), d.Buffer())

	d = newTestDisplay(t, &Config{Orientation: Rotate180})
	require.NoError(t, d.ViewLetter('€', pixel.White, pixel.Black))
	want := Render(nil, 255, pixel.White, pixel.Black)
	got := d.Buffer()
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			assert.Equal(t, want[row][col], got[Size-1-row][Size-1-col])
		}
	}
}

func TestViewImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xff, 0xff
	}
	d := newTestDisplay(t, nil)
	require.NoError(t, d.ViewImage(img))
	assert.Equal(t, Fill(pixel.Red), d.Buffer())
}

func TestRefreshError(t *testing.T) {
	d := newTestDisplay(t, nil)
	d.sink.failAt = 1
	d.sink.err = errors.New("bus error")
	err := d.Refresh()
	assert.ErrorIs(t, err, d.sink.err)
	assert.NotErrorIs(t, err, ErrSinkUnavailable)
}
