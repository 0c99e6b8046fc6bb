package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/pixel"
)

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)
	assert.Equal(t, "terminal", s.String())

	frame := matrix.NewBuffer()
	frame.SetPoint(0, 1, pixel.Red)
	require.NoError(t, s.Draw(frame))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[38;2;0;0;0m● \x1b[38;2;255;0;0m● "))
	assert.Equal(t, 8, strings.Count(lines[7], "●"))
	assert.NotContains(t, out.String(), "\x1b[8A")

	out.Reset()
	require.NoError(t, s.Draw(frame))
	assert.True(t, strings.HasPrefix(out.String(), "\x1b[8A"), "second frame redraws in place")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestDrawError(t *testing.T) {
	s := New(brokenWriter{})
	assert.Error(t, s.Draw(matrix.NewBuffer()))

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Draw(matrix.NewBuffer()), matrix.ErrSinkUnavailable)
}
