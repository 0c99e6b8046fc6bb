package datalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/matrix/internal/greenhouse"
)

func TestAppendRecent(t *testing.T) {
	ctx := context.Background()
	l, err := Open(filepath.Join(t.TempDir(), DefaultPath))
	require.NoError(t, err)
	defer l.Close()

	start := time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(ctx, greenhouse.Reading{
			Time:        start.Add(time.Duration(i) * 2 * time.Second),
			Temperature: 20 + float64(i),
			Humidity:    50,
			Pressure:    1013.25,
		}))
	}

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	recent, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 24.0, recent[0].Temperature)
	assert.Equal(t, 23.0, recent[1].Temperature)
	assert.True(t, start.Add(8*time.Second).Equal(recent[0].Time))
	assert.Equal(t, 1013.25, recent[0].Pressure)
}

func TestRecentEmpty(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer l.Close()

	recent, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ghdata.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, greenhouse.Reading{Time: time.Now(), Temperature: 19}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()
	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
