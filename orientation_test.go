package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrientation(t *testing.T) {
	for degrees, want := range map[int]Orientation{
		0:    Rotate0,
		90:   Rotate90,
		180:  Rotate180,
		270:  Rotate270,
		-90:  Rotate270,
		-180: Rotate180,
		-270: Rotate90,
	} {
		o, err := ParseOrientation(degrees)
		require.NoError(t, err)
		assert.Equal(t, want, o)
	}
	for _, degrees := range []int{1, 45, 360, -360, 450} {
		_, err := ParseOrientation(degrees)
		assert.ErrorIsf(t, err, ErrOrientation, "%d°", degrees)
	}
}

func TestOrientationPlace(t *testing.T) {
	for _, o := range []Orientation{Rotate0, Rotate90, Rotate180, Rotate270} {
		seen := make(map[[2]int]bool)
		for row := 0; row < Size; row++ {
			for col := 0; col < Size; col++ {
				prow, pcol := o.Place(row, col)
				require.True(t, prow >= 0 && prow < Size && pcol >= 0 && pcol < Size)
				seen[[2]int{prow, pcol}] = true

				r, c := o.Inverse().Place(prow, pcol)
				assert.Equalf(t, [2]int{row, col}, [2]int{r, c}, "%s inverse", o)
			}
		}
		assert.Lenf(t, seen, Size*Size, "%s is a bijection", o)
	}

	row, col := Rotate90.Place(0, 0)
	assert.Equal(t, [2]int{7, 0}, [2]int{row, col})
	row, col = Rotate270.Place(0, 0)
	assert.Equal(t, [2]int{0, 7}, [2]int{row, col})
}

func TestOrientationString(t *testing.T) {
	assert.Equal(t, "0°", Rotate0.String())
	assert.Equal(t, "90°", Rotate90.String())
	assert.Equal(t, "270°", Orientation(-90).String())
}

func TestWrap(t *testing.T) {
	for v, want := range map[int]int{-5: 0, -1: 0, 0: 0, 7: 7, 8: 0, 9: 1, 17: 1} {
		assert.Equalf(t, want, wrap(v), "wrap(%d)", v)
	}
}
