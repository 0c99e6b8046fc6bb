package draw

import (
	"image"
	"image/color"
	"testing"
)

func lit(img *image.Gray) (n int) {
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return
}

func TestVerticalLine(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	VerticalLine(img, 3, 0, 5, color.White)
	for y := 0; y < 8; y++ {
		want := y < 5
		if got := img.GrayAt(3, y).Y != 0; got != want {
			t.Errorf("pixel (3,%d): expected %t, got %t", y, want, got)
		}
	}
	if n := lit(img); n != 5 {
		t.Errorf("expected 5 lit pixels, got %d", n)
	}
}

func TestLineZeroLength(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	VerticalLine(img, 3, 4, 0, color.White)
	HorizontalLine(img, 3, 4, 0, color.White)
	if n := lit(img); n != 0 {
		t.Errorf("expected nothing drawn, got %d lit pixels", n)
	}
}

func TestLineDiagonal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	Line(img, image.Pt(7, 7), image.Pt(0, 0), color.White)
	for i := 0; i < 8; i++ {
		if img.GrayAt(i, i).Y == 0 {
			t.Errorf("pixel (%d,%d) not lit", i, i)
		}
	}
	if n := lit(img); n != 8 {
		t.Errorf("expected 8 lit pixels, got %d", n)
	}
}

func TestRectangle(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	Rectangle(img, img.Bounds(), color.White)
	if n := lit(img); n != 28 {
		t.Errorf("expected 28 border pixels, got %d", n)
	}
	if img.GrayAt(3, 3).Y != 0 {
		t.Error("expected interior to be empty")
	}
}

func TestBox(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	Box(img, image.Rect(2, 1, 5, 4), color.White)
	if n := lit(img); n != 9 {
		t.Errorf("expected 9 lit pixels, got %d", n)
	}
	Box(img, image.Rectangle{}, color.White)
	if n := lit(img); n != 9 {
		t.Errorf("empty box drew pixels, got %d lit", n)
	}
}

func TestLineSlopes(t *testing.T) {
	ends := []image.Point{
		image.Pt(7, 1), image.Pt(7, 5), // shallow
		image.Pt(1, 7), image.Pt(5, 7), // steep
		image.Pt(7, 0), image.Pt(0, 7),
	}
	for _, end := range ends {
		img := image.NewGray(image.Rect(0, 0, 8, 8))
		Line(img, image.Pt(3, 3), end, color.White)
		if img.GrayAt(3, 3).Y == 0 || img.GrayAt(end.X, end.Y).Y == 0 {
			t.Errorf("line to %s: expected both ends lit", end)
		}
		dx, dy := end.X-3, end.Y-3
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		want := dx
		if dy > want {
			want = dy
		}
		if n := lit(img); n != want+1 {
			t.Errorf("line to %s: expected %d lit pixels, got %d", end, want+1, n)
		}
	}
}

func TestDraw(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	Draw(img, image.Rect(0, 0, 2, 2), image.NewUniform(color.White), image.Point{}, Src)
	if n := lit(img); n != 4 {
		t.Errorf("expected 4 lit pixels, got %d", n)
	}
}
