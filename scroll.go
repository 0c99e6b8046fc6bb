package matrix

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/matrix/pixel"
)

// FlushDelay is the frame delay used by Flush.
const FlushDelay = 80 * time.Millisecond

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Frames returns the number of frames scrolling a stream of n columns takes.
func Frames(n int) int {
	switch {
	case n <= 0:
		return 0
	case n <= Size:
		return 1
	default:
		return n - Size + 1
	}
}

// Scroll slides an 8 column window over the stream, one column per frame,
// with delay between frames. An empty stream draws nothing. Scrolling stops
// at the first sink error or when ctx is done.
func (d *Display) Scroll(ctx context.Context, stream ColumnStream, delay time.Duration, bg pixel.CRGB16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scroll(ctx, stream, delay, bg)
}

func (d *Display) scroll(ctx context.Context, stream ColumnStream, delay time.Duration, bg pixel.CRGB16) error {
	frames := Frames(len(stream))
	log.Debug().Int("columns", len(stream)).Int("frames", frames).Dur("delay", delay).Msg("matrix: scroll")

	for step := 0; step < frames; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := stream.Window(step, bg)
		blit(d.buf, &p, d.orientation)
		if err := d.refresh(); err != nil {
			return err
		}
		if step < frames-1 {
			if err := d.sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
	return nil
}

// ShowMessage renders text in fg on bg, composes the glyph columns and
// scrolls them across the display. A zero delay uses the configured
// scroll delay, a negative delay scrolls without pausing.
func (d *Display) ShowMessage(ctx context.Context, text string, delay time.Duration, fg, bg pixel.CRGB16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if delay == 0 {
		delay = d.delay
	}
	stream := Compose(RenderText(d.glyphs, text, fg, bg), bg)
	return d.scroll(ctx, stream, delay, bg)
}
