package matrix

import (
	"context"
	"io"
)

var _ io.StringWriter = (*Display)(nil)

// Write appends p to the pending text. It never fails.
func (d *Display) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text.Write(p)
}

// WriteString appends s to the pending text.
func (d *Display) WriteString(s string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text.WriteString(s)
}

// Pending returns the text written since the last Flush.
func (d *Display) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text.String()
}

// Flush scrolls the pending text in the session color after a word gap,
// runs it off the display and resets it.
func (d *Display) Flush(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	text := " " + d.text.String()
	d.text.Reset()

	stream := Compose(RenderText(d.glyphs, text, d.color, d.background), d.background)
	if len(stream) == 0 {
		return nil
	}
	for i := 0; i < Size; i++ {
		stream = append(stream, blankColumn(d.background))
	}
	return d.scroll(ctx, stream, FlushDelay, d.background)
}
