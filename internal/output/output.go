// Package output opens the matrix sink selected in the configuration.
package output

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/framebuffer"
	"github.com/BeatGlow/matrix/internal/config"
	"github.com/BeatGlow/matrix/sink/drawer"
	"github.com/BeatGlow/matrix/sink/preview"
	"github.com/BeatGlow/matrix/sink/terminal"
)

// ErrUnknownSink is returned for unsupported sink kinds.
var ErrUnknownSink = errors.New("output: unknown sink")

// Open the sink. The preview server runs until ctx is done; term writes to w.
// Periph drivers must be initialized before opening a ws2812 strip.
func Open(ctx context.Context, c *config.Config, w io.Writer) (matrix.Sink, error) {
	switch kind := c.Display.Sink; kind {
	case config.SinkFramebuffer, "":
		var (
			dev *framebuffer.Device
			err error
		)
		if c.Display.Device != "" {
			dev, err = framebuffer.Open(c.Display.Device)
		} else {
			dev, err = framebuffer.Find()
		}
		if err != nil {
			return nil, err
		}
		return dev, nil

	case config.SinkTerminal:
		return terminal.New(w), nil

	case config.SinkPreview:
		s := preview.New()
		go func() {
			if err := s.ListenAndServe(ctx, c.Preview.Addr); err != nil {
				log.Error().Err(err).Str("addr", c.Preview.Addr).Msg("preview server")
			}
		}()
		return s, nil

	case config.SinkStrip:
		return openStrip(&c.Strip)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSink, kind)
	}
}

func openStrip(c *config.Strip) (matrix.Sink, error) {
	port, err := spireg.Open(c.SPI)
	if err != nil {
		return nil, fmt.Errorf("output: spi %q: %w", c.SPI, err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: c.Pixels,
		Channels:  3,
		Freq:      physic.Frequency(c.SpeedHz) * physic.Hertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("output: nrzled: %w", err)
	}
	s, err := drawer.New(dev, &drawer.Options{Serpentine: c.Serpentine, Halt: true})
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return &portSink{Sink: s, port: port}, nil
}

// portSink closes the SPI port after the strip.
type portSink struct {
	*drawer.Sink
	port io.Closer
}

func (s *portSink) Close() error {
	return errors.Join(s.Sink.Close(), s.port.Close())
}
