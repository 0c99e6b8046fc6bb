package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"periph.io/x/host/v3"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/draw"
	"github.com/BeatGlow/matrix/internal/config"
	"github.com/BeatGlow/matrix/internal/output"
	"github.com/BeatGlow/matrix/pixel"
)

func main() {
	sinkFlag := flag.String("sink", config.SinkFramebuffer, "Output sink (fb, term, preview, ws2812)")
	deviceFlag := flag.String("device", "", "Framebuffer device (default: search for the Sense HAT)")
	addrFlag := flag.String("addr", ":8080", "Preview listen address")
	rotateFlag := flag.String("rotate", "", "Display rotation")
	messageFlag := flag.String("message", "Hello, World!", "Message scrolled between test patterns")
	flag.Parse()

	var rotation matrix.Orientation
	switch *rotateFlag {
	case "", "no", "0":
		rotation = matrix.Rotate0
	case "90", "right", "cw":
		rotation = matrix.Rotate90
	case "180", "flip":
		rotation = matrix.Rotate180
	case "270", "left", "ccw":
		rotation = matrix.Rotate270
	default:
		fatal(fmt.Errorf("invalid rotation %q specified", *rotateFlag))
	}
	fmt.Printf("using rotation: %s\n", rotation)

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := config.Default()
	c.Display.Sink = *sinkFlag
	c.Display.Device = *deviceFlag
	c.Preview.Addr = *addrFlag

	sink, err := output.Open(ctx, c, os.Stdout)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using sink: %s\n", sink)

	mc := matrix.DefaultConfig
	mc.Orientation = rotation
	d, err := matrix.New(sink, &mc)
	if err != nil {
		fatal(err)
	}
	defer d.Close()

	var (
		offset int
		ticker = time.NewTicker(50 * time.Millisecond)
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		// Gradient inside a border, with a hand sweeping around the edge
		var p matrix.Pattern
		for row := 0; row < matrix.Size; row++ {
			for col := 0; col < matrix.Size; col++ {
				p[row][col] = pixel.RGB565(
					uint8((row+col+offset)*16),
					uint8((row-col+offset)*16),
					uint8((row+col-offset)*16),
				)
			}
		}
		draw.Rectangle(&p, p.Bounds(), pixel.White)
		draw.Line(&p, image.Pt(3, 3), edge(offset), pixel.Cyan)
		// Corner marker shows where logical (0, 0) ends up
		p[0][0] = pixel.Red

		if err = d.ViewPattern(p); err != nil {
			fatal(err)
		}

		offset++
		if offset%100 == 0 && *messageFlag != "" {
			if err = d.ShowMessage(ctx, *messageFlag, 0, pixel.Yellow, pixel.Black); err != nil && !errors.Is(err, context.Canceled) {
				fatal(err)
			}
		}

		select {
		case <-ctx.Done():
			_ = d.WipeScreen()
			return
		case <-ticker.C:
		}
	}
}

// edge returns point n of the clockwise walk around the border.
func edge(n int) image.Point {
	const side = matrix.Size - 1
	switch n %= 4 * side; {
	case n < side:
		return image.Pt(n, 0)
	case n < 2*side:
		return image.Pt(side, n-side)
	case n < 3*side:
		return image.Pt(3*side-n, side)
	default:
		return image.Pt(0, 4*side-n)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
