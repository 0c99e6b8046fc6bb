// Package config is the greenhouse controller configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/glyph"
	"github.com/BeatGlow/matrix/pixel"
)

// Sink kinds.
const (
	SinkFramebuffer = "fb"
	SinkTerminal    = "term"
	SinkPreview     = "preview"
	SinkStrip       = "ws2812"
)

// Sensor kinds.
const (
	SensorSimulated = "sim"
	SensorBME280    = "bme280"
)

type Display struct {
	Sink        string        `yaml:"sink"`   // "fb" | "term" | "preview" | "ws2812"
	Device      string        `yaml:"device"` // e.g. /dev/fb1, empty to search
	Orientation int           `yaml:"orientation"`
	Color       string        `yaml:"color"`
	Background  string        `yaml:"background"`
	ScrollDelay time.Duration `yaml:"scroll_delay"`
	Font        string        `yaml:"font,omitempty"` // TrueType file
	FontSize    float64       `yaml:"font_size,omitempty"`
}

type Preview struct {
	Addr string `yaml:"addr"`
}

type Strip struct {
	SPI        string `yaml:"spi"` // e.g. /dev/spidev0.0, empty for the first port
	Pixels     int    `yaml:"pixels"`
	SpeedHz    int64  `yaml:"speed_hz"`
	Serpentine bool   `yaml:"serpentine"`
}

type Sensor struct {
	Kind string `yaml:"kind"` // "sim" | "bme280"
	Bus  string `yaml:"bus"`
	Addr uint16 `yaml:"addr"`
	Seed int64  `yaml:"seed,omitempty"`
}

type Gauge struct {
	Column int     `yaml:"column"`
	Lower  float64 `yaml:"lower"`
	Upper  float64 `yaml:"upper"`
}

type Gauges struct {
	Temperature Gauge `yaml:"temperature"`
	Humidity    Gauge `yaml:"humidity"`
	Pressure    Gauge `yaml:"pressure"`
}

type Config struct {
	Operator  string        `yaml:"operator"`
	Interval  time.Duration `yaml:"interval"`
	Setpoints string        `yaml:"setpoints"`
	DataLog   string        `yaml:"datalog"`

	Display Display `yaml:"display"`
	Gauges  Gauges  `yaml:"gauges"`
	Sensor  Sensor  `yaml:"sensor"`
	Preview Preview `yaml:"preview"`
	Strip   Strip   `yaml:"strip,omitempty"`
}

// Default configuration.
func Default() *Config {
	d := matrix.DefaultDashboard
	return &Config{
		Interval:  2 * time.Second,
		Setpoints: "setpoints.yaml",
		DataLog:   "ghdata.db",
		Display: Display{
			Sink:        SinkFramebuffer,
			Orientation: 0,
			Color:       matrix.DefaultConfig.Color.Hex(),
			Background:  matrix.DefaultConfig.Background.Hex(),
			ScrollDelay: matrix.DefaultConfig.ScrollDelay,
		},
		Gauges: Gauges{
			Temperature: Gauge(d.Temperature),
			Humidity:    Gauge(d.Humidity),
			Pressure:    Gauge(d.Pressure),
		},
		Sensor: Sensor{
			Kind: SensorSimulated,
			Addr: 0x76,
		},
		Preview: Preview{
			Addr: ":8080",
		},
		Strip: Strip{
			Pixels:  matrix.Size * matrix.Size,
			SpeedHz: 2500000,
		},
	}
}

// Load the file at path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Save c to path.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Matrix returns the display session configuration.
func (c *Config) Matrix() (*matrix.Config, error) {
	o, err := matrix.ParseOrientation(c.Display.Orientation)
	if err != nil {
		return nil, err
	}
	fg, err := pixel.ParseHex(c.Display.Color)
	if err != nil {
		return nil, fmt.Errorf("config: display color: %w", err)
	}
	bg, err := pixel.ParseHex(c.Display.Background)
	if err != nil {
		return nil, fmt.Errorf("config: display background: %w", err)
	}

	mc := &matrix.Config{
		Orientation: o,
		Color:       fg,
		Background:  bg,
		ScrollDelay: c.Display.ScrollDelay,
		Gauges:      matrix.DefaultGaugeStyle,
		Dashboard: matrix.Dashboard{
			Temperature: matrix.Gauge(c.Gauges.Temperature),
			Humidity:    matrix.Gauge(c.Gauges.Humidity),
			Pressure:    matrix.Gauge(c.Gauges.Pressure),
		},
	}
	if c.Display.Font != "" {
		size := c.Display.FontSize
		if size <= 0 {
			size = 8
		}
		if mc.Glyphs, err = glyph.LoadTTF(c.Display.Font, size); err != nil {
			return nil, fmt.Errorf("config: font: %w", err)
		}
	}
	return mc, nil
}
