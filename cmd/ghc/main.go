// Command ghc is the greenhouse controller: it reads the environment sensor,
// switches the heater and humidifier, and shows the readings on the matrix.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/internal/config"
	"github.com/BeatGlow/matrix/internal/controller"
	"github.com/BeatGlow/matrix/internal/datalog"
	"github.com/BeatGlow/matrix/internal/greenhouse"
	"github.com/BeatGlow/matrix/internal/output"
	"github.com/BeatGlow/matrix/internal/sensor"
	"github.com/BeatGlow/matrix/internal/setpoint"
	"github.com/BeatGlow/matrix/pixel"
)

const defaultConfig = "ghc.yaml"

func init() {
	// -v is verbose
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("ghc")
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ghc"
	app.Usage = "Sense HAT greenhouse controller"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"GHC_CONFIG"},
			Value:   defaultConfig,
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "sink",
			EnvVars: []string{"GHC_SINK"},
			Usage:   "display sink (fb, term, preview, ws2812)",
		},
		&cli.StringFlag{
			Name:    "device",
			EnvVars: []string{"GHC_DEVICE"},
			Usage:   "framebuffer device, empty to search for the Sense HAT",
		},
		&cli.IntFlag{
			Name:    "orientation",
			Aliases: []string{"r"},
			EnvVars: []string{"GHC_ORIENTATION"},
			Usage:   "display orientation in degrees (0, 90, 180, 270)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"GHC_VERBOSE"},
			Usage:   "increase verbosity",
		},
	}

	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return nil
	}

	controlFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "sensor",
			EnvVars: []string{"GHC_SENSOR"},
			Usage:   "sensor (sim, bme280)",
		},
		&cli.DurationFlag{
			Name:    "interval",
			EnvVars: []string{"GHC_INTERVAL"},
			Usage:   "time between two readings",
		},
		&cli.StringFlag{
			Name:    "operator",
			EnvVars: []string{"GHC_OPERATOR"},
			Usage:   "operator name",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "run",
			Usage:  "Run the control loop",
			Flags:  controlFlags,
			Action: runAction,
		},
		{
			Name:  "preview",
			Usage: "Run the control loop with the browser preview",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "addr",
					EnvVars: []string{"GHC_PREVIEW_ADDR"},
					Usage:   "preview listen address",
				},
			}, controlFlags...),
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				cfg.Display.Sink = config.SinkPreview
				if c.IsSet("addr") {
					cfg.Preview.Addr = c.String("addr")
				}
				log.Info().Str("addr", cfg.Preview.Addr).Msg("serving preview")
				return run(c, cfg)
			},
		},
		{
			Name:      "message",
			Usage:     "Scroll a message across the display",
			ArgsUsage: "TEXT",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:  "delay",
					Usage: "time between two scroll steps",
				},
				&cli.StringFlag{
					Name:  "color",
					Usage: "text color as #rrggbb",
				},
				&cli.StringFlag{
					Name:  "background",
					Usage: "background color as #rrggbb",
				},
			},
			Action: messageAction,
		},
		{
			Name:      "letter",
			Usage:     "Show a single character",
			ArgsUsage: "CHAR",
			Action:    letterAction,
		},
		{
			Name:      "rotate",
			Usage:     "Show a character, then rotate the display contents",
			ArgsUsage: "DEGREES",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "letter",
					Value: "F",
					Usage: "character to rotate",
				},
			},
			Action: rotateAction,
		},
		{
			Name:   "dashboard",
			Usage:  "Take one reading and show it",
			Flags:  controlFlags[:1],
			Action: dashboardAction,
		},
		{
			Name:  "clear",
			Usage: "Clear the display",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				d, err := openDisplay(c.Context, cfg)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer d.Close()
				if err = d.WipeScreen(); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:  "setpoint",
			Usage: "Show or change the setpoints",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  "temperature",
					Usage: "target temperature in °C",
				},
				&cli.Float64Flag{
					Name:  "humidity",
					Usage: "target relative humidity in %",
				},
			},
			Action: setpointAction,
		},
		{
			Name:  "config",
			Usage: "Manage the configuration file",
			Subcommands: []*cli.Command{
				{
					Name:  "init",
					Usage: "Write the configuration, with the flags applied, to the configuration file",
					Flags: append([]cli.Flag{
						&cli.BoolFlag{
							Name:  "force",
							Usage: "overwrite an existing file",
						},
					}, controlFlags...),
					Action: configInitAction,
				},
			},
		},
		{
			Name:      "history",
			Usage:     "Print the most recent readings",
			ArgsUsage: "[COUNT]",
			Action:    historyAction,
		},
	}

	return app
}

// loadConfig reads the configuration file and applies the flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("no configuration file, using defaults")
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("sink") {
		cfg.Display.Sink = c.String("sink")
	}
	if c.IsSet("device") {
		cfg.Display.Device = c.String("device")
	}
	if c.IsSet("orientation") {
		cfg.Display.Orientation = c.Int("orientation")
	}
	if c.IsSet("sensor") {
		cfg.Sensor.Kind = c.String("sensor")
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("operator") {
		cfg.Operator = c.String("operator")
	}
	return cfg, nil
}

func initHost(cfg *config.Config) error {
	if cfg.Display.Sink != config.SinkStrip && cfg.Sensor.Kind != config.SensorBME280 {
		return nil
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph: %w", err)
	}
	return nil
}

func openDisplay(ctx context.Context, cfg *config.Config) (*matrix.Display, error) {
	mc, err := cfg.Matrix()
	if err != nil {
		return nil, err
	}
	if err = initHost(cfg); err != nil {
		return nil, err
	}
	s, err := output.Open(ctx, cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	d, err := matrix.New(s, mc)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Debug().Str("display", d.String()).Msg("using display")
	return d, nil
}

func openSensor(cfg *config.Config, bounds matrix.Dashboard) (sensor.Source, io.Closer, error) {
	switch cfg.Sensor.Kind {
	case config.SensorSimulated, "":
		seed := cfg.Sensor.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return sensor.NewSimulated(seed, bounds), closeFunc(func() error { return nil }), nil
	case config.SensorBME280:
		if err := initHost(cfg); err != nil {
			return nil, nil, err
		}
		s, err := sensor.OpenBME280(cfg.Sensor.Bus, cfg.Sensor.Addr)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("sensor", s.String()).Msg("using sensor")
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown sensor %q", cfg.Sensor.Kind)
	}
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return run(c, cfg)
}

func run(c *cli.Context, cfg *config.Config) error {
	if cfg.Operator != "" {
		log.Info().Str("operator", cfg.Operator).Msgf("%s's greenhouse controller", cfg.Operator)
	}
	if serial, err := greenhouse.ReadSerial(); err == nil {
		log.Info().Str("serial", fmt.Sprintf("%016x", serial)).Msg("board")
	} else {
		log.Debug().Err(err).Msg("board serial")
	}

	sp, err := setpoint.New(cfg.Setpoints).Load()
	if err != nil {
		return cli.Exit(err, 1)
	}

	d, err := openDisplay(c.Context, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer d.Close()

	src, closer, err := openSensor(cfg, d.Dashboard())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer.Close()

	ctl := &controller.Controller{
		Source:    src,
		Dashboard: d,
		Setpoint:  sp,
		Interval:  cfg.Interval,
		Logger:    log.Logger,
	}
	if cfg.DataLog != "" {
		l, err := datalog.Open(cfg.DataLog)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer l.Close()
		ctl.Log = l
	}

	log.Info().
		Float64("target_T", sp.Temperature).
		Float64("target_H", sp.Humidity).
		Dur("interval", cfg.Interval).
		Msg("starting")
	if err = ctl.Run(c.Context); err != nil {
		return cli.Exit(err, 1)
	}
	return d.WipeScreen()
}

func messageAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	d, err := openDisplay(c.Context, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer d.Close()

	fg := d.Color()
	bg, err := pixel.ParseHex(cfg.Display.Background)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if c.IsSet("color") {
		if fg, err = pixel.ParseHex(c.String("color")); err != nil {
			return cli.Exit(err, 1)
		}
	}
	if c.IsSet("background") {
		if bg, err = pixel.ParseHex(c.String("background")); err != nil {
			return cli.Exit(err, 1)
		}
	}

	text := strings.Join(c.Args().Slice(), " ")
	if err = d.ShowMessage(c.Context, text, c.Duration("delay"), fg, bg); err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(err, 1)
	}
	return nil
}

func letterAction(c *cli.Context) error {
	r := []rune(c.Args().First())
	if len(r) != 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	bg, err := pixel.ParseHex(cfg.Display.Background)
	if err != nil {
		return cli.Exit(err, 1)
	}
	d, err := openDisplay(c.Context, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer d.Close()

	if err = d.ViewLetter(r[0], d.Color(), bg); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func rotateAction(c *cli.Context) error {
	degrees, err := strconv.Atoi(c.Args().First())
	if err != nil {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	r := []rune(c.String("letter"))
	if len(r) != 1 {
		return cli.Exit("rotate: --letter takes a single character", 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	bg, err := pixel.ParseHex(cfg.Display.Background)
	if err != nil {
		return cli.Exit(err, 1)
	}
	d, err := openDisplay(c.Context, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer d.Close()

	if err = d.ViewLetter(r[0], d.Color(), bg); err != nil {
		return cli.Exit(err, 1)
	}
	if err = d.RotatePattern(degrees); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func dashboardAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	sp, err := setpoint.New(cfg.Setpoints).Load()
	if err != nil {
		return cli.Exit(err, 1)
	}
	d, err := openDisplay(c.Context, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer d.Close()

	src, closer, err := openSensor(cfg, d.Dashboard())
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closer.Close()

	ctl := &controller.Controller{
		Source:    src,
		Dashboard: d,
		Setpoint:  sp,
		Logger:    log.Logger,
	}
	if _, _, err = ctl.Step(c.Context); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func setpointAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	store := setpoint.New(cfg.Setpoints)
	sp, err := store.Load()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.IsSet("temperature") || c.IsSet("humidity") {
		if c.IsSet("temperature") {
			sp.Temperature = c.Float64("temperature")
		}
		if c.IsSet("humidity") {
			sp.Humidity = c.Float64("humidity")
		}
		if err = store.Save(sp); err != nil {
			return cli.Exit(err, 1)
		}
	}
	fmt.Printf("%5.1fC / %5.1f%%\n", sp.Temperature, sp.Humidity)
	return nil
}

func configInitAction(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return cli.Exit(fmt.Sprintf("config: %s exists, use --force to overwrite", path), 1)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	if _, err = cfg.Matrix(); err != nil {
		return cli.Exit(err, 1)
	}
	if err = config.Save(path, cfg); err != nil {
		return cli.Exit(err, 1)
	}
	log.Info().Str("path", path).Msg("configuration written")
	return nil
}

func historyAction(c *cli.Context) error {
	n := 10
	if c.NArg() > 0 {
		var err error
		if n, err = strconv.Atoi(c.Args().First()); err != nil || n < 1 {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}
	l, err := datalog.Open(cfg.DataLog)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer l.Close()

	readings, err := l.Recent(c.Context, n)
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, r := range readings {
		fmt.Printf("%s %5.1fC / %5.1f%% / %6.1fmB\n",
			r.Time.Format(time.DateTime), r.Temperature, r.Humidity, r.Pressure)
	}
	return nil
}
