// Package sensor reads the greenhouse environment.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"

	"github.com/BeatGlow/matrix"
	"github.com/BeatGlow/matrix/internal/greenhouse"
)

// Source produces readings.
type Source interface {
	Read(ctx context.Context) (greenhouse.Reading, error)
}

// Env reads any periph environmental sensor.
type Env struct {
	mu     sync.Mutex
	dev    physic.SenseEnv
	closer func() error
	now    func() time.Time
}

// NewEnv wraps dev.
func NewEnv(dev physic.SenseEnv) *Env {
	return &Env{dev: dev, now: time.Now}
}

// OpenBME280 opens a Bosch BME280 (or BMP280) on the named I²C bus; an empty
// name selects the first bus.
func OpenBME280(bus string, addr uint16) (*Env, error) {
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("sensor: open i2c %q: %w", bus, err)
	}
	dev, err := bmxx80.NewI2C(b, addr, &bmxx80.DefaultOpts)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("sensor: bmxx80 at %#x: %w", addr, err)
	}
	e := NewEnv(dev)
	e.closer = func() error {
		return errors.Join(dev.Halt(), b.Close())
	}
	return e, nil
}

func (e *Env) String() string {
	return e.dev.String()
}

// Read senses the environment.
func (e *Env) Read(ctx context.Context) (greenhouse.Reading, error) {
	if err := ctx.Err(); err != nil {
		return greenhouse.Reading{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var env physic.Env
	if err := e.dev.Sense(&env); err != nil {
		return greenhouse.Reading{}, fmt.Errorf("sensor: sense %s: %w", e.dev, err)
	}
	return FromEnv(e.now(), env), nil
}

// Close halts the sensor.
func (e *Env) Close() error {
	if e.closer != nil {
		return e.closer()
	}
	return e.dev.Halt()
}

// FromEnv converts periph units to °C, %RH and hPa.
func FromEnv(t time.Time, env physic.Env) greenhouse.Reading {
	return greenhouse.Reading{
		Time:        t,
		Temperature: float64(env.Temperature-physic.ZeroCelsius) / float64(physic.Celsius),
		Humidity:    float64(env.Humidity) / float64(physic.PercentRH),
		Pressure:    float64(env.Pressure) / float64(physic.Pascal) / 100,
	}
}

// Simulated draws random readings within the gauge bounds.
type Simulated struct {
	mu     sync.Mutex
	rand   *rand.Rand
	bounds matrix.Dashboard
	now    func() time.Time
}

// NewSimulated source seeded with seed. A zero bounds uses the default
// dashboard.
func NewSimulated(seed int64, bounds matrix.Dashboard) *Simulated {
	if bounds == (matrix.Dashboard{}) {
		bounds = matrix.DefaultDashboard
	}
	return &Simulated{
		rand:   rand.New(rand.NewSource(seed)),
		bounds: bounds,
		now:    time.Now,
	}
}

func (s *Simulated) String() string { return "simulated" }

// Read returns the next random reading.
func (s *Simulated) Read(ctx context.Context) (greenhouse.Reading, error) {
	if err := ctx.Err(); err != nil {
		return greenhouse.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return greenhouse.Reading{
		Time:        s.now(),
		Temperature: s.between(s.bounds.Temperature),
		Humidity:    s.between(s.bounds.Humidity),
		Pressure:    s.between(s.bounds.Pressure),
	}, nil
}

func (s *Simulated) between(g matrix.Gauge) float64 {
	return g.Lower + s.rand.Float64()*(g.Upper-g.Lower)
}
