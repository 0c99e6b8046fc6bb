package sensor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/matrix"
)

type testEnv struct {
	env    physic.Env
	err    error
	halted bool
}

func (d *testEnv) String() string { return "test-env" }
func (d *testEnv) Halt() error    { d.halted = true; return nil }

func (d *testEnv) Sense(env *physic.Env) error {
	if d.err != nil {
		return d.err
	}
	*env = d.env
	return nil
}

func (d *testEnv) SenseContinuous(time.Duration) (<-chan physic.Env, error) {
	return nil, errors.New("not supported")
}

func (d *testEnv) Precision(env *physic.Env) {}

func TestFromEnv(t *testing.T) {
	now := time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC)
	r := FromEnv(now, physic.Env{
		Temperature: physic.ZeroCelsius + 25*physic.Celsius,
		Pressure:    101325 * physic.Pascal,
		Humidity:    55 * physic.PercentRH,
	})
	assert.Equal(t, now, r.Time)
	assert.InDelta(t, 25, r.Temperature, 1e-9)
	assert.InDelta(t, 1013.25, r.Pressure, 1e-9)
	assert.InDelta(t, 55, r.Humidity, 1e-9)

	r = FromEnv(now, physic.Env{Temperature: physic.ZeroCelsius - 10*physic.Celsius})
	assert.InDelta(t, -10, r.Temperature, 1e-9)
}

func TestEnvRead(t *testing.T) {
	dev := &testEnv{env: physic.Env{
		Temperature: physic.ZeroCelsius + 18*physic.Celsius,
		Pressure:    99000 * physic.Pascal,
		Humidity:    40 * physic.PercentRH,
	}}
	e := NewEnv(dev)
	assert.Equal(t, "test-env", e.String())

	r, err := e.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 18, r.Temperature, 1e-9)
	assert.InDelta(t, 990, r.Pressure, 1e-9)
	assert.False(t, r.Time.IsZero())

	dev.err = errors.New("i2c nack")
	_, err = e.Read(context.Background())
	assert.ErrorIs(t, err, dev.err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, e.Close())
	assert.True(t, dev.halted)
}

func TestSimulated(t *testing.T) {
	s := NewSimulated(1, matrix.Dashboard{})
	assert.Equal(t, "simulated", s.String())
	b := matrix.DefaultDashboard
	for i := 0; i < 100; i++ {
		r, err := s.Read(context.Background())
		require.NoError(t, err)
		assert.True(t, r.Temperature >= b.Temperature.Lower && r.Temperature <= b.Temperature.Upper)
		assert.True(t, r.Humidity >= b.Humidity.Lower && r.Humidity <= b.Humidity.Upper)
		assert.True(t, r.Pressure >= b.Pressure.Lower && r.Pressure <= b.Pressure.Upper)
	}

	a, _ := NewSimulated(7, b).Read(context.Background())
	c, _ := NewSimulated(7, b).Read(context.Background())
	assert.Equal(t, a.Temperature, c.Temperature, "same seed, same readings")
}
