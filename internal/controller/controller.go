// Package controller runs the greenhouse control loop: read the sensors, set
// the controls, draw the dashboard and log the reading.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BeatGlow/matrix/internal/greenhouse"
	"github.com/BeatGlow/matrix/internal/sensor"
)

// DefaultInterval between two steps.
const DefaultInterval = 2 * time.Second

// ErrDashboard wraps display failures, which stop Run.
var ErrDashboard = errors.New("controller: dashboard")

// Dashboard shows a reading against the setpoint.
type Dashboard interface {
	DrawDashboard(greenhouse.Reading, greenhouse.Setpoint) error
}

// Recorder stores readings.
type Recorder interface {
	Append(context.Context, greenhouse.Reading) error
}

// Controller is the control loop.
type Controller struct {
	Source    sensor.Source
	Dashboard Dashboard
	Log       Recorder // optional
	Setpoint  greenhouse.Setpoint
	Interval  time.Duration
	Logger    zerolog.Logger

	// OnStep is called after every step with its outcome.
	OnStep func(greenhouse.Reading, greenhouse.Controls)
}

// Step runs one iteration.
func (c *Controller) Step(ctx context.Context) (greenhouse.Reading, greenhouse.Controls, error) {
	r, err := c.Source.Read(ctx)
	if err != nil {
		return r, greenhouse.Controls{}, fmt.Errorf("controller: read: %w", err)
	}
	ctrl := greenhouse.SetControls(c.Setpoint, r)

	if c.Dashboard != nil {
		if err = c.Dashboard.DrawDashboard(r, c.Setpoint); err != nil {
			return r, ctrl, fmt.Errorf("%w: %w", ErrDashboard, err)
		}
	}
	if c.Log != nil {
		if err = c.Log.Append(ctx, r); err != nil {
			c.Logger.Warn().Err(err).Msg("data log")
		}
	}

	c.Logger.Info().
		Time("time", r.Time).
		Str("T", fmt.Sprintf("%5.1fC", r.Temperature)).
		Str("H", fmt.Sprintf("%5.1f%%", r.Humidity)).
		Str("P", fmt.Sprintf("%6.1fmB", r.Pressure)).
		Float64("target_T", c.Setpoint.Temperature).
		Float64("target_H", c.Setpoint.Humidity).
		Bool("heater", ctrl.Heater).
		Bool("humidifier", ctrl.Humidifier).
		Msg("readings")

	if c.OnStep != nil {
		c.OnStep(r, ctrl)
	}
	return r, ctrl, nil
}

// Run steps at every interval until ctx is done. Sensor errors are logged and
// the loop goes on; a dashboard error stops it.
func (c *Controller) Run(ctx context.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, _, err := c.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, ErrDashboard) {
				return err
			}
			c.Logger.Error().Err(err).Msg("step")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
