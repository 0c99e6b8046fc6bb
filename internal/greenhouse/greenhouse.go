// Package greenhouse holds the greenhouse controller records and the control
// rules.
package greenhouse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BeatGlow/matrix"
)

// Records shared with the display.
type (
	Reading  = matrix.Reading
	Setpoint = matrix.Setpoint
)

// DefaultSetpoint is used until the operator stores a setpoint.
var DefaultSetpoint = Setpoint{Temperature: 25, Humidity: 55}

// ErrNoSerial is returned when the board serial number can not be found.
var ErrNoSerial = errors.New("greenhouse: serial number not found")

// Controls are the actuator states.
type Controls struct {
	Heater     bool `json:"heater"`
	Humidifier bool `json:"humidifier"`
}

func (c Controls) String() string {
	return fmt.Sprintf("heater=%s humidifier=%s", onOff(c.Heater), onOff(c.Humidifier))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// SetControls turns the heater on below the target temperature and the
// humidifier on below the target humidity.
func SetControls(target Setpoint, r Reading) Controls {
	return Controls{
		Heater:     r.Temperature < target.Temperature,
		Humidifier: r.Humidity < target.Humidity,
	}
}

// CPUInfo is the file holding the board serial number.
var CPUInfo = "/proc/cpuinfo"

// ReadSerial returns the Raspberry Pi serial number.
func ReadSerial() (uint64, error) {
	f, err := os.Open(CPUInfo)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ParseSerial(f)
}

// ParseSerial finds the "Serial" line of a cpuinfo listing.
func ParseSerial(r io.Reader) (uint64, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		key, value, ok := strings.Cut(s.Text(), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "serial") {
			continue
		}
		serial, err := strconv.ParseUint(strings.TrimSpace(value), 16, 64)
		if err != nil {
			return 0, fmt.Errorf("greenhouse: serial: %w", err)
		}
		if serial == 0 {
			return 0, ErrNoSerial
		}
		return serial, nil
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoSerial
}
