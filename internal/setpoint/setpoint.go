// Package setpoint persists the greenhouse setpoints as YAML.
package setpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/BeatGlow/matrix/internal/greenhouse"
)

// DefaultPath of the setpoint file.
const DefaultPath = "setpoints.yaml"

type document struct {
	Temperature float64 `yaml:"temperature"`
	Humidity    float64 `yaml:"humidity"`
}

// Store is a setpoint file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New store at path.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

func (s *Store) String() string { return s.path }

// Load returns the stored setpoints. When the file is missing or holds no
// temperature, the defaults are saved and returned.
func (s *Store) Load() (greenhouse.Setpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return greenhouse.Setpoint{}, fmt.Errorf("setpoint: load: %w", err)
	}

	var doc document
	if err == nil {
		if err = yaml.Unmarshal(b, &doc); err != nil {
			return greenhouse.Setpoint{}, fmt.Errorf("setpoint: load %s: %w", s.path, err)
		}
	}
	if doc.Temperature == 0 {
		sp := greenhouse.DefaultSetpoint
		log.Info().Str("path", s.path).Float64("temperature", sp.Temperature).Float64("humidity", sp.Humidity).Msg("setpoint: storing defaults")
		return sp, s.save(sp)
	}
	return greenhouse.Setpoint{Temperature: doc.Temperature, Humidity: doc.Humidity}, nil
}

// Save replaces the stored setpoints.
func (s *Store) Save(sp greenhouse.Setpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(sp)
}

func (s *Store) save(sp greenhouse.Setpoint) error {
	b, err := yaml.Marshal(document{Temperature: sp.Temperature, Humidity: sp.Humidity})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("setpoint: save: %w", err)
		}
	}
	if err = os.WriteFile(s.path, b, 0644); err != nil {
		return fmt.Errorf("setpoint: save: %w", err)
	}
	return nil
}
