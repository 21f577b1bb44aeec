// Package exercise defines the declarative exercise configuration consumed
// by the repetition engine, plus loading and lookup of configured exercises.
package exercise

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repsense-data/repsense/internal/pose"
)

// Movement directions. InitialDirection declares which way the composite
// signal moves at the start of a repetition: "down" means the signal falls
// first (e.g. a curl closing the elbow), so a rep completes on valley→peak.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// AngleDefinition names one tracked joint angle: the angle at Points[1]
// between rays to Points[0] and Points[2]. Weight scales this definition's
// contribution to the composite signal (default 1.0). TargetLowAngle and
// TargetHighAngle, when both set, declare the ideal range of motion used
// for per-rep comparison.
type AngleDefinition struct {
	Name            string   `json:"name"`
	Points          [3]int   `json:"points"`
	Weight          float64  `json:"weight,omitempty"`
	TargetLowAngle  *float64 `json:"target_low_angle,omitempty"`
	TargetHighAngle *float64 `json:"target_high_angle,omitempty"`
}

// HasTargets reports whether both target bounds are declared.
func (d *AngleDefinition) HasTargets() bool {
	return d.TargetLowAngle != nil && d.TargetHighAngle != nil
}

// Config describes one exercise to the repetition engine. Validated once at
// construction; the engine treats it as read-only afterwards.
type Config struct {
	Name             string            `json:"name"`
	AngleDefinitions []AngleDefinition `json:"angle_definitions"`
	// MinPeakDistance is the minimum spacing in frames between two accepted
	// extrema of the same kind.
	MinPeakDistance  int    `json:"min_peak_distance"`
	InitialDirection string `json:"initial_direction"`
	// Inverted flips the composite signal before extrema detection, for
	// exercises whose primary angle shrinks during the effort phase.
	Inverted bool `json:"inverted,omitempty"`
}

// Validate checks the structural invariants once, at load time. The engine
// itself does not re-validate per call.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("exercise name must not be empty")
	}
	if len(c.AngleDefinitions) == 0 {
		return fmt.Errorf("exercise %q: at least one angle definition required", c.Name)
	}
	if c.MinPeakDistance < 1 {
		return fmt.Errorf("exercise %q: min_peak_distance must be >= 1, got %d", c.Name, c.MinPeakDistance)
	}
	if c.InitialDirection != DirectionUp && c.InitialDirection != DirectionDown {
		return fmt.Errorf("exercise %q: initial_direction must be %q or %q, got %q",
			c.Name, DirectionUp, DirectionDown, c.InitialDirection)
	}
	for i := range c.AngleDefinitions {
		d := &c.AngleDefinitions[i]
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("exercise %q: angle definition %d has no name", c.Name, i)
		}
		for _, p := range d.Points {
			if p < 0 || p >= pose.LandmarkCount {
				return fmt.Errorf("exercise %q: angle %q references landmark %d (valid range 0-%d)",
					c.Name, d.Name, p, pose.LandmarkCount-1)
			}
		}
		if d.Weight < 0 {
			return fmt.Errorf("exercise %q: angle %q has negative weight %v", c.Name, d.Name, d.Weight)
		}
		if d.Weight == 0 {
			d.Weight = 1.0
		}
		if (d.TargetLowAngle == nil) != (d.TargetHighAngle == nil) {
			return fmt.Errorf("exercise %q: angle %q must declare both target bounds or neither", c.Name, d.Name)
		}
		if d.HasTargets() && *d.TargetLowAngle >= *d.TargetHighAngle {
			return fmt.Errorf("exercise %q: angle %q target range is empty (%v >= %v)",
				c.Name, d.Name, *d.TargetLowAngle, *d.TargetHighAngle)
		}
	}
	return nil
}

// maxConfigFileSize caps per-exercise JSON files.
const maxConfigFileSize = 1 * 1024 * 1024

// LoadConfig reads and validates one exercise config from a JSON file.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("exercise config must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat exercise config: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("exercise config too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse exercise config %s: %w", cleanPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exercise config %s: %w", cleanPath, err)
	}
	return &cfg, nil
}

// NormalizeName canonicalizes an exercise name for lookup: lower-cased,
// trimmed, inner whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
