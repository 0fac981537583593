// Package sensor defines the drone's sensor surfaces and the fixed
// implementations used for bench runs without hardware. Consumers depend on
// the interfaces, never the concrete sensors.
package sensor

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

// Telemetry reports where the drone is and how much charge it has.
type Telemetry interface {
	Position() estuary.Position
	Battery() int
}

// Chemical samples the water column at the drone's position.
type Chemical interface {
	Reading() Reading
}

// Proximity detects obstacles around the drone.
type Proximity interface {
	ObstaclesNearby(radius int) []estuary.Position
}

// Vision captures thermal and visual frames of the water surface.
type Vision interface {
	CaptureImage() ([]byte, error)
	ThermalReading() float64
}

// Reading is one chemical sample: heavy metals in ppm and dissolved oxygen
// in mg/L.
type Reading struct {
	Mercury         float64 `json:"mercury_ppm"`
	Lead            float64 `json:"lead_ppm"`
	DissolvedOxygen float64 `json:"dissolved_oxygen_mgl"`
}

// DefaultReading is clean estuary water: no detectable metals, healthy
// oxygen.
func DefaultReading() Reading {
	return Reading{DissolvedOxygen: 6.5}
}

var (
	_ Chemical = (*FixedChemical)(nil)
	_ Vision   = (*FixedVision)(nil)
)

// FixedChemical serves a scripted reading. The simulator loads each survey
// site's water profile into it right before the drone samples.
type FixedChemical struct {
	mu      sync.Mutex
	reading Reading
}

// NewFixedChemical starts with clean water.
func NewFixedChemical() *FixedChemical {
	return &FixedChemical{reading: DefaultReading()}
}

// Reading returns the current sample.
func (c *FixedChemical) Reading() Reading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reading
}

// Set loads the next sample.
func (c *FixedChemical) Set(r Reading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reading = r
}

// FixedVision serves a canned frame and surface temperature.
type FixedVision struct {
	Temp  float64 // surface water temperature in Celsius
	Frame []byte
}

// CaptureImage returns a copy of the loaded frame.
func (v *FixedVision) CaptureImage() ([]byte, error) {
	if len(v.Frame) == 0 {
		return nil, errors.New("no frame loaded")
	}
	return append([]byte(nil), v.Frame...), nil
}

// ThermalReading returns the configured surface temperature.
func (v *FixedVision) ThermalReading() float64 {
	return v.Temp
}
