package atmos

import (
	"fmt"
	"runtime"

	"atmos-ca/internal/gas"
)

// Params tunes the tick passes. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	// Workers bounds the goroutines used by a stage.
	Workers int
	// ChunkSize is the number of records handed to one worker at a time.
	ChunkSize int
	// Reactions enables the reaction stage.
	Reactions bool

	MinPressureDifference       float32
	MinimumHeatCapacity         float32
	SpaceTemperature            float32
	SpaceHeatCapacity           float32
	MinTempStartSuperconduction float32
	MinTempForSuperconduction   float32
	MinTempDelta                float32
	MCellWithRatio              float32
}

// DefaultParams returns the standard thresholds and a worker per CPU.
func DefaultParams() Params {
	return Params{
		Workers:                     runtime.GOMAXPROCS(0),
		ChunkSize:                   256,
		Reactions:                   true,
		MinPressureDifference:       gas.MinPressureDifference,
		MinimumHeatCapacity:         gas.MinimumHeatCapacity,
		SpaceTemperature:            gas.SpaceTemperature,
		SpaceHeatCapacity:           gas.SpaceHeatCapacity,
		MinTempStartSuperconduction: gas.MinTempStartSuperconduction,
		MinTempForSuperconduction:   gas.MinTempForSuperconduction,
		MinTempDelta:                gas.MinTempDelta,
		MCellWithRatio:              gas.MCellWithRatio,
	}
}

// Validate reports the first unusable value.
func (p Params) Validate() error {
	if p.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", p.Workers)
	}
	if p.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", p.ChunkSize)
	}
	if p.MinPressureDifference < 0 {
		return fmt.Errorf("min pressure difference must not be negative")
	}
	if p.SpaceTemperature <= 0 {
		return fmt.Errorf("space temperature must be positive")
	}
	if p.SpaceHeatCapacity <= 0 {
		return fmt.Errorf("space heat capacity must be positive")
	}
	if p.MinTempForSuperconduction > p.MinTempStartSuperconduction {
		return fmt.Errorf("superconduction keep threshold %.2f exceeds start threshold %.2f",
			p.MinTempForSuperconduction, p.MinTempStartSuperconduction)
	}
	return nil
}
