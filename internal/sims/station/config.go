package station

import (
	"strconv"
	"strings"

	"atmos-ca/internal/atmos"
)

// Params holds the scenario knobs and engine settings for the station sim.
type Params struct {
	Scenario string

	TickRateMS int
	FrameMS    int
	Workers    int
	Reactions  bool

	// FillMoles is the gas placed in each pressurised tile.
	FillMoles float64
	// OxygenRatio is the oxygen share of breathable air; the rest is nitrogen.
	OxygenRatio float64

	BreachSize   int
	DoorOpenTick int

	FireTemperature float64
	FirePlasma      float64

	RoomCount   int
	RoomSizeMin int
	RoomSizeMax int

	PipeLength int
	PumpRate   float64
	TankVolume float64
}

// Config controls the station simulation dimensions.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params

	// Engine, when set, replaces the default engine thresholds. Workers and
	// Reactions still come from Params.
	Engine *atmos.Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  96,
		Height: 64,
		Seed:   1337,
		Params: Params{
			Scenario:        "breach",
			TickRateMS:      100,
			FrameMS:         16,
			Workers:         4,
			Reactions:       true,
			FillMoles:       103.98,
			OxygenRatio:     0.21,
			BreachSize:      3,
			DoorOpenTick:    32,
			FireTemperature: 1200,
			FirePlasma:      20,
			RoomCount:       8,
			RoomSizeMin:     6,
			RoomSizeMax:     16,
			PipeLength:      12,
			PumpRate:        5,
			TankVolume:      70,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scenario"]; ok {
		name := strings.ToLower(strings.TrimSpace(v))
		if _, known := scenarios[name]; known {
			c.Params.Scenario = name
		}
	}
	if v, ok := cfg["tick_rate_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.TickRateMS = parsed
		}
	}
	if v, ok := cfg["frame_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.FrameMS = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.Workers = parsed
		}
	}
	if v, ok := cfg["reactions"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.Reactions = parsed
		}
	}
	if v, ok := cfg["fill_moles"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.FillMoles = parsed
		}
	}
	if v, ok := cfg["oxygen_ratio"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.OxygenRatio = parsed
		}
	}
	if v, ok := cfg["breach_size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.BreachSize = parsed
		}
	}
	if v, ok := cfg["door_open_tick"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.DoorOpenTick = parsed
		}
	}
	if v, ok := cfg["fire_temperature"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.FireTemperature = parsed
		}
	}
	if v, ok := cfg["fire_plasma"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.FirePlasma = parsed
		}
	}
	if v, ok := cfg["room_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.RoomCount = parsed
		}
	}
	if v, ok := cfg["room_size_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 3 {
			c.Params.RoomSizeMin = parsed
		}
	}
	if v, ok := cfg["room_size_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 3 {
			c.Params.RoomSizeMax = parsed
		}
	}
	if c.Params.RoomSizeMax < c.Params.RoomSizeMin {
		c.Params.RoomSizeMax = c.Params.RoomSizeMin
	}
	if v, ok := cfg["pipe_length"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 2 {
			c.Params.PipeLength = parsed
		}
	}
	if v, ok := cfg["pump_rate"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.PumpRate = parsed
		}
	}
	if v, ok := cfg["tank_volume"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.TankVolume = parsed
		}
	}
	return c
}
