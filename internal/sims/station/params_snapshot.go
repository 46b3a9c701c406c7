package station

import (
	"strconv"

	"atmos-ca/internal/core"
)

func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
				stringParam("scenario", "Scenario", params.Scenario),
				stringParam("view", "View", w.view.String()),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				intParam("tick_rate_ms", "Tick rate (ms)", params.TickRateMS),
				intParam("workers", "Workers", params.Workers),
				boolParam("reactions", "Reactions", params.Reactions),
			},
		},
		{
			Name: "Gas",
			Params: []core.Parameter{
				floatParam("fill_moles", "Fill moles", params.FillMoles),
				floatParam("oxygen_ratio", "Oxygen ratio", params.OxygenRatio),
			},
		},
		{
			Name: "Scenario",
			Params: []core.Parameter{
				intParam("breach_size", "Breach size", params.BreachSize),
				intParam("door_open_tick", "Door open tick", params.DoorOpenTick),
				floatParam("fire_temperature", "Fire temperature", params.FireTemperature),
				floatParam("fire_plasma", "Fire plasma", params.FirePlasma),
				intParam("room_count", "Room count", params.RoomCount),
				intParam("pipe_length", "Pipe loop side", params.PipeLength),
				floatParam("pump_rate", "Pump rate", params.PumpRate),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// Status reports live readings of the last snapshot for the HUD.
func (w *World) Status() []core.StatusLine {
	if w.engine == nil {
		return []core.StatusLine{{Label: "State", Value: "not running"}}
	}
	s := &w.snap
	moles, active := s.Totals()
	var (
		open     int
		pressure float64
		peak     float32
	)
	for i := range s.Pressure {
		if s.Space[i] || s.Solid[i] {
			continue
		}
		open++
		pressure += float64(s.Pressure[i])
		peak = max(peak, s.Temperature[i])
	}
	mean := 0.0
	if open > 0 {
		mean = pressure / float64(open)
	}
	return []core.StatusLine{
		{Label: "Tick", Value: strconv.FormatUint(s.Tick, 10)},
		{Label: "Phase", Value: strconv.Itoa(int(s.Phase.X)) + "," + strconv.Itoa(int(s.Phase.Y))},
		{Label: "Active", Value: strconv.Itoa(active) + " / " + strconv.Itoa(len(s.Active))},
		{Label: "Moles", Value: strconv.FormatFloat(float64(moles), 'f', 1, 32)},
		{Label: "Mean pressure", Value: strconv.FormatFloat(mean, 'f', 1, 64) + " kPa"},
		{Label: "Peak temp", Value: strconv.FormatFloat(float64(peak), 'f', 0, 32) + " K"},
	}
}

// ParameterControls lists the knobs the HUD can adjust.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "tick_rate_ms", Label: "Tick rate (ms)", Type: core.ParamTypeInt, Step: 10, Min: 0, Max: 2000, HasMin: true, HasMax: true},
		{Key: "workers", Label: "Workers", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 64, HasMin: true, HasMax: true},
		{Key: "pump_rate", Label: "Pump rate", Type: core.ParamTypeFloat, Step: 0.5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "door_open_tick", Label: "Door open tick", Type: core.ParamTypeInt, Step: 8, Min: 0, HasMin: true},
	}
}

// SetIntParameter applies an integer knob. Engine settings take effect on
// the next tick; scenario settings take effect on the next Reset.
func (w *World) SetIntParameter(key string, value int) bool {
	p := &w.cfg.Params
	switch key {
	case "tick_rate_ms":
		if value < 0 {
			return false
		}
		p.TickRateMS = value
		if w.host != nil {
			w.host.SetTickRate(w.tickRate())
		}
	case "workers":
		if value < 1 {
			return false
		}
		if w.engine != nil {
			ep := w.engine.Params()
			ep.Workers = value
			if err := w.engine.SetParams(ep); err != nil {
				return false
			}
		}
		p.Workers = value
	case "door_open_tick":
		if value < 0 {
			return false
		}
		p.DoorOpenTick = value
	case "breach_size":
		if value < 0 {
			return false
		}
		p.BreachSize = value
	case "room_count":
		if value < 0 {
			return false
		}
		p.RoomCount = value
	case "pipe_length":
		if value < 2 {
			return false
		}
		p.PipeLength = value
	default:
		return false
	}
	return true
}

// SetFloatParameter applies a floating point knob.
func (w *World) SetFloatParameter(key string, value float64) bool {
	p := &w.cfg.Params
	switch key {
	case "pump_rate":
		if value < 0 {
			return false
		}
		p.PumpRate = value
	case "fill_moles":
		if value < 0 {
			return false
		}
		p.FillMoles = value
	case "oxygen_ratio":
		if value < 0 || value > 1 {
			return false
		}
		p.OxygenRatio = value
	case "fire_temperature":
		if value <= 0 {
			return false
		}
		p.FireTemperature = value
	case "fire_plasma":
		if value < 0 {
			return false
		}
		p.FirePlasma = value
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
