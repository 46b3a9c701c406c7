package atmos

import (
	"encoding/json"
	"fmt"
	"io"

	"atmos-ca/internal/grid"
)

// CheckpointVersion is bumped whenever the encoded layout changes.
const CheckpointVersion = 1

// Checkpoint is the full restorable state of an engine.
type Checkpoint struct {
	Version int           `json:"version"`
	Tick    uint64        `json:"tick"`
	Cursor  Cursor        `json:"cursor"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Records []grid.Record `json:"records"`
	Wind    []Wind        `json:"wind,omitempty"`
}

// Checkpoint captures the current state.
func (e *Engine) Checkpoint() Checkpoint {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.store
	cp := Checkpoint{
		Version: CheckpointVersion,
		Tick:    e.tick,
		Cursor:  e.cursor,
		Width:   s.Width(),
		Height:  s.Height(),
		Records: make([]grid.Record, s.Len()),
		Wind:    append([]Wind(nil), e.wind...),
	}
	for i := range cp.Records {
		cp.Records[i] = s.Record(grid.Handle(i))
	}
	return cp
}

// Restore replaces the engine state with cp.
func (e *Engine) Restore(cp Checkpoint) error {
	if cp.Version != CheckpointVersion {
		return fmt.Errorf("checkpoint version %d not supported", cp.Version)
	}
	if cp.Cursor.X > 3 || cp.Cursor.Y > 3 {
		return fmt.Errorf("checkpoint cursor %d,%d out of range", cp.Cursor.X, cp.Cursor.Y)
	}
	store, err := grid.FromRecords(cp.Width, cp.Height, cp.Records)
	if err != nil {
		return fmt.Errorf("restore records: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = store
	e.tick = cp.Tick
	e.cursor = cp.Cursor
	e.index()
	if len(cp.Wind) == len(e.wind) {
		copy(e.wind, cp.Wind)
	}
	e.logger.Info("checkpoint restored", "tick", cp.Tick, "records", len(cp.Records))
	return nil
}

// Encode writes cp as JSON.
func (cp *Checkpoint) Encode(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(cp); err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	return nil
}

// DecodeCheckpoint reads a checkpoint written by Encode.
func DecodeCheckpoint(r io.Reader) (Checkpoint, error) {
	var cp Checkpoint
	if err := json.NewDecoder(r).Decode(&cp); err != nil {
		return Checkpoint{}, fmt.Errorf("decode checkpoint: %w", err)
	}
	return cp, nil
}
