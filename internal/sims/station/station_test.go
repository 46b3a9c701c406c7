package station

import (
	"context"
	"slices"
	"testing"

	"atmos-ca/internal/atmos"
	"atmos-ca/internal/core"
	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

func smallConfig(scenario string) Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 16
	cfg.Seed = 99
	cfg.Params.Scenario = scenario
	cfg.Params.Workers = 2
	cfg.Params.TickRateMS = 10
	cfg.Params.FrameMS = 10
	cfg.Params.RoomSizeMin = 4
	cfg.Params.RoomSizeMax = 8
	cfg.Params.PipeLength = 6
	return cfg
}

func newWorld(t *testing.T, scenario string) *World {
	t.Helper()
	w := NewWithConfig(smallConfig(scenario))
	w.Reset(0)
	if w.Engine() == nil {
		t.Fatalf("scenario %s did not build an engine", scenario)
	}
	return w
}

func TestEveryScenarioBuilds(t *testing.T) {
	for _, name := range Scenarios() {
		w := newWorld(t, name)
		if err := w.Advance(context.Background(), 20); err != nil {
			t.Fatalf("%s: advance: %v", name, err)
		}
		if got := len(w.Cells()); got != 24*16 {
			t.Fatalf("%s: display has %d cells", name, got)
		}
	}
}

func TestResetDeterministic(t *testing.T) {
	w := newWorld(t, "rooms")
	first := append([]uint8(nil), w.Cells()...)
	moles, _ := w.Snapshot().Totals()

	w.Cells()[0] = 200
	w.Reset(0)
	if !slices.Equal(first, w.Cells()) {
		t.Fatal("Reset with config seed not deterministic for display buffer")
	}
	again, _ := w.Snapshot().Totals()
	if again != moles {
		t.Fatalf("total moles %v after reset, want %v", again, moles)
	}

	w.Reset(777)
	seeded := append([]uint8(nil), w.Cells()...)
	w.Reset(777)
	if !slices.Equal(seeded, w.Cells()) {
		t.Fatal("Reset with explicit seed not deterministic")
	}
}

func TestBreachVentsToSpace(t *testing.T) {
	w := newWorld(t, "breach")
	before, _ := w.Snapshot().Totals()
	if err := w.Advance(context.Background(), 64); err != nil {
		t.Fatal(err)
	}
	after, _ := w.Snapshot().Totals()
	if after >= before {
		t.Fatalf("breach should lose gas: before %v after %v", before, after)
	}
	snap := w.Snapshot()
	for y := 0; y < snap.Height; y++ {
		if i := snap.Index(snap.Width-1, y); snap.Moles[i] != 0 {
			t.Fatalf("space tile at row %d holds %v mol", y, snap.Moles[i])
		}
	}
}

func TestMixDoorOpens(t *testing.T) {
	w := newWorld(t, "mix")
	w.cfg.Params.DoorOpenTick = 4
	s := w.Engine().Store()
	door := w.layout.doors[0]
	if !s.Tile(door).IsSolid() {
		t.Fatal("door should start closed")
	}
	if err := w.Advance(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	if !s.Tile(door).IsSolid() {
		t.Fatal("door opened early")
	}
	if err := w.Advance(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if s.Tile(door).IsSolid() || !w.doorsOpen {
		t.Fatal("door should be open after its tick")
	}

	if err := w.Advance(context.Background(), 64); err != nil {
		t.Fatal(err)
	}
	right := s.At(w.cfg.Width/2+1, w.cfg.Height/2)
	if s.Species(right).Moles(gas.Oxygen) <= 0 {
		t.Fatal("oxygen should cross the open door")
	}
}

func TestFireHeatsRoom(t *testing.T) {
	w := newWorld(t, "fire")
	s := w.Engine().Store()
	probe := s.At(2, w.cfg.Height/2)
	start := s.Mix(probe).Temperature
	if err := w.Advance(context.Background(), 48); err != nil {
		t.Fatal(err)
	}
	if got := s.Mix(probe).Temperature; got <= start {
		t.Fatalf("gas by the hot wall stayed at %v K", got)
	}
}

func TestPipesPumpIntoTank(t *testing.T) {
	w := newWorld(t, "pipes")
	tank := w.Engine().Vessel(w.layout.pump.to)
	if tank.Moles() != 0 {
		t.Fatal("tank should start empty")
	}
	if err := w.Advance(context.Background(), 40); err != nil {
		t.Fatal(err)
	}
	if tank.Moles() <= 0 {
		t.Fatal("pump moved nothing into the tank")
	}
	if w.Engine().Store().Kind(w.layout.pump.to) != grid.KindStorage {
		t.Fatal("pump target is not storage")
	}
}

func TestStepHonoursTickRate(t *testing.T) {
	cfg := smallConfig("breach")
	cfg.Params.TickRateMS = 30
	cfg.Params.FrameMS = 10
	w := NewWithConfig(cfg)
	w.Reset(0)

	w.Step()
	w.Step()
	if w.Engine().Tick() != 0 {
		t.Fatal("ticked before the rate elapsed")
	}
	w.Step()
	if w.Engine().Tick() != 1 {
		t.Fatalf("tick %d after 30ms, want 1", w.Engine().Tick())
	}
}

func TestViewsEncodeKnownCells(t *testing.T) {
	w := newWorld(t, "breach")
	snap := w.Snapshot()
	space := snap.Index(snap.Width-1, 0)
	wall := snap.Index(0, 0)
	room := snap.Index(2, 2)

	for _, v := range []View{ViewPressure, ViewTemperature, ViewConductivity, ViewActivity} {
		w.SetView(v)
		if w.Cells()[space] != displaySpace {
			t.Fatalf("%s: space cell %d", v, w.Cells()[space])
		}
	}
	w.SetView(ViewPressure)
	if w.Cells()[wall] != displayWall {
		t.Fatalf("wall cell %d", w.Cells()[wall])
	}
	if got := w.Cells()[room]; got < displayGradient || int(got) >= len(w.Palette()) {
		t.Fatalf("room cell %d outside the gradient", got)
	}
	if w.CycleView() != ViewTemperature.String() || w.View() != ViewTemperature {
		t.Fatal("cycle should move to temperature")
	}
}

func TestParameterSetters(t *testing.T) {
	w := newWorld(t, "breach")
	if !w.SetIntParameter("workers", 3) || w.Engine().Params().Workers != 3 {
		t.Fatal("workers not applied to the engine")
	}
	if w.SetIntParameter("workers", 0) {
		t.Fatal("zero workers accepted")
	}
	if !w.SetIntParameter("tick_rate_ms", 250) || w.Host().TickRate().Milliseconds() != 250 {
		t.Fatal("tick rate not applied to the host")
	}
	if w.SetFloatParameter("oxygen_ratio", 1.5) {
		t.Fatal("oxygen ratio above 1 accepted")
	}
	if !w.SetFloatParameter("pump_rate", 2.5) || w.Config().Params.PumpRate != 2.5 {
		t.Fatal("pump rate not stored")
	}
	if w.SetIntParameter("unknown", 1) {
		t.Fatal("unknown key accepted")
	}

	found := false
	for _, g := range w.Parameters().Groups {
		for _, p := range g.Params {
			if p.Key == "workers" && p.Value == "3" {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("snapshot does not report the new worker count")
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":             "40",
		"h":             "-2",
		"scenario":      "FIRE",
		"workers":       "0",
		"reactions":     "false",
		"room_size_min": "10",
		"room_size_max": "4",
	})
	if cfg.Width != 40 || cfg.Height != DefaultConfig().Height {
		t.Fatalf("size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Params.Scenario != "fire" {
		t.Fatalf("scenario %q", cfg.Params.Scenario)
	}
	if cfg.Params.Workers != DefaultConfig().Params.Workers {
		t.Fatal("invalid worker count should keep the default")
	}
	if cfg.Params.Reactions {
		t.Fatal("reactions should be off")
	}
	if cfg.Params.RoomSizeMax != 10 {
		t.Fatalf("room size max %d, want clamped to min", cfg.Params.RoomSizeMax)
	}
	if FromMap(map[string]string{"scenario": "nope"}).Params.Scenario != "breach" {
		t.Fatal("unknown scenario should keep the default")
	}
}

func TestRegistered(t *testing.T) {
	factory, ok := core.Sims()["atmos"]
	if !ok {
		t.Fatal("atmos sim not registered")
	}
	sim := factory(map[string]string{"w": "12", "h": "10"})
	sim.Reset(1)
	if sim.Size() != (core.Size{W: 12, H: 10}) {
		t.Fatalf("size %+v", sim.Size())
	}
}

func TestOverlayProviders(t *testing.T) {
	w := newWorld(t, "breach")
	if err := w.Advance(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	n := w.cfg.Width * w.cfg.Height
	if len(w.TriedMask()) != n || len(w.UpdatedMask()) != n || len(w.DormantMask()) != n {
		t.Fatal("mask sizes do not match the grid")
	}
	if x, y := w.WindVectorAt(-5, 3); x != 0 || y != 0 {
		t.Fatal("out of range wind should be zero")
	}
}

func TestRestoreCheckpoint(t *testing.T) {
	ctx := context.Background()
	w := newWorld(t, "mix")
	if err := w.Advance(ctx, 40); err != nil {
		t.Fatal(err)
	}
	cp := w.Engine().Checkpoint()
	want := append([]uint8(nil), w.Cells()...)

	other := newWorld(t, "mix")
	if err := other.Restore(cp); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if other.Engine().Tick() != 40 || !other.doorsOpen {
		t.Fatalf("tick=%d doorsOpen=%v after restore", other.Engine().Tick(), other.doorsOpen)
	}
	if !slices.Equal(want, other.Cells()) {
		t.Fatal("display differs after restore")
	}

	small := NewWithConfig(Config{Width: 8, Height: 8, Params: smallConfig("mix").Params})
	small.Reset(1)
	if err := small.Restore(cp); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestEngineOverride(t *testing.T) {
	cfg := smallConfig("breach")
	params := atmos.DefaultParams()
	params.MinTempDelta = 2
	cfg.Engine = &params
	w := NewWithConfig(cfg)
	w.Reset(0)
	got := w.Engine().Params()
	if got.MinTempDelta != 2 || got.Workers != 2 {
		t.Fatalf("engine params not applied: %+v", got)
	}
}

func TestStatusTracksSnapshot(t *testing.T) {
	w := newWorld(t, "breach")
	if err := w.Advance(context.Background(), 5); err != nil {
		t.Fatalf("advance: %v", err)
	}
	lines := w.Status()
	values := map[string]string{}
	for _, l := range lines {
		values[l.Label] = l.Value
	}
	if values["Tick"] != "5" {
		t.Fatalf("tick = %q, want 5", values["Tick"])
	}
	if values["Phase"] != "1,1" {
		t.Fatalf("phase = %q, want 1,1", values["Phase"])
	}
	if values["Mean pressure"] == "" || values["Active"] == "" {
		t.Fatalf("status missing readings: %v", lines)
	}

	idle := NewWithConfig(smallConfig("breach"))
	if got := idle.Status(); len(got) != 1 || got[0].Value != "not running" {
		t.Fatalf("status before reset = %v", got)
	}
}

func TestLegendFollowsView(t *testing.T) {
	w := newWorld(t, "mix")
	palette := w.Palette()
	seen := map[string]bool{}
	for range viewCount {
		legend := w.Legend()
		if legend.Title == "" || len(legend.Entries) == 0 {
			t.Fatalf("view %s has an empty legend", w.View())
		}
		if seen[legend.Title] {
			t.Fatalf("legend %q repeated across views", legend.Title)
		}
		seen[legend.Title] = true
		for _, e := range legend.Entries {
			if int(e.Index) >= len(palette) {
				t.Fatalf("%s: entry %q points past the palette", legend.Title, e.Label)
			}
		}
		w.CycleView()
	}

	w.SetView(ViewActivity)
	if first := w.Legend().Entries[0]; first.Index != displayUpdated || first.Label != "updated" {
		t.Fatalf("activity legend starts with %+v", first)
	}
	w.SetView(ViewPressure)
	if last := w.Legend().Entries[2]; last.Index != displayGradient+gradientLevels-1 {
		t.Fatalf("pressure ceiling maps to %d", last.Index)
	}
}
