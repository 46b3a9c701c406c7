package atmos

import (
	"testing"

	"atmos-ca/internal/gas"
	"atmos-ca/internal/grid"
)

func newVessels(t *testing.T, n int) (*Engine, []*Vessel) {
	t.Helper()
	s := grid.NewStore(0, 0)
	handles := make([]grid.Handle, n)
	for i := range handles {
		handles[i] = s.AddStorage(gas.TileVolume, gas.DefaultTemperature)
	}
	e := newTestEngine(t, s)
	vessels := make([]*Vessel, n)
	for i, h := range handles {
		vessels[i] = e.Vessel(h)
	}
	return e, vessels
}

func checkMoles(t *testing.T, v *Vessel, sp gas.Species, want float32) {
	t.Helper()
	if got := v.MolesOf(sp); !near(got, want, 1e-3) {
		t.Fatalf("species %d: got %v mol, want %v", sp, got, want)
	}
}

func checkCount(t *testing.T, v *Vessel, want int) {
	t.Helper()
	if got := v.GasCount(); got != want {
		t.Fatalf("gas count %d, want %d", got, want)
	}
}

func TestVesselAddGas(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)
	v.AddGas(gas.CarbonDioxide, -10)
	checkMoles(t, v, gas.Oxygen, 20)
	checkMoles(t, v, gas.Nitrogen, 40)
	checkMoles(t, v, gas.CarbonDioxide, 0)
	checkCount(t, v, 2)

	v.AddGas(gas.Oxygen, 20)
	checkMoles(t, v, gas.Oxygen, 40)
	checkCount(t, v, 2)

	v.AddGas(gas.Oxygen, -5)
	checkMoles(t, v, gas.Oxygen, 40)
}

func TestVesselAddGasUsesRegistryHeatCapacity(t *testing.T) {
	_, vs := newVessels(t, 1)
	vs[0].AddGas(gas.Plasma, 2)
	if got := vs[0].WholeHeatCapacity(); !near(got, 400, 1e-3) {
		t.Fatalf("heat capacity %v, want 400", got)
	}
}

func TestVesselRemoveGas(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)
	v.RemoveGas(gas.Oxygen, 10)
	v.RemoveGas(gas.Nitrogen, 40)
	checkMoles(t, v, gas.Oxygen, 10)
	checkMoles(t, v, gas.Nitrogen, 0)
	checkCount(t, v, 1)

	v.RemoveGas(gas.Oxygen, -5)
	checkMoles(t, v, gas.Oxygen, 10)
}

func TestVesselRemoveMoles(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)

	v.RemoveMoles(10)
	checkMoles(t, v, gas.Oxygen, 10)
	checkMoles(t, v, gas.Nitrogen, 40)
	checkCount(t, v, 2)

	v.RemoveMoles(20)
	checkMoles(t, v, gas.Oxygen, 0)
	checkMoles(t, v, gas.Nitrogen, 30)
	checkCount(t, v, 1)

	v.RemoveMoles(v.Moles())
	checkCount(t, v, 0)
}

func TestVesselDivide(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)

	v.DivideGases(10)
	checkMoles(t, v, gas.Oxygen, 2)
	checkMoles(t, v, gas.Nitrogen, 4)
	checkCount(t, v, 2)

	v.DivideGases(0)
	checkMoles(t, v, gas.Oxygen, 2)
	checkMoles(t, v, gas.Nitrogen, 4)

	v.DivideGases(100000)
	checkCount(t, v, 0)
}

func TestVesselMultiply(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)

	v.MultiplyGases(10)
	checkMoles(t, v, gas.Oxygen, 200)
	checkMoles(t, v, gas.Nitrogen, 400)
	checkCount(t, v, 2)

	v.MultiplyGases(0)
	checkCount(t, v, 0)

	v.AddGas(gas.Oxygen, 20)
	v.AddGas(gas.Nitrogen, 40)
	v.MultiplyGases(0.000001)
	checkCount(t, v, 0)
}

func TestVesselPressure(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	if want := gas.CalcPressure(gas.TileVolume, 20, gas.DefaultTemperature); !near(v.Pressure(), want, 1e-3) {
		t.Fatalf("pressure %v, want %v", v.Pressure(), want)
	}
	v.AddGas(gas.Oxygen, 20)
	if want := gas.CalcPressure(gas.TileVolume, 40, gas.DefaultTemperature); !near(v.Pressure(), want, 1e-3) {
		t.Fatalf("pressure %v, want %v", v.Pressure(), want)
	}
	v.SetTemperature(v.Temperature() + 10)
	if want := gas.CalcPressure(gas.TileVolume, 40, gas.DefaultTemperature+10); !near(v.Pressure(), want, 1e-3) {
		t.Fatalf("pressure %v, want %v", v.Pressure(), want)
	}
	if got := v.PartialPressure(gas.Oxygen); !near(got, v.Pressure(), 1e-3) {
		t.Fatalf("single species partial pressure %v", got)
	}
	if got := v.PartialPressure(gas.Nitrogen); got != 0 {
		t.Fatalf("absent species partial pressure %v", got)
	}
}

func TestVesselTemperature(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	if want := gas.CalcTemperature(v.Pressure(), gas.TileVolume, v.Moles()); !near(v.Temperature(), want, 1e-2) {
		t.Fatalf("temperature %v, want %v", v.Temperature(), want)
	}
	v.SetTemperature(v.Temperature() + 10)
	if want := gas.CalcTemperature(v.Pressure(), gas.TileVolume, v.Moles()); !near(v.Temperature(), want, 1e-2) {
		t.Fatalf("temperature %v, want %v", v.Temperature(), want)
	}
	v.SetTemperature(-10)
	if v.Temperature() != gas.SpaceTemperature {
		t.Fatalf("temperature %v, want the space floor", v.Temperature())
	}
}

func TestVesselInternalEnergy(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.SetInternalEnergy(5000)
	if v.Temperature() != gas.DefaultTemperature {
		t.Fatal("empty vessel must ignore internal energy writes")
	}
	v.AddGas(gas.Oxygen, 10)
	v.SetInternalEnergy(10 * 20 * 400)
	if !near(v.Temperature(), 400, 1e-2) {
		t.Fatalf("temperature %v, want 400", v.Temperature())
	}
	if !near(v.InternalEnergy(), 80000, 1) {
		t.Fatalf("internal energy %v", v.InternalEnergy())
	}
}

func TestVesselTransfer(t *testing.T) {
	_, vs := newVessels(t, 2)
	a, b := vs[0], vs[1]
	a.AddGas(gas.Oxygen, 20)
	a.AddGas(gas.Nitrogen, 10)
	b.AddGas(gas.Oxygen, 20)

	ratio := 10 / a.Moles()
	moved1 := 20 * ratio
	moved2 := 10 * ratio
	a.TransferGases(b, 10)

	checkMoles(t, b, gas.Oxygen, 20+moved1)
	checkMoles(t, b, gas.Nitrogen, moved2)
	checkMoles(t, a, gas.Oxygen, 20-moved1)
	checkMoles(t, a, gas.Nitrogen, 10-moved2)
}

func TestVesselTransferSpecified(t *testing.T) {
	_, vs := newVessels(t, 2)
	a, b := vs[0], vs[1]
	a.AddGas(gas.Oxygen, 20)
	a.AddGas(gas.Nitrogen, 10)
	b.AddGas(gas.Oxygen, 20)

	a.TransferSpecifiedTo(b, gas.Oxygen, 10)
	checkMoles(t, b, gas.Oxygen, 30)
	checkMoles(t, b, gas.Nitrogen, 0)
	checkMoles(t, a, gas.Oxygen, 10)
	checkMoles(t, a, gas.Nitrogen, 10)
}

func TestVesselMerge(t *testing.T) {
	_, vs := newVessels(t, 2)
	a, b := vs[0], vs[1]
	a.AddGas(gas.Oxygen, 30)
	b.AddGas(gas.Oxygen, 10)
	b.SetTemperature(gas.DefaultTemperature + 100)

	a.MergeGasVessel(b)
	checkMoles(t, a, gas.Oxygen, 20)
	checkMoles(t, b, gas.Oxygen, 20)
	if want := float32(gas.DefaultTemperature + 25); !near(a.Temperature(), want, 1e-2) || a.Temperature() != b.Temperature() {
		t.Fatalf("temperatures %v and %v, want %v", a.Temperature(), b.Temperature(), want)
	}
}

func TestVesselWritesWake(t *testing.T) {
	e, vs := newVessels(t, 1)
	v := vs[0]
	if e.Store().State(v.Handle()) != grid.Dormant {
		t.Fatal("storage should start dormant")
	}
	v.AddGas(gas.Oxygen, 1)
	if e.Store().State(v.Handle()) != grid.Active {
		t.Fatal("vessel write must wake the record")
	}
}

func TestVesselClear(t *testing.T) {
	_, vs := newVessels(t, 1)
	v := vs[0]
	v.AddGas(gas.Oxygen, 20)
	v.Clear()
	checkCount(t, v, 0)
	if v.Pressure() != 0 || v.Volume() != gas.TileVolume {
		t.Fatalf("clear left pressure %v volume %v", v.Pressure(), v.Volume())
	}
}
