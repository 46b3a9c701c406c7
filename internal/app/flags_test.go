package app

import (
	"flag"
	"testing"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("ca", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-scenario", "fire", "-scale", "4", "-seed", "9", "-hud", "0"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "atmos" || cfg.Scale != 4 || cfg.Seed != 9 || cfg.HUDWidth != 0 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.SimConfig()["scenario"]; got != "fire" {
		t.Fatalf("scenario = %q, want fire", got)
	}
	if len(NewConfig().SimConfig()) != 0 {
		t.Fatal("default config should not force a scenario")
	}
}
