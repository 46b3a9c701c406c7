package core

import (
	"testing"
	"time"
)

func TestElapseFiresAndResets(t *testing.T) {
	fs := NewInterval(100 * time.Millisecond)
	if fs.Elapse(60 * time.Millisecond) {
		t.Fatal("fired before the interval elapsed")
	}
	if !fs.Elapse(250 * time.Millisecond) {
		t.Fatal("expected fire once the interval elapsed")
	}
	if fs.Accumulated() != 0 {
		t.Fatalf("remainder must be dropped, got %v", fs.Accumulated())
	}
	if fs.Elapse(0) {
		t.Fatal("fired without accumulated time")
	}
}

func TestElapseZeroStepAlwaysFires(t *testing.T) {
	fs := NewInterval(0)
	for i := 0; i < 3; i++ {
		if !fs.Elapse(0) {
			t.Fatalf("call %d did not fire", i)
		}
	}
}

func TestNewFixedStepFiresImmediately(t *testing.T) {
	fs := NewFixedStep(30)
	if fs.Step() != time.Second/30 {
		t.Fatalf("unexpected step %v", fs.Step())
	}
	if !fs.ShouldStep() {
		t.Fatal("first ShouldStep must fire")
	}
}
