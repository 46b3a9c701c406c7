package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"atmos-ca/internal/atmos"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTick(t *testing.T) {
	o := New()
	o.ObserveTick(atmos.TickStats{Tick: 1, Active: 12, Dormant: 4, Updated: 3, Woken: 5, Slept: 2, Duration: time.Millisecond})
	o.ObserveTick(atmos.TickStats{Tick: 2, Active: 10, Dormant: 6, Updated: 1, Woken: 1, Slept: 3, Duration: time.Millisecond})

	if got := testutil.ToFloat64(o.ticks); got != 2 {
		t.Fatalf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(o.woken); got != 6 {
		t.Fatalf("woken = %v, want 6", got)
	}
	if got := testutil.ToFloat64(o.slept); got != 5 {
		t.Fatalf("slept = %v, want 5", got)
	}
	if got := testutil.ToFloat64(o.active); got != 10 {
		t.Fatalf("active = %v, want 10", got)
	}
	if got := testutil.ToFloat64(o.dormant); got != 6 {
		t.Fatalf("dormant = %v, want 6", got)
	}
}

func TestObserveStageLabels(t *testing.T) {
	o := New()
	for _, stage := range atmos.Stages {
		o.ObserveStage(stage, time.Microsecond)
	}
	if got := testutil.CollectAndCount(o.stageSeconds); got != len(atmos.Stages) {
		t.Fatalf("stage series = %d, want %d", got, len(atmos.Stages))
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	o := New()
	o.ObserveTick(atmos.TickStats{Tick: 1})

	rec := httptest.NewRecorder()
	o.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "atmos_ticks_total 1") {
		t.Fatalf("metrics output missing tick counter:\n%s", body)
	}
}
