package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestEngagementCounters(t *testing.T) {
	XPAwarded.WithLabelValues("station_complete").Add(120)
	ActionsRecorded.WithLabelValues("station_complete").Inc()
	LevelUps.WithLabelValues("2").Inc()
	StreakChanges.WithLabelValues("extended").Inc()
	FreezesEarned.Inc()

	names := gatheredNames(t)
	expected := []string{
		"lernpfad_xp_awarded_total",
		"lernpfad_actions_recorded_total",
		"lernpfad_level_ups_total",
		"lernpfad_streak_changes_total",
		"lernpfad_streak_freezes_earned_total",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestCurriculumCounters(t *testing.T) {
	before := testutil.ToFloat64(ModulesCompleted.WithLabelValues("V"))
	ModulesCompleted.WithLabelValues("V").Inc()
	if got := testutil.ToFloat64(ModulesCompleted.WithLabelValues("V")); got != before+1 {
		t.Errorf("modules_completed{V} = %v, want %v", got, before+1)
	}

	CurriculaCompleted.Inc()
	SuggestionsServed.WithLabelValues("found").Inc()

	names := gatheredNames(t)
	for _, name := range []string{"lernpfad_curricula_completed_total", "lernpfad_gegensatz_suggestions_total"} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}

func TestStoreLatency(t *testing.T) {
	StoreLatency.WithLabelValues("sqlite", "load").Observe(0.002)
	StoreErrors.WithLabelValues("sqlite", "save").Inc()
	HealthCheckStatus.WithLabelValues("store").Set(1)

	names := gatheredNames(t)
	for _, name := range []string{
		"lernpfad_store_latency_seconds",
		"lernpfad_store_errors_total",
		"lernpfad_health_check_status",
	} {
		if !names[name] {
			t.Errorf("metric %q not found", name)
		}
	}
}
