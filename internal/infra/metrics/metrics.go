// Package metrics provides Prometheus metrics for lernpfad.
// Counters for XP, levels, streak freezes and curriculum progress, plus
// store latency and health gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engagement ─────────────────────────────────────────────────────────────

// XPAwarded tracks XP handed out, labelled by the triggering action.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded, including daily bonuses.",
}, []string{"action"})

// ActionsRecorded counts award calls per action.
var ActionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "actions_recorded_total",
	Help:      "Total learner actions recorded.",
}, []string{"action"})

// LevelUps counts level-ups by the level reached.
var LevelUps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "level_ups_total",
	Help:      "Total level-ups by level reached.",
}, []string{"level"})

// StreakChanges counts streak transitions (extended, frozen, halved, ...).
var StreakChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "streak_changes_total",
	Help:      "Streak transitions by kind.",
}, []string{"change"})

// FreezesEarned counts streak freezes granted.
var FreezesEarned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "streak_freezes_earned_total",
	Help:      "Total streak freezes granted.",
})

// AchievementsUnlocked counts badge unlocks by id.
var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
}, []string{"id"})

// ─── Curriculum ─────────────────────────────────────────────────────────────

// ModulesCompleted counts module completions by VUCA dimension.
var ModulesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "modules_completed_total",
	Help:      "Total curriculum modules completed by dimension.",
}, []string{"dimension"})

// CurriculaCompleted counts curricula reaching the complete view.
var CurriculaCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "curricula_completed_total",
	Help:      "Total curricula completed.",
})

// SuggestionsServed counts Gegensatz suggestions by outcome (found / none).
var SuggestionsServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "gegensatz_suggestions_total",
	Help:      "Contrast suggestions requested, by outcome.",
}, []string{"outcome"})

// ─── Storage ────────────────────────────────────────────────────────────────

// StoreLatency tracks state store operation duration in seconds.
var StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "lernpfad",
	Name:      "store_latency_seconds",
	Help:      "State store operation duration in seconds.",
	Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
}, []string{"driver", "op"})

// StoreErrors counts failed store operations.
var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "lernpfad",
	Name:      "store_errors_total",
	Help:      "Failed state store operations.",
}, []string{"driver", "op"})

// ObserveStore records the latency and outcome of one store operation.
func ObserveStore(driver, op string, start time.Time, err error) {
	StoreLatency.WithLabelValues(driver, op).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(driver, op).Inc()
	}
}

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "lernpfad",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
