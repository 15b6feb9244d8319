package matching

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interestActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mommatch_interest_actions_total",
			Help: "Total number of recorded like/reject actions",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mommatch_matches_total",
			Help: "Total number of mutual matches created",
		},
	)

	undoActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mommatch_undo_actions_total",
			Help: "Retract and reinsert calls by outcome",
		},
		[]string{"kind", "result"},
	)

	engineErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mommatch_match_engine_errors_total",
			Help: "Match engine transactions that rolled back",
		},
	)

	interestEdges = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mommatch_interest_edges",
			Help: "Current number of interest edges by status",
		},
		[]string{"status"},
	)

	engineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mommatch_match_engine_duration_seconds",
			Help: "Time spent in match engine transactions",
		},
		[]string{"operation"},
	)
)

func recordUndo(kind string, found bool) {
	result := "noop"
	if found {
		result = "deleted"
	}
	undoActionsTotal.WithLabelValues(kind, result).Inc()
}

func observeDuration(operation string, started time.Time) {
	engineDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// StatsCollector refreshes the edge gauges from the store
type StatsCollector struct {
	repo Repository
}

func NewStatsCollector(repo Repository) *StatsCollector {
	return &StatsCollector{repo: repo}
}

func (c *StatsCollector) Collect(ctx context.Context) error {
	counts, err := c.repo.CountByStatus(ctx)
	if err != nil {
		return err
	}
	for status, total := range counts {
		interestEdges.WithLabelValues(string(status)).Set(float64(total))
	}
	return nil
}

// Scheduler runs periodic match-engine jobs
type Scheduler struct {
	collector *StatsCollector
	interval  time.Duration
}

func NewScheduler(collector *StatsCollector, interval time.Duration) *Scheduler {
	return &Scheduler{collector: collector, interval: interval}
}

// Start returns immediately; jobs stop when ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	go s.runEvery(ctx, s.interval, s.collector.Collect)
}

func (s *Scheduler) runEvery(ctx context.Context, interval time.Duration, task func(context.Context) error) {
	if err := task(ctx); err != nil {
		log.Printf("Scheduled task failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := task(ctx); err != nil {
				log.Printf("Scheduled task failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
