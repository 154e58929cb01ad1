package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"annuaire/internal/db"
)

var (
	dentistsDesc = prometheus.NewDesc(
		"annuaire_dentists_total",
		"Published listing count by verification state",
		[]string{"state"},
		nil,
	)
	citiesDesc = prometheus.NewDesc(
		"annuaire_cities_total",
		"Number of distinct cities with at least one listing",
		nil,
		nil,
	)
	submissionsDesc = prometheus.NewDesc(
		"annuaire_submissions_total",
		"Submission count by moderation status",
		[]string{"status"},
		nil,
	)
	leadsDesc = prometheus.NewDesc(
		"annuaire_leads_total",
		"Patient lead count by status",
		[]string{"status"},
		nil,
	)
)

// DirectoryCollector is a custom Prometheus collector that reads directory
// aggregates from the database on each scrape.
type DirectoryCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *DirectoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- dentistsDesc
	ch <- citiesDesc
	ch <- submissionsDesc
	ch <- leadsDesc
}

// Collect queries the database for directory aggregates and emits them as gauges.
func (c *DirectoryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx := context.Background()

	stats, err := c.db.GetStats(ctx)
	if err != nil {
		slog.Error("failed to collect directory stats", "error", err)
	} else {
		ch <- prometheus.MustNewConstMetric(dentistsDesc, prometheus.GaugeValue, float64(stats.Verified), "verified")
		ch <- prometheus.MustNewConstMetric(dentistsDesc, prometheus.GaugeValue, float64(stats.Total-stats.Verified), "unverified")
		ch <- prometheus.MustNewConstMetric(citiesDesc, prometheus.GaugeValue, float64(stats.Cities))
	}

	submissions, err := c.db.GetSubmissionCountsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect submission metrics", "error", err)
	} else {
		for status, count := range submissions {
			ch <- prometheus.MustNewConstMetric(submissionsDesc, prometheus.GaugeValue, float64(count), status)
		}
	}

	leads, err := c.db.GetLeadCountsByStatus(ctx)
	if err != nil {
		slog.Error("failed to collect lead metrics", "error", err)
	} else {
		for status, count := range leads {
			ch <- prometheus.MustNewConstMetric(leadsDesc, prometheus.GaugeValue, float64(count), status)
		}
	}
}

// Recorder provides async listing view recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the custom collector and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&DirectoryCollector{db: database})
	})
}

// RecordListingView asynchronously bumps a listing's view counter.
func RecordListingView(dentistID uuid.UUID) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementViews(context.Background(), dentistID); err != nil {
			slog.Error("failed to record listing view", "dentist_id", dentistID, "error", err)
		}
	}()
}
