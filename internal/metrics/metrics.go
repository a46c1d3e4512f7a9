package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucifer-kj/review-app-sub002/internal/db"
)

var (
	submissionDesc = prometheus.NewDesc(
		"reviewflow_submissions_total",
		"Total review submissions by tenant and branch outcome",
		[]string{"tenant", "outcome"},
		nil,
	)

	// SignatureChecks counts one-tap signature verification results.
	SignatureChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviewflow_signature_checks_total",
			Help: "Total one-tap link signature verifications by result",
		},
		[]string{"result"},
	)
)

// SubmissionCollector is a custom Prometheus collector that reads durable
// submission counters from the database on each scrape, so totals survive
// restarts and are shared across instances.
type SubmissionCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *SubmissionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- submissionDesc
}

// Collect queries the database for all submission outcomes and emits them as counters.
func (c *SubmissionCollector) Collect(ch chan<- prometheus.Metric) {
	outcomes, err := c.db.GetAllSubmissionOutcomes(context.Background())
	if err != nil {
		slog.Error("failed to collect submission metrics", "error", err)
		return
	}
	for _, o := range outcomes {
		ch <- prometheus.MustNewConstMetric(
			submissionDesc,
			prometheus.CounterValue,
			float64(o.Count),
			o.TenantSlug,
			o.Outcome,
		)
	}
}

// Recorder provides async submission outcome recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&SubmissionCollector{db: database})
		prometheus.MustRegister(SignatureChecks)
	})
}

// RecordSubmission asynchronously records a submission branch outcome.
func RecordSubmission(tenantSlug, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementSubmissionOutcome(context.Background(), tenantSlug, outcome); err != nil {
			slog.Error("failed to record submission outcome", "tenant", tenantSlug, "outcome", outcome, "error", err)
		}
	}()
}

// RecordSignatureCheck records a one-tap signature verification result.
func RecordSignatureCheck(result string) {
	SignatureChecks.WithLabelValues(result).Inc()
}
