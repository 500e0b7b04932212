// Package metrics exposes run-level prometheus collectors. They are
// updated by the trainer and served by the optional status server's
// /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	EpochsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "epochs_total",
			Help:      "Completed training epochs",
		},
	)

	BatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "batches_total",
			Help:      "Processed training batches",
		},
	)

	TrainLoss = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "loss",
			Help:      "Mean training loss of the last completed epoch",
		},
	)

	LearningRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "learning_rate",
			Help:      "Learning rate applied to the current epoch",
		},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "batch_duration_seconds",
			Help:      "Duration of one forward/backward/update step",
			Buckets:   prometheus.DefBuckets,
		},
	)

	TimeShare = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "traind",
			Subsystem: "train",
			Name:      "time_share_percent",
			Help:      "Share of cumulative wall-clock time per bucket",
		},
		[]string{"bucket"},
	)

	EvalLoss = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "traind",
			Subsystem: "eval",
			Name:      "loss",
			Help:      "Mean evaluation loss of the last pass",
		},
		[]string{"split"},
	)

	EvalAccuracy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "traind",
			Subsystem: "eval",
			Name:      "topk_accuracy",
			Help:      "Top-k accuracy of the last evaluation pass",
		},
		[]string{"split", "k"},
	)

	CheckpointsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "traind",
			Subsystem: "checkpoint",
			Name:      "saves_total",
			Help:      "Checkpoints written",
		},
	)

	CheckpointFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "traind",
			Subsystem: "checkpoint",
			Name:      "save_failures_total",
			Help:      "Checkpoint writes that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(
		EpochsTotal,
		BatchesTotal,
		TrainLoss,
		LearningRate,
		BatchDuration,
		TimeShare,
		EvalLoss,
		EvalAccuracy,
		CheckpointsTotal,
		CheckpointFailures,
	)
}
