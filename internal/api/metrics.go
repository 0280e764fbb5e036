package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoresComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homescout_scores_computed_total",
		Help: "Number of property scores computed.",
	})

	mustHaveVetoes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "homescout_must_have_vetoes_total",
		Help: "Number of properties zeroed out by a failed must-have factor.",
	})

	scoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "homescout_score_distribution",
		Help:    "Distribution of computed property scores.",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	rankDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "homescout_rank_duration_seconds",
		Help:    "Wall time of full catalog ranking runs.",
		Buckets: prometheus.DefBuckets,
	})
)
