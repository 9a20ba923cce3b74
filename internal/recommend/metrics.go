package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_rankings_total",
			Help: "Total number of ranking runs",
		},
		[]string{"kind"},
	)

	rankedCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_pool_size",
			Help:    "Candidate pool sizes per ranking run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	similarityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_similarity_scores",
			Help:    "Distribution of session similarity scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	rankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommend_ranking_duration_seconds",
			Help: "Time spent producing a ranking, including data loading",
		},
		[]string{"kind"},
	)
)

func recordRanking(kind string, poolSize int, start time.Time) {
	rankingsTotal.WithLabelValues(kind).Inc()
	rankedCandidates.Observe(float64(poolSize))
	rankingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func observeSimilarityScore(score float64) {
	similarityScores.Observe(score)
}
