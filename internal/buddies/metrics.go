// internal/buddies/metrics.go

package buddies

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddy_requests_sent_total",
		Help: "Total number of buddy requests sent",
	})

	requestsRespondedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buddy_requests_responded_total",
		Help: "Total number of buddy request responses by outcome",
	}, []string{"outcome"})

	matchScoreHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buddy_match_score",
		Help:    "Match score of accepted buddy relationships",
		Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	recommendationsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buddy_recommendations_returned",
		Help:    "Number of candidates returned per recommendation call",
		Buckets: []float64{0, 1, 5, 10, 25, 50},
	})

	buddyWorkoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddy_workouts_recorded_total",
		Help: "Total number of workouts recorded between buddies",
	})
)

// RecordRequestSent increments the sent-request counter
func RecordRequestSent() {
	requestsSentTotal.Inc()
}

// RecordRequestResponded tracks accept/reject outcomes
func RecordRequestResponded(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	requestsRespondedTotal.WithLabelValues(outcome).Inc()
}

// RecordMatchScore observes the score of a newly created relationship
func RecordMatchScore(score int) {
	matchScoreHistogram.Observe(float64(score))
}

// RecordRecommendation observes how many candidates a call returned
func RecordRecommendation(count int) {
	recommendationsReturned.Observe(float64(count))
}

// RecordBuddyWorkout increments the shared-workout counter
func RecordBuddyWorkout() {
	buddyWorkoutsTotal.Inc()
}
