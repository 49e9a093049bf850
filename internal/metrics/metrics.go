package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FeedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_feed_requests_total",
		Help: "Total feed requests by outcome",
	}, []string{"outcome"})
	FeedDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warbler_feed_duration_seconds",
		Help:    "Feed assembly duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	FeedPageTweets = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "warbler_feed_page_tweets",
		Help:    "Tweets returned per feed page",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})
)

func init() {
	prometheus.MustRegister(FeedRequests, FeedDuration, FeedPageTweets)
}

// ObserveFeed records one feed request.
func ObserveFeed(start time.Time, outcome string, tweets int) {
	FeedRequests.WithLabelValues(outcome).Inc()
	FeedDuration.Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		FeedPageTweets.Observe(float64(tweets))
	}
}

// Handler exposes the registry for the side-port metrics server.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
