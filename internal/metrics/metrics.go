package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_requests_total",
		Help: "Total number of /api/rep requests",
	})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "repapi_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000},
	})
	MissingResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_missing_results_total",
		Help: "Total resolved districts with no officeholder in the index",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_redis_misses_total",
		Help: "Total redis cache misses",
	})
	UniqueZipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_unique_zips_total",
		Help: "Total first-seen ZIP codes within the dedup window",
	})
	IndexEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "repapi_index_entries",
		Help: "Officeholder index entries after the last build",
	})
	IndexBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_index_builds_total",
		Help: "Total officeholder index builds (startup and reloads)",
	})
	IndexSkippedTermsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repapi_index_skipped_terms_total",
		Help: "Total malformed roster terms skipped during index builds",
	})
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repapi_geocode_requests_total",
		Help: "Total upstream geocoder requests",
	}, []string{"service"})
	GeocodeFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repapi_geocode_fail_total",
		Help: "Total upstream geocoder failures",
	}, []string{"service"})
	GeocodeDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repapi_geocode_duration_ms",
		Help:    "Upstream geocoder call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"service"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(MissingResultsTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(UniqueZipsTotal)
	prometheus.MustRegister(IndexEntries)
	prometheus.MustRegister(IndexBuildsTotal)
	prometheus.MustRegister(IndexSkippedTermsTotal)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
}

// Handler exposes registered collectors for scraping; mounted at /metrics
// by the main entrypoint.
func Handler() http.Handler { return promhttp.Handler() }
