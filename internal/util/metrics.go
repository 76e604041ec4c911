package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderStatusUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_order_status_updates_total",
		Help: "Total number of order shipping status transitions",
	}, []string{"status"})

	ProductsSavedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_products_saved_total",
		Help: "Total number of products created or updated",
	}, []string{"kind"})

	ProductsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmer_products_deleted_total",
		Help: "Total number of products deleted",
	})

	FarmerDetailsUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farmer_details_updates_total",
		Help: "Total number of farmer record partial updates",
	})

	ServiceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_service_errors_total",
		Help: "Total number of failed farmer data service operations",
	}, []string{"operation"})

	StatsQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "farmer_stats_query_latency_seconds",
		Help:    "Latency of the farmer stats aggregate transaction",
		Buckets: prometheus.DefBuckets,
	})

	ProfileSavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_profile_saves_total",
		Help: "Profile field saves by field and outcome",
	}, []string{"field", "outcome"})

	ViewInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_view_invalidations_total",
		Help: "Presentation path invalidations",
	}, []string{"path"})

	OrderEventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farmer_order_events_consumed_total",
		Help: "Order subsystem events consumed by the portal worker",
	}, []string{"event_type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
