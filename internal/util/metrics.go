package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed order creations",
	}, []string{"reason"})

	OrderLinesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_lines_skipped_total",
		Help: "Total number of order lines skipped because the product could not be resolved",
	})

	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of add-to-cart operations",
	})

	CartLinesSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_lines_swept_total",
		Help: "Total number of cart lines removed by the out-of-stock sweep",
	})

	ProductFilterQueriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "product_filter_queries_total",
		Help: "Total number of attribute filter queries executed",
	})

	ProductFilterLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "product_filter_latency_seconds",
		Help:    "Latency of attribute filter queries",
		Buckets: prometheus.DefBuckets,
	})

	ReviewsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviews_added_total",
		Help: "Total number of product reviews submitted",
	})

	AuthLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of cache hits",
	}, []string{"cache"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of cache misses",
	}, []string{"cache"})

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
