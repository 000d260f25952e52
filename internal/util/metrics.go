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

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of failed orders",
	}, []string{"reason"})

	OrdersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of cancelled orders",
	})

	SettlementDriftTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_drift_total",
		Help: "Total number of orders rejected because the client-expected total diverged",
	})

	OrderSettlementLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_settlement_latency_seconds",
		Help:    "Latency of order price settlement and persistence",
		Buckets: prometheus.DefBuckets,
	})

	StockReductionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_reductions_total",
		Help: "Total number of successful stock reduction batches",
	})

	StockReductionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reductions_failed_total",
		Help: "Total number of failed stock reduction batches",
	}, []string{"reason"})

	StockRestorationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_restorations_total",
		Help: "Total number of stock restoration batches",
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "Total number of products created",
	})

	VariantsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variants_added_total",
		Help: "Total number of variants added to existing products",
	})

	CatalogRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rejections_total",
		Help: "Total number of catalog commands rejected by validation",
	}, []string{"kind"})

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
