package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus 的 registry 不允许重复注册同名指标，否则直接 panic。
	once sync.Once

	// HTTPRequestsTotal：累计请求数。route 用路由模板（/api/v1/variants/{number}），
	// 不能用真实 path，否则每个数字都是一个新 label。
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP请求的总数",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds：请求耗时分布，用来算 P95/P99。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Conversions：编解码次数。
	// labels：
	// - op：encode / decode / variants
	// - result：ok / invalid_number / invalid_seed / too_short / unknown_symbol / overflow
	Conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangulnum_conversions_total",
			Help: "Number of codec operations by outcome.",
		},
		[]string{"op", "result"},
	)

	// CacheOperations：变体表缓存命中情况，level 为 l1/l2。
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hangulnum_cache_operations_total",
			Help: "Variants cache lookups by level and result.",
		},
		[]string{"level", "result"},
	)
)

// Init 注册指标，只允许注册一次。
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			Conversions,
			CacheOperations,
		)
	})
}
