package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artmart_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	ShippingTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_shipping_transitions_total",
		Help: "Shipping status transitions by target and result",
	}, []string{"to", "result"})

	ArtworksCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artmart_artworks_created_total",
		Help: "Total number of artworks created",
	})

	DashboardCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_dashboard_cache_total",
		Help: "Dashboard stats cache lookups by result",
	}, []string{"result"})

	GuardRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_guard_rejections_total",
		Help: "Requests rejected by access guards",
	}, []string{"guard", "reason"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_rate_limited_total",
		Help: "Requests rejected by rate limit rules",
	}, []string{"rule"})

	PaystackRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artmart_paystack_requests_total",
		Help: "Paystack API calls by operation and result",
	}, []string{"operation", "result"})

	PaystackLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artmart_paystack_latency_seconds",
		Help:    "Latency of Paystack API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// Result 将错误归为 ok/error 标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// GinMiddleware 采集 HTTP 请求指标，未匹配路由统一记为 unmatched
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// Handler 返回 Prometheus 抓取处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
