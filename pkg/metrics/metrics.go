package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgram_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgram_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// Engagements 互动计数：like/unlike/comment/save/unsave/follow/unfollow
	Engagements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgram_engagements_total",
		Help: "Successful engagement actions by kind.",
	}, []string{"action"})

	// RelationRepairs 一致性巡检修复的行数
	RelationRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgram_relation_repairs_total",
		Help: "Follower/following rows repaired by the reconciler.",
	}, []string{"kind"})
)

// Middleware 记录请求数与耗时；未匹配路由统一记为 unmatched
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
