package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/openai-mcp/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	httpReqCnt   *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
	mcpReqCnt    *prometheus.CounterVec
	mcpReqDur    *prometheus.HistogramVec
	mcpReqInfl   *prometheus.GaugeVec
	toolExecCnt  *prometheus.CounterVec
	toolExecDur  *prometheus.HistogramVec
	upstreamCnt  *prometheus.CounterVec
	authRejected prometheus.Counter
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		// tool calls can legitimately run for minutes
		buckets = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 840}
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:     r,
		httpReqCnt:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"}),
		httpDur:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"}),
		mcpReqCnt:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "mcp_requests_total"}, []string{"method", "outcome"}),
		mcpReqDur:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "mcp_request_duration_seconds", Buckets: buckets}, []string{"method"}),
		mcpReqInfl:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "mcp_requests_inflight"}, []string{"method"}),
		toolExecCnt:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tool_execution_total"}, []string{"tool_name", "status"}),
		toolExecDur:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "tool_execution_duration_seconds", Buckets: buckets}, []string{"tool_name", "status"}),
		upstreamCnt:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "upstream_calls_total"}, []string{"call_shape", "model", "status"}),
		authRejected: prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "auth_rejected_total"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.mcpReqCnt, m.mcpReqDur, m.mcpReqInfl,
		m.toolExecCnt, m.toolExecDur, m.upstreamCnt, m.authRejected)
	return m
}

// McpReqStart marks an MCP method as in flight
func (m *Metrics) McpReqStart(method string) {
	m.mcpReqInfl.WithLabelValues(method).Inc()
}

// McpReqDone records a finished MCP method; outcome is "result", "error" or "ack"
func (m *Metrics) McpReqDone(method string, since time.Time, outcome string) {
	m.mcpReqCnt.WithLabelValues(method, outcome).Inc()
	m.mcpReqDur.WithLabelValues(method).Observe(time.Since(since).Seconds())
	m.mcpReqInfl.WithLabelValues(method).Dec()
}

func (m *Metrics) ToolExecDone(toolName string, since time.Time, status string) {
	m.toolExecCnt.WithLabelValues(toolName, status).Inc()
	m.toolExecDur.WithLabelValues(toolName, status).Observe(time.Since(since).Seconds())
}

func (m *Metrics) UpstreamCall(callShape, model, status string) {
	m.upstreamCnt.WithLabelValues(callShape, model, status).Inc()
}

func (m *Metrics) AuthRejected() {
	m.authRejected.Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
