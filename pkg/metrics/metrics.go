package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// SOSCreated 已创建的求助请求数
	SOSCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sos_created_total",
		Help: "SOS requests created.",
	})

	// BroadcastEvents 已分发的广播事件数
	BroadcastEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_events_total",
		Help: "Broadcast events dispatched, by emergency tag.",
	}, []string{"emergency"})

	// SSEClients 当前连接的推送流客户端数
	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sse_clients",
		Help: "Currently connected push stream clients.",
	})
)
