package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "property_service"

	LabelRoute  = "route"
	LabelMethod = "method"
	LabelStatus = "status"
	LabelResult = "result"
)

var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template, method and status code",
		Namespace: Namespace,
	},
	[]string{LabelRoute, LabelMethod, LabelStatus},
)

var HTTPDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route template",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelRoute, LabelMethod},
)

var LeasesExpired = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      "leases_expired_total",
		Help:      "Leases moved to EXPIRED by the expiry sweep",
		Namespace: Namespace,
	},
)

var NotificationsDelivered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      "notifications_delivered_total",
		Help:      "External notification deliveries by channel and result",
		Namespace: Namespace,
	},
	[]string{"channel", LabelResult},
)
