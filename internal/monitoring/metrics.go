package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	TenantsProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenants_provisioned_total",
			Help: "Total number of tenant databases provisioned by status",
		},
		[]string{"status"},
	)
	ProvisioningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tenant_provisioning_duration_seconds",
			Help:    "Duration of tenant database provisioning in seconds",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		},
	)
	TicketsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_tickets_created_total",
			Help: "Total number of support tickets created by priority",
		},
		[]string{"priority"},
	)
	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_notification_failures_total",
			Help: "Total number of failed outbound Telegram notifications",
		},
	)
)

func InitMetrics() {
	for _, c := range []prometheus.Collector{
		TenantsProvisioned,
		ProvisioningDuration,
		TicketsCreated,
		NotificationFailures,
	} {
		if err := prometheus.Register(c); err != nil {
			log.Error().Err(err).Msg("Failed to register metric")
		}
	}
}
