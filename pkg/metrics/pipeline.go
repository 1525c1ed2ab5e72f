package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StreamSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mebel",
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Number of currently connected stream subscribers",
		},
	)

	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mebel",
			Subsystem: "stream",
			Name:      "events_total",
			Help:      "Total number of events broadcast to the stream",
		},
		[]string{"type"},
	)

	StreamDroppedSubscribersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mebel",
			Subsystem: "stream",
			Name:      "dropped_subscribers_total",
			Help:      "Subscribers deregistered because of write failures or full buffers",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mebel",
			Subsystem: "notification",
			Name:      "sent_total",
			Help:      "Telegram notifications by outcome",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	Registry.MustRegister(
		StreamSubscribers,
		StreamEventsTotal,
		StreamDroppedSubscribersTotal,
		NotificationsTotal,
	)
}
