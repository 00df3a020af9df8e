package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "padel_bookings_created_total", Help: "Total bookings created"},
	)
	BookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "padel_bookings_cancelled_total", Help: "Total bookings cancelled"},
	)
	BookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "padel_booking_conflicts_total", Help: "Booking requests rejected because the slot was taken"},
	)
	NotificationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "padel_notifications_created_total", Help: "Notifications created by type"},
		[]string{"type"},
	)
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "padel_messages_sent_total", Help: "Direct messages persisted"},
	)
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "padel_side_effect_failures_total", Help: "Best-effort side effects that failed"},
		[]string{"kind"},
	)
	WebsocketSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "padel_websocket_sessions", Help: "Open websocket sessions on this instance"},
	)
)

var once sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			BookingsCreated,
			BookingsCancelled,
			BookingConflicts,
			NotificationsCreated,
			MessagesSent,
			SideEffectFailures,
			WebsocketSessions,
		)
	})
}
