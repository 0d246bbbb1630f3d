package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remindersSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bnapp",
			Name:      "reminders_sent_total",
			Help:      "Reminders delivered by a dispatcher.",
		},
	)

	remindersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bnapp",
			Name:      "reminders_failed_total",
			Help:      "Reminders whose dispatch returned an error.",
		},
	)

	ticksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bnapp",
			Name:      "reminder_ticks_total",
			Help:      "Reminder scans by result.",
		},
		[]string{"result"},
	)
)
