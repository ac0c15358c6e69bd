package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoomsCreated counts room creations by room type.
	RoomsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_rooms_created_total",
		Help: "Rooms created, labeled by room type.",
	}, []string{"type"})

	// MessagesAppended counts stored messages.
	MessagesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_appended_total",
		Help: "Messages appended to rooms.",
	})

	// ReadMarks counts watermark advances. No-op marks are not counted.
	ReadMarks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_read_marks_total",
		Help: "Read watermark advances.",
	})
)
