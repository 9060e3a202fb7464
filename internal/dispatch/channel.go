package dispatch

import (
	"context"

	"github.com/phrazzld/taskmill/internal/domain"
)

// Message is a rendered notification ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// DeliveryChannel sends rendered messages to recipients. Implementations
// must respect the context deadline; the dispatcher classifies a deadline
// overrun differently from a refusal.
type DeliveryChannel interface {
	Deliver(ctx context.Context, msg Message) error
}

// CalendarChannel places task events on the assignee's calendar. Calendar
// placement is a courtesy side-channel: failures are reported but must never
// affect notification delivery.
type CalendarChannel interface {
	// AddEvent creates a calendar event for the task's due date with the
	// assignee as attendee.
	AddEvent(ctx context.Context, task *domain.Task) error
}
