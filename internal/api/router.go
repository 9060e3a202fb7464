package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskmill/internal/api/middleware"
)

// NewRouter wires the HTTP routes and middleware. All lifecycle endpoints
// require a verified bearer token; only the health check is public.
func NewRouter(
	taskHandler *TaskHandler,
	reminderHandler *ReminderHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Task lifecycle endpoints
			r.Post("/tasks", taskHandler.AssignTask)
			r.Patch("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/review-status", taskHandler.SubmitReviewDecision)

			// Operator endpoints
			r.Post("/operators/{id}/deactivate", taskHandler.DeactivateOperator)

			// Reminder endpoints
			r.Get("/reminders/due", reminderHandler.ListDue)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
