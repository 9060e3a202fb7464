package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/taskmill/internal/api/shared"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
)

// ReminderHandler exposes operational reminder queries.
type ReminderHandler struct {
	service lifecycle.Service
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(service lifecycle.Service) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// ListDue handles GET /reminders/due?as_of=RFC3339. Without as_of it lists
// reminders due right now.
func (h *ReminderHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().UTC()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "as_of must be an RFC 3339 timestamp")
			return
		}
		asOf = parsed
	}

	reminders, err := h.service.ListDueReminders(r.Context(), asOf)
	if err != nil {
		logger.FromContext(r.Context()).Error("failed to list due reminders", "error", err)
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	resp := DueRemindersResponse{
		AsOf:      asOf,
		Reminders: make([]ReminderResponse, 0, len(reminders)),
	}
	for _, rem := range reminders {
		resp.Reminders = append(resp.Reminders, newReminderResponse(rem))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
