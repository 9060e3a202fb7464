package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskmill/internal/api/middleware"
	"github.com/phrazzld/taskmill/internal/api/shared"
	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/platform/logger"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
)

// TaskHandler exposes the lifecycle operations over HTTP.
type TaskHandler struct {
	service  lifecycle.Service
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service lifecycle.Service) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: validator.New(),
	}
}

// AssignTask handles POST /tasks.
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AssignTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, flags, err := h.service.AssignTask(r.Context(), actor, lifecycle.AssignTaskParams{
		ActivityID: req.ActivityID,
		CustomerID: req.CustomerID,
		OperatorID: req.OperatorID,
		Iteration:  req.Iteration,
		Remarks:    req.Remarks,
		Link:       req.Link,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, TaskResponse{Task: task, Flags: flags})
}

// UpdateTask handles PATCH /tasks/{id}: reassignment when operator_id is
// present, a status change when status is present.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	taskID := chi.URLParam(r, "id")

	var req UpdateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if (req.OperatorID == nil) == (req.Status == nil) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Exactly one of operator_id or status must be provided")
		return
	}

	var (
		task  *domain.Task
		flags lifecycle.Flags
		err   error
	)
	if req.OperatorID != nil {
		task, flags, err = h.service.ReassignTask(r.Context(), actor, taskID, *req.OperatorID)
	} else {
		task, flags, err = h.service.SetTaskStatus(r.Context(), actor, taskID, domain.Status(*req.Status))
	}
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task, Flags: flags})
}

// SubmitReviewDecision handles PATCH /tasks/{id}/review-status.
func (h *TaskHandler) SubmitReviewDecision(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	taskID := chi.URLParam(r, "id")

	var req ReviewDecisionRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	task, flags, err := h.service.SubmitReviewDecision(
		r.Context(), actor, taskID, domain.ReviewerStatus(req.Decision),
	)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskResponse{Task: task, Flags: flags})
}

// DeactivateOperator handles POST /operators/{id}/deactivate.
func (h *TaskHandler) DeactivateOperator(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	operatorID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || operatorID <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid operator ID")
		return
	}

	parked, _, err := h.service.DeactivateOperatorTasks(r.Context(), actor, operatorID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ParkedTasksResponse{
		Parked: parked,
		Count:  len(parked),
	})
}

// decodeAndValidate parses the JSON body into dst and runs validation,
// writing the error response itself on failure.
func (h *TaskHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// respondError logs the full error and sends the sanitized version.
func (h *TaskHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("task operation failed",
			"path", r.URL.Path,
			"error", err)
	}
	shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))
}
