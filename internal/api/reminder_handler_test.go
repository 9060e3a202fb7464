package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskmill/internal/api"
	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/service/lifecycle"
)

func TestListDueReminders(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)
	remID := uuid.New()
	var gotAsOf time.Time
	svc := &mockService{
		ListDueRemindersFn: func(_ context.Context, asOf time.Time) ([]*domain.Reminder, error) {
			gotAsOf = asOf
			return []*domain.Reminder{{
				ID:          remID,
				TaskID:      "421031012024",
				Recipient:   "priya@example.com",
				Kind:        domain.ReminderKindReminder,
				Summary:     "Monthly GST filing for Acme Corp",
				ScheduledAt: asOf,
				Outcome:     domain.ReminderOutcomePending,
			}}, nil
		},
	}
	handler := newTestServer(t, svc)
	token := signToken(t, 1, lifecycle.RoleAdmin, time.Hour)

	rec := doRequest(t, handler, http.MethodGet,
		"/api/reminders/due?as_of="+asOf.Format(time.RFC3339), token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotAsOf.Equal(asOf))

	var resp api.DueRemindersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Reminders, 1)
	assert.Equal(t, remID.String(), resp.Reminders[0].ID)
	assert.Equal(t, "reminder", resp.Reminders[0].Kind)
	assert.Equal(t, "pending", resp.Reminders[0].Outcome)
}

func TestListDueReminders_DefaultsToNow(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC()
	var gotAsOf time.Time
	svc := &mockService{
		ListDueRemindersFn: func(_ context.Context, asOf time.Time) ([]*domain.Reminder, error) {
			gotAsOf = asOf
			return nil, nil
		},
	}
	handler := newTestServer(t, svc)
	token := signToken(t, 1, lifecycle.RoleAdmin, time.Hour)

	rec := doRequest(t, handler, http.MethodGet, "/api/reminders/due", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotAsOf.Before(before))

	var resp api.DueRemindersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Reminders)
}

func TestListDueReminders_InvalidAsOf(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, &mockService{})
	token := signToken(t, 1, lifecycle.RoleAdmin, time.Hour)

	rec := doRequest(t, handler, http.MethodGet, "/api/reminders/due?as_of=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
