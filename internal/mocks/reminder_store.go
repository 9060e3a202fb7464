package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskmill/internal/domain"
	"github.com/phrazzld/taskmill/internal/store"
)

// MockReminderStore implements store.ReminderStore for testing
type MockReminderStore struct {
	// Function fields for customizable behavior
	SaveFn          func(ctx context.Context, drafts []domain.ReminderDraft) ([]*domain.Reminder, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	ClaimDueFn      func(ctx context.Context, asOf time.Time, limit int) ([]*domain.Reminder, error)
	ClaimByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)
	ListDueFn       func(ctx context.Context, asOf time.Time) ([]*domain.Reminder, error)
	MarkOutcomeFn   func(ctx context.Context, id uuid.UUID, outcome domain.ReminderOutcome, errorDetail string) error
	CancelPendingFn func(ctx context.Context, taskID string) (int64, error)

	// Data for default implementation
	mu        sync.Mutex
	Reminders map[uuid.UUID]*domain.Reminder
	SaveError error
}

// NewMockReminderStore creates a new mock store with initialized defaults
func NewMockReminderStore() *MockReminderStore {
	return &MockReminderStore{
		Reminders: make(map[uuid.UUID]*domain.Reminder),
	}
}

// Save implements the ReminderStore interface
func (m *MockReminderStore) Save(
	ctx context.Context,
	drafts []domain.ReminderDraft,
) ([]*domain.Reminder, error) {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, drafts)
	}

	if m.SaveError != nil {
		return nil, m.SaveError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reminders := make([]*domain.Reminder, 0, len(drafts))
	for _, draft := range drafts {
		rem, err := domain.NewReminder(draft)
		if err != nil {
			return nil, err
		}
		m.Reminders[rem.ID] = rem
		clone := *rem
		reminders = append(reminders, &clone)
	}
	return reminders, nil
}

// GetByID implements the ReminderStore interface
func (m *MockReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rem, exists := m.Reminders[id]
	if !exists {
		return nil, store.ErrReminderNotFound
	}
	clone := *rem
	return &clone, nil
}

// ClaimDue implements the ReminderStore interface
func (m *MockReminderStore) ClaimDue(
	ctx context.Context,
	asOf time.Time,
	limit int,
) ([]*domain.Reminder, error) {
	if m.ClaimDueFn != nil {
		return m.ClaimDueFn(ctx, asOf, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var claimed []*domain.Reminder
	for _, rem := range m.Reminders {
		if len(claimed) >= limit {
			break
		}
		if rem.Outcome == domain.ReminderOutcomePending && !rem.ScheduledAt.After(asOf) {
			rem.Outcome = domain.ReminderOutcomeProcessing
			clone := *rem
			claimed = append(claimed, &clone)
		}
	}
	return claimed, nil
}

// ClaimByID implements the ReminderStore interface
func (m *MockReminderStore) ClaimByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	if m.ClaimByIDFn != nil {
		return m.ClaimByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rem, exists := m.Reminders[id]
	if !exists {
		return nil, store.ErrReminderNotFound
	}
	if rem.Outcome != domain.ReminderOutcomePending {
		return nil, store.ErrReminderClaimed
	}
	rem.Outcome = domain.ReminderOutcomeProcessing
	clone := *rem
	return &clone, nil
}

// ListDue implements the ReminderStore interface
func (m *MockReminderStore) ListDue(
	ctx context.Context,
	asOf time.Time,
) ([]*domain.Reminder, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, asOf)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*domain.Reminder
	for _, rem := range m.Reminders {
		if rem.Outcome == domain.ReminderOutcomePending && !rem.ScheduledAt.After(asOf) {
			clone := *rem
			due = append(due, &clone)
		}
	}
	return due, nil
}

// MarkOutcome implements the ReminderStore interface
func (m *MockReminderStore) MarkOutcome(
	ctx context.Context,
	id uuid.UUID,
	outcome domain.ReminderOutcome,
	errorDetail string,
) error {
	if m.MarkOutcomeFn != nil {
		return m.MarkOutcomeFn(ctx, id, outcome, errorDetail)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rem, exists := m.Reminders[id]
	if !exists {
		return store.ErrReminderNotFound
	}
	if rem.Outcome.IsTerminal() {
		return nil
	}
	rem.Outcome = outcome
	rem.ErrorDetail = errorDetail
	return nil
}

// CancelPending implements the ReminderStore interface
func (m *MockReminderStore) CancelPending(ctx context.Context, taskID string) (int64, error) {
	if m.CancelPendingFn != nil {
		return m.CancelPendingFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var cancelled int64
	for _, rem := range m.Reminders {
		if rem.TaskID != taskID || rem.Outcome != domain.ReminderOutcomePending {
			continue
		}
		if rem.Kind != domain.ReminderKindReminder && rem.Kind != domain.ReminderKindDueToday {
			continue
		}
		rem.Outcome = domain.ReminderOutcomeCancelled
		cancelled++
	}
	return cancelled, nil
}

// WithTx implements the ReminderStore interface; the mock ignores transactions.
func (m *MockReminderStore) WithTx(_ *sql.Tx) store.ReminderStore {
	return m
}
