package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/workflow"
)

func newTask(id string, seq int, status string) *entity.Task {
	return &entity.Task{
		ID:             id,
		ProjectID:      "p1",
		LineIndex:      0,
		Sequence:       seq,
		Status:         status,
		RequiredPhotos: []string{entity.PhotoBefore, entity.PhotoAfter},
		Photos:         map[string]string{},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{entity.TaskStatusLocked, entity.TaskStatusPending, true},
		{entity.TaskStatusPending, entity.TaskStatusInProgress, true},
		{entity.TaskStatusInProgress, entity.TaskStatusSubmitted, true},
		{entity.TaskStatusInProgress, entity.TaskStatusCompleted, true},
		{entity.TaskStatusSubmitted, entity.TaskStatusVerified, true},
		{entity.TaskStatusCompleted, entity.TaskStatusInProgress, true},
		{entity.TaskStatusPending, entity.TaskStatusVerified, false},
		{entity.TaskStatusInProgress, entity.TaskStatusVerified, false},
		{entity.TaskStatusVerified, entity.TaskStatusInProgress, false},
		{"unknown", entity.TaskStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, workflow.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_HappyPath(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusPending)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionStart, At: now}))
	assert.Equal(t, entity.TaskStatusInProgress, task.Status)

	err := workflow.Apply(task, nil, workflow.Transition{
		Action: workflow.ActionSubmit,
		Photos: map[string]string{entity.PhotoBefore: "/uploads/a.jpg", entity.PhotoAfter: "/uploads/b.jpg"},
		At:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusSubmitted, task.Status)
	require.NotNil(t, task.SubmittedAt)

	require.NoError(t, workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionVerify, Actor: "admin-1", At: now}))
	assert.Equal(t, entity.TaskStatusVerified, task.Status)
	assert.Equal(t, "admin-1", task.VerifiedBy)
	require.NotNil(t, task.VerifiedAt)
}

func TestApply_SubmitRequiresPhotos(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusInProgress)
	task.Photos[entity.PhotoBefore] = "/uploads/a.jpg"

	err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionComplete})
	assert.ErrorIs(t, err, domain.ErrMissingPhotos)
	assert.Equal(t, entity.TaskStatusInProgress, task.Status, "un error no debe modificar la tarea")
	assert.Len(t, task.Photos, 1)
}

func TestApply_RejectRequiresReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		task := newTask("t1", 1, entity.TaskStatusCompleted)
		err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionReject, Reason: reason})
		assert.ErrorIs(t, err, domain.ErrRejectionReasonRequired)
		assert.Equal(t, entity.TaskStatusCompleted, task.Status)
	}
}

func TestApply_RejectReturnsToInProgress(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusSubmitted)
	err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionReject, Reason: "  foto borrosa "})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusInProgress, task.Status)
	assert.Equal(t, "foto borrosa", task.RejectionReason)
	assert.Nil(t, task.SubmittedAt)
}

func TestApply_RejectOnlyFromReview(t *testing.T) {
	for _, status := range []string{entity.TaskStatusLocked, entity.TaskStatusPending, entity.TaskStatusInProgress, entity.TaskStatusVerified} {
		task := newTask("t1", 1, status)
		err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionReject, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, status)
	}
}

func TestApply_StartFromReviewIsInvalid(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusSubmitted)
	err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionStart})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApply_VerifyTwiceIsInvalid(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusVerified)
	err := workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionVerify})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApply_ResubmitClearsRejection(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusInProgress)
	task.RejectionReason = "falta foto"
	task.Photos = map[string]string{entity.PhotoBefore: "a", entity.PhotoAfter: "b"}
	require.NoError(t, workflow.Apply(task, nil, workflow.Transition{Action: workflow.ActionComplete}))
	assert.Empty(t, task.RejectionReason)
	assert.Equal(t, entity.TaskStatusCompleted, task.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compuerta secuencial
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SequentialGate(t *testing.T) {
	blocking := []string{entity.TaskStatusPending, entity.TaskStatusInProgress, entity.TaskStatusSubmitted}
	for _, prevStatus := range blocking {
		prev := newTask("t1", 1, prevStatus)
		task := newTask("t2", 2, entity.TaskStatusLocked)

		err := workflow.Apply(task, prev, workflow.Transition{Action: workflow.ActionStart})
		assert.ErrorIs(t, err, domain.ErrStepLocked, prevStatus)
		err = workflow.Apply(task, prev, workflow.Transition{Action: workflow.ActionUnlock})
		assert.ErrorIs(t, err, domain.ErrStepLocked, prevStatus)
		assert.Equal(t, entity.TaskStatusLocked, task.Status)
	}

	for _, prevStatus := range []string{entity.TaskStatusCompleted, entity.TaskStatusVerified} {
		prev := newTask("t1", 1, prevStatus)
		task := newTask("t2", 2, entity.TaskStatusLocked)
		require.NoError(t, workflow.Apply(task, prev, workflow.Transition{Action: workflow.ActionStart}), prevStatus)
		assert.Equal(t, entity.TaskStatusInProgress, task.Status)
	}
}

func TestAttachPhotos(t *testing.T) {
	task := newTask("t1", 1, entity.TaskStatusPending)
	assert.ErrorIs(t, workflow.AttachPhotos(task, map[string]string{"before": "a"}, time.Now()), domain.ErrInvalidTransition)

	task.Status = entity.TaskStatusInProgress
	require.NoError(t, workflow.AttachPhotos(task, map[string]string{"before": "a"}, time.Now()))
	require.NoError(t, workflow.AttachPhotos(task, map[string]string{"after": "b"}, time.Now()))
	assert.Equal(t, map[string]string{"before": "a", "after": "b"}, task.Photos)

	assert.ErrorIs(t, workflow.AttachPhotos(task, map[string]string{"after": ""}, time.Now()), domain.ErrInvalidInput)
}

func TestApply_GateAppliesToEveryFieldAction(t *testing.T) {
	prev := newTask("t1", 1, entity.TaskStatusInProgress)
	photos := map[string]string{entity.PhotoBefore: "a", entity.PhotoAfter: "b"}

	pending := newTask("t2", 2, entity.TaskStatusPending)
	assert.ErrorIs(t, workflow.Apply(pending, prev, workflow.Transition{Action: workflow.ActionStart}), domain.ErrStepLocked)
	assert.Equal(t, entity.TaskStatusPending, pending.Status)

	working := newTask("t2", 2, entity.TaskStatusInProgress)
	for _, a := range []workflow.Action{workflow.ActionSubmit, workflow.ActionComplete} {
		err := workflow.Apply(working, prev, workflow.Transition{Action: a, Photos: photos})
		assert.ErrorIs(t, err, domain.ErrStepLocked, a)
		assert.Equal(t, entity.TaskStatusInProgress, working.Status)
	}

	prev.Status = entity.TaskStatusCompleted
	require.NoError(t, workflow.Apply(working, prev, workflow.Transition{Action: workflow.ActionComplete, Photos: photos}))
	assert.Equal(t, entity.TaskStatusCompleted, working.Status)
}

func TestApply_ReviewIgnoresGate(t *testing.T) {
	prev := newTask("t1", 1, entity.TaskStatusInProgress)
	task := newTask("t2", 2, entity.TaskStatusCompleted)
	require.NoError(t, workflow.Apply(task, prev, workflow.Transition{Action: workflow.ActionVerify}))
	assert.Equal(t, entity.TaskStatusVerified, task.Status)
}

func TestRelock(t *testing.T) {
	task := newTask("t2", 2, entity.TaskStatusPending)
	require.NoError(t, workflow.Relock(task, time.Now()))
	assert.Equal(t, entity.TaskStatusLocked, task.Status)

	task.Status = entity.TaskStatusInProgress
	assert.ErrorIs(t, workflow.Relock(task, time.Now()), domain.ErrInvalidTransition)
}
