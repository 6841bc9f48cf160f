package workflow

import (
	"strings"
	"time"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// Action acción de campo o de verificación sobre una tarea.
type Action string

const (
	ActionUnlock   Action = "unlock"
	ActionStart    Action = "start"
	ActionSubmit   Action = "submit"
	ActionComplete Action = "complete"
	ActionVerify   Action = "verify"
	ActionReject   Action = "reject"
)

// IsValidAction indica si la acción es conocida.
func IsValidAction(a Action) bool {
	switch a {
	case ActionUnlock, ActionStart, ActionSubmit, ActionComplete, ActionVerify, ActionReject:
		return true
	}
	return false
}

// validTransitions define las transiciones permitidas de la máquina de estados de tareas.
var validTransitions = map[string][]string{
	entity.TaskStatusLocked:     {entity.TaskStatusPending, entity.TaskStatusInProgress},
	entity.TaskStatusPending:    {entity.TaskStatusInProgress},
	entity.TaskStatusInProgress: {entity.TaskStatusSubmitted, entity.TaskStatusCompleted},
	entity.TaskStatusSubmitted:  {entity.TaskStatusVerified, entity.TaskStatusInProgress},
	entity.TaskStatusCompleted:  {entity.TaskStatusVerified, entity.TaskStatusInProgress},
	entity.TaskStatusVerified:   {},
}

// CanTransition devuelve true si el paso de current a next es válido.
func CanTransition(current, next string) bool {
	allowed, ok := validTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// targetOf estado destino de cada acción.
func targetOf(a Action) string {
	switch a {
	case ActionUnlock:
		return entity.TaskStatusPending
	case ActionStart:
		return entity.TaskStatusInProgress
	case ActionSubmit:
		return entity.TaskStatusSubmitted
	case ActionComplete:
		return entity.TaskStatusCompleted
	case ActionVerify:
		return entity.TaskStatusVerified
	case ActionReject:
		return entity.TaskStatusInProgress
	}
	return ""
}

// Transition datos de una acción sobre la tarea.
type Transition struct {
	Action Action
	Actor  string
	Reason string            // obligatorio en reject
	Photos map[string]string // se fusionan en submit/complete
	At     time.Time
}

// Apply aplica la transición sobre t. prev es el paso anterior de la misma línea (nil si t es el primero).
// No modifica t si devuelve error.
func Apply(t *entity.Task, prev *entity.Task, tr Transition) error {
	if !IsValidAction(tr.Action) {
		return domain.ErrInvalidInput
	}
	reason := strings.TrimSpace(tr.Reason)
	if tr.Action == ActionReject && reason == "" {
		return domain.ErrRejectionReasonRequired
	}
	next := targetOf(tr.Action)
	if !CanTransition(t.Status, next) {
		return domain.ErrInvalidTransition
	}
	// in-progress es destino de start y de reject; se distingue por el origen
	if tr.Action == ActionStart && t.Status != entity.TaskStatusPending && t.Status != entity.TaskStatusLocked {
		return domain.ErrInvalidTransition
	}
	if tr.Action == ActionReject && t.Status != entity.TaskStatusSubmitted && t.Status != entity.TaskStatusCompleted {
		return domain.ErrInvalidTransition
	}
	if gated(tr.Action) && !GateOpen(prev) {
		return domain.ErrStepLocked
	}

	at := tr.At
	if at.IsZero() {
		at = time.Now()
	}

	switch tr.Action {
	case ActionSubmit, ActionComplete:
		merged := mergePhotos(t.Photos, tr.Photos)
		probe := *t
		probe.Photos = merged
		if len(probe.MissingPhotos()) > 0 {
			return domain.ErrMissingPhotos
		}
		t.Photos = merged
		t.RejectionReason = ""
		if tr.Action == ActionSubmit {
			t.SubmittedAt = &at
		} else {
			t.CompletedAt = &at
		}
	case ActionVerify:
		t.VerifiedAt = &at
		t.VerifiedBy = tr.Actor
	case ActionReject:
		t.RejectionReason = reason
		t.SubmittedAt = nil
		t.CompletedAt = nil
	}
	t.Status = next
	t.UpdatedAt = at
	return nil
}

// gated acciones de campo que exigen el paso anterior terminado.
func gated(a Action) bool {
	switch a {
	case ActionUnlock, ActionStart, ActionSubmit, ActionComplete:
		return true
	}
	return false
}

// Relock devuelve a locked un paso pendiente cuyo paso anterior volvió a trabajo.
func Relock(t *entity.Task, at time.Time) error {
	if t.Status != entity.TaskStatusPending {
		return domain.ErrInvalidTransition
	}
	t.Status = entity.TaskStatusLocked
	t.UpdatedAt = at
	return nil
}

// AttachPhotos agrega o reemplaza fotos mientras la tarea está en progreso.
func AttachPhotos(t *entity.Task, photos map[string]string, at time.Time) error {
	if t.Status != entity.TaskStatusInProgress {
		return domain.ErrInvalidTransition
	}
	if len(photos) == 0 {
		return domain.ErrInvalidInput
	}
	for kind, ref := range photos {
		if strings.TrimSpace(kind) == "" || strings.TrimSpace(ref) == "" {
			return domain.ErrInvalidInput
		}
	}
	t.Photos = mergePhotos(t.Photos, photos)
	t.UpdatedAt = at
	return nil
}

// GateOpen indica si el paso anterior libera al siguiente.
func GateOpen(prev *entity.Task) bool {
	return prev == nil || entity.IsDone(prev.Status)
}

func mergePhotos(current, extra map[string]string) map[string]string {
	out := make(map[string]string, len(current)+len(extra))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range extra {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
