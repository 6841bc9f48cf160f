package workflow

import "github.com/jhoicas/sitetrack-api/internal/domain/entity"

// sameLine indica si dos tareas pertenecen a la misma línea del mismo proyecto.
func sameLine(a, b *entity.Task) bool {
	return a.ProjectID == b.ProjectID && a.LineIndex == b.LineIndex
}

// PreviousStep devuelve la tarea con la secuencia inmediatamente menor en la misma línea, o nil.
func PreviousStep(siblings []*entity.Task, t *entity.Task) *entity.Task {
	var prev *entity.Task
	for _, s := range siblings {
		if s.ID == t.ID || !sameLine(s, t) || s.Sequence >= t.Sequence {
			continue
		}
		if prev == nil || s.Sequence > prev.Sequence {
			prev = s
		}
	}
	return prev
}

// NextStep devuelve la tarea con la secuencia inmediatamente mayor en la misma línea, o nil.
func NextStep(siblings []*entity.Task, t *entity.Task) *entity.Task {
	var next *entity.Task
	for _, s := range siblings {
		if s.ID == t.ID || !sameLine(s, t) || s.Sequence <= t.Sequence {
			continue
		}
		if next == nil || s.Sequence < next.Sequence {
			next = s
		}
	}
	return next
}

// Unlockable devuelve el siguiente paso si t ya está terminado y el siguiente sigue bloqueado.
func Unlockable(siblings []*entity.Task, t *entity.Task) *entity.Task {
	if !entity.IsDone(t.Status) {
		return nil
	}
	next := NextStep(siblings, t)
	if next == nil || next.Status != entity.TaskStatusLocked {
		return nil
	}
	return next
}

// Relockable devuelve el siguiente paso si t dejó de estar terminado y el siguiente aún no empezó.
// Un siguiente paso ya en progreso se conserva; no podrá enviarse hasta que t vuelva a terminarse.
func Relockable(siblings []*entity.Task, t *entity.Task) *entity.Task {
	if entity.IsDone(t.Status) {
		return nil
	}
	next := NextStep(siblings, t)
	if next == nil || next.Status != entity.TaskStatusPending {
		return nil
	}
	return next
}

// AllVerified indica si todas las tareas del conjunto están verificadas (false si está vacío).
func AllVerified(tasks []*entity.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if t.Status != entity.TaskStatusVerified {
			return false
		}
	}
	return true
}
