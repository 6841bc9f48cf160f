package entity

import "time"

// Estados de una tarea.
const (
	TaskStatusLocked     = "locked"
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusSubmitted  = "submitted"
	TaskStatusCompleted  = "completed"
	TaskStatusVerified   = "verified"
)

// IsValidTaskStatus indica si el estado es uno de los soportados.
func IsValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusLocked, TaskStatusPending, TaskStatusInProgress,
		TaskStatusSubmitted, TaskStatusCompleted, TaskStatusVerified:
		return true
	}
	return false
}

// IsDone indica si el estado libera el siguiente paso de la secuencia.
func IsDone(status string) bool {
	return status == TaskStatusCompleted || status == TaskStatusVerified
}

// Task instancia concreta de un ProcessStep para una línea del proyecto.
// Título, descripción, secuencia y fotos requeridas se copian al generar la tarea.
type Task struct {
	ID              string
	ProjectID       string
	ProductID       string
	LineIndex       int // posición de la línea dentro del proyecto
	Title           string
	Description     string
	Sequence        int
	RequiredPhotos  []string
	AssignedTo      string
	Status          string
	Photos          map[string]string // tipo de foto -> referencia del archivo
	RejectionReason string
	SubmittedAt     *time.Time
	CompletedAt     *time.Time
	VerifiedAt      *time.Time
	VerifiedBy      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MissingPhotos devuelve los tipos requeridos que aún no tienen archivo.
func (t *Task) MissingPhotos() []string {
	var missing []string
	for _, kind := range t.RequiredPhotos {
		if t.Photos[kind] == "" {
			missing = append(missing, kind)
		}
	}
	return missing
}
