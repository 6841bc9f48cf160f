package dto

import "time"

// TaskResponse salida de una tarea. Las rutas de fotos ya vienen normalizadas a URL absoluta.
type TaskResponse struct {
	ID              string            `json:"id"`
	ProjectID       string            `json:"project"`
	ProductID       string            `json:"product"`
	LineIndex       int               `json:"lineIndex"`
	Title           string            `json:"stepName"`
	Description     string            `json:"description"`
	Sequence        int               `json:"sequence"`
	RequiredPhotos  []string          `json:"requiredPhotos"`
	AssignedTo      string            `json:"assignedTo"`
	Status          string            `json:"status"`
	Photos          map[string]string `json:"photos"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	SubmittedAt     *time.Time        `json:"submittedAt,omitempty"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
	VerifiedAt      *time.Time        `json:"verifiedAt,omitempty"`
	VerifiedBy      string            `json:"verifiedBy,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TaskListResponse lista paginada de tareas.
type TaskListResponse struct {
	Items []TaskResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// TaskListQuery filtros de GET /api/tasks. status admite varios separados por coma.
type TaskListQuery struct {
	Status     string `query:"status"`
	ProjectID  string `query:"projectId"`
	AssignedTo string `query:"assignedTo"`
	PageRequest
}

// PhotosRequest fotos por tipo (before/after) -> referencia devuelta por /api/upload.
type PhotosRequest struct {
	Photos map[string]string `json:"photos" validate:"required,min=1,dive,keys,oneof=before after,endkeys,required"`
}

// RejectRequest body de POST /api/tasks/:id/reject.
type RejectRequest struct {
	Reason string `json:"rejectionReason"`
}

// VerifyRequest body opcional de POST /api/tasks/:id/verify.
// status "in-progress" equivale a rechazar con rejectionReason.
type VerifyRequest struct {
	Status          string `json:"status" validate:"omitempty,oneof=verified in-progress"`
	RejectionReason string `json:"rejectionReason"`
}

// AssignRequest body de POST /api/tasks/:id/assign.
type AssignRequest struct {
	UserID string `json:"assignedTo" validate:"required"`
}

// UpdateTaskRequest body de PUT /api/tasks/:id: el estado destino decide la acción.
type UpdateTaskRequest struct {
	Status          string            `json:"status" validate:"omitempty,oneof=pending in-progress submitted completed verified"`
	RejectionReason string            `json:"rejectionReason"`
	Photos          map[string]string `json:"photos"`
	AssignedTo      string            `json:"assignedTo"`
}
