package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea (producto, cantidad planificada) del asistente.
type LineItemRequest struct {
	ProductID       string          `json:"product"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity"`
}

// CreateProjectRequest body del envío final del asistente (POST /api/projects).
// name, assignedLeader y al menos una línea son obligatorios.
type CreateProjectRequest struct {
	Name        string            `json:"name"`
	Client      string            `json:"client" validate:"max=200"`
	Category    string            `json:"category" validate:"omitempty,oneof='Primary' 'Upper Primary' 'Secondary' 'Higher Secondary' 'Residential'"`
	Location    string            `json:"location" validate:"max=300"`
	StartDate   *time.Time        `json:"startDate"`
	Deadline    *time.Time        `json:"deadline"`
	Description string            `json:"description"`
	LeaderID    string            `json:"assignedLeader"`
	LineItems   []LineItemRequest `json:"products"`
}

// StockCheckRequest body de POST /api/projects/stock-check (etapa 2 del asistente).
type StockCheckRequest struct {
	LineItems []LineItemRequest `json:"products"`
}

// CompletionLetterDTO carta de entrega del proyecto.
type CompletionLetterDTO struct {
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// UpdateProjectRequest body de PUT /api/projects/:id; campos nil no cambian.
type UpdateProjectRequest struct {
	Name             *string              `json:"name" validate:"omitempty,min=1,max=200"`
	Client           *string              `json:"client" validate:"omitempty,max=200"`
	Category         *string              `json:"category" validate:"omitempty,oneof='Primary' 'Upper Primary' 'Secondary' 'Higher Secondary' 'Residential'"`
	Location         *string              `json:"location"`
	StartDate        *time.Time           `json:"startDate"`
	Deadline         *time.Time           `json:"deadline"`
	Description      *string              `json:"description"`
	LeaderID         *string              `json:"assignedLeader"`
	Status           *string              `json:"status" validate:"omitempty,oneof=active on-hold completed"`
	CompletionLetter *CompletionLetterDTO `json:"completionLetter"`
}

// CompletionLetterRequest body de POST /api/projects/:id/completion-letter.
type CompletionLetterRequest struct {
	URL string `json:"url" validate:"required"`
}

// LineItemResponse línea del proyecto con avance.
type LineItemResponse struct {
	ProductID       string          `json:"product"`
	ProductName     string          `json:"productName,omitempty"`
	PlannedQuantity decimal.Decimal `json:"plannedQuantity"`
	Progress        *ProgressDTO    `json:"progress,omitempty"`
}

// ProgressDTO avance: completed cuenta tareas completed o verified.
type ProgressDTO struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Client           string               `json:"client"`
	Category         string               `json:"category"`
	Location         string               `json:"location"`
	StartDate        *time.Time           `json:"startDate,omitempty"`
	Deadline         *time.Time           `json:"deadline,omitempty"`
	Description      string               `json:"description"`
	LeaderID         string               `json:"assignedLeader"`
	LeaderName       string               `json:"assignedLeaderName,omitempty"`
	Status           string               `json:"status"`
	LineItems        []LineItemResponse   `json:"products"`
	CompletionLetter *CompletionLetterDTO `json:"completionLetter,omitempty"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// CreateProjectResponse proyecto creado más advertencias de stock (no bloqueantes).
type CreateProjectResponse struct {
	Project       ProjectResponse   `json:"project"`
	TasksCreated  int               `json:"tasksCreated"`
	StockWarnings []StockWarningDTO `json:"stockWarnings"`
}

// ProjectDetailsResponse detalle con tareas y avance global.
type ProjectDetailsResponse struct {
	Project  ProjectResponse `json:"project"`
	Tasks    []TaskResponse  `json:"tasks"`
	Progress ProgressDTO     `json:"progress"`
}

// ProjectListResponse lista paginada de proyectos.
type ProjectListResponse struct {
	Items []ProjectResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
