package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de proyecto (sitio).
const (
	CategoryPrimary         = "Primary"
	CategoryUpperPrimary    = "Upper Primary"
	CategorySecondary       = "Secondary"
	CategoryHigherSecondary = "Higher Secondary"
	CategoryResidential     = "Residential"
)

// Estados de proyecto.
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on-hold"
	ProjectStatusCompleted = "completed"
)

// IsValidProjectCategory indica si la categoría pertenece al catálogo.
func IsValidProjectCategory(c string) bool {
	switch c {
	case CategoryPrimary, CategoryUpperPrimary, CategorySecondary, CategoryHigherSecondary, CategoryResidential:
		return true
	}
	return false
}

// IsValidProjectStatus indica si el estado es uno de los soportados.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}

// ProjectLineItem par (producto, cantidad planificada) dentro de un proyecto.
type ProjectLineItem struct {
	ProductID       string
	PlannedQuantity decimal.Decimal
}

// CompletionLetter carta de entrega adjunta al proyecto.
type CompletionLetter struct {
	URL        string
	UploadedAt time.Time
}

// Project representa un sitio de despliegue.
type Project struct {
	ID               string
	Name             string
	Client           string
	Category         string
	Location         string
	StartDate        *time.Time
	Deadline         *time.Time
	Description      string
	LeaderID         string
	Status           string
	LineItems        []ProjectLineItem
	CompletionLetter *CompletionLetter
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
