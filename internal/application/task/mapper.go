package task

import (
	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// ToTaskResponse convierte la entidad a DTO resolviendo las rutas de fotos. resolver puede ser nil.
func ToTaskResponse(t *entity.Task, resolver FileResolver) dto.TaskResponse {
	photos := t.Photos
	if photos == nil {
		photos = map[string]string{}
	}
	if resolver != nil {
		photos = resolver.ResolveMap(photos)
	}
	required := t.RequiredPhotos
	if required == nil {
		required = []string{}
	}
	return dto.TaskResponse{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		ProductID:       t.ProductID,
		LineIndex:       t.LineIndex,
		Title:           t.Title,
		Description:     t.Description,
		Sequence:        t.Sequence,
		RequiredPhotos:  required,
		AssignedTo:      t.AssignedTo,
		Status:          t.Status,
		Photos:          photos,
		RejectionReason: t.RejectionReason,
		SubmittedAt:     t.SubmittedAt,
		CompletedAt:     t.CompletedAt,
		VerifiedAt:      t.VerifiedAt,
		VerifiedBy:      t.VerifiedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
