package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// IsPhotoKind indica si el tipo de foto es soportado.
func IsPhotoKind(kind string) bool {
	return kind == entity.PhotoBefore || kind == entity.PhotoAfter
}

// NormalizeSteps ordena los pasos por su secuencia (estable, los sin secuencia al final),
// los renumera 1..N, limpia espacios y deduplica los tipos de foto.
func NormalizeSteps(steps []entity.ProcessStep) ([]entity.ProcessStep, error) {
	out := make([]entity.ProcessStep, len(steps))
	copy(out, steps)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Sequence, out[j].Sequence
		if a <= 0 {
			return false
		}
		if b <= 0 {
			return true
		}
		return a < b
	})
	for i := range out {
		out[i].Title = strings.TrimSpace(out[i].Title)
		out[i].Description = strings.TrimSpace(out[i].Description)
		if out[i].Title == "" {
			return nil, fmt.Errorf("paso %d sin título: %w", i+1, domain.ErrInvalidInput)
		}
		photos := make([]string, 0, len(out[i].RequiredPhotos))
		seen := make(map[string]bool)
		for _, kind := range out[i].RequiredPhotos {
			kind = strings.ToLower(strings.TrimSpace(kind))
			if !IsPhotoKind(kind) {
				return nil, fmt.Errorf("tipo de foto %q: %w", kind, domain.ErrInvalidInput)
			}
			if seen[kind] {
				continue
			}
			seen[kind] = true
			photos = append(photos, kind)
		}
		out[i].RequiredPhotos = photos
		out[i].Sequence = i + 1
	}
	return out, nil
}

// StepsFromTitles construye pasos a partir de títulos separados por "|"; cada uno exige foto "after".
func StepsFromTitles(raw string) []entity.ProcessStep {
	var steps []entity.ProcessStep
	for _, title := range strings.Split(raw, "|") {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		steps = append(steps, entity.ProcessStep{
			Title:          title,
			Sequence:       len(steps) + 1,
			RequiredPhotos: []string{entity.PhotoAfter},
		})
	}
	return steps
}
