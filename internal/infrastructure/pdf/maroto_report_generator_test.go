package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
)

func TestGenerateProjectReport(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	details := &dto.ProjectDetailsResponse{
		Project: dto.ProjectResponse{
			ID: "p1", Name: "Escuela Norte", Client: "Municipio", Category: "Primary",
			LeaderID: "u1", LeaderName: "Ana", Status: "active", StartDate: &start,
			LineItems: []dto.LineItemResponse{{
				ProductID: "prod-1", ProductName: "Panel solar", PlannedQuantity: decimal.NewFromInt(4),
				Progress: &dto.ProgressDTO{Completed: 1, Total: 3, Percent: 33},
			}},
		},
		Tasks: []dto.TaskResponse{
			{ID: "t1", Title: "Montaje", Sequence: 1, Status: "verified", RequiredPhotos: []string{"after"}, Photos: map[string]string{"after": "a.jpg"}},
			{ID: "t2", Title: "Cableado", Sequence: 2, Status: "pending"},
		},
		Progress: dto.ProgressDTO{Completed: 1, Total: 3, Percent: 33},
	}

	out, err := NewMarotoReportGenerator().GenerateProjectReport(details)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateProjectReport_Nil(t *testing.T) {
	_, err := NewMarotoReportGenerator().GenerateProjectReport(nil)
	assert.Error(t, err)
}
