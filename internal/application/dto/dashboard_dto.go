package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalProjects    int                 `json:"totalProjects"`
	TotalTeamLeaders int                 `json:"totalTeamLeaders"`
	TotalEmployees   int                 `json:"totalEmployees"`
	PendingTasks     int                 `json:"pendingTasks"`   // locked + pending + in-progress
	SubmittedTasks   int                 `json:"submittedTasks"` // en revisión
	CompletedTasks   int                 `json:"completedTasks"`
	VerifiedTasks    int                 `json:"verifiedTasks"`
	InventoryStats   []InventoryStatsDTO `json:"inventoryStats"`
}

// InventoryStatsDTO stock total por producto para el gráfico del dashboard.
type InventoryStatsDTO struct {
	Name       string          `json:"name"`
	TotalStock decimal.Decimal `json:"totalStock"`
}

// EmployeePerformanceDTO fila de GET /api/dashboard/employee-performance.
type EmployeePerformanceDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	TotalAssigned  int    `json:"totalAssigned"`
	Completed      int    `json:"completed"`
	Pending        int    `json:"pending"`
	CompletionRate int    `json:"completionRate"` // porcentaje 0..100
}

// UploadResponse respuesta de POST /api/upload.
type UploadResponse struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}
