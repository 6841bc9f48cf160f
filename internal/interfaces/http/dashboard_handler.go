package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/sitetrack-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints de reportes.
type DashboardHandler struct {
	stats       *appanalytics.DashboardUseCase
	performance *appanalytics.PerformanceUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(stats *appanalytics.DashboardUseCase, performance *appanalytics.PerformanceUseCase) *DashboardHandler {
	return &DashboardHandler{stats: stats, performance: performance}
}

// GetStats godoc
// @Summary      Totales del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	out, err := h.stats.GetStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EmployeePerformance godoc
// @Summary      Desempeño por usuario asignado
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EmployeePerformanceDTO
// @Router       /api/dashboard/employee-performance [get]
func (h *DashboardHandler) EmployeePerformance(c *fiber.Ctx) error {
	out, err := h.performance.EmployeePerformance(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportPerformance godoc
// @Summary      Desempeño por usuario en .xlsx
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/dashboard/employee-performance/export [get]
func (h *DashboardHandler) ExportPerformance(c *fiber.Ctx) error {
	data, err := h.performance.Export(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="desempeno-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Send(data)
}
