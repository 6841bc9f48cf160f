package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
)

// ProjectHandler maneja el registro de proyectos y el asistente de creación.
type ProjectHandler struct {
	uc *project.ProjectUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *project.ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto (envío final del asistente)
// @Description  Genera una tarea por cada paso de proceso de cada producto. Las advertencias de stock no bloquean.
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "Sitio, líder y productos"
// @Success      201   {object}  dto.CreateProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckStock godoc
// @Summary      Advertencias de stock para las líneas planificadas
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockCheckRequest  true  "Productos y cantidades"
// @Success      200   {array}   dto.StockWarningDTO
// @Router       /api/projects/stock-check [post]
func (h *ProjectHandler) CheckStock(c *fiber.Ctx) error {
	var in dto.StockCheckRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.CheckStock(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		out = []dto.StockWarningDTO{}
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar proyectos
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "active | on-hold | completed"
// @Param        leaderId  query  string  false  "Líder asignado"
// @Success      200  {object}  dto.ProjectListResponse
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("status"), c.Query("leaderId"), pageOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle del proyecto con tareas y avance
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDetails(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar proyecto (líder, estado, datos descriptivos)
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.UpdateProjectRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ProjectResponse
// @Router       /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProjectRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AttachCompletionLetter godoc
// @Summary      Adjuntar carta de entrega
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del proyecto"
// @Param        body  body  dto.CompletionLetterRequest  true  "URL devuelta por /api/upload"
// @Success      200   {object}  dto.ProjectResponse
// @Router       /api/projects/{id}/completion-letter [post]
func (h *ProjectHandler) AttachCompletionLetter(c *fiber.Ctx) error {
	var in dto.CompletionLetterRequest
	if !bind(c, &in) {
		return nil
	}
	out, err := h.uc.AttachCompletionLetter(c.Context(), c.Params("id"), in.URL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar proyecto y sus tareas
// @Tags         projects
// @Security     Bearer
// @Param        id   path  string  true  "ID del proyecto"
// @Success      204
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte PDF de avance del proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {file}  binary
// @Router       /api/projects/{id}/report [get]
func (h *ProjectHandler) Report(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.ReportPDF(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="proyecto-%s.pdf"`, id))
	return c.Send(pdf)
}
