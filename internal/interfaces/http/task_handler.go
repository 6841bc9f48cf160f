package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// TaskHandler expone la máquina de estados de tareas. Cada mutación devuelve la tarea ya persistida.
type TaskHandler struct {
	uc *task.TaskUseCase
}

// NewTaskHandler construye el handler.
func NewTaskHandler(uc *task.TaskUseCase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// List godoc
// @Summary      Listar tareas
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "Uno o varios estados separados por coma"
// @Param        projectId   query  string  false  "Proyecto"
// @Param        assignedTo  query  string  false  "Usuario asignado"
// @Success      200  {object}  dto.TaskListResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	q := dto.TaskListQuery{
		Status:      c.Query("status"),
		ProjectID:   c.Query("projectId"),
		AssignedTo:  c.Query("assignedTo"),
		PageRequest: pageOf(c),
	}
	// un empleado solo ve lo suyo
	if GetRole(c) == entity.RoleEmployee {
		q.AssignedTo = GetUserID(c)
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VerificationQueue godoc
// @Summary      Cola de verificación (submitted y completed)
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TaskListResponse
// @Router       /api/tasks/verification-queue [get]
func (h *TaskHandler) VerificationQueue(c *fiber.Ctx) error {
	out, err := h.uc.VerificationQueue(c.Context(), pageOf(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener tarea
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar tarea (pending → in-progress)
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la tarea"
// @Success      200  {object}  dto.TaskResponse
// @Failure      409  {object}  dto.ErrorResponse  "paso anterior incompleto o transición inválida"
// @Router       /api/tasks/{id}/start [post]
func (h *TaskHandler) Start(c *fiber.Ctx) error {
	return h.reply(c)(h.uc.Start(c.Context(), actorOf(c), c.Params("id")))
}

// AttachPhotos godoc
// @Summary      Adjuntar fotos (solo en progreso)
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.PhotosRequest  true  "tipo -> referencia"
// @Success      200   {object}  dto.TaskResponse
// @Router       /api/tasks/{id}/photos [post]
func (h *TaskHandler) AttachPhotos(c *fiber.Ctx) error {
	var in dto.PhotosRequest
	if !bind(c, &in) {
		return nil
	}
	return h.reply(c)(h.uc.AttachPhotos(c.Context(), actorOf(c), c.Params("id"), in.Photos))
}

// Submit godoc
// @Summary      Enviar a revisión (in-progress → submitted)
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.PhotosRequest  false  "Fotos adicionales"
// @Success      200   {object}  dto.TaskResponse
// @Failure      422   {object}  dto.ErrorResponse  "faltan fotos requeridas"
// @Router       /api/tasks/{id}/submit [post]
func (h *TaskHandler) Submit(c *fiber.Ctx) error {
	photos, ok := optionalPhotos(c)
	if !ok {
		return nil
	}
	return h.reply(c)(h.uc.Submit(c.Context(), actorOf(c), c.Params("id"), photos))
}

// Complete godoc
// @Summary      Completar (in-progress → completed)
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.PhotosRequest  false  "Fotos adicionales"
// @Success      200   {object}  dto.TaskResponse
// @Failure      422   {object}  dto.ErrorResponse  "faltan fotos requeridas"
// @Router       /api/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *fiber.Ctx) error {
	photos, ok := optionalPhotos(c)
	if !ok {
		return nil
	}
	return h.reply(c)(h.uc.Complete(c.Context(), actorOf(c), c.Params("id"), photos))
}

// Verify godoc
// @Summary      Verificar o rechazar
// @Description  Sin body o status=verified aprueba; status=in-progress rechaza y exige rejectionReason.
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.VerifyRequest  false  "Decisión"
// @Success      200   {object}  dto.TaskResponse
// @Router       /api/tasks/{id}/verify [post]
func (h *TaskHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if len(c.Body()) > 0 && !bind(c, &in) {
		return nil
	}
	if in.Status == entity.TaskStatusInProgress {
		return h.reply(c)(h.uc.Reject(c.Context(), actorOf(c), c.Params("id"), in.RejectionReason))
	}
	return h.reply(c)(h.uc.Verify(c.Context(), actorOf(c), c.Params("id")))
}

// Reject godoc
// @Summary      Rechazar (submitted|completed → in-progress)
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.RejectRequest  true  "Motivo obligatorio"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse  "motivo vacío"
// @Router       /api/tasks/{id}/reject [post]
func (h *TaskHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if !bind(c, &in) {
		return nil
	}
	return h.reply(c)(h.uc.Reject(c.Context(), actorOf(c), c.Params("id"), in.Reason))
}

// Assign godoc
// @Summary      Reasignar tarea
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.AssignRequest  true  "Usuario destino"
// @Success      200   {object}  dto.TaskResponse
// @Router       /api/tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if !bind(c, &in) {
		return nil
	}
	return h.reply(c)(h.uc.Assign(c.Context(), actorOf(c), c.Params("id"), in.UserID))
}

// Update godoc
// @Summary      Actualizar tarea por estado destino
// @Tags         tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la tarea"
// @Param        body  body  dto.UpdateTaskRequest  true  "status, photos, rejectionReason, assignedTo"
// @Success      200   {object}  dto.TaskResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTaskRequest
	if !bind(c, &in) {
		return nil
	}
	return h.reply(c)(h.uc.Update(c.Context(), actorOf(c), c.Params("id"), in))
}

// reply escribe la tarea resultante o el error mapeado.
func (h *TaskHandler) reply(c *fiber.Ctx) func(*dto.TaskResponse, error) error {
	return func(out *dto.TaskResponse, err error) error {
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// optionalPhotos el body es opcional en submit/complete. ok=false si ya respondió 400.
func optionalPhotos(c *fiber.Ctx) (map[string]string, bool) {
	if len(c.Body()) == 0 {
		return nil, true
	}
	var in struct {
		Photos map[string]string `json:"photos" validate:"omitempty,dive,keys,oneof=before after,endkeys,required"`
	}
	if !bind(c, &in) {
		return nil, false
	}
	return in.Photos, true
}
