package task

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
	"github.com/jhoicas/sitetrack-api/internal/domain/workflow"
)

// Actor usuario autenticado que ejecuta la acción.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) isAdmin() bool { return a.Role == entity.RoleAdmin }

// TaskUseCase aplica las acciones de campo y de verificación sobre las tareas.
// Cada acción corre en una transacción que bloquea todas las tareas de la línea del proyecto,
// de modo que la compuerta secuencial y el desbloqueo del siguiente paso se evalúan sin carreras.
type TaskUseCase struct {
	txRunner TxRunner
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	resolver FileResolver
	recorder TransitionRecorder
}

// NewTaskUseCase construye el caso de uso. resolver y recorder pueden ser nil.
func NewTaskUseCase(
	txRunner TxRunner,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	resolver FileResolver,
	recorder TransitionRecorder,
) *TaskUseCase {
	return &TaskUseCase{
		txRunner: txRunner,
		taskRepo: taskRepo,
		userRepo: userRepo,
		resolver: resolver,
		recorder: recorder,
	}
}

// ── Consultas ────────────────────────────────────────────────────────────────

// GetByID obtiene una tarea.
func (uc *TaskUseCase) GetByID(ctx context.Context, id string) (*dto.TaskResponse, error) {
	t, err := uc.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	resp := ToTaskResponse(t, uc.resolver)
	return &resp, nil
}

// List lista tareas con filtros de estado (separados por coma), proyecto y asignado.
func (uc *TaskUseCase) List(ctx context.Context, q dto.TaskListQuery) (*dto.TaskListResponse, error) {
	var statuses []string
	for _, s := range strings.Split(q.Status, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !entity.IsValidTaskStatus(s) {
			return nil, domain.ErrInvalidInput
		}
		statuses = append(statuses, s)
	}
	return uc.list(ctx, repository.TaskFilter{
		Statuses:   statuses,
		ProjectID:  q.ProjectID,
		AssignedTo: q.AssignedTo,
	}, q.PageRequest)
}

// VerificationQueue tareas que esperan revisión del administrador (submitted o completed).
func (uc *TaskUseCase) VerificationQueue(ctx context.Context, page dto.PageRequest) (*dto.TaskListResponse, error) {
	return uc.list(ctx, repository.TaskFilter{
		Statuses: []string{entity.TaskStatusSubmitted, entity.TaskStatusCompleted},
	}, page)
}

func (uc *TaskUseCase) list(ctx context.Context, f repository.TaskFilter, page dto.PageRequest) (*dto.TaskListResponse, error) {
	page.DefaultPage()
	f.Limit, f.Offset = page.Limit, page.Offset
	list, err := uc.taskRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskResponse, 0, len(list))
	for _, t := range list {
		items = append(items, ToTaskResponse(t, uc.resolver))
	}
	return &dto.TaskListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ── Acciones ─────────────────────────────────────────────────────────────────

// Unlock pasa locked -> pending cuando el paso anterior está terminado. Admin o líder del proyecto.
func (uc *TaskUseCase) Unlock(ctx context.Context, actor Actor, id string) (*dto.TaskResponse, error) {
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionUnlock}, canManage)
}

// Start inicia el trabajo de la tarea.
func (uc *TaskUseCase) Start(ctx context.Context, actor Actor, id string) (*dto.TaskResponse, error) {
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionStart}, canWork)
}

// Submit envía la tarea a revisión; photos se fusiona con las ya adjuntas.
func (uc *TaskUseCase) Submit(ctx context.Context, actor Actor, id string, photos map[string]string) (*dto.TaskResponse, error) {
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionSubmit, Photos: photos}, canWork)
}

// Complete marca la tarea como completada; photos se fusiona con las ya adjuntas.
func (uc *TaskUseCase) Complete(ctx context.Context, actor Actor, id string, photos map[string]string) (*dto.TaskResponse, error) {
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionComplete, Photos: photos}, canWork)
}

// Verify aprueba la tarea. Verificar una tarea ya verificada no cambia nada.
func (uc *TaskUseCase) Verify(ctx context.Context, actor Actor, id string) (*dto.TaskResponse, error) {
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionVerify}, canVerify)
}

// Reject devuelve la tarea a in-progress con un motivo obligatorio.
func (uc *TaskUseCase) Reject(ctx context.Context, actor Actor, id, reason string) (*dto.TaskResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrRejectionReasonRequired
	}
	return uc.transition(ctx, actor, id, workflow.Transition{Action: workflow.ActionReject, Reason: reason}, canVerify)
}

// AttachPhotos agrega fotos a una tarea en progreso.
func (uc *TaskUseCase) AttachPhotos(ctx context.Context, actor Actor, id string, photos map[string]string) (*dto.TaskResponse, error) {
	var out *entity.Task
	err := uc.txRunner.RunTasks(ctx, func(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) error {
		cur, _, project, err := loadLine(ctx, taskRepo, projectRepo, id)
		if err != nil {
			return err
		}
		if err := canWork(actor, cur, project); err != nil {
			return err
		}
		if err := workflow.AttachPhotos(cur, photos, time.Now()); err != nil {
			return err
		}
		out = cur
		return taskRepo.Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("task_id", id).Int("photos", len(photos)).Msg("fotos adjuntadas")
	resp := ToTaskResponse(out, uc.resolver)
	return &resp, nil
}

// Assign reasigna la tarea a otro usuario (team_leader o employee). Admin o líder del proyecto.
func (uc *TaskUseCase) Assign(ctx context.Context, actor Actor, id, userID string) (*dto.TaskResponse, error) {
	if err := uc.checkAssignee(ctx, userID); err != nil {
		return nil, err
	}
	var out *entity.Task
	err := uc.txRunner.RunTasks(ctx, func(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) error {
		cur, _, project, err := loadLine(ctx, taskRepo, projectRepo, id)
		if err != nil {
			return err
		}
		if err := reassign(actor, cur, project, userID, time.Now()); err != nil {
			return err
		}
		out = cur
		return taskRepo.Update(ctx, cur)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("task_id", id).Str("assigned_to", userID).Msg("tarea reasignada")
	resp := ToTaskResponse(out, uc.resolver)
	return &resp, nil
}

// Update formulario genérico (PUT /api/tasks/:id): el estado destino decide la acción.
// Reasignación, fotos y acción se aplican en una sola transacción; si algo falla no queda nada escrito.
// La acción se autoriza contra el asignado previo a la reasignación.
func (uc *TaskUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	if in.Status == "" && in.AssignedTo == "" && len(in.Photos) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.AssignedTo != "" {
		if err := uc.checkAssignee(ctx, in.AssignedTo); err != nil {
			return nil, err
		}
	}
	now := time.Now()

	var out *entity.Task
	var tr *workflow.Transition
	var res outcome
	err := uc.txRunner.RunTasks(ctx, func(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) error {
		cur, line, project, err := loadLine(ctx, taskRepo, projectRepo, id)
		if err != nil {
			return err
		}
		out = cur
		action, authorize, err := formAction(in.Status, cur)
		if err != nil {
			return err
		}
		if action == "" && len(in.Photos) > 0 {
			authorize = canWork
		}
		if authorize != nil {
			if err := authorize(actor, cur, project); err != nil {
				return err
			}
		}
		if in.AssignedTo != "" {
			if err := reassign(actor, cur, project, in.AssignedTo, now); err != nil {
				return err
			}
		}
		if action == "" {
			if len(in.Photos) > 0 {
				if err := workflow.AttachPhotos(cur, in.Photos, now); err != nil {
					return err
				}
			}
			return taskRepo.Update(ctx, cur)
		}
		tr = &workflow.Transition{Action: action, Actor: actor.ID, At: now, Reason: in.RejectionReason}
		if action == workflow.ActionSubmit || action == workflow.ActionComplete {
			tr.Photos = in.Photos
		}
		res, err = uc.apply(ctx, taskRepo, projectRepo, cur, line, project, *tr)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Str("status", in.Status).Str("actor", actor.ID).Msg("actualización de tarea rechazada")
		return nil, err
	}
	if in.AssignedTo != "" {
		log.Info().Str("task_id", id).Str("assigned_to", in.AssignedTo).Msg("tarea reasignada")
	}
	if tr != nil {
		uc.report(id, actor, *tr, out, res)
	}
	resp := ToTaskResponse(out, uc.resolver)
	return &resp, nil
}

// formAction traduce el estado destino del formulario a una acción, decidida sobre la fila bloqueada.
// in-progress es reject si la tarea está en revisión y start en otro caso.
func formAction(status string, cur *entity.Task) (workflow.Action, authorizer, error) {
	switch status {
	case "":
		return "", nil, nil
	case entity.TaskStatusPending:
		return workflow.ActionUnlock, canManage, nil
	case entity.TaskStatusSubmitted:
		return workflow.ActionSubmit, canWork, nil
	case entity.TaskStatusCompleted:
		return workflow.ActionComplete, canWork, nil
	case entity.TaskStatusVerified:
		return workflow.ActionVerify, canVerify, nil
	case entity.TaskStatusInProgress:
		if cur.Status == entity.TaskStatusSubmitted || cur.Status == entity.TaskStatusCompleted {
			return workflow.ActionReject, canVerify, nil
		}
		return workflow.ActionStart, canWork, nil
	}
	return "", nil, domain.ErrInvalidInput
}

// checkAssignee valida que el usuario exista, esté activo y no sea admin.
func (uc *TaskUseCase) checkAssignee(ctx context.Context, userID string) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.Role == entity.RoleAdmin || user.Status != entity.UserStatusActive {
		return domain.ErrInvalidInput
	}
	return nil
}

// reassign cambia el asignado sobre la fila bloqueada. Las tareas verificadas no se reasignan.
func reassign(actor Actor, cur *entity.Task, project *entity.Project, userID string, at time.Time) error {
	if err := canManage(actor, cur, project); err != nil {
		return err
	}
	if cur.Status == entity.TaskStatusVerified {
		return domain.ErrConflict
	}
	cur.AssignedTo = userID
	cur.UpdatedAt = at
	return nil
}

type authorizer func(actor Actor, t *entity.Task, project *entity.Project) error

// canWork acciones de campo: el asignado o un admin.
func canWork(actor Actor, t *entity.Task, _ *entity.Project) error {
	if actor.isAdmin() || actor.ID == t.AssignedTo {
		return nil
	}
	return domain.ErrForbidden
}

// canManage desbloqueo y reasignación: admin o líder del proyecto.
func canManage(actor Actor, _ *entity.Task, project *entity.Project) error {
	if actor.isAdmin() || (project != nil && project.LeaderID == actor.ID) {
		return nil
	}
	return domain.ErrForbidden
}

// canVerify verificación y rechazo: solo admin.
func canVerify(actor Actor, _ *entity.Task, _ *entity.Project) error {
	if actor.isAdmin() {
		return nil
	}
	return domain.ErrForbidden
}

// outcome efectos de una transición sobre la línea y el proyecto.
type outcome struct {
	noop             bool
	unlocked         *entity.Task
	relocked         *entity.Task
	projectCompleted bool
}

// transition aplica tr dentro de una transacción sobre la línea bloqueada.
func (uc *TaskUseCase) transition(ctx context.Context, actor Actor, id string, tr workflow.Transition, authorize authorizer) (*dto.TaskResponse, error) {
	tr.Actor = actor.ID
	tr.At = time.Now()

	var out *entity.Task
	var res outcome
	err := uc.txRunner.RunTasks(ctx, func(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) error {
		cur, line, project, err := loadLine(ctx, taskRepo, projectRepo, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, cur, project); err != nil {
			return err
		}
		out = cur
		res, err = uc.apply(ctx, taskRepo, projectRepo, cur, line, project, tr)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Str("action", string(tr.Action)).Str("actor", actor.ID).Msg("acción de tarea rechazada")
		return nil, err
	}
	uc.report(id, actor, tr, out, res)
	resp := ToTaskResponse(out, uc.resolver)
	return &resp, nil
}

// apply ejecuta tr sobre cur ya bloqueada. Al terminar un paso desbloquea el siguiente; al rechazarlo
// vuelve a bloquear el siguiente si seguía pendiente. Marca el proyecto como completed cuando todas
// sus tareas quedan verificadas.
func (uc *TaskUseCase) apply(
	ctx context.Context,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	cur *entity.Task,
	line []*entity.Task,
	project *entity.Project,
	tr workflow.Transition,
) (outcome, error) {
	var res outcome
	if tr.Action == workflow.ActionVerify && cur.Status == entity.TaskStatusVerified {
		res.noop = true
		return res, nil
	}
	if err := workflow.Apply(cur, workflow.PreviousStep(line, cur), tr); err != nil {
		return res, err
	}
	if err := taskRepo.Update(ctx, cur); err != nil {
		return res, err
	}

	if next := workflow.Unlockable(line, cur); next != nil {
		if err := workflow.Apply(next, cur, workflow.Transition{Action: workflow.ActionUnlock, Actor: tr.Actor, At: tr.At}); err != nil {
			return res, err
		}
		if err := taskRepo.Update(ctx, next); err != nil {
			return res, err
		}
		res.unlocked = next
	}
	if tr.Action == workflow.ActionReject {
		if next := workflow.Relockable(line, cur); next != nil {
			if err := workflow.Relock(next, tr.At); err != nil {
				return res, err
			}
			if err := taskRepo.Update(ctx, next); err != nil {
				return res, err
			}
			res.relocked = next
		}
	}

	if cur.Status == entity.TaskStatusVerified && project != nil && project.Status != entity.ProjectStatusCompleted {
		all, err := taskRepo.ListByProject(ctx, cur.ProjectID)
		if err != nil {
			return res, err
		}
		if workflow.AllVerified(all) {
			project.Status = entity.ProjectStatusCompleted
			project.UpdatedAt = tr.At
			if err := projectRepo.Update(ctx, project); err != nil {
				return res, err
			}
			res.projectCompleted = true
		}
	}
	return res, nil
}

// report registra la métrica y el log de una transición confirmada.
func (uc *TaskUseCase) report(id string, actor Actor, tr workflow.Transition, out *entity.Task, res outcome) {
	if res.noop {
		return
	}
	if uc.recorder != nil {
		uc.recorder.TaskTransition(string(tr.Action))
	}
	ev := log.Info().Str("task_id", id).Str("action", string(tr.Action)).Str("status", out.Status).Str("actor", actor.ID)
	if res.unlocked != nil {
		ev = ev.Str("unlocked_task_id", res.unlocked.ID)
	}
	if res.relocked != nil {
		ev = ev.Str("relocked_task_id", res.relocked.ID)
	}
	if res.projectCompleted {
		ev = ev.Bool("project_completed", true)
	}
	ev.Msg("acción de tarea aplicada")
}

// loadLine carga la tarea, bloquea todas las de su línea y devuelve la copia bloqueada junto al proyecto.
func loadLine(ctx context.Context, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, id string) (*entity.Task, []*entity.Task, *entity.Project, error) {
	t, err := taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if t == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	line, err := taskRepo.ListLineForUpdate(ctx, t.ProjectID, t.LineIndex)
	if err != nil {
		return nil, nil, nil, err
	}
	var cur *entity.Task
	for _, s := range line {
		if s.ID == id {
			cur = s
			break
		}
	}
	if cur == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	project, err := projectRepo.GetByID(ctx, t.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	return cur, line, project, nil
}
