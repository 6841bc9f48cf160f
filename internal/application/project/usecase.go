package project

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/sitetrack-api/internal/application/dto"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
	"github.com/jhoicas/sitetrack-api/internal/domain/workflow"
)

// StockChecker calcula advertencias blandas de stock para las líneas planificadas.
type StockChecker interface {
	Check(ctx context.Context, items []entity.ProjectLineItem) ([]dto.StockWarningDTO, error)
}

// ProjectUseCase registro de proyectos (sitios) y generación de tareas.
type ProjectUseCase struct {
	txRunner    TxRunner
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	stock       StockChecker
	resolver    task.FileResolver
	report      ReportGenerator
}

// NewProjectUseCase construye el caso de uso. resolver y report pueden ser nil.
func NewProjectUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	stock StockChecker,
	resolver task.FileResolver,
	report ReportGenerator,
) *ProjectUseCase {
	return &ProjectUseCase{
		txRunner:    txRunner,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		stock:       stock,
		resolver:    resolver,
		report:      report,
	}
}

// Create envío final del asistente. Nombre, líder y al menos una línea se validan antes de cualquier escritura;
// el proyecto y todas sus tareas se persisten en una sola transacción.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre del proyecto: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.LeaderID) == "" {
		return nil, fmt.Errorf("líder asignado: %w", domain.ErrInvalidInput)
	}
	if len(in.LineItems) == 0 {
		return nil, fmt.Errorf("al menos un producto: %w", domain.ErrInvalidInput)
	}
	category := in.Category
	if category == "" {
		category = entity.CategoryPrimary
	}
	if !entity.IsValidProjectCategory(category) {
		return nil, fmt.Errorf("categoría %q: %w", category, domain.ErrInvalidInput)
	}

	if err := uc.requireLeader(ctx, in.LeaderID); err != nil {
		return nil, err
	}
	items, products, err := uc.loadLineItems(ctx, in.LineItems)
	if err != nil {
		return nil, err
	}
	warnings, err := uc.stock.Check(ctx, items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Client:      strings.TrimSpace(in.Client),
		Category:    category,
		Location:    strings.TrimSpace(in.Location),
		StartDate:   in.StartDate,
		Deadline:    in.Deadline,
		Description: in.Description,
		LeaderID:    in.LeaderID,
		Status:      entity.ProjectStatusActive,
		LineItems:   items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks, err := workflow.Generate(p, products, now)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunProject(ctx, func(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) error {
		if err := projectRepo.Create(ctx, p); err != nil {
			return err
		}
		if len(tasks) == 0 {
			return nil
		}
		return taskRepo.CreateBatch(ctx, tasks)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("project_id", p.ID).
		Str("leader_id", p.LeaderID).
		Int("line_items", len(items)).
		Int("tasks", len(tasks)).
		Int("stock_warnings", len(warnings)).
		Msg("proyecto creado")

	return &dto.CreateProjectResponse{
		Project:       uc.toResponse(p, products, nil),
		TasksCreated:  len(tasks),
		StockWarnings: warnings,
	}, nil
}

// CheckStock advertencias de la etapa 2 del asistente; no crea nada.
func (uc *ProjectUseCase) CheckStock(ctx context.Context, in dto.StockCheckRequest) ([]dto.StockWarningDTO, error) {
	items, _, err := uc.loadLineItems(ctx, in.LineItems)
	if err != nil {
		return nil, err
	}
	return uc.stock.Check(ctx, items)
}

// GetDetails proyecto con sus tareas y avance por línea y global.
func (uc *ProjectUseCase) GetDetails(ctx context.Context, id string) (*dto.ProjectDetailsResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.taskRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.productsOf(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectDetailsResponse{
		Project:  uc.toResponse(p, products, tasks),
		Tasks:    make([]dto.TaskResponse, 0, len(tasks)),
		Progress: progressOf(tasks),
	}
	if leader, err := uc.userRepo.GetByID(ctx, p.LeaderID); err == nil && leader != nil {
		out.Project.LeaderName = leader.Name
	}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, task.ToTaskResponse(t, uc.resolver))
	}
	return out, nil
}

// List lista proyectos filtrando por estado y líder.
func (uc *ProjectUseCase) List(ctx context.Context, status, leaderID string, page dto.PageRequest) (*dto.ProjectListResponse, error) {
	if status != "" && !entity.IsValidProjectStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.projectRepo.List(ctx, repository.ProjectFilter{
		Status:   status,
		LeaderID: leaderID,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		items = append(items, uc.toResponse(p, nil, nil))
	}
	return &dto.ProjectListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Update actualiza campos descriptivos, estado, líder y carta de entrega. La reasignación de líder
// no cambia el asignado de las tareas ya generadas.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		p.Name = name
	}
	if in.Client != nil {
		p.Client = strings.TrimSpace(*in.Client)
	}
	if in.Category != nil {
		if !entity.IsValidProjectCategory(*in.Category) {
			return nil, domain.ErrInvalidInput
		}
		p.Category = *in.Category
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.Deadline != nil {
		p.Deadline = in.Deadline
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		if !entity.IsValidProjectStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		p.Status = *in.Status
	}
	if in.LeaderID != nil && *in.LeaderID != p.LeaderID {
		if err := uc.requireLeader(ctx, *in.LeaderID); err != nil {
			return nil, err
		}
		log.Info().Str("project_id", p.ID).Str("from", p.LeaderID).Str("to", *in.LeaderID).Msg("líder reasignado")
		p.LeaderID = *in.LeaderID
	}
	if in.CompletionLetter != nil {
		if strings.TrimSpace(in.CompletionLetter.URL) == "" {
			return nil, domain.ErrInvalidInput
		}
		uploadedAt := in.CompletionLetter.UploadedAt
		if uploadedAt.IsZero() {
			uploadedAt = time.Now()
		}
		p.CompletionLetter = &entity.CompletionLetter{URL: in.CompletionLetter.URL, UploadedAt: uploadedAt}
	}
	p.UpdatedAt = time.Now()
	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	log.Info().Str("project_id", p.ID).Msg("proyecto actualizado")
	resp := uc.toResponse(p, nil, nil)
	return &resp, nil
}

// AttachCompletionLetter adjunta la carta de entrega con la fecha de carga actual.
func (uc *ProjectUseCase) AttachCompletionLetter(ctx context.Context, id, url string) (*dto.ProjectResponse, error) {
	if strings.TrimSpace(url) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.Update(ctx, id, dto.UpdateProjectRequest{
		CompletionLetter: &dto.CompletionLetterDTO{URL: url, UploadedAt: time.Now()},
	})
}

// Delete elimina el proyecto y sus tareas.
func (uc *ProjectUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Str("project_id", id).Msg("proyecto eliminado")
	return nil
}

// ReportPDF genera el reporte PDF de avance del proyecto.
func (uc *ProjectUseCase) ReportPDF(ctx context.Context, id string) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("reporte pdf no configurado")
	}
	details, err := uc.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateProjectReport(details)
}

func (uc *ProjectUseCase) get(ctx context.Context, id string) (*entity.Project, error) {
	p, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// requireLeader exige un usuario activo con rol team_leader.
func (uc *ProjectUseCase) requireLeader(ctx context.Context, userID string) error {
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	if u.Role != entity.RoleTeamLeader {
		return fmt.Errorf("el líder debe tener rol team_leader: %w", domain.ErrInvalidInput)
	}
	if u.Status != entity.UserStatusActive {
		return fmt.Errorf("el líder está inactivo: %w", domain.ErrInvalidInput)
	}
	return nil
}

// loadLineItems valida cantidades y existencia de productos.
func (uc *ProjectUseCase) loadLineItems(ctx context.Context, in []dto.LineItemRequest) ([]entity.ProjectLineItem, map[string]*entity.Product, error) {
	if len(in) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	items := make([]entity.ProjectLineItem, 0, len(in))
	products := make(map[string]*entity.Product, len(in))
	for i, li := range in {
		if strings.TrimSpace(li.ProductID) == "" || !li.PlannedQuantity.IsPositive() {
			return nil, nil, fmt.Errorf("línea %d: %w", i+1, domain.ErrInvalidInput)
		}
		if _, ok := products[li.ProductID]; !ok {
			p, err := uc.productRepo.GetByID(ctx, li.ProductID)
			if err != nil {
				return nil, nil, err
			}
			if p == nil {
				return nil, nil, fmt.Errorf("producto %s: %w", li.ProductID, domain.ErrNotFound)
			}
			products[li.ProductID] = p
		}
		items = append(items, entity.ProjectLineItem{ProductID: li.ProductID, PlannedQuantity: li.PlannedQuantity})
	}
	return items, products, nil
}

// productsOf carga los productos de las líneas; los eliminados se omiten.
func (uc *ProjectUseCase) productsOf(ctx context.Context, p *entity.Project) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(p.LineItems))
	for _, li := range p.LineItems {
		if _, ok := out[li.ProductID]; ok {
			continue
		}
		prod, err := uc.productRepo.GetByID(ctx, li.ProductID)
		if err != nil {
			return nil, err
		}
		if prod != nil {
			out[li.ProductID] = prod
		}
	}
	return out, nil
}

// toResponse convierte a DTO. products y tasks son opcionales (nombre de producto y avance por línea).
func (uc *ProjectUseCase) toResponse(p *entity.Project, products map[string]*entity.Product, tasks []*entity.Task) dto.ProjectResponse {
	byLine := make(map[int][]*entity.Task)
	for _, t := range tasks {
		byLine[t.LineIndex] = append(byLine[t.LineIndex], t)
	}
	lines := make([]dto.LineItemResponse, 0, len(p.LineItems))
	for i, li := range p.LineItems {
		line := dto.LineItemResponse{ProductID: li.ProductID, PlannedQuantity: li.PlannedQuantity}
		if prod, ok := products[li.ProductID]; ok {
			line.ProductName = prod.Name
		}
		if tasks != nil {
			pr := progressOf(byLine[i])
			line.Progress = &pr
		}
		lines = append(lines, line)
	}
	resp := dto.ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Client:      p.Client,
		Category:    p.Category,
		Location:    p.Location,
		StartDate:   p.StartDate,
		Deadline:    p.Deadline,
		Description: p.Description,
		LeaderID:    p.LeaderID,
		Status:      p.Status,
		LineItems:   lines,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CompletionLetter != nil {
		url := p.CompletionLetter.URL
		if uc.resolver != nil {
			url = uc.resolver.Resolve(url)
		}
		resp.CompletionLetter = &dto.CompletionLetterDTO{URL: url, UploadedAt: p.CompletionLetter.UploadedAt}
	}
	return resp
}

// progressOf avance: completed|verified sobre el total, porcentaje redondeado.
func progressOf(tasks []*entity.Task) dto.ProgressDTO {
	pr := dto.ProgressDTO{Total: len(tasks)}
	for _, t := range tasks {
		if entity.IsDone(t.Status) {
			pr.Completed++
		}
	}
	if pr.Total > 0 {
		pr.Percent = int(math.Round(float64(pr.Completed) / float64(pr.Total) * 100))
	}
	return pr
}
