package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos y sus líneas (project_line_items) sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador de proyectos.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, name, client, category, location, start_date, deadline, description, leader_id, status,
	completion_letter_url, completion_letter_uploaded_at, created_at, updated_at`

func scanProject(row rowScanner) (*entity.Project, error) {
	var p entity.Project
	var letterURL *string
	var letterAt *time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Client, &p.Category, &p.Location, &p.StartDate, &p.Deadline,
		&p.Description, &p.LeaderID, &p.Status, &letterURL, &letterAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if letterURL != nil {
		p.CompletionLetter = &entity.CompletionLetter{URL: *letterURL}
		if letterAt != nil {
			p.CompletionLetter.UploadedAt = *letterAt
		}
	}
	return &p, nil
}

func letterColumns(p *entity.Project) (*string, *time.Time) {
	if p.CompletionLetter == nil {
		return nil, nil
	}
	url, at := p.CompletionLetter.URL, p.CompletionLetter.UploadedAt
	return &url, &at
}

// Create inserta el proyecto y sus líneas. Debe llamarse dentro de una transacción.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	letterURL, letterAt := letterColumns(p)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Client, p.Category, p.Location, p.StartDate, p.Deadline, p.Description, p.LeaderID,
		p.Status, letterURL, letterAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return r.insertLines(ctx, p)
}

func (r *ProjectRepo) insertLines(ctx context.Context, p *entity.Project) error {
	if len(p.LineItems) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, li := range p.LineItems {
		batch.Queue(`
			INSERT INTO project_line_items (project_id, line_index, product_id, planned_quantity)
			VALUES ($1, $2, $3, $4)`, p.ID, i, li.ProductID, li.PlannedQuantity)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert project lines: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza los campos del proyecto. Las líneas no cambian después de la creación.
func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	letterURL, letterAt := letterColumns(p)
	query := `
		UPDATE projects SET name = $2, client = $3, category = $4, location = $5, start_date = $6, deadline = $7,
			description = $8, leader_id = $9, status = $10, completion_letter_url = $11,
			completion_letter_uploaded_at = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Client, p.Category, p.Location, p.StartDate, p.Deadline, p.Description, p.LeaderID,
		p.Status, letterURL, letterAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("update project: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) List(ctx context.Context, f repository.ProjectFilter) ([]*entity.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR leader_id = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.Status, f.LeaderID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadLines carga las líneas de todos los proyectos en una sola consulta.
func (r *ProjectRepo) loadLines(ctx context.Context, projects []*entity.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, 0, len(projects))
	byID := make(map[string]*entity.Project, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	rows, err := r.q.Query(ctx, `
		SELECT project_id, product_id, planned_quantity
		FROM project_line_items WHERE project_id = ANY($1)
		ORDER BY project_id, line_index`, ids)
	if err != nil {
		return fmt.Errorf("list project lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var projectID string
		var li entity.ProjectLineItem
		if err := rows.Scan(&projectID, &li.ProductID, &li.PlannedQuantity); err != nil {
			return fmt.Errorf("scan project line: %w", err)
		}
		p := byID[projectID]
		p.LineItems = append(p.LineItems, li)
	}
	return rows.Err()
}

// Delete elimina el proyecto; líneas y tareas caen en cascada.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
