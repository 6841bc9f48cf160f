package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sitetrack-api/internal/domain"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
	"github.com/jhoicas/sitetrack-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo tareas generadas sobre PostgreSQL. photos es JSONB (tipo -> referencia).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de tareas.
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

const taskColumns = `id, project_id, product_id, line_index, title, description, sequence, required_photos,
	assigned_to, status, photos, rejection_reason, submitted_at, completed_at, verified_at, verified_by,
	created_at, updated_at`

const taskOrder = ` ORDER BY project_id, line_index, sequence`

func scanTask(row rowScanner) (*entity.Task, error) {
	var t entity.Task
	if err := row.Scan(&t.ID, &t.ProjectID, &t.ProductID, &t.LineIndex, &t.Title, &t.Description, &t.Sequence,
		&t.RequiredPhotos, &t.AssignedTo, &t.Status, &t.Photos, &t.RejectionReason, &t.SubmittedAt,
		&t.CompletedAt, &t.VerifiedAt, &t.VerifiedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if t.Photos == nil {
		t.Photos = map[string]string{}
	}
	return &t, nil
}

func photosOf(t *entity.Task) map[string]string {
	if t.Photos == nil {
		return map[string]string{}
	}
	return t.Photos
}

func requiredOf(t *entity.Task) []string {
	if t.RequiredPhotos == nil {
		return []string{}
	}
	return t.RequiredPhotos
}

// CreateBatch inserta todas las tareas en un solo viaje (pgx.Batch).
func (r *TaskRepo) CreateBatch(ctx context.Context, tasks []*entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tasks {
		batch.Queue(`
			INSERT INTO tasks (`+taskColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			t.ID, t.ProjectID, t.ProductID, t.LineIndex, t.Title, t.Description, t.Sequence, requiredOf(t),
			t.AssignedTo, t.Status, photosOf(t), t.RejectionReason, t.SubmittedAt, t.CompletedAt, t.VerifiedAt,
			t.VerifiedBy, t.CreatedAt, t.UpdatedAt,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	t, err := scanTask(r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListLineForUpdate bloquea (FOR UPDATE) todas las tareas de la línea en orden de secuencia.
func (r *TaskRepo) ListLineForUpdate(ctx context.Context, projectID string, lineIndex int) ([]*entity.Task, error) {
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE project_id = $1 AND line_index = $2
		ORDER BY sequence
		FOR UPDATE`, projectID, lineIndex)
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = $1`+taskOrder, projectID)
}

func (r *TaskRepo) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, error) {
	statuses := f.Statuses
	if statuses == nil {
		statuses = []string{}
	}
	return r.query(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE (cardinality($1::text[]) = 0 OR status = ANY($1))
		  AND ($2 = '' OR project_id = $2)
		  AND ($3 = '' OR assigned_to = $3)`+taskOrder+`
		LIMIT $4 OFFSET $5`, statuses, f.ProjectID, f.AssignedTo, f.Limit, f.Offset)
}

func (r *TaskRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var out []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update persiste estado, asignado, fotos y marcas de tiempo. Los datos copiados del paso no cambian.
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE tasks SET assigned_to = $2, status = $3, photos = $4, rejection_reason = $5,
			submitted_at = $6, completed_at = $7, verified_at = $8, verified_by = $9, updated_at = $10
		WHERE id = $1`,
		t.ID, t.AssignedTo, t.Status, photosOf(t), t.RejectionReason, t.SubmittedAt, t.CompletedAt,
		t.VerifiedAt, t.VerifiedBy, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
