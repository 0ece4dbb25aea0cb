package repositories

import (
	"context"
	"time"

	"consultly/internal/models"

	"github.com/google/uuid"
)

// TaskRepository runs against a tenant handle, never the central pool.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListDueReminders(ctx context.Context, now time.Time, limit int) ([]*models.Task, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type taskRepo struct {
	db Database
}

func NewTaskRepo(db Database) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = "id, project_id, title, status, due_at, reminder_sent, created_at, updated_at"

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, status, due_at, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		task.ID, task.ProjectID, task.Title, task.Status, task.DueAt, task.ReminderSent)
	return err
}

func (r *taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"
	err := r.db.QueryRow(ctx, query, id).Scan(&task.ID, &task.ProjectID, &task.Title,
		&task.Status, &task.DueAt, &task.ReminderSent, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ListDueReminders returns open tasks that are due and not yet reminded.
func (r *taskRepo) ListDueReminders(ctx context.Context, now time.Time, limit int) ([]*models.Task, error) {
	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE status = 'open' AND reminder_sent = false AND due_at IS NOT NULL AND due_at <= $1
		ORDER BY due_at
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Status,
			&task.DueAt, &task.ReminderSent, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tasks SET reminder_sent = true, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
