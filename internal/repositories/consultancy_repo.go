package repositories

import (
	"context"

	"consultly/internal/models"

	"github.com/google/uuid"
)

type ConsultancyRepository interface {
	Create(ctx context.Context, consultancy *models.Consultancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Consultancy, error)
	List(ctx context.Context, limit, offset int) ([]*models.Consultancy, error)
}

type consultancyRepo struct {
	db Database
}

func NewConsultancyRepo(db Database) ConsultancyRepository {
	return &consultancyRepo{db: db}
}

func (r *consultancyRepo) Create(ctx context.Context, consultancy *models.Consultancy) error {
	query := `
		INSERT INTO consultancies (id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, consultancy.ID, consultancy.Name, consultancy.Status)
	return err
}

func (r *consultancyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Consultancy, error) {
	consultancy := &models.Consultancy{}
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM consultancies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&consultancy.ID, &consultancy.Name,
		&consultancy.Status, &consultancy.CreatedAt, &consultancy.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return consultancy, nil
}

func (r *consultancyRepo) List(ctx context.Context, limit, offset int) ([]*models.Consultancy, error) {
	query := `
		SELECT id, name, status, created_at, updated_at
		FROM consultancies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consultancies []*models.Consultancy
	for rows.Next() {
		consultancy := &models.Consultancy{}
		if err := rows.Scan(&consultancy.ID, &consultancy.Name, &consultancy.Status,
			&consultancy.CreatedAt, &consultancy.UpdatedAt); err != nil {
			return nil, err
		}
		consultancies = append(consultancies, consultancy)
	}
	return consultancies, rows.Err()
}
