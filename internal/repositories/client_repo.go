package repositories

import (
	"context"

	"consultly/internal/models"

	"github.com/google/uuid"
)

// ClientRepository runs against a tenant handle, never the central pool.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, limit, offset int) ([]*models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientRepo struct {
	db Database
}

func NewClientRepo(db Database) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.Name, client.Email, client.Phone, client.Notes)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Name, &client.Email,
		&client.Phone, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) List(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	query := `
		SELECT id, name, email, phone, notes, created_at, updated_at
		FROM clients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone,
			&client.Notes, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
