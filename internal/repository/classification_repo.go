package repository

import (
	"context"
	"errors"
	"fmt"

	"cse_motors/internal/model"

	"github.com/jackc/pgx/v5"
)

// ClassificationRepository defines operations for classification data
type ClassificationRepository interface {
	List(ctx context.Context) ([]model.Classification, error)
	FindByID(ctx context.Context, id int) (*model.Classification, error)
	Create(ctx context.Context, name string) (int64, error)
}

type classificationRepository struct {
	db DB
}

// NewClassificationRepository creates a new ClassificationRepository
func NewClassificationRepository(db DB) ClassificationRepository {
	return &classificationRepository{db: db}
}

// List returns all classifications ordered by name
func (r *classificationRepository) List(ctx context.Context) ([]model.Classification, error) {
	sql := `SELECT classification_id, classification_name FROM classification ORDER BY classification_name`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer rows.Close()

	var classifications []model.Classification
	for rows.Next() {
		var c model.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan classification row: %w", err)
		}
		classifications = append(classifications, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classification rows: %w", err)
	}
	return classifications, nil
}

// FindByID retrieves a classification, nil when not found
func (r *classificationRepository) FindByID(ctx context.Context, id int) (*model.Classification, error) {
	c := &model.Classification{}
	sql := `SELECT classification_id, classification_name FROM classification WHERE classification_id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find classification by ID: %w", err)
	}
	return c, nil
}

// Create inserts a classification and returns the number of rows inserted
func (r *classificationRepository) Create(ctx context.Context, name string) (int64, error) {
	sql := `INSERT INTO classification (classification_name) VALUES ($1)`
	tag, err := r.db.Exec(ctx, sql, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create classification: %w", err)
	}
	return tag.RowsAffected(), nil
}
