package repository

import (
	"context"
	"errors"
	"fmt"

	"cse_motors/internal/model"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository defines operations for inventory data
type InventoryRepository interface {
	FindByClassification(ctx context.Context, classificationID int) ([]model.Inventory, error)
	FindByID(ctx context.Context, id int) (*model.Inventory, error)
	Create(ctx context.Context, item *model.Inventory) (int64, error)
	Update(ctx context.Context, item *model.Inventory) (*model.Inventory, error)
}

type inventoryRepository struct {
	db DB
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// inv_year is char(4) in some schemas, so numeric columns are cast explicitly.
const inventorySelect = `SELECT i.inv_id, i.classification_id, c.classification_name, i.inv_make, i.inv_model,
            CAST(i.inv_year AS INTEGER), i.inv_description, i.inv_image, i.inv_thumbnail,
            CAST(i.inv_price AS DOUBLE PRECISION), CAST(i.inv_miles AS DOUBLE PRECISION), i.inv_color
            FROM inventory i JOIN classification c ON i.classification_id = c.classification_id`

func scanInventory(row pgx.Row) (*model.Inventory, error) {
	i := &model.Inventory{}
	err := row.Scan(
		&i.ID, &i.ClassificationID, &i.ClassificationName, &i.Make, &i.Model,
		&i.Year, &i.Description, &i.Image, &i.Thumbnail, &i.Price, &i.Miles, &i.Color,
	)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// FindByClassification lists the vehicles of one classification
func (r *inventoryRepository) FindByClassification(ctx context.Context, classificationID int) ([]model.Inventory, error) {
	sql := inventorySelect + ` WHERE i.classification_id = $1 ORDER BY i.inv_make, i.inv_model`
	rows, err := r.db.Query(ctx, sql, classificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory by classification: %w", err)
	}
	defer rows.Close()

	items := []model.Inventory{}
	for rows.Next() {
		item, err := scanInventory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory rows: %w", err)
	}
	return items, nil
}

// FindByID retrieves a vehicle, nil when not found
func (r *inventoryRepository) FindByID(ctx context.Context, id int) (*model.Inventory, error) {
	item, err := scanInventory(r.db.QueryRow(ctx, inventorySelect+` WHERE i.inv_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find inventory by ID: %w", err)
	}
	return item, nil
}

// Create inserts a vehicle and returns the number of rows inserted
func (r *inventoryRepository) Create(ctx context.Context, i *model.Inventory) (int64, error) {
	sql := `INSERT INTO inventory (classification_id, inv_make, inv_model, inv_year, inv_description,
            inv_image, inv_thumbnail, inv_price, inv_miles, inv_color)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	tag, err := r.db.Exec(ctx, sql,
		i.ClassificationID, i.Make, i.Model, i.Year, i.Description,
		i.Image, i.Thumbnail, i.Price, i.Miles, i.Color,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create inventory: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Update overwrites every column of the vehicle and returns the stored row,
// nil when the id does not exist
func (r *inventoryRepository) Update(ctx context.Context, i *model.Inventory) (*model.Inventory, error) {
	sql := `UPDATE inventory
            SET inv_make = $1, inv_model = $2, inv_description = $3, inv_image = $4, inv_thumbnail = $5,
                inv_price = $6, inv_year = $7, inv_miles = $8, inv_color = $9, classification_id = $10
            WHERE inv_id = $11
            RETURNING inv_id, classification_id, inv_make, inv_model, CAST(inv_year AS INTEGER), inv_description,
                inv_image, inv_thumbnail, CAST(inv_price AS DOUBLE PRECISION), CAST(inv_miles AS DOUBLE PRECISION), inv_color`
	updated := &model.Inventory{}
	err := r.db.QueryRow(ctx, sql,
		i.Make, i.Model, i.Description, i.Image, i.Thumbnail,
		i.Price, i.Year, i.Miles, i.Color, i.ClassificationID, i.ID,
	).Scan(
		&updated.ID, &updated.ClassificationID, &updated.Make, &updated.Model, &updated.Year, &updated.Description,
		&updated.Image, &updated.Thumbnail, &updated.Price, &updated.Miles, &updated.Color,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return updated, nil
}
