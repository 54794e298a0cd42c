package service

import (
	"context"
	"errors"
	"fmt"

	"cse_motors/internal/model"
	"cse_motors/internal/repository"
)

var (
	ErrClassificationNotFound = errors.New("classification not found")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrCreateFailed           = errors.New("create failed")
	ErrUpdateFailed           = errors.New("update failed")
)

// InventoryService provides catalogue reads and staff mutations
type InventoryService interface {
	ByClassification(ctx context.Context, classificationID int) (*model.Classification, []model.Inventory, error)
	ListByClassification(ctx context.Context, classificationID int) ([]model.Inventory, error)
	Vehicle(ctx context.Context, id int) (*model.Inventory, error)
	AddClassification(ctx context.Context, name string) error
	AddVehicle(ctx context.Context, item *model.Inventory) error
	UpdateVehicle(ctx context.Context, item *model.Inventory) (*model.Inventory, error)
}

type inventoryService struct {
	classifications repository.ClassificationRepository
	inventory       repository.InventoryRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(classifications repository.ClassificationRepository, inventory repository.InventoryRepository) InventoryService {
	return &inventoryService{classifications: classifications, inventory: inventory}
}

// ByClassification returns a classification and its vehicles. An unknown
// classification is ErrClassificationNotFound; a known one may have none.
func (s *inventoryService) ByClassification(ctx context.Context, classificationID int) (*model.Classification, []model.Inventory, error) {
	classification, err := s.classifications.FindByID(ctx, classificationID)
	if err != nil {
		return nil, nil, err
	}
	if classification == nil {
		return nil, nil, ErrClassificationNotFound
	}
	items, err := s.inventory.FindByClassification(ctx, classificationID)
	if err != nil {
		return nil, nil, err
	}
	return classification, items, nil
}

// ListByClassification returns the vehicles of a classification, never nil
func (s *inventoryService) ListByClassification(ctx context.Context, classificationID int) ([]model.Inventory, error) {
	items, err := s.inventory.FindByClassification(ctx, classificationID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Inventory{}
	}
	return items, nil
}

func (s *inventoryService) Vehicle(ctx context.Context, id int) (*model.Inventory, error) {
	item, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrVehicleNotFound
	}
	return item, nil
}

func (s *inventoryService) AddClassification(ctx context.Context, name string) error {
	n, err := s.classifications.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	if n == 0 {
		return ErrCreateFailed
	}
	return nil
}

// AddVehicle stores a new vehicle, filling in placeholder images
func (s *inventoryService) AddVehicle(ctx context.Context, item *model.Inventory) error {
	item.ApplyImageDefaults()
	n, err := s.inventory.Create(ctx, item)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	if n == 0 {
		return ErrCreateFailed
	}
	return nil
}

// UpdateVehicle overwrites the vehicle row and returns what was stored
func (s *inventoryService) UpdateVehicle(ctx context.Context, item *model.Inventory) (*model.Inventory, error) {
	item.ApplyImageDefaults()
	updated, err := s.inventory.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if updated == nil {
		return nil, ErrUpdateFailed
	}
	return updated, nil
}
