package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"atelier/internal/models"
)

type DocumentStore struct{ db *gorm.DB }

func NewDocumentStore(db *gorm.DB) *DocumentStore { return &DocumentStore{db: db} }

func (s *DocumentStore) Add(ctx context.Context, d *models.OrderDocument) error {
	if d.OrderID == 0 {
		return fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if strings.TrimSpace(d.DocumentURL) == "" {
		return fmt.Errorf("%w: document_url is required", ErrValidation)
	}
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *DocumentStore) GetByID(ctx context.Context, id uint) (*models.OrderDocument, error) {
	var d models.OrderDocument
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *DocumentStore) All(ctx context.Context) ([]models.OrderDocument, error) {
	var ds []models.OrderDocument
	err := s.db.WithContext(ctx).Find(&ds).Error
	return ds, err
}

func (s *DocumentStore) ByOrder(ctx context.Context, orderID uint) ([]models.OrderDocument, error) {
	var ds []models.OrderDocument
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&ds).Error
	return ds, err
}

func (s *DocumentStore) Update(ctx context.Context, id uint, patch models.OrderDocumentPatch) (*models.OrderDocument, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.DocumentType != nil {
		d.DocumentType = *patch.DocumentType
	}
	if patch.DocumentURL != nil {
		d.DocumentURL = *patch.DocumentURL
	}
	if patch.UploadedBy != nil {
		d.UploadedBy = *patch.UploadedBy
	}
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DocumentStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.OrderDocument{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
