package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"atelier/internal/models"
)

type NotificationStore struct{ db *gorm.DB }

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Add(ctx context.Context, n *models.Notification) error {
	if n.OrderID == 0 {
		return fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *NotificationStore) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (s *NotificationStore) All(ctx context.Context) ([]models.Notification, error) {
	var ns []models.Notification
	err := s.db.WithContext(ctx).Find(&ns).Error
	return ns, err
}

func (s *NotificationStore) ByOrder(ctx context.Context, orderID uint) ([]models.Notification, error) {
	var ns []models.Notification
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&ns).Error
	return ns, err
}

func (s *NotificationStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
