package repo

import (
	"context"

	"gorm.io/gorm"

	"atelier/internal/models"
)

// LogStore is the append-only audit trail. There is deliberately no update
// method; entries are immutable once written.
type LogStore struct{ db *gorm.DB }

func NewLogStore(db *gorm.DB) *LogStore { return &LogStore{db: db} }

// append writes an entry on the given handle so callers inside a
// transaction commit the entry together with their own writes.
func (s *LogStore) append(tx *gorm.DB, orderID, userID uint, message string) error {
	entry := models.OrderLog{
		OrderID: orderID,
		UserID:  userID,
		Message: message,
	}
	return tx.Create(&entry).Error
}

func (s *LogStore) Append(ctx context.Context, orderID, userID uint, message string) error {
	return s.append(s.db.WithContext(ctx), orderID, userID, message)
}

func (s *LogStore) GetByID(ctx context.Context, id uint) (*models.OrderLog, error) {
	var l models.OrderLog
	if err := s.db.WithContext(ctx).Preload("User").First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

func (s *LogStore) All(ctx context.Context) ([]models.OrderLog, error) {
	var ls []models.OrderLog
	err := s.db.WithContext(ctx).Preload("User").Find(&ls).Error
	return ls, err
}

func (s *LogStore) ByOrder(ctx context.Context, orderID uint) ([]models.OrderLog, error) {
	var ls []models.OrderLog
	err := s.db.WithContext(ctx).Preload("User").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&ls).Error
	return ls, err
}

func (s *LogStore) CountByOrder(ctx context.Context, orderID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.OrderLog{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

// Delete exists for explicit admin cleanup only.
func (s *LogStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.OrderLog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
