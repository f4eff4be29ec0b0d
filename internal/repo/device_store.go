package repo

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"atelier/internal/logs"
	"atelier/internal/models"
)

type DeviceStore struct {
	db     *gorm.DB
	orders *OrderStore
	logs   *LogStore
}

func NewDeviceStore(db *gorm.DB, orders *OrderStore, logStore *LogStore) *DeviceStore {
	return &DeviceStore{db: db, orders: orders, logs: logStore}
}

func (s *DeviceStore) Add(ctx context.Context, d *models.Device) error {
	if d.OrderID == 0 {
		return fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if d.Status == "" {
		d.Status = models.StatusPreluat
	}
	if !models.ValidStatus(d.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, d.Status)
	}
	taken, err := s.ExistsBySerial(ctx, d.SerialNumber)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: serial number %s", ErrConflict, d.SerialNumber)
	}
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *DeviceStore) GetByID(ctx context.Context, id uint) (*models.Device, error) {
	var d models.Device
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *DeviceStore) All(ctx context.Context) ([]models.Device, error) {
	var ds []models.Device
	err := s.db.WithContext(ctx).Find(&ds).Error
	return ds, err
}

func (s *DeviceStore) ByOrder(ctx context.Context, orderID uint) ([]models.Device, error) {
	var ds []models.Device
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&ds).Error
	return ds, err
}

func (s *DeviceStore) BySerial(ctx context.Context, serial string) (*models.Device, error) {
	var d models.Device
	if err := s.db.WithContext(ctx).Where("serial_number = ?", serial).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *DeviceStore) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("serial_number = ?", serial).Count(&n).Error
	return n > 0, err
}

// Update applies the partial patch. A status change carried in the patch
// triggers the order synchronization the same way UpdateStatus does.
func (s *DeviceStore) Update(ctx context.Context, id uint, patch models.DevicePatch) (*models.Device, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
	}

	var out *models.Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Device
		if err := tx.First(&d, id).Error; err != nil {
			return notFound(err)
		}
		previousStatus := d.Status

		if patch.SerialNumber != nil && *patch.SerialNumber != d.SerialNumber {
			var n int64
			if err := tx.Model(&models.Device{}).
				Where("serial_number = ?", *patch.SerialNumber).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: serial number %s", ErrConflict, *patch.SerialNumber)
			}
			d.SerialNumber = *patch.SerialNumber
		}
		if patch.Brand != nil {
			d.Brand = *patch.Brand
		}
		if patch.Model != nil {
			d.Model = *patch.Model
		}
		if patch.Accessories != nil {
			d.Accessories = datatypes.NewJSONSlice(*patch.Accessories)
		}
		if patch.Note != nil {
			d.Note = *patch.Note
		}
		if patch.ToDo != nil {
			d.ToDo = *patch.ToDo
		}
		if patch.Credential != nil {
			d.Credential = *patch.Credential
		}
		if patch.LicenseKey != nil {
			d.LicenseKey = *patch.LicenseKey
		}
		if patch.Status != nil {
			d.Status = *patch.Status
		}

		if err := tx.Save(&d).Error; err != nil {
			return err
		}
		if patch.Status != nil && *patch.Status != previousStatus {
			if err := s.synchronizeOrder(tx, d.OrderID); err != nil {
				return err
			}
		}
		out = &d
		return nil
	})
	return out, err
}

// UpdateStatus validates the status before any write, records the change in
// the order's audit trail and re-evaluates the owning order.
func (s *DeviceStore) UpdateStatus(ctx context.Context, id uint, status string) (*models.Device, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var out *models.Device
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Device
		if err := tx.First(&d, id).Error; err != nil {
			return notFound(err)
		}
		previousStatus := d.Status
		d.Status = status
		if err := tx.Save(&d).Error; err != nil {
			return err
		}

		var o models.Order
		if err := tx.First(&o, d.OrderID).Error; err != nil {
			return notFound(err)
		}
		msg := fmt.Sprintf("Device #%d (%s %s) status changed to '%s'",
			d.ID, d.Brand, d.Model, status)
		if err := s.logs.append(tx, o.ID, o.UserID, msg); err != nil {
			return err
		}

		if status != previousStatus {
			if err := s.synchronizeOrder(tx, d.OrderID); err != nil {
				return err
			}
		}
		logs.Logger.Infof("device %d status %s -> %s", d.ID, previousStatus, status)
		out = &d
		return nil
	})
	return out, err
}

// synchronizeOrder derives the order status from its devices:
// every device FINALIZAT makes the order FINALIZAT, otherwise any device
// IN_LUCRU makes it IN_LUCRU. Other combinations leave the order as it is;
// the rule is intentionally partial.
func (s *DeviceStore) synchronizeOrder(tx *gorm.DB, orderID uint) error {
	var devices []models.Device
	if err := tx.Where("order_id = ?", orderID).Find(&devices).Error; err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	allFinished := true
	anyInProgress := false
	for i := range devices {
		if devices[i].Status != models.StatusFinalizat {
			allFinished = false
		}
		if devices[i].Status == models.StatusInLucru {
			anyInProgress = true
		}
	}

	switch {
	case allFinished:
		_, err := s.orders.updateStatusTx(tx, orderID, models.StatusFinalizat)
		return err
	case anyInProgress:
		_, err := s.orders.updateStatusTx(tx, orderID, models.StatusInLucru)
		return err
	default:
		return nil
	}
}

// UpdateAccessories replaces the accessory list.
func (s *DeviceStore) UpdateAccessories(ctx context.Context, id uint, accessories []string) (*models.Device, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Accessories = datatypes.NewJSONSlice(accessories)
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// SaveQR persists the refreshed link/path fields after QR (re)generation.
func (s *DeviceStore) SaveQR(ctx context.Context, id uint, link, path string) error {
	return s.db.WithContext(ctx).Model(&models.Device{}).Where("id = ?", id).
		Updates(map[string]any{
			"service_qr_link": link,
			"service_qr_path": path,
		}).Error
}

func (s *DeviceStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Device{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
