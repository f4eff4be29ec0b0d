package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"atelier/internal/logs"
	"atelier/internal/models"
)

type OrderStore struct {
	db   *gorm.DB
	logs *LogStore
}

func NewOrderStore(db *gorm.DB, logStore *LogStore) *OrderStore {
	return &OrderStore{db: db, logs: logStore}
}

var orderSortColumns = map[string]string{
	"id":        "orders.id",
	"status":    "orders.status",
	"createdAt": "orders.created_at",
}

// Add creates the order with its nested devices and appends the creation
// log entry in the same transaction.
func (s *OrderStore) Add(ctx context.Context, o *models.Order) error {
	if o.ClientID == 0 {
		return fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	if o.UserID == 0 {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if o.Status == "" {
		o.Status = models.StatusPreluat
	}
	if !models.ValidStatus(o.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, o.Status)
	}
	for i := range o.Devices {
		if o.Devices[i].Status == "" {
			o.Devices[i].Status = models.StatusPreluat
		}
		if !models.ValidStatus(o.Devices[i].Status) {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, o.Devices[i].Status)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, o.ClientID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		msg := fmt.Sprintf("Order created with %d device(s) for client %s %s",
			len(o.Devices), client.Name, client.Surname)
		if err := s.logs.append(tx, o.ID, o.UserID, msg); err != nil {
			return err
		}
		logs.Logger.Infof("order %d created for client %d", o.ID, o.ClientID)
		return nil
	})
}

func (s *OrderStore) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Devices").
		First(&o, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *OrderStore) All(ctx context.Context) ([]models.Order, error) {
	var os []models.Order
	err := s.db.WithContext(ctx).Preload("Client").Preload("Devices").Find(&os).Error
	return os, err
}

// Details returns the full admin view: client, devices and the audit trail.
func (s *OrderStore) Details(ctx context.Context, id uint) (*models.OrderDetail, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	trail, err := s.logs.ByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LogEntry, 0, len(trail))
	for i := range trail {
		entries = append(entries, models.LogEntry{
			ID:        trail[i].ID,
			Message:   trail[i].Message,
			Username:  trail[i].Username(),
			Timestamp: trail[i].CreatedAt,
		})
	}
	return &models.OrderDetail{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    o.Status,
		Client:    o.Client,
		Devices:   o.Devices,
		Logs:      entries,
	}, nil
}

// ClientView is the public projection served to a client who scanned the
// order QR code.
func (s *OrderStore) ClientView(ctx context.Context, id uint) (*models.ClientOrderDetails, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &models.ClientOrderDetails{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Status:    o.Status,
		Devices:   make([]models.ClientDeviceView, 0, len(o.Devices)),
	}
	if o.Client != nil {
		view.ClientName = o.Client.Name + " " + o.Client.Surname
		view.Phone = o.Client.Phone
		view.Email = o.Client.Email
	}
	for i := range o.Devices {
		d := &o.Devices[i]
		view.Devices = append(view.Devices, models.ClientDeviceView{
			ID:           d.ID,
			Brand:        d.Brand,
			Model:        d.Model,
			SerialNumber: d.SerialNumber,
			Issue:        d.Note,
			Status:       d.Status,
			Notes:        d.ToDo,
		})
	}
	return view, nil
}

// idAsText renders the order id as a string for substring search. MySQL
// rejects CAST(... AS TEXT) and wants CHAR; sqlite and postgres take TEXT.
func idAsText(dialect string) string {
	if dialect == "mysql" {
		return "CAST(orders.id AS CHAR)"
	}
	return "CAST(orders.id AS TEXT)"
}

// Filter composes search term, status filter and the device existence
// condition, all ANDed. Absent parameters degrade to match-all.
func (s *OrderStore) Filter(ctx context.Context, searchTerm, status string, deviceID *uint, pq PageQuery) (*models.Page[models.OrderListItem], error) {
	pq = pq.normalized()
	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Joins("LEFT JOIN clients ON clients.id = orders.client_id")

	if status != "" && status != "all" {
		q = q.Where("orders.status = ?", status)
	}
	if strings.TrimSpace(searchTerm) != "" {
		p := "%" + strings.ToLower(searchTerm) + "%"
		q = q.Where(
			idAsText(s.db.Dialector.Name())+" LIKE ? OR LOWER(clients.name) LIKE ? OR LOWER(clients.surname) LIKE ? OR LOWER(orders.status) LIKE ?",
			p, p, p, p,
		)
	}
	if deviceID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM devices WHERE devices.order_id = orders.id AND devices.id = ?)", *deviceID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := q.Preload("Client").Preload("Devices").
		Order(pq.orderClause(orderSortColumns)).
		Offset(pq.Page * pq.Size).
		Limit(pq.Size).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderListItem, 0, len(rows))
	for i := range rows {
		o := &rows[i]
		name := ""
		if o.Client != nil {
			name = o.Client.Name + " " + o.Client.Surname
		}
		items = append(items, models.OrderListItem{
			ID:          o.ID,
			ClientName:  name,
			CreatedAt:   o.CreatedAt,
			Status:      o.Status,
			DeviceCount: int64(len(o.Devices)),
		})
	}
	return &models.Page[models.OrderListItem]{
		Content:       items,
		TotalElements: total,
		TotalPages:    totalPages(total, pq.Size),
		Number:        pq.Page,
		Size:          pq.Size,
	}, nil
}

// Update applies the partial patch; a status change gets its own transition
// log entry, any other change a generic one.
func (s *OrderStore) Update(ctx context.Context, id uint, patch models.OrderPatch) (*models.Order, error) {
	var out *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, id).Error; err != nil {
			return notFound(err)
		}
		oldStatus := o.Status
		statusChanged := false

		if patch.ClientID != nil {
			o.ClientID = *patch.ClientID
		}
		if patch.UserID != nil {
			o.UserID = *patch.UserID
		}
		if patch.Status != nil && *patch.Status != oldStatus {
			if !models.ValidStatus(*patch.Status) {
				return fmt.Errorf("%w: %s", ErrInvalidStatus, *patch.Status)
			}
			o.Status = *patch.Status
			statusChanged = true
		}
		if err := tx.Save(&o).Error; err != nil {
			return err
		}

		msg := "Order details updated"
		if statusChanged {
			msg = fmt.Sprintf("Status changed from '%s' to '%s'", oldStatus, o.Status)
		}
		if err := s.logs.append(tx, o.ID, o.UserID, msg); err != nil {
			return err
		}
		out = &o
		return nil
	})
	return out, err
}

// UpdateStatus writes the new status and its transition log entry. Equal
// status is a no-op without a log line.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	var out *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.updateStatusTx(tx, id, status)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

func (s *OrderStore) updateStatusTx(tx *gorm.DB, id uint, status string) (*models.Order, error) {
	var o models.Order
	if err := tx.First(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	if o.Status == status {
		return &o, nil
	}
	oldStatus := o.Status
	o.Status = status
	if err := tx.Save(&o).Error; err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Status changed from '%s' to '%s'", oldStatus, status)
	if err := s.logs.append(tx, o.ID, o.UserID, msg); err != nil {
		return nil, err
	}
	logs.Logger.Infof("order %d status %s -> %s", o.ID, oldStatus, status)
	return &o, nil
}

// Deliver marks a finished order as handed back to the client. Only valid
// from FINALIZAT; the terminal PREDAT status cascades to every device and
// exactly one log entry records the handover.
func (s *OrderStore) Deliver(ctx context.Context, id uint) (*models.Order, error) {
	var out *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Preload("Devices").First(&o, id).Error; err != nil {
			return notFound(err)
		}
		if o.Status != models.StatusFinalizat {
			return fmt.Errorf("%w: order must be FINALIZAT to be delivered", ErrInvalidState)
		}
		o.Status = models.StatusPredat
		if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).
			Update("status", models.StatusPredat).Error; err != nil {
			return err
		}
		if len(o.Devices) > 0 {
			if err := tx.Model(&models.Device{}).Where("order_id = ?", o.ID).
				Update("status", models.StatusPredat).Error; err != nil {
				return err
			}
			for i := range o.Devices {
				o.Devices[i].Status = models.StatusPredat
			}
		}
		msg := fmt.Sprintf("Order marked as delivered to client with %d device(s)", len(o.Devices))
		if err := s.logs.append(tx, o.ID, o.UserID, msg); err != nil {
			return err
		}
		logs.Logger.Infof("order %d delivered", o.ID)
		out = &o
		return nil
	})
	return out, err
}

// CanDeliver reports whether the order is in the one status the deliver
// operation accepts. An unknown id yields false, not an error.
func (s *OrderStore) CanDeliver(ctx context.Context, id uint) (bool, error) {
	var o models.Order
	err := s.db.WithContext(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return o.Status == models.StatusFinalizat, nil
}

func (s *OrderStore) ActiveCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("status <> ?", models.StatusPredat).
		Count(&n).Error
	return n, err
}

// SaveQR persists the refreshed link/path fields after QR (re)generation.
func (s *OrderStore) SaveQR(ctx context.Context, id uint, link, path string) error {
	return s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{
			"client_qr_link": link,
			"client_qr_path": path,
		}).Error
}

// Delete removes the order and its children. The preloaded row is returned
// so callers can clean up QR artifacts on disk.
func (s *OrderStore) Delete(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Order{}, id).Error; err != nil {
		return nil, err
	}
	return o, nil
}
