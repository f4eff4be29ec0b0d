package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"atelier/internal/logs"
	"atelier/internal/models"
)

type ClientStore struct{ db *gorm.DB }

func NewClientStore(db *gorm.DB) *ClientStore { return &ClientStore{db: db} }

var clientSortColumns = map[string]string{
	"id":      "id",
	"name":    "name",
	"surname": "surname",
	"email":   "email",
	"type":    "type",
	"cui":     "cui",
}

func (s *ClientStore) Add(ctx context.Context, c *models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if strings.TrimSpace(c.Surname) == "" {
		return fmt.Errorf("%w: client surname is required", ErrValidation)
	}
	if c.Email != "" {
		taken, err := s.ExistsByEmail(ctx, c.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email %s", ErrConflict, c.Email)
		}
	}
	if c.CUI != "" {
		taken, err := s.ExistsByCUI(ctx, c.CUI)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: cui %s", ErrConflict, c.CUI)
		}
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	logs.Logger.Infof("client %d created (%s %s)", c.ID, c.Name, c.Surname)
	return nil
}

func (s *ClientStore) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *ClientStore) All(ctx context.Context) ([]models.Client, error) {
	var cs []models.Client
	err := s.db.WithContext(ctx).Find(&cs).Error
	return cs, err
}

func (s *ClientStore) ByType(ctx context.Context, typ string) ([]models.Client, error) {
	var cs []models.Client
	err := s.db.WithContext(ctx).Where("type = ?", typ).Find(&cs).Error
	return cs, err
}

func (s *ClientStore) ByEmail(ctx context.Context, email string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *ClientStore) ByCUI(ctx context.Context, cui string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("cui = ?", cui).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *ClientStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).Count(&n).Error
	return n, err
}

func (s *ClientStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (s *ClientStore) ExistsByCUI(ctx context.Context, cui string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).Where("cui = ?", cui).Count(&n).Error
	return n > 0, err
}

// Filter composes the optional search term and type filter into one query.
// Search matches case-insensitively against name, surname, email, phone and
// cui (OR); the type filter is skipped for "all" or blank.
func (s *ClientStore) Filter(ctx context.Context, searchTerm, typ string, pq PageQuery) (*models.Page[models.Client], error) {
	pq = pq.normalized()
	q := s.db.WithContext(ctx).Model(&models.Client{})

	if typ != "" && typ != "all" {
		q = q.Where("type = ?", typ)
	}
	if strings.TrimSpace(searchTerm) != "" {
		p := "%" + strings.ToLower(searchTerm) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(cui) LIKE ?",
			p, p, p, p, p,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Client
	err := q.Order(pq.orderClause(clientSortColumns)).
		Offset(pq.Page * pq.Size).
		Limit(pq.Size).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return &models.Page[models.Client]{
		Content:       rows,
		TotalElements: total,
		TotalPages:    totalPages(total, pq.Size),
		Number:        pq.Page,
		Size:          pq.Size,
	}, nil
}

// Update applies only the fields present in the patch. Email and CUI are
// re-checked for uniqueness when they change.
func (s *ClientStore) Update(ctx context.Context, id uint, patch models.ClientPatch) (*models.Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && *patch.Email != c.Email {
		if *patch.Email != "" {
			taken, err := s.ExistsByEmail(ctx, *patch.Email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: email %s", ErrConflict, *patch.Email)
			}
		}
		c.Email = *patch.Email
	}
	if patch.CUI != nil && *patch.CUI != c.CUI {
		if *patch.CUI != "" {
			taken, err := s.ExistsByCUI(ctx, *patch.CUI)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: cui %s", ErrConflict, *patch.CUI)
			}
		}
		c.CUI = *patch.CUI
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Surname != nil {
		c.Surname = *patch.Surname
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the client; the ON DELETE CASCADE constraints take every
// owned order and the orders' children with it.
func (s *ClientStore) Delete(ctx context.Context, id uint) error {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(c).Error
}
