package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"atelier/internal/auth"
	"atelier/internal/logs"
	"atelier/internal/models"
)

var ErrBadCredentials = errors.New("invalid username or password")

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

// Register hashes the password and stores the user. Username and email must
// be unique.
func (s *UserStore) Register(ctx context.Context, u *models.User, plainPassword string) error {
	if strings.TrimSpace(u.Username) == "" || strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	taken, err := s.ExistsByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email %s", ErrConflict, u.Email)
	}
	taken, err = s.ExistsByUsername(ctx, u.Username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username %s", ErrConflict, u.Username)
	}
	hash, err := auth.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return err
	}
	logs.Logger.Infof("user %s registered with role %s", u.Username, u.Role)
	return nil
}

// Login verifies the password and returns the stored user.
func (s *UserStore) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserStore) All(ctx context.Context) ([]models.User, error) {
	var us []models.User
	err := s.db.WithContext(ctx).Find(&us).Error
	return us, err
}

func (s *UserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *UserStore) ByRole(ctx context.Context, role string) ([]models.User, error) {
	var us []models.User
	err := s.db.WithContext(ctx).Where("role = ?", role).Find(&us).Error
	return us, err
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

// Update applies the partial patch; an included password is re-hashed.
func (s *UserStore) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if err := s.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin account when no ADMIN user exists
// yet. Runs once at startup.
func (s *UserStore) EnsureAdmin(ctx context.Context, username, password, email string) error {
	admins, err := s.ByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		return nil
	}
	u := models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleAdmin,
	}
	if err := s.Register(ctx, &u, password); err != nil {
		return err
	}
	logs.Logger.Warnf("bootstrap admin user %q created", username)
	return nil
}
