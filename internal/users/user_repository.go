package users

import (
	"context"
	"errors"

	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, id uint, columns map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, store.Translate(err)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, store.Translate(err)
}

// List returns all users ordered by username. The password hash is not part
// of the projection.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "role", "company", "department", "created_at").
		Order("username").
		Find(&users).Error
	return users, store.Translate(err)
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if store.IsConflict(err) {
		return ErrUsernameTaken
	}
	return store.Translate(err)
}

func (r *userRepository) Updates(ctx context.Context, id uint, columns map[string]interface{}) error {
	ret := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(columns)
	if store.IsConflict(ret.Error) {
		return ErrUsernameTaken
	}
	if ret.Error != nil {
		return store.Translate(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	ret := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if ret.Error != nil {
		return store.Translate(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}
