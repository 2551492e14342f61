package lookups

import (
	"context"
	"errors"

	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/model"
	"gorm.io/gorm"
)

// LookupRepository manages the three named selection-list tables. Issues and
// users reference these names as free text only; deleting an entry never
// touches historical records that mention it.
type LookupRepository struct {
	db *gorm.DB
}

func (r *LookupRepository) create(ctx context.Context, entity interface{}) error {
	err := r.db.WithContext(ctx).Create(entity).Error
	if store.IsConflict(err) {
		return ErrNameTaken
	}
	return store.Translate(err)
}

func (r *LookupRepository) delete(ctx context.Context, entity interface{}, id uint) error {
	ret := r.db.WithContext(ctx).Delete(entity, id)
	if ret.Error != nil {
		return store.Translate(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LookupRepository) CreateCompany(ctx context.Context, name string) (*model.Company, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	company := model.Company{Name: name}
	if err := r.create(ctx, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *LookupRepository) Companies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Order("name").Find(&companies).Error
	return companies, store.Translate(err)
}

func (r *LookupRepository) GetCompany(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &company, store.Translate(err)
}

func (r *LookupRepository) DeleteCompany(ctx context.Context, id uint) error {
	return r.delete(ctx, &model.Company{}, id)
}

func (r *LookupRepository) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	department := model.Department{Name: name}
	if err := r.create(ctx, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *LookupRepository) Departments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := r.db.WithContext(ctx).Order("name").Find(&departments).Error
	return departments, store.Translate(err)
}

func (r *LookupRepository) GetDepartment(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).First(&department, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &department, store.Translate(err)
}

func (r *LookupRepository) DeleteDepartment(ctx context.Context, id uint) error {
	return r.delete(ctx, &model.Department{}, id)
}

func (r *LookupRepository) CreateApplication(ctx context.Context, name string) (*model.Application, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	application := model.Application{Name: name}
	if err := r.create(ctx, &application); err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *LookupRepository) Applications(ctx context.Context) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).Order("name").Find(&applications).Error
	return applications, store.Translate(err)
}

func (r *LookupRepository) GetApplication(ctx context.Context, id uint) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).First(&application, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &application, store.Translate(err)
}

func (r *LookupRepository) DeleteApplication(ctx context.Context, id uint) error {
	return r.delete(ctx, &model.Application{}, id)
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db}
}
