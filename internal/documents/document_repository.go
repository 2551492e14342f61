package documents

import (
	"context"
	"errors"

	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/model"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	WithTx(tx *gorm.DB) DocumentRepository
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id uint) (*model.Document, error)
	ForIssue(ctx context.Context, issueID uint) ([]model.Document, error)
	Delete(ctx context.Context, id uint) error
}

type documentRepository struct {
	db *gorm.DB
}

func (r *documentRepository) WithTx(tx *gorm.DB) DocumentRepository {
	return NewDocumentRepository(tx)
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return store.Translate(r.db.WithContext(ctx).Create(doc).Error)
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	return &doc, store.Translate(err)
}

func (r *documentRepository) ForIssue(ctx context.Context, issueID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("uploaded_at DESC, id DESC").
		Find(&docs).Error
	return docs, store.Translate(err)
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	ret := r.db.WithContext(ctx).Delete(&model.Document{}, id)
	if ret.Error != nil {
		return store.Translate(ret.Error)
	}
	if ret.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db}
}
