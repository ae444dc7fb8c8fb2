package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ragstack/ragserver/pkg/domain/document"
	domainErrors "github.com/ragstack/ragserver/pkg/domain/errors"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{
		db: db,
	}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *document.Document) error {
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (*document.Document, error) {
	var entity document.Document
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("document: %w", err)
	}
	return &entity, nil
}

func (r *DocumentRepository) List(ctx context.Context, offset, limit int) ([]document.Document, error) {
	var docs []document.Document
	err := r.db.WithContext(ctx).Model(&document.Document{}).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *document.Document) error {
	if err := r.db.WithContext(ctx).Save(doc).Error; err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&document.Document{})
	if result.Error != nil {
		return fmt.Errorf("document: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) CountByStatus(ctx context.Context) (map[document.Status]int64, error) {
	type row struct {
		Status document.Status
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&document.Document{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	counts := make(map[document.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
