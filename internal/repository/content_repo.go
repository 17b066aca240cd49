package repository

import (
	"go-cms-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visibility is the declarative predicate for list queries, one tier per
// capability level. Precedence is decided by the service: All wins over
// OwnPlusPublished, and without either tier only published items are shown.
type Visibility struct {
	All              bool
	OwnPlusPublished bool
	UserID           uuid.UUID
}

type ContentQuery struct {
	Title      string
	Category   string
	Status     model.ContentStatus
	Page       int
	PageSize   int
	Visibility Visibility
}

type ContentRepository interface {
	FindByID(id uuid.UUID) (*model.Content, error)
	FindByTitle(title string, excludeID uuid.UUID) (*model.Content, error)
	List(q ContentQuery) ([]model.Content, int64, error)
	Create(content *model.Content) error
	Updates(id uuid.UUID, fields map[string]interface{}) error
	Delete(ids []uuid.UUID, deletedBy string) error
}

type contentRepo struct {
	db *gorm.DB
}

func NewContentRepo(db *gorm.DB) ContentRepository {
	return &contentRepo{db}
}

func (r *contentRepo) FindByID(id uuid.UUID) (*model.Content, error) {
	var content model.Content
	if err := r.db.Preload("Author").Preload("Updater").First(&content, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepo) FindByTitle(title string, excludeID uuid.UUID) (*model.Content, error) {
	var content model.Content
	query := r.db.Where("title = ?", title)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepo) List(q ContentQuery) ([]model.Content, int64, error) {
	query := r.db.Model(&model.Content{})

	switch {
	case q.Visibility.All:
		if q.Status != "" {
			query = query.Where("status = ?", q.Status)
		} else {
			// hide archived by default so the list shows live items
			query = query.Where("status <> ?", model.StatusArchived)
		}
	case q.Visibility.OwnPlusPublished:
		if q.Status != "" {
			query = query.Where(
				"(author_id = ? AND status = ?) OR (author_id <> ? AND status = ?)",
				q.Visibility.UserID, q.Status, q.Visibility.UserID, model.StatusPublished,
			)
		} else {
			query = query.Where("author_id = ? OR status = ?", q.Visibility.UserID, model.StatusPublished)
		}
	default:
		query = query.Where("status = ?", model.StatusPublished)
	}

	if q.Title != "" {
		query = query.Where("title ILIKE ?", "%"+q.Title+"%")
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var contents []model.Content
	err := query.
		Preload("Author").
		Preload("Updater").
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *contentRepo) Create(content *model.Content) error {
	return r.db.Create(content).Error
}

func (r *contentRepo) Updates(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&model.Content{}).Where("id = ?", id).Updates(fields).Error
}

func (r *contentRepo) Delete(ids []uuid.UUID, deletedBy string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Content{}).Where("id IN ?", ids).Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Content{}, "id IN ?", ids).Error
	})
}
