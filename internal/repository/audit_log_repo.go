package repository

import (
	"time"

	"go-cms-admin/internal/model"

	"gorm.io/gorm"
)

type AuditLogQuery struct {
	Module    string
	Operator  string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	PageSize  int
}

type AuditLogRepository interface {
	Record(entry *model.AuditLog) error
	List(q AuditLogQuery) ([]model.AuditLog, int64, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

func (r *auditLogRepo) Record(entry *model.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditLogRepo) List(q AuditLogQuery) ([]model.AuditLog, int64, error) {
	query := r.db.Model(&model.AuditLog{})

	if q.Module != "" {
		query = query.Where("module = ?", q.Module)
	}
	if q.Operator != "" {
		query = query.Where("operator = ?", q.Operator)
	}
	if q.StartTime != nil && q.EndTime != nil {
		query = query.Where("created_at BETWEEN ? AND ?", q.StartTime, q.EndTime)
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

	var entries []model.AuditLog
	err := query.
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
