package postgres

import (
	"gorm.io/gorm"

	"github.com/hasanbasri/attendance-management/internal/audit"
	auditDatamodel "github.com/hasanbasri/attendance-management/internal/core/datamodel/audit"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(l *auditDatamodel.Log) error {
	return r.db.Create(l).Error
}

func (r *AuditRepository) List(filter audit.ListFilter) ([]*auditDatamodel.Log, error) {
	q := r.db.Order("created_at DESC").Limit(filter.Limit)

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var logs []*auditDatamodel.Log
	err := q.Find(&logs).Error
	return logs, err
}
