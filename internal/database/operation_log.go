package database

import (
	"context"

	"vending-console/internal/models"
	"vending-console/internal/notice"
	"vending-console/pkg/logging"

	"gorm.io/gorm"
)

const defaultLogLimit = 50

// OperationLogStore persists every notice as an operation log entry
type OperationLogStore struct {
	db *gorm.DB
}

// NewOperationLogStore wraps db
func NewOperationLogStore(db *gorm.DB) *OperationLogStore {
	return &OperationLogStore{db: db}
}

// Notify records n. Storage failures are logged and never reach the caller.
func (s *OperationLogStore) Notify(ctx context.Context, n notice.Notice) {
	entry := models.OperationLog{
		NoticeID:  n.ID,
		Resource:  n.Resource,
		Operation: n.Operation,
		Level:     string(n.Level),
		Message:   n.Message,
		RecordID:  n.RecordID,
	}
	if !n.CreatedAt.IsZero() {
		entry.CreatedAt = n.CreatedAt
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		logging.LogError("database", "Notify", "create operation log", n.ID, err)
	}
}

// Recent lists the newest entries, optionally filtered by resource
func (s *OperationLogStore) Recent(ctx context.Context, resource string, limit int) ([]models.OperationLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	query := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit)
	if resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var logs []models.OperationLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
