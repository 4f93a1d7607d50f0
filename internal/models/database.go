package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel provides common fields for all database models
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// OperationLog records one user-visible outcome of a console operation
type OperationLog struct {
	BaseModel
	NoticeID  string `json:"notice_id" gorm:"uniqueIndex;not null"`
	Resource  string `json:"resource" gorm:"index"`
	Operation string `json:"operation" gorm:"index"`
	Level     string `json:"level" gorm:"not null"`
	Message   string `json:"message" gorm:"type:varchar(500)"`
	RecordID  int64  `json:"record_id"`
}
