package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/utils"
	"gorm.io/gorm"
)

const (
	ImportRunStatusQueued  = "queued"
	ImportRunStatusRunning = "running"
	ImportRunStatusSuccess = "success"
	ImportRunStatusFailed  = "failed"
	ImportRunStatusPartial = "partial"
)

const (
	ImportTriggeredManual = "manual"
	ImportTriggeredRetry  = "retry"
	ImportTriggeredSystem = "system"
)

type ImportRun struct {
	ID             uint       `gorm:"primary_key" json:"id"`
	Status         string     `gorm:"size:20;not null" json:"status"`
	TriggeredBy    string     `gorm:"size:20" json:"triggered_by"`
	PayloadObject  string     `gorm:"size:512" json:"payload_object"`
	DryRun         bool       `gorm:"default:false" json:"dry_run"`
	StatsJSON      []byte     `gorm:"type:json" json:"stats"`
	RecordsCreated int        `json:"records_created"`
	RecordsUpdated int        `json:"records_updated"`
	WarningCount   int        `json:"warning_count"`
	ErrorCount     int        `json:"error_count"`
	ParentRunId    *uint      `gorm:"index" json:"parent_run_id"`
	StartedAt      *time.Time `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at"`
	DurationMs     int64      `json:"duration_ms"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type ImportRunError struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	ImportRunId uint      `gorm:"index;not null" json:"import_run_id"`
	EntityType  string    `gorm:"size:50" json:"entity_type"`
	ExternalId  string    `gorm:"size:128" json:"external_id"`
	ErrorCode   string    `gorm:"size:64" json:"error_code"`
	Message     string    `gorm:"type:text" json:"message"`
	PayloadJSON []byte    `gorm:"type:json" json:"payload"`
	Retryable   bool      `gorm:"default:false" json:"retryable"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func GetImportRun(ctx context.Context, db *gorm.DB, runId uint) (*ImportRun, error) {
	var run ImportRun
	if err := db.WithContext(ctx).Where("id = ?", runId).Take(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &run, nil
}

// CreateImportRun inserts a queued run row for the given payload object.
func CreateImportRun(ctx context.Context, payloadObject string, triggeredBy string, dryRun bool) (*ImportRun, error) {
	run := ImportRun{
		Status:        ImportRunStatusQueued,
		TriggeredBy:   triggeredBy,
		PayloadObject: payloadObject,
		DryRun:        dryRun,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func CreateImportRunError(ctx context.Context, db *gorm.DB, runId uint, entityType string, externalId string, code string, message string, payload []byte, retryable bool) error {
	errRec := ImportRunError{
		ImportRunId: runId,
		EntityType:  entityType,
		ExternalId:  externalId,
		ErrorCode:   code,
		Message:     message,
		PayloadJSON: payload,
		Retryable:   retryable,
	}
	return db.WithContext(ctx).Create(&errRec).Error
}
