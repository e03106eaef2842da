package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/shopspring/decimal"
)

type Estimate struct {
	ID            string           `gorm:"primary_key;size:64" json:"id"`
	ExternalId    *string          `gorm:"uniqueIndex:idx_estimates_external_id;size:128" json:"external_id"`
	EstimateType  string           `gorm:"size:50" json:"estimate_type"`
	ProjectName   string           `gorm:"size:255" json:"project_name"`
	Division      string           `gorm:"size:100" json:"division"`
	Status        string           `gorm:"size:50" json:"status"`
	AccountId     *string          `gorm:"index;size:64" json:"account_id"`
	ContactId     *string          `gorm:"index;size:64" json:"contact_id"`
	TotalPrice    *decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_price"`
	LaborTotal    *decimal.Decimal `gorm:"type:decimal(20,4)" json:"labor_total"`
	MaterialTotal *decimal.Decimal `gorm:"type:decimal(20,4)" json:"material_total"`
	IssuedDate    *time.Time       `json:"issued_date"`
	ApprovedDate  *time.Time       `json:"approved_date"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func ListEstimates(ctx context.Context) ([]*Estimate, error) {
	var estimates []*Estimate
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("id").Find(&estimates).Error; err != nil {
		return nil, err
	}
	return estimates, nil
}
