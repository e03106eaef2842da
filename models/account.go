package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID            string           `gorm:"primary_key;size:64" json:"id"`
	ExternalId    *string          `gorm:"uniqueIndex:idx_accounts_external_id;size:128" json:"external_id"`
	Name          string           `gorm:"size:255;not null" json:"name"`
	AccountType   string           `gorm:"size:50" json:"account_type"`
	Status        string           `gorm:"size:50" json:"status"`
	AnnualRevenue *decimal.Decimal `gorm:"type:decimal(20,4)" json:"annual_revenue"`
	Industry      string           `gorm:"size:100" json:"industry"`
	Website       string           `gorm:"size:255" json:"website"`
	Phone         string           `gorm:"size:30" json:"phone"`
	AddressLine1  string           `gorm:"size:255" json:"address_line1"`
	AddressLine2  string           `gorm:"size:255" json:"address_line2"`
	City          string           `gorm:"size:100" json:"city"`
	State         string           `gorm:"size:100" json:"state"`
	PostalCode    string           `gorm:"size:20" json:"postal_code"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// ListAccounts returns the full store snapshot used by the comparison path.
func ListAccounts(ctx context.Context) ([]*Account, error) {
	var accounts []*Account
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
