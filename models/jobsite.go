package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
)

type Jobsite struct {
	ID           string    `gorm:"primary_key;size:64" json:"id"`
	ExternalId   *string   `gorm:"uniqueIndex:idx_jobsites_external_id;size:128" json:"external_id"`
	Name         string    `gorm:"size:255" json:"name"`
	Status       string    `gorm:"size:50" json:"status"`
	AccountId    *string   `gorm:"index;size:64" json:"account_id"`
	ContactId    *string   `gorm:"index;size:64" json:"contact_id"`
	AddressLine1 string    `gorm:"size:255" json:"address_line1"`
	AddressLine2 string    `gorm:"size:255" json:"address_line2"`
	City         string    `gorm:"size:100" json:"city"`
	State        string    `gorm:"size:100" json:"state"`
	PostalCode   string    `gorm:"size:20" json:"postal_code"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func ListJobsites(ctx context.Context) ([]*Jobsite, error) {
	var jobsites []*Jobsite
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("id").Find(&jobsites).Error; err != nil {
		return nil, err
	}
	return jobsites, nil
}
