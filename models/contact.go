package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
)

type Contact struct {
	ID         string    `gorm:"primary_key;size:64" json:"id"`
	ExternalId *string   `gorm:"uniqueIndex:idx_contacts_external_id;size:128" json:"external_id"`
	FirstName  string    `gorm:"size:100" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Email      string    `gorm:"size:255" json:"email"`
	Phone      string    `gorm:"size:30" json:"phone"`
	Mobile     string    `gorm:"size:30" json:"mobile"`
	Title      string    `gorm:"size:100" json:"title"`
	Status     string    `gorm:"size:50" json:"status"`
	AccountId  *string   `gorm:"index;size:64" json:"account_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func ListContacts(ctx context.Context) ([]*Contact, error) {
	var contacts []*Contact
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("id").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
