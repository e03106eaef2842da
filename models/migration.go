package models

import (
	"log"

	"github.com/mmdatafocus/crm_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Account{}, &Contact{}, &Jobsite{}, &Estimate{},
		&ImportRun{}, &ImportRunError{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
