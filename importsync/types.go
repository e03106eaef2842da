package importsync

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/crm_backend/reconcile"
)

var payloadValidator = validator.New()

// ImportPayload is the staged export file, one JSON document with all four
// collections. Absent collections mean "nothing of that type", not "delete".
type ImportPayload struct {
	Source     string                   `json:"source" validate:"required"`
	ExportedAt string                   `json:"exported_at"`
	Accounts   []*reconcile.AccountRow  `json:"accounts" validate:"dive,required"`
	Contacts   []*reconcile.ContactRow  `json:"contacts" validate:"dive,required"`
	Jobsites   []*reconcile.JobsiteRow  `json:"jobsites" validate:"dive,required"`
	Estimates  []*reconcile.EstimateRow `json:"estimates" validate:"dive,required"`
}

func (p *ImportPayload) Collections() reconcile.ImportCollections {
	return reconcile.ImportCollections{
		Accounts:  p.Accounts,
		Contacts:  p.Contacts,
		Jobsites:  p.Jobsites,
		Estimates: p.Estimates,
	}
}

func DecodePayload(raw []byte) (*ImportPayload, error) {
	var payload ImportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if err := payloadValidator.Struct(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

type ImportPubSubPayload struct {
	RunId uint `json:"run_id"`
}

// runStats is what lands in import_runs.stats_json.
type runStats struct {
	Accounts  entityStats `json:"accounts"`
	Contacts  entityStats `json:"contacts"`
	Jobsites  entityStats `json:"jobsites"`
	Estimates entityStats `json:"estimates"`
	Orphans   int         `json:"orphans"`
	Warnings  int         `json:"warnings"`
}

type entityStats struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Orphaned  int `json:"orphaned"`
}
