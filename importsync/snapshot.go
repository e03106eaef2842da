package importsync

import (
	"context"
	"time"

	"github.com/mmdatafocus/crm_backend/models"
	"github.com/mmdatafocus/crm_backend/reconcile"
)

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func timePtr(t time.Time) *time.Time { return &t }

// Nullable store columns pass through as-is. A NULL money column must stay
// nil on the comparison row, otherwise an omitted payload field would read
// as a change on every run.
func snapshotAccountRow(a *models.Account) *reconcile.AccountRow {
	return &reconcile.AccountRow{
		ID:            a.ID,
		ExternalID:    a.ExternalId,
		Name:          strPtrOrNil(a.Name),
		AccountType:   strPtrOrNil(a.AccountType),
		Status:        strPtrOrNil(a.Status),
		AnnualRevenue: a.AnnualRevenue,
		Industry:      strPtrOrNil(a.Industry),
		Website:       strPtrOrNil(a.Website),
		Phone:         strPtrOrNil(a.Phone),
		AddressLine1:  strPtrOrNil(a.AddressLine1),
		AddressLine2:  strPtrOrNil(a.AddressLine2),
		City:          strPtrOrNil(a.City),
		State:         strPtrOrNil(a.State),
		PostalCode:    strPtrOrNil(a.PostalCode),
		CreatedAt:     timePtr(a.CreatedAt),
	}
}

func snapshotContactRow(c *models.Contact) *reconcile.ContactRow {
	return &reconcile.ContactRow{
		ID:         c.ID,
		ExternalID: c.ExternalId,
		FirstName:  strPtrOrNil(c.FirstName),
		LastName:   strPtrOrNil(c.LastName),
		Email:      strPtrOrNil(c.Email),
		Phone:      strPtrOrNil(c.Phone),
		Mobile:     strPtrOrNil(c.Mobile),
		Title:      strPtrOrNil(c.Title),
		Status:     strPtrOrNil(c.Status),
		AccountID:  c.AccountId,
		CreatedAt:  timePtr(c.CreatedAt),
	}
}

func snapshotJobsiteRow(j *models.Jobsite) *reconcile.JobsiteRow {
	return &reconcile.JobsiteRow{
		ID:           j.ID,
		ExternalID:   j.ExternalId,
		Name:         strPtrOrNil(j.Name),
		Status:       strPtrOrNil(j.Status),
		AccountID:    j.AccountId,
		ContactID:    j.ContactId,
		AddressLine1: strPtrOrNil(j.AddressLine1),
		AddressLine2: strPtrOrNil(j.AddressLine2),
		City:         strPtrOrNil(j.City),
		State:        strPtrOrNil(j.State),
		PostalCode:   strPtrOrNil(j.PostalCode),
		CreatedAt:    timePtr(j.CreatedAt),
	}
}

func snapshotEstimateRow(e *models.Estimate) *reconcile.EstimateRow {
	return &reconcile.EstimateRow{
		ID:            e.ID,
		ExternalID:    e.ExternalId,
		EstimateType:  strPtrOrNil(e.EstimateType),
		ProjectName:   strPtrOrNil(e.ProjectName),
		Division:      strPtrOrNil(e.Division),
		Status:        strPtrOrNil(e.Status),
		AccountID:     e.AccountId,
		ContactID:     e.ContactId,
		TotalPrice:    e.TotalPrice,
		LaborTotal:    e.LaborTotal,
		MaterialTotal: e.MaterialTotal,
		IssuedDate:    e.IssuedDate,
		ApprovedDate:  e.ApprovedDate,
		CreatedAt:     timePtr(e.CreatedAt),
	}
}

// LoadSnapshot pulls the full store state once per run. The comparison then
// works entirely in memory.
func LoadSnapshot(ctx context.Context) (reconcile.ExistingCollections, error) {
	var snapshot reconcile.ExistingCollections

	accounts, err := models.ListAccounts(ctx)
	if err != nil {
		return snapshot, err
	}
	for _, a := range accounts {
		snapshot.Accounts = append(snapshot.Accounts, snapshotAccountRow(a))
	}

	contacts, err := models.ListContacts(ctx)
	if err != nil {
		return snapshot, err
	}
	for _, c := range contacts {
		snapshot.Contacts = append(snapshot.Contacts, snapshotContactRow(c))
	}

	jobsites, err := models.ListJobsites(ctx)
	if err != nil {
		return snapshot, err
	}
	for _, j := range jobsites {
		snapshot.Jobsites = append(snapshot.Jobsites, snapshotJobsiteRow(j))
	}

	estimates, err := models.ListEstimates(ctx)
	if err != nil {
		return snapshot, err
	}
	for _, e := range estimates {
		snapshot.Estimates = append(snapshot.Estimates, snapshotEstimateRow(e))
	}

	return snapshot, nil
}
