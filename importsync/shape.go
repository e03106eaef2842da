package importsync

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/crm_backend/reconcile"
	"github.com/mmdatafocus/crm_backend/utils"
	"github.com/shopspring/decimal"
)

// internalIdFor assigns stable internal ids so re-importing the same payload
// always targets the same rows. Records with an external id get a derived
// id; records without one keep whatever id the payload carried and the
// committer generates one when that is also empty.
func internalIdFor(entity reconcile.EntityType, row reconcile.Row) string {
	if id := row.InternalKey(); id != "" {
		return id
	}
	if ek := row.ExternalKey(); ek != "" {
		return fmt.Sprintf("ext-%s-%s", entity, ek)
	}
	return ""
}

func strOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func phoneOrNil(p *string) interface{} {
	if p == nil {
		return nil
	}
	return utils.NormalizePhoneNumber(*p)
}

func decOrNil(p *decimal.Decimal) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func timeOrNil(p *time.Time) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func externalIdOrNil(row reconcile.Row) interface{} {
	if ek := row.ExternalKey(); ek != "" {
		return ek
	}
	return nil
}

func ShapeAccounts(rows []*reconcile.AccountRow) []reconcile.RowMap {
	shaped := make([]reconcile.RowMap, 0, len(rows))
	for _, r := range rows {
		shaped = append(shaped, reconcile.RowMap{
			"id":             internalIdFor(reconcile.EntityAccount, r),
			"external_id":    externalIdOrNil(r),
			"name":           strOrNil(r.Name),
			"account_type":   strOrNil(r.AccountType),
			"status":         strOrNil(r.Status),
			"annual_revenue": decOrNil(r.AnnualRevenue),
			"industry":       strOrNil(r.Industry),
			"website":        strOrNil(r.Website),
			"phone":          phoneOrNil(r.Phone),
			"address_line1":  strOrNil(r.AddressLine1),
			"address_line2":  strOrNil(r.AddressLine2),
			"city":           strOrNil(r.City),
			"state":          strOrNil(r.State),
			"postal_code":    strOrNil(r.PostalCode),
		})
	}
	return shaped
}

func ShapeContacts(rows []*reconcile.ContactRow) []reconcile.RowMap {
	shaped := make([]reconcile.RowMap, 0, len(rows))
	for _, r := range rows {
		shaped = append(shaped, reconcile.RowMap{
			"id":          internalIdFor(reconcile.EntityContact, r),
			"external_id": externalIdOrNil(r),
			"first_name":  strOrNil(r.FirstName),
			"last_name":   strOrNil(r.LastName),
			"email":       strOrNil(r.Email),
			"phone":       phoneOrNil(r.Phone),
			"mobile":      phoneOrNil(r.Mobile),
			"title":       strOrNil(r.Title),
			"status":      strOrNil(r.Status),
			"account_id":  strOrNil(r.AccountID),
		})
	}
	return shaped
}

func ShapeJobsites(rows []*reconcile.JobsiteRow) []reconcile.RowMap {
	shaped := make([]reconcile.RowMap, 0, len(rows))
	for _, r := range rows {
		shaped = append(shaped, reconcile.RowMap{
			"id":            internalIdFor(reconcile.EntityJobsite, r),
			"external_id":   externalIdOrNil(r),
			"name":          strOrNil(r.Name),
			"status":        strOrNil(r.Status),
			"account_id":    strOrNil(r.AccountID),
			"contact_id":    strOrNil(r.ContactID),
			"address_line1": strOrNil(r.AddressLine1),
			"address_line2": strOrNil(r.AddressLine2),
			"city":          strOrNil(r.City),
			"state":         strOrNil(r.State),
			"postal_code":   strOrNil(r.PostalCode),
		})
	}
	return shaped
}

func ShapeEstimates(rows []*reconcile.EstimateRow) []reconcile.RowMap {
	shaped := make([]reconcile.RowMap, 0, len(rows))
	for _, r := range rows {
		shaped = append(shaped, reconcile.RowMap{
			"id":             internalIdFor(reconcile.EntityEstimate, r),
			"external_id":    externalIdOrNil(r),
			"estimate_type":  strOrNil(r.EstimateType),
			"project_name":   strOrNil(r.ProjectName),
			"division":       strOrNil(r.Division),
			"status":         strOrNil(r.Status),
			"account_id":     strOrNil(r.AccountID),
			"contact_id":     strOrNil(r.ContactID),
			"total_price":    decOrNil(r.TotalPrice),
			"labor_total":    decOrNil(r.LaborTotal),
			"material_total": decOrNil(r.MaterialTotal),
			"issued_date":    timeOrNil(r.IssuedDate),
			"approved_date":  timeOrNil(r.ApprovedDate),
		})
	}
	return shaped
}

// buildAccountResolver merges store accounts and the accounts of the current
// payload so child records can link to parents either side knows about.
func buildAccountResolver(existing []*reconcile.AccountRow, imported []*reconcile.AccountRow) *reconcile.RefResolver {
	r := reconcile.NewRefResolver()
	for _, a := range existing {
		r.Register(a.InternalKey(), a.ExternalKey())
	}
	for _, a := range imported {
		r.Register(internalIdFor(reconcile.EntityAccount, a), a.ExternalKey())
	}
	return r
}

func buildContactResolver(existing []*reconcile.ContactRow, imported []*reconcile.ContactRow) *reconcile.RefResolver {
	r := reconcile.NewRefResolver()
	for _, c := range existing {
		r.Register(c.InternalKey(), c.ExternalKey())
	}
	for _, c := range imported {
		r.Register(internalIdFor(reconcile.EntityContact, c), c.ExternalKey())
	}
	return r
}
