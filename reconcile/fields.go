package reconcile

// Business field lists drive the differ. Adding a column to a row type does
// nothing until it is listed here, which keeps internal columns out of the
// comparison by construction.

var accountFields = []fieldSpec[*AccountRow]{
	{"name", kindString, func(r *AccountRow) any { return r.Name }},
	{"account_type", kindString, func(r *AccountRow) any { return r.AccountType }},
	{"status", kindString, func(r *AccountRow) any { return r.Status }},
	{"annual_revenue", kindNumber, func(r *AccountRow) any { return r.AnnualRevenue }},
	{"industry", kindString, func(r *AccountRow) any { return r.Industry }},
	{"website", kindString, func(r *AccountRow) any { return r.Website }},
	{"phone", kindString, func(r *AccountRow) any { return r.Phone }},
	{"address_line1", kindString, func(r *AccountRow) any { return r.AddressLine1 }},
	{"address_line2", kindString, func(r *AccountRow) any { return r.AddressLine2 }},
	{"city", kindString, func(r *AccountRow) any { return r.City }},
	{"state", kindString, func(r *AccountRow) any { return r.State }},
	{"postal_code", kindString, func(r *AccountRow) any { return r.PostalCode }},
}

var contactFields = []fieldSpec[*ContactRow]{
	{"first_name", kindString, func(r *ContactRow) any { return r.FirstName }},
	{"last_name", kindString, func(r *ContactRow) any { return r.LastName }},
	{"email", kindString, func(r *ContactRow) any { return r.Email }},
	{"phone", kindString, func(r *ContactRow) any { return r.Phone }},
	{"mobile", kindString, func(r *ContactRow) any { return r.Mobile }},
	{"title", kindString, func(r *ContactRow) any { return r.Title }},
	{"status", kindString, func(r *ContactRow) any { return r.Status }},
	{"account_id", kindString, func(r *ContactRow) any { return r.AccountID }},
}

var jobsiteFields = []fieldSpec[*JobsiteRow]{
	{"name", kindString, func(r *JobsiteRow) any { return r.Name }},
	{"status", kindString, func(r *JobsiteRow) any { return r.Status }},
	{"account_id", kindString, func(r *JobsiteRow) any { return r.AccountID }},
	{"contact_id", kindString, func(r *JobsiteRow) any { return r.ContactID }},
	{"address_line1", kindString, func(r *JobsiteRow) any { return r.AddressLine1 }},
	{"address_line2", kindString, func(r *JobsiteRow) any { return r.AddressLine2 }},
	{"city", kindString, func(r *JobsiteRow) any { return r.City }},
	{"state", kindString, func(r *JobsiteRow) any { return r.State }},
	{"postal_code", kindString, func(r *JobsiteRow) any { return r.PostalCode }},
}

var estimateFields = []fieldSpec[*EstimateRow]{
	{"estimate_type", kindString, func(r *EstimateRow) any { return r.EstimateType }},
	{"project_name", kindString, func(r *EstimateRow) any { return r.ProjectName }},
	{"division", kindString, func(r *EstimateRow) any { return r.Division }},
	{"status", kindString, func(r *EstimateRow) any { return r.Status }},
	{"account_id", kindString, func(r *EstimateRow) any { return r.AccountID }},
	{"contact_id", kindString, func(r *EstimateRow) any { return r.ContactID }},
	{"total_price", kindNumber, func(r *EstimateRow) any { return r.TotalPrice }},
	{"labor_total", kindNumber, func(r *EstimateRow) any { return r.LaborTotal }},
	{"material_total", kindNumber, func(r *EstimateRow) any { return r.MaterialTotal }},
	{"issued_date", kindDate, func(r *EstimateRow) any { return r.IssuedDate }},
	{"approved_date", kindDate, func(r *EstimateRow) any { return r.ApprovedDate }},
}
