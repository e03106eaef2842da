package reconcile

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntityType string

const (
	EntityAccount  EntityType = "account"
	EntityContact  EntityType = "contact"
	EntityJobsite  EntityType = "jobsite"
	EntityEstimate EntityType = "estimate"
)

// Row is the shape shared by imported records and store snapshots.
// ExternalKey returns "" when the record never received a source-system id.
type Row interface {
	InternalKey() string
	ExternalKey() string
	CreatedTime() *time.Time
}

// lookupKey matches records by external id, falling back to the internal id
// only when no external id exists. Names and addresses are never used for
// identity.
func lookupKey(r Row) string {
	if ek := r.ExternalKey(); ek != "" {
		return ek
	}
	return r.InternalKey()
}

type AccountRow struct {
	ID            string           `json:"id"`
	ExternalID    *string          `json:"external_id"`
	Name          *string          `json:"name"`
	AccountType   *string          `json:"account_type"`
	Status        *string          `json:"status"`
	AnnualRevenue *decimal.Decimal `json:"annual_revenue"`
	Industry      *string          `json:"industry"`
	Website       *string          `json:"website"`
	Phone         *string          `json:"phone"`
	AddressLine1  *string          `json:"address_line1"`
	AddressLine2  *string          `json:"address_line2"`
	City          *string          `json:"city"`
	State         *string          `json:"state"`
	PostalCode    *string          `json:"postal_code"`
	CreatedAt     *time.Time       `json:"created_at"`
}

func (r *AccountRow) InternalKey() string     { return r.ID }
func (r *AccountRow) CreatedTime() *time.Time { return r.CreatedAt }
func (r *AccountRow) ExternalKey() string {
	if r.ExternalID == nil {
		return ""
	}
	return *r.ExternalID
}

type ContactRow struct {
	ID         string     `json:"id"`
	ExternalID *string    `json:"external_id"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Mobile     *string    `json:"mobile"`
	Title      *string    `json:"title"`
	Status     *string    `json:"status"`
	AccountID  *string    `json:"account_id"`
	CreatedAt  *time.Time `json:"created_at"`
}

func (r *ContactRow) InternalKey() string     { return r.ID }
func (r *ContactRow) CreatedTime() *time.Time { return r.CreatedAt }
func (r *ContactRow) ExternalKey() string {
	if r.ExternalID == nil {
		return ""
	}
	return *r.ExternalID
}

type JobsiteRow struct {
	ID           string     `json:"id"`
	ExternalID   *string    `json:"external_id"`
	Name         *string    `json:"name"`
	Status       *string    `json:"status"`
	AccountID    *string    `json:"account_id"`
	ContactID    *string    `json:"contact_id"`
	AddressLine1 *string    `json:"address_line1"`
	AddressLine2 *string    `json:"address_line2"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	PostalCode   *string    `json:"postal_code"`
	CreatedAt    *time.Time `json:"created_at"`
}

func (r *JobsiteRow) InternalKey() string     { return r.ID }
func (r *JobsiteRow) CreatedTime() *time.Time { return r.CreatedAt }
func (r *JobsiteRow) ExternalKey() string {
	if r.ExternalID == nil {
		return ""
	}
	return *r.ExternalID
}

type EstimateRow struct {
	ID            string           `json:"id"`
	ExternalID    *string          `json:"external_id"`
	EstimateType  *string          `json:"estimate_type"`
	ProjectName   *string          `json:"project_name"`
	Division      *string          `json:"division"`
	Status        *string          `json:"status"`
	AccountID     *string          `json:"account_id"`
	ContactID     *string          `json:"contact_id"`
	TotalPrice    *decimal.Decimal `json:"total_price"`
	LaborTotal    *decimal.Decimal `json:"labor_total"`
	MaterialTotal *decimal.Decimal `json:"material_total"`
	IssuedDate    *time.Time       `json:"issued_date"`
	ApprovedDate  *time.Time       `json:"approved_date"`
	CreatedAt     *time.Time       `json:"created_at"`
}

func (r *EstimateRow) InternalKey() string     { return r.ID }
func (r *EstimateRow) CreatedTime() *time.Time { return r.CreatedAt }
func (r *EstimateRow) ExternalKey() string {
	if r.ExternalID == nil {
		return ""
	}
	return *r.ExternalID
}

// ImportCollections is one parsed import payload. Absent collections are
// treated as empty.
type ImportCollections struct {
	Accounts  []*AccountRow
	Contacts  []*ContactRow
	Jobsites  []*JobsiteRow
	Estimates []*EstimateRow
}

// ExistingCollections is a snapshot of the store taken before comparison.
type ExistingCollections struct {
	Accounts  []*AccountRow
	Contacts  []*ContactRow
	Jobsites  []*JobsiteRow
	Estimates []*EstimateRow
}

type WarningCode string

const (
	WarnDuplicateExternalId WarningCode = "duplicate_external_id"
	WarnOrphanedRecord      WarningCode = "orphaned_record"
	WarnDanglingReference   WarningCode = "dangling_reference"
	WarnInsertSkipped       WarningCode = "insert_skipped"
	WarnUpdateFailed        WarningCode = "update_failed"
)

// Warning is an informational condition attached to a run's report.
// Warnings are aggregated and returned, never raised as errors.
type Warning struct {
	Code       WarningCode `json:"code"`
	EntityType EntityType  `json:"entity_type"`
	RecordKey  string      `json:"record_key"`
	Field      string      `json:"field,omitempty"`
	Value      string      `json:"value,omitempty"`
	Message    string      `json:"message"`
}

// Difference is one changed business field between an imported record and
// its matched existing record, with both raw values.
type Difference struct {
	EntityType EntityType `json:"entity_type"`
	RecordKey  string     `json:"record_key"`
	Field      string     `json:"field"`
	Imported   any        `json:"imported"`
	Existing   any        `json:"existing"`
}

// Orphan is an existing store record whose external id no longer appears in
// the current import. Classification only; nothing is deleted.
type Orphan[P Row] struct {
	Record     P          `json:"record"`
	Provenance Provenance `json:"provenance"`
}

// EntityComparison is the per-entity-type slice of a comparison report.
type EntityComparison[P Row] struct {
	EntityType  EntityType   `json:"entity_type"`
	New         []P          `json:"new"`
	Updated     []P          `json:"updated"`
	Unchanged   []P          `json:"unchanged"`
	Orphaned    []*Orphan[P] `json:"orphaned"`
	Differences []Difference `json:"differences"`
	Warnings    []Warning    `json:"warnings"`
}

// ComparisonReport is the transient result of a dry-run comparison. It is
// returned to the caller and never persisted.
type ComparisonReport struct {
	Accounts  *EntityComparison[*AccountRow]  `json:"accounts"`
	Contacts  *EntityComparison[*ContactRow]  `json:"contacts"`
	Jobsites  *EntityComparison[*JobsiteRow]  `json:"jobsites"`
	Estimates *EntityComparison[*EstimateRow] `json:"estimates"`
	ValidIds  ValidIDSet                      `json:"-"`
	Warnings  []Warning                       `json:"warnings"`
	Errors    []string                        `json:"errors"`
}

// UpsertResult carries the running totals of one bulk-upsert call.
type UpsertResult struct {
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Total    int       `json:"total"`
	Warnings []Warning `json:"warnings"`
}
