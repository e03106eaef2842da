package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func TestExtractValidIDs_CollectsInternalAndExternalIds(t *testing.T) {
	in := ImportCollections{
		Accounts: []*AccountRow{
			{ID: "acct-1", ExternalID: strPtr("ext-100")},
			{ID: "acct-2"},
		},
		Contacts: []*ContactRow{
			{ID: "con-1", ExternalID: strPtr("ext-200")},
		},
	}

	valid := ExtractValidIDs(in)

	for _, id := range []string{"acct-1", "ext-100", "acct-2"} {
		if !valid.AccountIds.Has(id) {
			t.Fatalf("expected account id %q to be valid", id)
		}
	}
	if !valid.ContactIds.Has("con-1") || !valid.ContactIds.Has("ext-200") {
		t.Fatalf("expected contact ids to be valid, got %v", valid.ContactIds)
	}
	if valid.AccountIds.Has("") {
		t.Fatal("empty id must never enter the set")
	}
}

func TestExtractValidIDs_ReferencedParentsAreVouchedFor(t *testing.T) {
	in := ImportCollections{
		Contacts: []*ContactRow{
			{ID: "con-1", AccountID: strPtr("ext-acct-9")},
		},
		Jobsites: []*JobsiteRow{
			{ID: "job-1", AccountID: strPtr("acct-7"), ContactID: strPtr("ext-con-3")},
		},
		Estimates: []*EstimateRow{
			{ID: "est-1", AccountID: strPtr("acct-8"), ContactID: strPtr("con-4")},
		},
	}

	valid := ExtractValidIDs(in)

	for _, id := range []string{"ext-acct-9", "acct-7", "acct-8"} {
		if !valid.AccountIds.Has(id) {
			t.Fatalf("referenced account id %q missing from valid set", id)
		}
	}
	for _, id := range []string{"ext-con-3", "con-4", "con-1"} {
		if !valid.ContactIds.Has(id) {
			t.Fatalf("referenced contact id %q missing from valid set", id)
		}
	}
	if !valid.JobsiteIds.Has("job-1") || !valid.EstimateIds.Has("est-1") {
		t.Fatal("own collection ids missing from valid set")
	}
}

func TestExtractValidIDs_EmptyPayload(t *testing.T) {
	valid := ExtractValidIDs(ImportCollections{})
	if len(valid.AccountIds) != 0 || len(valid.ContactIds) != 0 ||
		len(valid.JobsiteIds) != 0 || len(valid.EstimateIds) != 0 {
		t.Fatalf("empty payload must yield empty sets, got %+v", valid)
	}
}
