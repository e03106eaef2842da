package reconcile

import (
	"context"
	"testing"
	"time"
)

func testEngine() *Engine {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return NewEngine(cfg, nil)
}

func TestCompare_PartitionsNewUpdatedUnchanged(t *testing.T) {
	e := testEngine()

	imported := ImportCollections{
		Accounts: []*AccountRow{
			{ID: "a-new", ExternalID: strPtr("ext-1"), Name: strPtr("Fresh Co")},
			{ID: "a-upd", ExternalID: strPtr("ext-2"), Name: strPtr("Renamed Co"), Status: strPtr("active")},
			{ID: "a-same", ExternalID: strPtr("ext-3"), Name: strPtr("Stable Co")},
		},
	}
	existing := ExistingCollections{
		Accounts: []*AccountRow{
			{ID: "row-2", ExternalID: strPtr("ext-2"), Name: strPtr("Old Name Co"), Status: strPtr("active")},
			{ID: "row-3", ExternalID: strPtr("ext-3"), Name: strPtr("Stable Co")},
		},
	}

	report := e.Compare(context.Background(), imported, existing)

	if len(report.Accounts.New) != 1 || report.Accounts.New[0].ID != "a-new" {
		t.Fatalf("expected one new account, got %+v", report.Accounts.New)
	}
	if len(report.Accounts.Updated) != 1 || report.Accounts.Updated[0].ID != "a-upd" {
		t.Fatalf("expected one updated account, got %+v", report.Accounts.Updated)
	}
	if len(report.Accounts.Unchanged) != 1 || report.Accounts.Unchanged[0].ID != "a-same" {
		t.Fatalf("expected one unchanged account, got %+v", report.Accounts.Unchanged)
	}

	if len(report.Accounts.Differences) != 1 {
		t.Fatalf("expected one difference, got %+v", report.Accounts.Differences)
	}
	d := report.Accounts.Differences[0]
	if d.Field != "name" || d.RecordKey != "ext-2" {
		t.Fatalf("unexpected difference %+v", d)
	}
	if d.Imported != "Renamed Co" || d.Existing != "Old Name Co" {
		t.Fatalf("difference must carry both raw values, got %+v", d)
	}
}

func TestCompare_NormalizationSuppressesNoise(t *testing.T) {
	e := testEngine()
	issued := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	issuedMidnight := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	imported := ImportCollections{
		Accounts: []*AccountRow{
			{ID: "a-1", ExternalID: strPtr("ext-1"), Name: strPtr("  ACME Corp  "), AnnualRevenue: decPtr("1000.00"), Website: nil},
		},
		Estimates: []*EstimateRow{
			{ID: "e-1", ExternalID: strPtr("ext-e1"), TotalPrice: decPtr("2500.50"), IssuedDate: timePtr(issued)},
		},
	}
	existing := ExistingCollections{
		Accounts: []*AccountRow{
			{ID: "row-1", ExternalID: strPtr("ext-1"), Name: strPtr("acme corp"), AnnualRevenue: decPtr("1000"), Website: strPtr("")},
		},
		Estimates: []*EstimateRow{
			{ID: "row-e1", ExternalID: strPtr("ext-e1"), TotalPrice: decPtr("2500.5000"), IssuedDate: timePtr(issuedMidnight)},
		},
	}

	report := e.Compare(context.Background(), imported, existing)

	if len(report.Accounts.Unchanged) != 1 {
		t.Fatalf("account should be unchanged, got differences %+v", report.Accounts.Differences)
	}
	if len(report.Estimates.Unchanged) != 1 {
		t.Fatalf("estimate should be unchanged, got differences %+v", report.Estimates.Differences)
	}
}

func TestCompare_DuplicateExternalIdKeepsFirst(t *testing.T) {
	e := testEngine()

	imported := ImportCollections{
		Contacts: []*ContactRow{
			{ID: "c-1", ExternalID: strPtr("ext-dup"), FirstName: strPtr("First")},
			{ID: "c-2", ExternalID: strPtr("ext-dup"), FirstName: strPtr("Second")},
			{ID: "c-3", FirstName: strPtr("NoExternal")},
			{ID: "c-4", FirstName: strPtr("NoExternalEither")},
		},
	}

	report := e.Compare(context.Background(), imported, ExistingCollections{})

	if len(report.Contacts.New) != 3 {
		t.Fatalf("expected first duplicate plus both keyless records, got %d new", len(report.Contacts.New))
	}
	if report.Contacts.New[0].ID != "c-1" {
		t.Fatalf("first occurrence must win, got %q", report.Contacts.New[0].ID)
	}

	var dupWarnings int
	for _, w := range report.Warnings {
		if w.Code == WarnDuplicateExternalId && w.RecordKey == "ext-dup" {
			dupWarnings++
		}
	}
	if dupWarnings != 1 {
		t.Fatalf("expected one duplicate warning, got %d", dupWarnings)
	}
}

func TestCompare_OrphanDetection(t *testing.T) {
	e := testEngine()

	imported := ImportCollections{
		Accounts: []*AccountRow{
			{ID: "a-1", ExternalID: strPtr("ext-1")},
		},
		Jobsites: []*JobsiteRow{
			{ID: "j-1", ExternalID: strPtr("ext-j1"), AccountID: strPtr("ext-2")},
		},
	}
	existing := ExistingCollections{
		Accounts: []*AccountRow{
			{ID: "row-1", ExternalID: strPtr("ext-1")},
			// vouched for by the jobsite reference, must not orphan
			{ID: "row-2", ExternalID: strPtr("ext-2")},
			{ID: "row-3", ExternalID: strPtr("ext-gone")},
			// no external id, never an orphan candidate
			{ID: "row-4"},
		},
	}

	report := e.Compare(context.Background(), imported, existing)

	if len(report.Accounts.Orphaned) != 1 {
		t.Fatalf("expected exactly one orphan, got %d", len(report.Accounts.Orphaned))
	}
	orphan := report.Accounts.Orphaned[0]
	if orphan.Record.ExternalKey() != "ext-gone" {
		t.Fatalf("wrong orphan %q", orphan.Record.ExternalKey())
	}
	if orphan.Provenance.Source == "" {
		t.Fatal("orphan must carry a provenance source")
	}
}

func TestCompare_EmptyImportOrphansEverythingWithExternalIds(t *testing.T) {
	e := testEngine()

	existing := ExistingCollections{
		Contacts: []*ContactRow{
			{ID: "row-1", ExternalID: strPtr("ext-1")},
			{ID: "row-2", ExternalID: strPtr("ext-2")},
			{ID: "row-3"},
		},
	}

	report := e.Compare(context.Background(), ImportCollections{}, existing)

	if len(report.Contacts.New)+len(report.Contacts.Updated)+len(report.Contacts.Unchanged) != 0 {
		t.Fatal("empty import must not classify any imported records")
	}
	if len(report.Contacts.Orphaned) != 2 {
		t.Fatalf("expected two orphans, got %d", len(report.Contacts.Orphaned))
	}
}
