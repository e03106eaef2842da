package importsync

import (
	"context"
	"testing"
	"time"

	"github.com/mmdatafocus/crm_backend/models"
	"github.com/mmdatafocus/crm_backend/reconcile"
	"github.com/shopspring/decimal"
)

func TestSnapshotAccountRow_NullMoneyStaysNil(t *testing.T) {
	row := snapshotAccountRow(&models.Account{
		ID:         "row-1",
		ExternalId: strPtr("100"),
		Name:       "Acme",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	if row.AnnualRevenue != nil {
		t.Fatalf("NULL annual_revenue must stay nil, got %v", row.AnnualRevenue)
	}
	if row.AddressLine2 != nil {
		t.Fatal("empty string columns must convert to nil")
	}
}

func TestSnapshotEstimateRow_NullMoneyStaysNil(t *testing.T) {
	row := snapshotEstimateRow(&models.Estimate{
		ID:         "row-1",
		ExternalId: strPtr("900"),
		Status:     "draft",
	})

	if row.TotalPrice != nil || row.LaborTotal != nil || row.MaterialTotal != nil {
		t.Fatalf("NULL money columns must stay nil, got %+v", row)
	}
}

// A payload that omits a money field must stay unchanged against a store row
// where that column is NULL, run after run.
func TestCompare_OmittedMoneyFieldStaysUnchanged(t *testing.T) {
	stored := snapshotAccountRow(&models.Account{
		ID:         "row-1",
		ExternalId: strPtr("100"),
		Name:       "Acme",
		CreatedAt:  time.Now(),
	})

	engine := reconcile.NewEngine(reconcile.DefaultConfig(), nil)
	imported := reconcile.ImportCollections{
		Accounts: []*reconcile.AccountRow{
			{ID: "a-1", ExternalID: strPtr("100"), Name: strPtr("Acme")},
		},
	}
	report := engine.Compare(context.Background(), imported, reconcile.ExistingCollections{
		Accounts: []*reconcile.AccountRow{stored},
	})

	if len(report.Accounts.Unchanged) != 1 || len(report.Accounts.Updated) != 0 {
		t.Fatalf("record must be unchanged, got differences %+v", report.Accounts.Differences)
	}
}

func TestCompare_StoredZeroAgainstOmittedIsAChange(t *testing.T) {
	zero := decimal.Zero
	stored := snapshotAccountRow(&models.Account{
		ID:            "row-1",
		ExternalId:    strPtr("100"),
		Name:          "Acme",
		AnnualRevenue: &zero,
		CreatedAt:     time.Now(),
	})

	engine := reconcile.NewEngine(reconcile.DefaultConfig(), nil)
	imported := reconcile.ImportCollections{
		Accounts: []*reconcile.AccountRow{
			{ID: "a-1", ExternalID: strPtr("100"), Name: strPtr("Acme")},
		},
	}
	report := engine.Compare(context.Background(), imported, reconcile.ExistingCollections{
		Accounts: []*reconcile.AccountRow{stored},
	})

	if len(report.Accounts.Updated) != 1 {
		t.Fatalf("a stored zero is a real value, clearing it must register as a change, got %+v", report.Accounts)
	}
}
