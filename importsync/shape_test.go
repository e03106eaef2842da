package importsync

import (
	"testing"

	"github.com/mmdatafocus/crm_backend/reconcile"
)

func strPtr(s string) *string { return &s }

func TestInternalIdFor_Deterministic(t *testing.T) {
	cases := []struct {
		name     string
		row      reconcile.Row
		expected string
	}{
		{
			"payload id wins",
			&reconcile.AccountRow{ID: "acct-1", ExternalID: strPtr("100")},
			"acct-1",
		},
		{
			"external id derives a stable id",
			&reconcile.AccountRow{ExternalID: strPtr("100")},
			"ext-account-100",
		},
		{
			"contact prefix differs per entity",
			&reconcile.ContactRow{ExternalID: strPtr("100")},
			"ext-contact-100",
		},
		{
			"no ids means the committer generates one",
			&reconcile.AccountRow{},
			"",
		},
	}
	for _, tc := range cases {
		entity := reconcile.EntityAccount
		if _, ok := tc.row.(*reconcile.ContactRow); ok {
			entity = reconcile.EntityContact
		}
		if got := internalIdFor(entity, tc.row); got != tc.expected {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.expected, got)
		}
	}
}

func TestShapeAccounts_NormalizesPhone(t *testing.T) {
	rows := ShapeAccounts([]*reconcile.AccountRow{
		{ExternalID: strPtr("100"), Name: strPtr("Acme"), Phone: strPtr("(212) 555-0100")},
	})
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["phone"] != "+12125550100" {
		t.Fatalf("phone not normalized, got %v", rows[0]["phone"])
	}
	if rows[0]["id"] != "ext-account-100" {
		t.Fatalf("unexpected id %v", rows[0]["id"])
	}
	if rows[0]["external_id"] != "100" {
		t.Fatalf("unexpected external_id %v", rows[0]["external_id"])
	}
}

func TestShapeAccounts_NilFieldsStayNil(t *testing.T) {
	rows := ShapeAccounts([]*reconcile.AccountRow{{ID: "acct-1"}})
	if rows[0]["external_id"] != nil {
		t.Fatalf("missing external id must shape to nil, got %v", rows[0]["external_id"])
	}
	if rows[0]["name"] != nil || rows[0]["annual_revenue"] != nil {
		t.Fatalf("nil fields must stay nil, got %+v", rows[0])
	}
}

func TestBuildAccountResolver_MergesStoreAndPayload(t *testing.T) {
	existing := []*reconcile.AccountRow{
		{ID: "store-1", ExternalID: strPtr("old-100")},
	}
	imported := []*reconcile.AccountRow{
		{ExternalID: strPtr("new-200")},
	}

	r := buildAccountResolver(existing, imported)

	if id, ok := r.Resolve("old-100"); !ok || id != "store-1" {
		t.Fatalf("store account must resolve by external id, got %q %v", id, ok)
	}
	if id, ok := r.Resolve("new-200"); !ok || id != "ext-account-new-200" {
		t.Fatalf("payload account must resolve to its derived id, got %q %v", id, ok)
	}
}

func TestDecodePayload(t *testing.T) {
	raw := []byte(`{
		"source": "legacy-crm",
		"accounts": [{"id": "a-1", "external_id": "100", "name": "Acme"}],
		"estimates": [{"external_id": "900", "total_price": "1500.25"}]
	}`)

	doc, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if len(doc.Accounts) != 1 || len(doc.Estimates) != 1 {
		t.Fatalf("unexpected collections %+v", doc)
	}
	if doc.Estimates[0].TotalPrice == nil || doc.Estimates[0].TotalPrice.String() != "1500.25" {
		t.Fatalf("decimal not decoded, got %v", doc.Estimates[0].TotalPrice)
	}

	if _, err := DecodePayload([]byte(`{"accounts": []}`)); err == nil {
		t.Fatal("payload without source must fail validation")
	}
	if _, err := DecodePayload([]byte(`not json`)); err == nil {
		t.Fatal("malformed payload must fail")
	}
}
