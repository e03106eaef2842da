package reconcile

import "testing"

func TestRefResolver_ResolvesBothKeyShapes(t *testing.T) {
	r := NewRefResolver()
	r.Register("acct-internal-1", "ext-100")
	r.Register("acct-internal-2", "")

	if id, ok := r.Resolve("ext-100"); !ok || id != "acct-internal-1" {
		t.Fatalf("external key resolution failed: %q %v", id, ok)
	}
	if id, ok := r.Resolve("acct-internal-1"); !ok || id != "acct-internal-1" {
		t.Fatalf("internal key resolution failed: %q %v", id, ok)
	}
	if id, ok := r.Resolve("acct-internal-2"); !ok || id != "acct-internal-2" {
		t.Fatalf("record without external id must still resolve by internal id: %q %v", id, ok)
	}
	if _, ok := r.Resolve("nope"); ok {
		t.Fatal("unknown key must not resolve")
	}
}

func TestRepairReferences_RewritesAndClears(t *testing.T) {
	accounts := NewRefResolver()
	accounts.Register("acct-1", "ext-100")
	contacts := NewRefResolver()
	contacts.Register("con-1", "ext-200")

	rows := []RowMap{
		{"id": "job-1", "account_id": "ext-100", "contact_id": "con-1"},
		{"id": "job-2", "account_id": "ext-missing", "contact_id": nil},
		{"id": "job-3", "account_id": "", "contact_id": "ext-200"},
	}
	fks := []ForeignKey{
		{Column: "account_id", Parent: EntityAccount, Resolver: accounts},
		{Column: "contact_id", Parent: EntityContact, Resolver: contacts},
	}

	warnings := RepairReferences(EntityJobsite, "id", rows, fks)

	if rows[0]["account_id"] != "acct-1" || rows[0]["contact_id"] != "con-1" {
		t.Fatalf("resolvable references must rewrite to internal ids, got %+v", rows[0])
	}
	if rows[1]["account_id"] != nil {
		t.Fatalf("dangling reference must be cleared, got %v", rows[1]["account_id"])
	}
	if rows[2]["account_id"] != "" {
		t.Fatalf("empty reference must be left alone, got %v", rows[2]["account_id"])
	}
	if rows[2]["contact_id"] != "con-1" {
		t.Fatalf("contact reference must resolve, got %v", rows[2]["contact_id"])
	}

	if len(warnings) != 1 {
		t.Fatalf("expected one dangling warning, got %+v", warnings)
	}
	w := warnings[0]
	if w.Code != WarnDanglingReference || w.RecordKey != "job-2" || w.Field != "account_id" || w.Value != "ext-missing" {
		t.Fatalf("unexpected warning %+v", w)
	}
}
