package reconcile

import (
	"regexp"
	"testing"
	"time"
)

func TestClassify_RuleOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return now }
	c := NewClassifier(cfg)

	recent := now.Add(-5 * 24 * time.Hour)
	stale := now.Add(-90 * 24 * time.Hour)

	cases := []struct {
		name     string
		rec      *AccountRow
		expected ProvenanceSource
	}{
		{
			"ext prefix is a prior import",
			&AccountRow{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890", ExternalID: strPtr("ext-4711"), CreatedAt: timePtr(recent)},
			ProvenancePreviousImport,
		},
		{
			"bare numeric external id is a prior import",
			&AccountRow{ID: "row-1", ExternalID: strPtr("99120"), CreatedAt: timePtr(stale)},
			ProvenancePreviousImport,
		},
		{
			"recent opaque id is possibly mock",
			&AccountRow{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890", ExternalID: strPtr("legacy:42"), CreatedAt: timePtr(recent)},
			ProvenancePossiblyMock,
		},
		{
			"old opaque id falls through to unknown",
			&AccountRow{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890", ExternalID: strPtr("legacy:42"), CreatedAt: timePtr(stale)},
			ProvenanceUnknown,
		},
		{
			"opaque id without creation time is unknown",
			&AccountRow{ID: "a1b2c3d4-e5f6-7890-abcd-ef1234567890", ExternalID: strPtr("legacy:42")},
			ProvenanceUnknown,
		},
		{
			"plain id and unmatched external id is unknown",
			&AccountRow{ID: "row-9", ExternalID: strPtr("legacy:42"), CreatedAt: timePtr(recent)},
			ProvenanceUnknown,
		},
	}

	for _, tc := range cases {
		p := c.Classify(EntityAccount, tc.rec)
		if p.Source != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, p.Source)
		}
	}
}

func TestClassify_PerEntityPatternOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImportIdPatterns = map[EntityType]*regexp.Regexp{
		EntityContact: regexp.MustCompile(`^legacy:[0-9]+$`),
	}
	c := NewClassifier(cfg)

	contact := &ContactRow{ID: "row-1", ExternalID: strPtr("legacy:42")}
	if p := c.Classify(EntityContact, contact); p.Source != ProvenancePreviousImport {
		t.Fatalf("override pattern should match for contacts, got %s", p.Source)
	}

	// the override is scoped to contacts, accounts keep the default shape
	account := &AccountRow{ID: "row-2", ExternalID: strPtr("legacy:42")}
	if p := c.Classify(EntityAccount, account); p.Source != ProvenanceUnknown {
		t.Fatalf("account should not use the contact override, got %s", p.Source)
	}
}
