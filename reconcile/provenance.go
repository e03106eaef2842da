package reconcile

import (
	"fmt"
	"regexp"
	"time"
)

type ProvenanceSource string

const (
	ProvenancePreviousImport ProvenanceSource = "previous_import"
	ProvenancePossiblyMock   ProvenanceSource = "possibly_mock"
	ProvenanceUnknown        ProvenanceSource = "unknown"
)

// Provenance describes the best guess for where an orphaned record came
// from. Advisory only; it feeds reports and never drives writes.
type Provenance struct {
	Source ProvenanceSource `json:"source"`
	Note   string           `json:"note,omitempty"`
}

// opaqueIdPattern matches randomly generated ids that no human or importer
// would have typed, the usual fingerprint of seeded test data.
var opaqueIdPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// defaultImportIdPattern matches the external id shapes earlier import runs
// assigned: an ext- prefix or a bare numeric source id.
var defaultImportIdPattern = regexp.MustCompile(`^(ext-[A-Za-z0-9_-]+|[0-9]+)$`)

type provenanceRule struct {
	source ProvenanceSource
	match  func(entity EntityType, rec Row) (string, bool)
}

// Classifier assigns a provenance source to orphaned records by running an
// ordered rule list; the first matching rule wins and the fallback is always
// unknown.
type Classifier struct {
	rules []provenanceRule
}

func NewClassifier(cfg Config) *Classifier {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	window := cfg.MockRecencyWindow
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}

	c := &Classifier{}
	c.rules = []provenanceRule{
		{
			source: ProvenancePreviousImport,
			match: func(entity EntityType, rec Row) (string, bool) {
				pattern := defaultImportIdPattern
				if p, ok := cfg.ImportIdPatterns[entity]; ok && p != nil {
					pattern = p
				}
				ek := rec.ExternalKey()
				if ek == "" || !pattern.MatchString(ek) {
					return "", false
				}
				return fmt.Sprintf("external id %q matches a prior import shape", ek), true
			},
		},
		{
			source: ProvenancePossiblyMock,
			match: func(entity EntityType, rec Row) (string, bool) {
				if !opaqueIdPattern.MatchString(rec.InternalKey()) {
					return "", false
				}
				created := rec.CreatedTime()
				if created == nil || now().Sub(*created) > window {
					return "", false
				}
				return "opaque internal id created recently, likely seeded data", true
			},
		},
		{
			source: ProvenanceUnknown,
			match: func(entity EntityType, rec Row) (string, bool) {
				if !opaqueIdPattern.MatchString(rec.InternalKey()) {
					return "", false
				}
				return "opaque internal id outside the recency window, provenance undetermined", true
			},
		},
	}
	return c
}

func (c *Classifier) Classify(entity EntityType, rec Row) Provenance {
	for _, rule := range c.rules {
		if note, ok := rule.match(entity, rec); ok {
			return Provenance{Source: rule.source, Note: note}
		}
	}
	return Provenance{Source: ProvenanceUnknown}
}
