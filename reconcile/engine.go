package reconcile

import (
	"context"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
)

// Config is threaded explicitly through the engine; nothing in this package
// reads globals or the environment.
type Config struct {
	// LookupField is the column records are matched on during upserts.
	LookupField string
	// BatchSize caps how many rows one insert statement carries.
	BatchSize int
	// MockRecencyWindow bounds how old a record can be and still be called
	// possibly seeded data.
	MockRecencyWindow time.Duration
	// ImportIdPatterns overrides the external id shape of prior imports per
	// entity type.
	ImportIdPatterns map[EntityType]*regexp.Regexp
	// Now is swappable for tests.
	Now func() time.Time
}

func DefaultConfig() Config {
	return Config{
		LookupField:       "external_id",
		BatchSize:         100,
		MockRecencyWindow: 30 * 24 * time.Hour,
	}
}

// Engine wires the extractor, differ and classifier together. It works on
// in-memory snapshots only; callers load and persist.
type Engine struct {
	cfg        Config
	classifier *Classifier
	log        *logrus.Logger
}

func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if cfg.LookupField == "" {
		cfg.LookupField = "external_id"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Engine{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		log:        logger,
	}
}

func (e *Engine) Config() Config { return e.cfg }

// Compare produces the full dry-run report for one payload against one store
// snapshot. The same report drives both the comparison tooling and the
// commit path, so commit always acts on exactly what a dry run would have
// shown.
func (e *Engine) Compare(ctx context.Context, imported ImportCollections, existing ExistingCollections) *ComparisonReport {
	valid := ExtractValidIDs(imported)

	report := &ComparisonReport{
		ValidIds:  valid,
		Accounts:  compareEntities(EntityAccount, imported.Accounts, existing.Accounts, accountFields, valid.AccountIds, e.classifier),
		Contacts:  compareEntities(EntityContact, imported.Contacts, existing.Contacts, contactFields, valid.ContactIds, e.classifier),
		Jobsites:  compareEntities(EntityJobsite, imported.Jobsites, existing.Jobsites, jobsiteFields, valid.JobsiteIds, e.classifier),
		Estimates: compareEntities(EntityEstimate, imported.Estimates, existing.Estimates, estimateFields, valid.EstimateIds, e.classifier),
	}

	report.Warnings = append(report.Warnings, report.Accounts.Warnings...)
	report.Warnings = append(report.Warnings, report.Contacts.Warnings...)
	report.Warnings = append(report.Warnings, report.Jobsites.Warnings...)
	report.Warnings = append(report.Warnings, report.Estimates.Warnings...)

	if e.log != nil {
		e.log.WithContext(ctx).WithFields(logrus.Fields{
			"accounts_new":     len(report.Accounts.New),
			"accounts_updated": len(report.Accounts.Updated),
			"contacts_new":     len(report.Contacts.New),
			"contacts_updated": len(report.Contacts.Updated),
			"jobsites_new":     len(report.Jobsites.New),
			"estimates_new":    len(report.Estimates.New),
			"warnings":         len(report.Warnings),
		}).Info("comparison complete")
	}

	return report
}
