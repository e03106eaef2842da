package importsync

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mmdatafocus/crm_backend/config"
	"github.com/mmdatafocus/crm_backend/models"
	"github.com/mmdatafocus/crm_backend/reconcile"
	"github.com/mmdatafocus/crm_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const runLockKey = "crm-import-run"

func processImportRun(ctx context.Context, payload ImportPubSubPayload) error {
	if payload.RunId == 0 {
		return errors.New("invalid payload")
	}

	logger := config.GetLogger()
	db := config.GetDB().WithContext(ctx)

	run, err := models.GetImportRun(ctx, db, payload.RunId)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			// Stale message for a run row that no longer exists, drop it.
			return nil
		}
		return err
	}
	if run.Status == models.ImportRunStatusSuccess ||
		run.Status == models.ImportRunStatusFailed ||
		run.Status == models.ImportRunStatusPartial {
		return nil
	}

	// One run at a time across all workers.
	lock, err := utils.ObtainRunLock(ctx, runLockKey, 30*time.Minute)
	if err != nil {
		return err
	}
	defer lock.Release(ctx)

	now := time.Now()
	startedAt := run.StartedAt
	if startedAt == nil {
		startedAt = &now
	}
	if err := db.Model(run).Updates(map[string]interface{}{
		"status":     models.ImportRunStatusRunning,
		"started_at": startedAt,
	}).Error; err != nil {
		return err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	userName, _ := utils.GetUserNameFromContext(ctx)
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	logger.WithFields(logrus.Fields{
		"run_id":         run.ID,
		"triggered_by":   run.TriggeredBy,
		"dry_run":        run.DryRun,
		"user_id":        userId,
		"user_name":      userName,
		"correlation_id": correlationId,
	}).Info("import run started")

	raw, err := config.DownloadObject(ctx, run.PayloadObject)
	if err != nil {
		// Object may not be visible yet, let pubsub redeliver.
		_ = models.CreateImportRunError(ctx, db, run.ID, "", "", "payload_unavailable", err.Error(), nil, true)
		return err
	}

	doc, err := DecodePayload(raw)
	if err != nil {
		// A malformed payload never becomes valid on retry, ack and fail.
		_ = models.CreateImportRunError(ctx, db, run.ID, "", "", "invalid_payload", err.Error(), nil, false)
		return failRun(ctx, db, run, startedAt)
	}

	snapshot, err := LoadSnapshot(ctx)
	if err != nil {
		_ = models.CreateImportRunError(ctx, db, run.ID, "", "", "snapshot_failed", err.Error(), nil, true)
		return err
	}

	engine := reconcile.NewEngine(reconcile.DefaultConfig(), logger)
	report := engine.Compare(ctx, doc.Collections(), snapshot)
	stats := statsFromReport(report)

	if run.DryRun {
		return finalizeRun(ctx, db, run, startedAt, stats, 0, 0, len(report.Warnings), 0)
	}

	committer := reconcile.NewCommitter(config.GetDB(), logger, engine.Config())
	accountResolver := buildAccountResolver(snapshot.Accounts, doc.Accounts)
	contactResolver := buildContactResolver(snapshot.Contacts, doc.Contacts)

	created, updated, errorCount := 0, 0, 0
	warnings := append([]reconcile.Warning{}, report.Warnings...)

	record := func(entity reconcile.EntityType, res *reconcile.UpsertResult, commitErr error) {
		if res != nil {
			created += res.Created
			updated += res.Updated
			warnings = append(warnings, res.Warnings...)
			for _, w := range res.Warnings {
				if w.Code == reconcile.WarnInsertSkipped || w.Code == reconcile.WarnUpdateFailed {
					errorCount++
					_ = models.CreateImportRunError(ctx, db, run.ID, string(entity), w.RecordKey, string(w.Code), w.Message, nil, true)
				}
			}
		}
		if commitErr != nil {
			errorCount++
			_ = models.CreateImportRunError(ctx, db, run.ID, string(entity), "", "commit_failed", commitErr.Error(), nil, true)
			config.LogError(logger, "worker.go", "processImportRun", "committing "+string(entity), map[string]interface{}{
				"run_id":         run.ID,
				"correlation_id": correlationId,
			}, commitErr)
		}
	}

	// Parents before children so references resolve within the same run.
	accountRows := ShapeAccounts(append(report.Accounts.New, report.Accounts.Updated...))
	res, commitErr := committer.BulkUpsert(ctx, reconcile.EntityAccount, "accounts", accountRows)
	record(reconcile.EntityAccount, res, commitErr)

	contactRows := ShapeContacts(append(report.Contacts.New, report.Contacts.Updated...))
	warnings = append(warnings, reconcile.RepairReferences(reconcile.EntityContact, "id", contactRows, []reconcile.ForeignKey{
		{Column: "account_id", Parent: reconcile.EntityAccount, Resolver: accountResolver},
	})...)
	res, commitErr = committer.BulkUpsert(ctx, reconcile.EntityContact, "contacts", contactRows)
	record(reconcile.EntityContact, res, commitErr)

	jobsiteRows := ShapeJobsites(append(report.Jobsites.New, report.Jobsites.Updated...))
	warnings = append(warnings, reconcile.RepairReferences(reconcile.EntityJobsite, "id", jobsiteRows, []reconcile.ForeignKey{
		{Column: "account_id", Parent: reconcile.EntityAccount, Resolver: accountResolver},
		{Column: "contact_id", Parent: reconcile.EntityContact, Resolver: contactResolver},
	})...)
	res, commitErr = committer.BulkUpsert(ctx, reconcile.EntityJobsite, "jobsites", jobsiteRows)
	record(reconcile.EntityJobsite, res, commitErr)

	estimateRows := ShapeEstimates(append(report.Estimates.New, report.Estimates.Updated...))
	warnings = append(warnings, reconcile.RepairReferences(reconcile.EntityEstimate, "id", estimateRows, []reconcile.ForeignKey{
		{Column: "account_id", Parent: reconcile.EntityAccount, Resolver: accountResolver},
		{Column: "contact_id", Parent: reconcile.EntityContact, Resolver: contactResolver},
	})...)
	res, commitErr = committer.BulkUpsert(ctx, reconcile.EntityEstimate, "estimates", estimateRows)
	record(reconcile.EntityEstimate, res, commitErr)

	stats.Warnings = len(warnings)
	return finalizeRun(ctx, db, run, startedAt, stats, created, updated, len(warnings), errorCount)
}

func statsFromReport(report *reconcile.ComparisonReport) runStats {
	stats := runStats{
		Accounts: entityStats{
			Created:   len(report.Accounts.New),
			Updated:   len(report.Accounts.Updated),
			Unchanged: len(report.Accounts.Unchanged),
			Orphaned:  len(report.Accounts.Orphaned),
		},
		Contacts: entityStats{
			Created:   len(report.Contacts.New),
			Updated:   len(report.Contacts.Updated),
			Unchanged: len(report.Contacts.Unchanged),
			Orphaned:  len(report.Contacts.Orphaned),
		},
		Jobsites: entityStats{
			Created:   len(report.Jobsites.New),
			Updated:   len(report.Jobsites.Updated),
			Unchanged: len(report.Jobsites.Unchanged),
			Orphaned:  len(report.Jobsites.Orphaned),
		},
		Estimates: entityStats{
			Created:   len(report.Estimates.New),
			Updated:   len(report.Estimates.Updated),
			Unchanged: len(report.Estimates.Unchanged),
			Orphaned:  len(report.Estimates.Orphaned),
		},
		Warnings: len(report.Warnings),
	}
	stats.Orphans = stats.Accounts.Orphaned + stats.Contacts.Orphaned +
		stats.Jobsites.Orphaned + stats.Estimates.Orphaned
	return stats
}

func finalizeRun(ctx context.Context, db *gorm.DB, run *models.ImportRun, startedAt *time.Time, stats runStats, created int, updated int, warningCount int, errorCount int) error {
	finishedAt := time.Now()
	status := models.ImportRunStatusSuccess
	if errorCount > 0 && created+updated == 0 {
		status = models.ImportRunStatusFailed
	} else if errorCount > 0 {
		status = models.ImportRunStatusPartial
	}

	statsJSON, _ := json.Marshal(stats)
	return db.Model(run).Updates(map[string]interface{}{
		"status":          status,
		"finished_at":     finishedAt,
		"duration_ms":     finishedAt.Sub(*startedAt).Milliseconds(),
		"records_created": created,
		"records_updated": updated,
		"warning_count":   warningCount,
		"error_count":     errorCount,
		"stats_json":      statsJSON,
	}).Error
}

func failRun(ctx context.Context, db *gorm.DB, run *models.ImportRun, startedAt *time.Time) error {
	finishedAt := time.Now()
	return db.Model(run).Updates(map[string]interface{}{
		"status":      models.ImportRunStatusFailed,
		"finished_at": finishedAt,
		"duration_ms": finishedAt.Sub(*startedAt).Milliseconds(),
		"error_count": 1,
	}).Error
}
