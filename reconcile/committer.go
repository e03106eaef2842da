package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Committer writes shaped row maps into the store in fixed-size batches.
// Batches are committed sequentially; a batch whose insert phase fails hard
// leaves earlier batches committed.
type Committer struct {
	db  *gorm.DB
	log *logrus.Logger
	cfg Config
}

func NewCommitter(db *gorm.DB, logger *logrus.Logger, cfg Config) *Committer {
	if cfg.LookupField == "" {
		cfg.LookupField = "external_id"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Committer{db: db, log: logger, cfg: cfg}
}

type pendingUpdate struct {
	internalId string
	recordKey  string
	changes    RowMap
}

// BulkUpsert upserts rows into table, matching on the configured lookup
// field. Per batch it loads the existing rows once, partitions into inserts
// and updates, skips updates whose normalized values already match, inserts
// in bulk with a per-record fallback on duplicate keys, and applies updates
// concurrently. Individual record failures become warnings; batch-level
// failures abort the run.
func (c *Committer) BulkUpsert(ctx context.Context, entity EntityType, table string, rows []RowMap) (*UpsertResult, error) {
	result := &UpsertResult{Total: len(rows)}
	if len(rows) == 0 {
		return result, nil
	}

	for start := 0; start < len(rows); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := c.commitBatch(ctx, entity, table, rows[start:end], result); err != nil {
			return result, err
		}
	}

	if c.log != nil {
		c.log.WithFields(logrus.Fields{
			"entity":  entity,
			"table":   table,
			"created": result.Created,
			"updated": result.Updated,
			"skipped": result.Skipped,
			"total":   result.Total,
		}).Info("bulk upsert complete")
	}
	return result, nil
}

func (c *Committer) commitBatch(ctx context.Context, entity EntityType, table string, batch []RowMap, result *UpsertResult) error {
	lookup := c.cfg.LookupField

	var lookupValues []string
	for _, row := range batch {
		if v := stringValue(row[lookup]); v != "" {
			lookupValues = append(lookupValues, v)
		}
	}

	existingByLookup := map[string]RowMap{}
	if len(lookupValues) > 0 {
		var existing []map[string]interface{}
		err := c.db.WithContext(ctx).Table(table).
			Where(fmt.Sprintf("%s IN ?", lookup), lookupValues).
			Find(&existing).Error
		if err != nil {
			return fmt.Errorf("loading existing %s rows: %w", entity, err)
		}
		for _, row := range existing {
			if v := stringValue(row[lookup]); v != "" {
				existingByLookup[v] = row
			}
		}
	}

	var toInsert []RowMap
	var toUpdate []pendingUpdate
	seen := map[string]struct{}{}

	for _, row := range batch {
		lv := stringValue(row[lookup])
		if lv != "" {
			if _, dup := seen[lv]; dup {
				result.Skipped++
				result.Warnings = append(result.Warnings, Warning{
					Code:       WarnDuplicateExternalId,
					EntityType: entity,
					RecordKey:  lv,
					Message:    fmt.Sprintf("duplicate %s %q within batch, keeping first occurrence", lookup, lv),
				})
				continue
			}
			seen[lv] = struct{}{}
		}

		existing, ok := existingByLookup[lv]
		if lv == "" || !ok {
			if stringValue(row["id"]) == "" {
				row["id"] = uuid.New().String()
			}
			toInsert = append(toInsert, row)
			continue
		}

		changes := updateChanges(row, existing, lookup)
		if len(changes) == 0 {
			result.Skipped++
			continue
		}
		toUpdate = append(toUpdate, pendingUpdate{
			internalId: stringValue(existing["id"]),
			recordKey:  lv,
			changes:    changes,
		})
	}

	if err := c.insertRows(ctx, entity, table, toInsert, result); err != nil {
		return err
	}
	c.updateRows(ctx, entity, table, toUpdate, result)
	return nil
}

// insertRows tries one multi-row insert first. On a duplicate key error it
// retries record by record so one conflicting row cannot sink its batch
// mates. Any other database error is fatal for the whole run.
func (c *Committer) insertRows(ctx context.Context, entity EntityType, table string, rows []RowMap, result *UpsertResult) error {
	if len(rows) == 0 {
		return nil
	}

	err := c.db.WithContext(ctx).Table(table).Create(rows).Error
	if err == nil {
		result.Created += len(rows)
		return nil
	}
	if !isDuplicateKeyError(err) {
		return fmt.Errorf("inserting %s batch: %w", entity, err)
	}

	for _, row := range rows {
		if insErr := c.db.WithContext(ctx).Table(table).Create(row).Error; insErr != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, Warning{
				Code:       WarnInsertSkipped,
				EntityType: entity,
				RecordKey:  stringValue(row[c.cfg.LookupField]),
				Message:    fmt.Sprintf("insert failed: %v", insErr),
			})
			if c.log != nil {
				c.log.WithFields(logrus.Fields{
					"entity": entity,
					"key":    stringValue(row[c.cfg.LookupField]),
				}).WithError(insErr).Warn("record insert skipped")
			}
			continue
		}
		result.Created++
	}
	return nil
}

// updateRows fans updates out across goroutines and joins before returning.
// A failed update is counted and reported, never fatal.
func (c *Committer) updateRows(ctx context.Context, entity EntityType, table string, updates []pendingUpdate, result *UpsertResult) {
	if len(updates) == 0 {
		return
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, upd := range updates {
		wg.Add(1)
		go func(upd pendingUpdate) {
			defer wg.Done()
			err := c.db.WithContext(ctx).Table(table).
				Where("id = ?", upd.internalId).
				Updates(upd.changes).Error
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Skipped++
				result.Warnings = append(result.Warnings, Warning{
					Code:       WarnUpdateFailed,
					EntityType: entity,
					RecordKey:  upd.recordKey,
					Message:    fmt.Sprintf("update failed: %v", err),
				})
				if c.log != nil {
					c.log.WithFields(logrus.Fields{
						"entity": entity,
						"key":    upd.recordKey,
					}).WithError(err).Warn("record update failed")
				}
				return
			}
			result.Updated++
		}(upd)
	}
	wg.Wait()
}

// updateChanges returns the columns of the imported row whose normalized
// value differs from the stored row. Identity and bookkeeping columns are
// never part of an update.
func updateChanges(imported RowMap, existing RowMap, lookupField string) RowMap {
	changes := RowMap{}
	for col, val := range imported {
		if col == "id" || col == lookupField || col == "created_at" || col == "updated_at" {
			continue
		}
		if normalizeAny(val) == normalizeAny(existing[col]) {
			continue
		}
		changes[col] = val
	}
	return changes
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *gomysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// normalizeAny folds driver-level and payload-level representations of the
// same value to one canonical string. The store hands back []byte and
// time.Time, the payload hands in *string and decimals; both sides must
// agree before a column is called unchanged.
func normalizeAny(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *string:
		if val == nil {
			return ""
		}
		return normalizeAny(*val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return ""
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d.String()
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.Format("2006-01-02")
		}
		if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return t.Format("2006-01-02")
		}
		return strings.ToLower(s)
	case []byte:
		return normalizeAny(string(val))
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02")
	case time.Time:
		return val.Format("2006-01-02")
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.String()
	case decimal.Decimal:
		return val.String()
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return normalizeAny(fmt.Sprint(val))
	}
}
