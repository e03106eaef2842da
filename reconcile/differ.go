package reconcile

import "fmt"

// compareEntities runs the forward and reverse passes for one entity type.
//
// Forward: each imported record is matched against the store snapshot by
// lookup key and lands in exactly one of new, updated or unchanged. A
// repeated external id within the payload keeps the first occurrence and
// drops the rest with a warning.
//
// Reverse: each snapshot record with a non-null external id whose lookup key
// is missing from the valid id set is recorded as orphaned and classified.
// Orphans are reported, never mutated.
func compareEntities[P Row](
	entity EntityType,
	imported []P,
	existing []P,
	fields []fieldSpec[P],
	valid IDSet,
	classifier *Classifier,
) *EntityComparison[P] {
	cmp := &EntityComparison[P]{EntityType: entity}

	existingByKey := make(map[string]P, len(existing))
	for _, rec := range existing {
		existingByKey[lookupKey(rec)] = rec
	}

	seen := make(map[string]struct{}, len(imported))
	for _, rec := range imported {
		if ek := rec.ExternalKey(); ek != "" {
			if _, dup := seen[ek]; dup {
				cmp.Warnings = append(cmp.Warnings, Warning{
					Code:       WarnDuplicateExternalId,
					EntityType: entity,
					RecordKey:  ek,
					Message:    fmt.Sprintf("duplicate %s %q in payload, keeping first occurrence", entity, ek),
				})
				continue
			}
			seen[ek] = struct{}{}
		}

		match, ok := existingByKey[lookupKey(rec)]
		if !ok {
			cmp.New = append(cmp.New, rec)
			continue
		}

		diffs := diffFields(entity, lookupKey(rec), rec, match, fields)
		if len(diffs) == 0 {
			cmp.Unchanged = append(cmp.Unchanged, rec)
			continue
		}
		cmp.Updated = append(cmp.Updated, rec)
		cmp.Differences = append(cmp.Differences, diffs...)
	}

	for _, rec := range existing {
		if rec.ExternalKey() == "" {
			continue
		}
		if valid.Has(lookupKey(rec)) {
			continue
		}
		orphan := &Orphan[P]{Record: rec}
		if classifier != nil {
			orphan.Provenance = classifier.Classify(entity, rec)
		}
		cmp.Orphaned = append(cmp.Orphaned, orphan)
		cmp.Warnings = append(cmp.Warnings, Warning{
			Code:       WarnOrphanedRecord,
			EntityType: entity,
			RecordKey:  rec.ExternalKey(),
			Value:      string(orphan.Provenance.Source),
			Message:    fmt.Sprintf("%s %q exists in store but not in import", entity, rec.ExternalKey()),
		})
	}

	return cmp
}

func diffFields[P Row](entity EntityType, key string, imported P, existing P, fields []fieldSpec[P]) []Difference {
	var diffs []Difference
	for _, f := range fields {
		iv := f.value(imported)
		ev := f.value(existing)
		if valuesEqual(f.kind, iv, ev) {
			continue
		}
		diffs = append(diffs, Difference{
			EntityType: entity,
			RecordKey:  key,
			Field:      f.name,
			Imported:   displayValue(iv),
			Existing:   displayValue(ev),
		})
	}
	return diffs
}
