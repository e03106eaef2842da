package reconcile

import "fmt"

// RowMap is a record already shaped to the store's column names, ready for
// the committer.
type RowMap = map[string]interface{}

// RefResolver maps any known identifier of a parent record, internal or
// external, to the parent's internal id.
type RefResolver struct {
	ids map[string]string
}

func NewRefResolver() *RefResolver {
	return &RefResolver{ids: map[string]string{}}
}

// Register makes internalId resolvable through itself and through
// externalId when one exists.
func (r *RefResolver) Register(internalId string, externalId string) {
	if internalId == "" {
		return
	}
	r.ids[internalId] = internalId
	if externalId != "" {
		r.ids[externalId] = internalId
	}
}

func (r *RefResolver) Resolve(key string) (string, bool) {
	id, ok := r.ids[key]
	return id, ok
}

func (r *RefResolver) Len() int { return len(r.ids) }

// ForeignKey binds one column of a row map to the resolver of its parent
// entity type.
type ForeignKey struct {
	Column   string
	Parent   EntityType
	Resolver *RefResolver
}

// RepairReferences rewrites every foreign key column to the parent's
// internal id. A reference that resolves to nothing is set to null and
// reported as a warning, so a bad link degrades one field rather than
// rejecting the record.
func RepairReferences(entity EntityType, idColumn string, rows []RowMap, fks []ForeignKey) []Warning {
	var warnings []Warning
	for _, row := range rows {
		for _, fk := range fks {
			raw := stringValue(row[fk.Column])
			if raw == "" {
				continue
			}
			if resolved, ok := fk.Resolver.Resolve(raw); ok {
				row[fk.Column] = resolved
				continue
			}
			row[fk.Column] = nil
			warnings = append(warnings, Warning{
				Code:       WarnDanglingReference,
				EntityType: entity,
				RecordKey:  stringValue(row[idColumn]),
				Field:      fk.Column,
				Value:      raw,
				Message:    fmt.Sprintf("%s %q references missing %s %q, clearing the link", entity, stringValue(row[idColumn]), fk.Parent, raw),
			})
		}
	}
	return warnings
}
