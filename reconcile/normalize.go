package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindDate
)

// fieldSpec names one comparable business field. Identity columns and
// bookkeeping timestamps never appear in a field list.
type fieldSpec[P Row] struct {
	name  string
	kind  valueKind
	value func(P) any
}

// normalizeValue folds a raw field value to a canonical string so that
// representation noise does not register as a change. Nil and the empty
// string normalize to the same value, strings are trimmed and case folded,
// numbers compare numerically and dates compare at calendar-day precision.
func normalizeValue(kind valueKind, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *string:
		if val == nil {
			return ""
		}
		return normalizeValue(kind, *val)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return ""
		}
		switch kind {
		case kindNumber:
			if d, err := decimal.NewFromString(s); err == nil {
				return d.String()
			}
			return strings.ToLower(s)
		case kindDate:
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.Format("2006-01-02")
			}
			return s
		default:
			return strings.ToLower(s)
		}
	case *decimal.Decimal:
		if val == nil {
			return ""
		}
		return val.String()
	case decimal.Decimal:
		return val.String()
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02")
	case time.Time:
		return val.Format("2006-01-02")
	case []byte:
		return normalizeValue(kind, string(val))
	default:
		return ""
	}
}

func valuesEqual(kind valueKind, imported any, existing any) bool {
	return normalizeValue(kind, imported) == normalizeValue(kind, existing)
}

// displayValue unwraps pointers so report readers see plain values.
func displayValue(v any) any {
	switch val := v.(type) {
	case *string:
		if val == nil {
			return nil
		}
		return *val
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return val.String()
	case decimal.Decimal:
		return val.String()
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.Format("2006-01-02")
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return v
	}
}
