package preprocessing

import (
	"sort"

	"github.com/YuminosukeSato/hepkit/frame"
)

// CheckColumnsExist reports whether every table has every required column.
// It is false when no tables are given or any table is nil.
func CheckColumnsExist(required []string, tables ...*frame.Table) bool {
	if len(tables) == 0 {
		return false
	}
	for _, t := range tables {
		if t == nil || len(MissingColumns(required, t)) > 0 {
			return false
		}
	}
	return true
}

// MissingColumns returns the required columns absent from t, sorted and
// without repeats.
func MissingColumns(required []string, t *frame.Table) []string {
	seen := make(map[string]struct{}, len(required))
	var missing []string
	for _, c := range required {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}
