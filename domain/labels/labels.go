// Package labels models the per-cell categorical labeling consumed by
// feature selection: a leveled categorical vector with a stable, finite
// level order and a deterministic identifier-safe normalization.
package labels

import (
	"fmt"
	"sort"

	"featurespace/domain/core"
)

// Labeling is a per-cell categorical assignment with an ordered level set.
// For a binary labeling the first level is the designated positive class.
type Labeling struct {
	Field  string           // name of the metadata field the labels came from
	Values []core.ClassName // one label per cell
	Levels []core.ClassName // distinct levels, order significant
}

// New builds a labeling from raw values. Levels are derived as the sorted
// unique values (factor-default ordering).
func New(field string, values []string) Labeling {
	classes := make([]core.ClassName, len(values))
	seen := make(map[core.ClassName]struct{})
	var levels []core.ClassName
	for i, v := range values {
		c := core.ClassName(v)
		classes[i] = c
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			levels = append(levels, c)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return Labeling{Field: field, Values: classes, Levels: levels}
}

// NewWithLevels builds a labeling with an explicit level order. Values not in
// the level set keep their class name; callers should validate via Has.
func NewWithLevels(field string, values []string, levels []string) Labeling {
	l := New(field, values)
	l.Levels = make([]core.ClassName, len(levels))
	for i, lv := range levels {
		l.Levels[i] = core.ClassName(lv)
	}
	return l
}

// Len returns the number of labeled cells
func (l Labeling) Len() int {
	return len(l.Values)
}

// Has reports whether class is one of the labeling's levels
func (l Labeling) Has(class core.ClassName) bool {
	for _, lv := range l.Levels {
		if lv == class {
			return true
		}
	}
	return false
}

// Mask returns a boolean vector marking the cells labeled with class
func (l Labeling) Mask(class core.ClassName) []bool {
	mask := make([]bool, len(l.Values))
	for i, v := range l.Values {
		mask[i] = v == class
	}
	return mask
}

// Count returns the number of cells labeled with class
func (l Labeling) Count(class core.ClassName) int {
	n := 0
	for _, v := range l.Values {
		if v == class {
			n++
		}
	}
	return n
}

// RenameNotice reports an automatic label sanitization. It is informational,
// never an error: execution continues with the renamed field.
type RenameNotice struct {
	FromField string
	ToField   string
	Renamed   map[core.ClassName]core.ClassName // old level -> sanitized level
}

func (n *RenameNotice) String() string {
	return fmt.Sprintf("labels in %q sanitized into %q (%d levels rewritten)",
		n.FromField, n.ToField, len(n.Renamed))
}

// Normalize returns the labeling to use for the rest of the pipeline. When
// every level is already a bare identifier the receiver is returned as is.
// Otherwise all levels are rewritten with sanitizeLevel, the field name is
// suffixed ".valid", and a RenameNotice describes the rewrite. The function
// is pure: persisting the sanitized field is the caller's decision.
// Two levels collapsing onto the same sanitized name would make the result
// mapping ambiguous, so that case is a configuration error.
func (l Labeling) Normalize() (Labeling, *RenameNotice, error) {
	needed := false
	for _, lv := range l.Levels {
		if !isValidIdentifier(string(lv)) {
			needed = true
			break
		}
	}
	if !needed {
		return l, nil, nil
	}

	renamed := make(map[core.ClassName]core.ClassName, len(l.Levels))
	taken := make(map[core.ClassName]core.ClassName, len(l.Levels))
	levels := make([]core.ClassName, len(l.Levels))
	for i, lv := range l.Levels {
		clean := core.ClassName(sanitizeLevel(string(lv)))
		if prev, clash := taken[clean]; clash {
			return Labeling{}, nil, fmt.Errorf("%w: %q and %q both map to %q",
				core.ErrAmbiguousClassNames, prev, lv, clean)
		}
		taken[clean] = lv
		renamed[lv] = clean
		levels[i] = clean
	}

	values := make([]core.ClassName, len(l.Values))
	for i, v := range l.Values {
		values[i] = renamed[v]
	}

	out := Labeling{
		Field:  l.Field + ".valid",
		Values: values,
		Levels: levels,
	}
	notice := &RenameNotice{FromField: l.Field, ToField: out.Field, Renamed: renamed}
	return out, notice, nil
}

// isValidIdentifier reports whether s is safe to use as a bare variable or
// column name downstream: letters, digits and underscores, not starting
// with a digit.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// sanitizeLevel rewrites a level into a valid identifier: unsafe runes
// become underscores and a leading digit (or empty string) gets an "X"
// prefix, mirroring factor-name repair conventions.
func sanitizeLevel(s string) string {
	if s == "" {
		return "X"
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'X'}, out...)
	}
	return string(out)
}
