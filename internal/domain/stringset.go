package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringSet is an insertion-ordered set of strings. Duplicate entries are
// rejected at Add time so the no-duplicates invariant holds at the data
// layer, not just in whichever form happened to build the value.
// Stored in SQLite as a JSON array.
type StringSet []string

func NewStringSet(vals ...string) StringSet {
	var s StringSet
	for _, v := range vals {
		s = s.Add(v)
	}
	return s
}

// Add returns the set with v appended unless it is already present or blank.
func (s StringSet) Add(v string) StringSet {
	v = strings.TrimSpace(v)
	if v == "" || s.Has(v) {
		return s
	}
	return append(s, v)
}

func (s StringSet) Has(v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// HasFold reports whether any entry contains sub, case-insensitively.
// Used by the search post-filter for tag/category matching.
func (s StringSet) HasFold(sub string) bool {
	sub = strings.ToLower(sub)
	for _, e := range s {
		if strings.Contains(strings.ToLower(e), sub) {
			return true
		}
	}
	return false
}

func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		s = StringSet{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSet) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("stringset: cannot scan %T", src)
	}
	if len(b) == 0 {
		*s = nil
		return nil
	}
	var raw []string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("stringset: %w", err)
	}
	// Re-apply the set invariant on the way in; older rows may predate it.
	out := StringSet{}
	for _, v := range raw {
		out = out.Add(v)
	}
	*s = out
	return nil
}
