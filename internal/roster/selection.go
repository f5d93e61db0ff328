package roster

import "sort"

// Selection is an immutable set of cpfs. The zero value is empty.
type Selection struct {
	m map[string]struct{}
}

// NewSelection returns a set holding cpfs.
func NewSelection(cpfs ...string) Selection {
	m := make(map[string]struct{}, len(cpfs))
	for _, c := range cpfs {
		m[c] = struct{}{}
	}
	return Selection{m: m}
}

// Len returns the number of members.
func (s Selection) Len() int { return len(s.m) }

// Has reports membership.
func (s Selection) Has(cpf string) bool {
	_, ok := s.m[cpf]
	return ok
}

// Toggle returns s with cpf added if absent, removed if present.
func (s Selection) Toggle(cpf string) Selection {
	m := make(map[string]struct{}, len(s.m)+1)
	for c := range s.m {
		m[c] = struct{}{}
	}
	if _, ok := m[cpf]; ok {
		delete(m, cpf)
	} else {
		m[cpf] = struct{}{}
	}
	return Selection{m: m}
}

// Retain returns the members of s that appear in keep.
func (s Selection) Retain(keep []string) Selection {
	if len(s.m) == 0 {
		return s
	}
	m := make(map[string]struct{}, len(s.m))
	for _, c := range keep {
		if _, ok := s.m[c]; ok {
			m[c] = struct{}{}
		}
	}
	return Selection{m: m}
}

// Equal reports whether both sets hold the same members.
func (s Selection) Equal(o Selection) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for c := range s.m {
		if !o.Has(c) {
			return false
		}
	}
	return true
}

// Slice returns the members in ascending order.
func (s Selection) Slice() []string {
	out := make([]string, 0, len(s.m))
	for c := range s.m {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
