// Package delta compares roster snapshots so a refresh can report what changed.
package delta

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/jes-seguranca/jesctl/internal/api"
)

// Change describes the difference between two roster snapshots, keyed by cpf.
type Change struct {
	Added   []string // cpfs present only in the new snapshot
	Removed []string // cpfs present only in the old snapshot
	Renamed []string // cpfs whose nome changed
}

// Empty reports whether the snapshots hold the same records.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Renamed) == 0
}

// Fingerprint returns a SHA256 over the snapshot's records, independent of
// their order.
func Fingerprint(emps []api.Employee) string {
	lines := make([]string, len(emps))
	for i, e := range emps {
		lines[i] = string(e.ID) + "\x00" + e.Nome + "\x00" + e.CPF
	}
	sort.Strings(lines)

	h := sha256.New()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// Compare returns what changed from old to cur. Result slices are sorted.
func Compare(old, cur []api.Employee) Change {
	if Fingerprint(old) == Fingerprint(cur) {
		return Change{}
	}

	oldNames := names(old)
	curNames := names(cur)

	var c Change
	for cpf, nome := range curNames {
		prev, ok := oldNames[cpf]
		switch {
		case !ok:
			c.Added = append(c.Added, cpf)
		case prev != nome:
			c.Renamed = append(c.Renamed, cpf)
		}
	}
	for cpf := range oldNames {
		if _, ok := curNames[cpf]; !ok {
			c.Removed = append(c.Removed, cpf)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	sort.Strings(c.Renamed)
	return c
}

func names(emps []api.Employee) map[string]string {
	m := make(map[string]string, len(emps))
	for _, e := range emps {
		m[e.CPF] = e.Nome
	}
	return m
}
