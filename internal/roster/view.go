package roster

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jes-seguranca/jesctl/internal/api"
	"github.com/jes-seguranca/jesctl/internal/format"
)

// SortByName returns a copy of emps ordered by nome using Portuguese
// collation, ignoring case and accents. Equal names keep their input order.
func SortByName(emps []api.Employee) []api.Employee {
	out := append([]api.Employee(nil), emps...)
	col := collate.New(language.BrazilianPortuguese, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Nome, out[j].Nome) < 0
	})
	return out
}

// Filter returns the employees whose nome or cpf contains text, ignoring
// case, in input order. An empty text returns emps itself.
func Filter(emps []api.Employee, text string) []api.Employee {
	if text == "" {
		return emps
	}
	needle := strings.ToLower(text)
	out := make([]api.Employee, 0, len(emps))
	for _, e := range emps {
		if strings.Contains(strings.ToLower(e.Nome), needle) ||
			strings.Contains(strings.ToLower(e.CPF), needle) {
			out = append(out, e)
		}
	}
	return out
}

// ExportText renders the selected employees for the clipboard, in snapshot
// order, one "NOME:/CPF:" block per record separated by a blank line.
func ExportText(snapshot []api.Employee, sel Selection) string {
	return strings.Join(exportRecords(snapshot, sel), "\n")
}

func exportRecords(snapshot []api.Employee, sel Selection) []string {
	var records []string
	for _, e := range snapshot {
		if !sel.Has(e.CPF) {
			continue
		}
		records = append(records, fmt.Sprintf("NOME: %s\nCPF: %s\n", format.Name(e.Nome), format.CPF(e.CPF)))
	}
	return records
}
