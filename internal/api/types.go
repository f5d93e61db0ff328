package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a record identifier as sent by the remote service. The service has
// emitted both numbers and strings over time, so both decode into the same
// canonical string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Employee is one guard record returned by GET /.
type Employee struct {
	ID   ID     `json:"id"`
	Nome string `json:"nome"`
	CPF  string `json:"cpf"`
}

// NewEmployee is the body of POST /usuarios.
type NewEmployee struct {
	Nome string `json:"nome"`
	CPF  string `json:"cpf"`
}

// EmployeePatch is the body of PUT /{id}. Empty fields are left out of the
// request so the server keeps its current value.
type EmployeePatch struct {
	Nome string `json:"nome,omitempty"`
	CPF  string `json:"cpf,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p EmployeePatch) Empty() bool {
	return p.Nome == "" && p.CPF == ""
}

// Equipment is one inventory item returned by GET /equipamentos.
type Equipment struct {
	ID         ID     `json:"id"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
}

// Adjustment selects the quantity mutation endpoint for an equipment item.
type Adjustment string

const (
	Add    Adjustment = "add"
	Remove Adjustment = "remove"
)
