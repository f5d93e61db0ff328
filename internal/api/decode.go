package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cpfDigits is the length of a CPF number.
const cpfDigits = 11

// RecordError describes one list element dropped during decoding.
type RecordError struct {
	Index  int
	Reason string
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

type rawEmployee struct {
	ID   *ID             `json:"id"`
	Nome *string         `json:"nome"`
	CPF  json.RawMessage `json:"cpf"`
}

type rawEquipment struct {
	ID         *ID     `json:"id"`
	Nome       *string `json:"nome"`
	Quantidade *int    `json:"quantidade"`
}

// DecodeEmployees decodes a JSON array of employees. Elements missing id, nome
// or cpf are dropped and reported; the error is non-nil only when the payload
// itself is not an array.
func DecodeEmployees(data []byte) ([]Employee, []RecordError, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("decoding employee list: %w", err)
	}

	out := make([]Employee, 0, len(elems))
	var dropped []RecordError
	for i, elem := range elems {
		var r rawEmployee
		if err := json.Unmarshal(elem, &r); err != nil {
			dropped = append(dropped, RecordError{Index: i, Reason: err.Error()})
			continue
		}
		cpf, err := decodeCPF(r.CPF)
		if err != nil {
			dropped = append(dropped, RecordError{Index: i, Reason: err.Error()})
			continue
		}
		switch {
		case r.ID == nil || *r.ID == "":
			dropped = append(dropped, RecordError{Index: i, Reason: "missing id"})
		case r.Nome == nil || strings.TrimSpace(*r.Nome) == "":
			dropped = append(dropped, RecordError{Index: i, Reason: "missing nome"})
		case cpf == "":
			dropped = append(dropped, RecordError{Index: i, Reason: "missing cpf"})
		default:
			out = append(out, Employee{ID: *r.ID, Nome: strings.TrimSpace(*r.Nome), CPF: cpf})
		}
	}
	return out, dropped, nil
}

// DecodeEquipment decodes a JSON array of equipment items with the same
// drop-and-report policy as DecodeEmployees. Negative quantities are rejected.
func DecodeEquipment(data []byte) ([]Equipment, []RecordError, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, nil, fmt.Errorf("decoding equipment list: %w", err)
	}

	out := make([]Equipment, 0, len(elems))
	var dropped []RecordError
	for i, elem := range elems {
		var r rawEquipment
		if err := json.Unmarshal(elem, &r); err != nil {
			dropped = append(dropped, RecordError{Index: i, Reason: err.Error()})
			continue
		}
		switch {
		case r.ID == nil || *r.ID == "":
			dropped = append(dropped, RecordError{Index: i, Reason: "missing id"})
		case r.Nome == nil || strings.TrimSpace(*r.Nome) == "":
			dropped = append(dropped, RecordError{Index: i, Reason: "missing nome"})
		case r.Quantidade == nil:
			dropped = append(dropped, RecordError{Index: i, Reason: "missing quantidade"})
		case *r.Quantidade < 0:
			dropped = append(dropped, RecordError{Index: i, Reason: fmt.Sprintf("negative quantidade %d", *r.Quantidade)})
		default:
			out = append(out, Equipment{ID: *r.ID, Nome: strings.TrimSpace(*r.Nome), Quantidade: *r.Quantidade})
		}
	}
	return out, dropped, nil
}

// decodeCPF accepts a string or a number. Numbers lose leading zeros on the
// wire, so they are padded back to 11 digits.
func decodeCPF(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var id ID
	if err := id.UnmarshalJSON(raw); err != nil {
		return "", fmt.Errorf("cpf: %w", err)
	}
	s := string(id)
	if len(raw) > 0 && raw[0] != '"' && s != "" && len(s) < cpfDigits {
		s = strings.Repeat("0", cpfDigits-len(s)) + s
	}
	return s, nil
}
