package flatfile

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/inovacc/addressbook/internal/model"
	"gopkg.in/yaml.v3"
)

// document is the YAML and JSON interchange layout.
type document struct {
	Contacts []record `json:"contacts" yaml:"contacts"`
}

type record struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Street    string `json:"street" yaml:"street"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	Zip       string `json:"zip" yaml:"zip"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
}

func toRecord(e *model.Entry) record {
	return record{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Street:    e.Address.Street,
		City:      e.Address.City,
		State:     e.Address.State,
		Zip:       e.Address.Zip,
		Email:     e.Email,
		Phone:     e.Phone,
	}
}

func (r record) entry() *model.Entry {
	t := strings.TrimSpace

	return &model.Entry{
		FirstName: t(r.FirstName),
		LastName:  t(r.LastName),
		Address: model.Address{
			Street: t(r.Street),
			City:   t(r.City),
			State:  t(r.State),
			Zip:    t(r.Zip),
		},
		Email: t(r.Email),
		Phone: t(r.Phone),
	}
}

func newDocument(entries []*model.Entry) document {
	doc := document{Contacts: make([]record, 0, len(entries))}
	for _, e := range entries {
		doc.Contacts = append(doc.Contacts, toRecord(e))
	}

	return doc
}

func (d document) entries() []*model.Entry {
	out := make([]*model.Entry, 0, len(d.Contacts))
	for _, r := range d.Contacts {
		out = append(out, r.entry())
	}

	return out
}

func decodeYAML(text []byte) ([]*model.Entry, error) {
	var doc document

	if len(bytes.TrimSpace(text)) == 0 {
		return nil, nil
	}

	if err := yaml.Unmarshal(text, &doc); err != nil {
		return nil, model.NewValidationError("file", "yaml", err.Error())
	}

	return doc.entries(), nil
}

func encodeYAML(w *bytes.Buffer, entries []*model.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(newDocument(entries)); err != nil {
		return err
	}

	return enc.Close()
}

func decodeJSON(text []byte) ([]*model.Entry, error) {
	var doc document

	if len(bytes.TrimSpace(text)) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, model.NewValidationError("file", "json", err.Error())
	}

	return doc.entries(), nil
}

func encodeJSON(w *bytes.Buffer, entries []*model.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(newDocument(entries))
}
