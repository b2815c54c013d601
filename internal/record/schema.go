package record

import "strings"

// Group names the REDCap instrument a detail field belongs to.
type Group string

const (
	GroupIdentifiers    Group = "identifiers"
	GroupMaternal       Group = "maternal"
	GroupBirth          Group = "birth"
	GroupInfantFollowUp Group = "infant_follow_up"
	GroupClinical       Group = "clinical"
	GroupHospital       Group = "hospital"
	GroupPregnantPerson Group = "pregnant_person"
	GroupInfant         Group = "infant"
	GroupRecordsRequest Group = "records_request"
	GroupLog            Group = "log"
)

// Field describes one named field of a Schema. Required fields must be
// present (possibly empty) for a row to become a Record.
type Field struct {
	Name     string
	Group    Group
	Required bool
	Checkbox bool
}

type fieldGroup struct {
	Group Group
	Names []string
}

// Schema is an ordered, named set of fields.
type Schema struct {
	Name    string
	IDField string // field used to identify a row in diagnostics
	fields  []Field
	index   map[string]int
}

// NewSchema builds a Schema. Later duplicates of a field name are ignored.
func NewSchema(name, idField string, fields []Field) *Schema {
	s := &Schema{Name: name, IDField: idField, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			continue
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

// Fields returns the schema fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the named field, or ok=false.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether name is a declared field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Required returns the names of required fields.
func (s *Schema) Required() []string {
	var names []string
	for _, f := range s.fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// SummarySchema is the REDCap record-log row.
var SummarySchema = NewSchema("case_summary", "record", []Field{
	{Name: "record", Group: GroupLog, Required: true},
	{Name: "timestamp", Group: GroupLog, Required: true},
	{Name: "username", Group: GroupLog, Required: true},
	{Name: "action", Group: GroupLog, Required: true},
	{Name: "details", Group: GroupLog, Required: true},
})

// DetailSchema is the full per-case export. Every field is optional.
var DetailSchema = newDetailSchema()

func newDetailSchema() *Schema {
	var fields []Field
	for _, g := range detailFieldGroups {
		for _, name := range g.Names {
			fields = append(fields, Field{Name: name, Group: g.Group, Checkbox: isCheckbox(name)})
		}
	}
	return NewSchema("case_detail", "mg_idpreg", fields)
}

// isCheckbox reports whether a detail field renders as a checkbox glyph in
// generated documents.
func isCheckbox(name string) bool {
	return strings.HasPrefix(name, "mr_rec_needs___") ||
		strings.HasPrefix(name, "mr_rec_needs_inf___") ||
		name == "mr_needs_oth_inf" ||
		name == "attestation"
}
