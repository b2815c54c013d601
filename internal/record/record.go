package record

import "maps"

// Glyphs used for checkbox fields in generated documents.
const (
	CheckedGlyph   = "☑"
	UncheckedGlyph = "☐"
)

// Record is a schema-filtered flat mapping of string fields. A Record is a
// value: With returns a modified copy and the receiver is never changed.
type Record struct {
	schema *Schema
	values map[string]string
}

// New builds a Record from values, dropping keys the schema does not declare.
func New(schema *Schema, values map[string]string) Record {
	r := Record{schema: schema, values: make(map[string]string, len(values))}
	for k, v := range values {
		if schema.Has(k) {
			r.values[k] = v
		}
	}
	return r
}

// Schema returns the schema the record was built against.
func (r Record) Schema() *Schema {
	return r.schema
}

// ID returns the value of the schema's identifying field.
func (r Record) ID() string {
	return r.values[r.schema.IDField]
}

// Get returns the named field, or "" when unset.
func (r Record) Get(name string) string {
	return r.values[name]
}

// Lookup returns the named field and whether it was set.
func (r Record) Lookup(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// With returns a copy of r with updates applied. Keys outside the schema
// are ignored.
func (r Record) With(updates map[string]string) Record {
	out := Record{schema: r.schema, values: maps.Clone(r.values)}
	if out.values == nil {
		out.values = make(map[string]string, len(updates))
	}
	for k, v := range updates {
		if r.schema.Has(k) {
			out.values[k] = v
		}
	}
	return out
}

// Map returns a copy of the set fields.
func (r Record) Map() map[string]string {
	return maps.Clone(r.values)
}

// Fields returns the set fields as a details-style mapping for classification.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// TemplateValues returns every schema field as template text. Checkbox
// fields render as glyphs; unset fields render as "".
func (r Record) TemplateValues() map[string]string {
	out := make(map[string]string, len(r.schema.fields))
	for _, f := range r.schema.fields {
		v := r.values[f.Name]
		if f.Checkbox {
			if Truthy(v) {
				v = CheckedGlyph
			} else {
				v = UncheckedGlyph
			}
		}
		out[f.Name] = v
	}
	return out
}
