package record

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Diagnostic explains why a row did not become a Record.
type Diagnostic struct {
	RecordID string
	Reason   string
	Raw      map[string]string
}

// FilterToSchema keeps only the schema's fields of each row and builds a
// Record. A row missing a required field is skipped; one Diagnostic is
// returned and logged for it and the remaining rows are still processed.
func FilterToSchema(rows []map[string]string, schema *Schema, log zerolog.Logger) ([]Record, []Diagnostic) {
	records := make([]Record, 0, len(rows))
	var diags []Diagnostic

	for _, row := range rows {
		var missing []string
		for _, name := range schema.Required() {
			if _, ok := row[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			d := Diagnostic{
				RecordID: row[schema.IDField],
				Reason:   fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")),
				Raw:      row,
			}
			log.Warn().
				Str("schema", schema.Name).
				Str("record", d.RecordID).
				Str("reason", d.Reason).
				Interface("raw", row).
				Msg("skipping invalid record")
			diags = append(diags, d)
			continue
		}
		records = append(records, New(schema, row))
	}
	return records, diags
}
