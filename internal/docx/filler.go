package docx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IDKey is the mapping key that names every generated document.
const IDKey = "mg_idpreg"

// MissingKeyError is returned when the values lack the document identifier.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required key %q not found in values", e.Key)
}

// Filler fills templates and writes them under OutputRoot, partitioned by
// the hour of processing and by stage directory.
type Filler struct {
	OutputRoot string
	Now        func() time.Time
}

// NewFiller returns a Filler writing under root.
func NewFiller(root string) *Filler {
	return &Filler{OutputRoot: root, Now: time.Now}
}

// HourDir is the output partition for t, e.g. 2025010114.
func HourDir(t time.Time) string {
	return t.Format("2006010215")
}

// OutputPath builds <root>/<YYYYMMDDHH>/<stageDir>/<id>_<index>.<ext>.
func OutputPath(root string, now time.Time, stageDir, id string, index int, ext string) string {
	name := fmt.Sprintf("%s_%d.%s", safeName(id), index, ext)
	return filepath.Join(root, HourDir(now), stageDir, name)
}

// Fill fills the template at templatePath with values and saves the result.
// It returns the path of the written document.
func (f *Filler) Fill(templatePath, stageDir string, values map[string]string, index int) (string, error) {
	id := strings.TrimSpace(values[IDKey])
	if id == "" {
		return "", &MissingKeyError{Key: IDKey}
	}
	if _, err := os.Stat(templatePath); err != nil {
		return "", &TemplateNotFoundError{Path: templatePath}
	}

	tmpl, err := Open(templatePath)
	if err != nil {
		return "", err
	}
	filled, _, err := tmpl.Fill(values)
	if err != nil {
		return "", err
	}

	out := OutputPath(f.OutputRoot, f.Now(), stageDir, id, index, "docx")
	if err := filled.Save(out); err != nil {
		return "", err
	}
	return out, nil
}

// safeName keeps an identifier usable as a single path element.
func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
}
