package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Parts that carry visible text: the body, headers and footers.
var textPart = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

// TemplateNotFoundError is returned when a template path does not exist.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

// Run is one w:t text run of a document.
type Run struct {
	Part    string
	Text    string
	InTable bool
}

type entry struct {
	header zip.FileHeader
	data   []byte
}

// Document is a DOCX package held in memory.
type Document struct {
	entries []entry
}

// Open reads the DOCX at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("read template: %w", err)
	}
	return Read(bytes.NewReader(data), int64(len(data)))
}

// Read parses a DOCX package.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open docx package: %w", err)
	}
	doc := &Document{entries: make([]entry, 0, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		doc.entries = append(doc.entries, entry{header: f.FileHeader, data: data})
	}
	if doc.part("word/document.xml") == nil {
		return nil, fmt.Errorf("open docx package: word/document.xml missing")
	}
	return doc, nil
}

func (d *Document) part(name string) []byte {
	for _, e := range d.entries {
		if e.header.Name == name {
			return e.data
		}
	}
	return nil
}

// Runs lists the text runs of every text part in package order.
func (d *Document) Runs() ([]Run, error) {
	var runs []Run
	for _, e := range d.entries {
		if !textPart.MatchString(e.header.Name) {
			continue
		}
		spans, err := scanSpans(e.data)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", e.header.Name, err)
		}
		for _, s := range spans {
			if s.text == "" {
				continue
			}
			runs = append(runs, Run{Part: e.header.Name, Text: s.text, InTable: s.inTable})
		}
	}
	return runs, nil
}

// Fill returns a new Document where every "#key#" inside a single run is
// replaced with values[key]. Placeholders with no value stay as they are,
// and runs without a match are left byte-for-byte unchanged. It also
// returns the number of placeholders replaced.
func (d *Document) Fill(values map[string]string) (*Document, int, error) {
	out := &Document{entries: make([]entry, len(d.entries))}
	total := 0
	for i, e := range d.entries {
		out.entries[i] = e
		if !textPart.MatchString(e.header.Name) {
			continue
		}
		data, n, err := fillPart(e.data, values)
		if err != nil {
			return nil, 0, fmt.Errorf("fill %s: %w", e.header.Name, err)
		}
		out.entries[i].data = data
		total += n
	}
	return out, total, nil
}

// Save writes the package to path, creating parent directories.
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write streams the package as a zip archive.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range d.entries {
		h := e.header
		fw, err := zw.CreateHeader(&h)
		if err != nil {
			return fmt.Errorf("write %s: %w", h.Name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("write %s: %w", h.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close docx package: %w", err)
	}
	return nil
}

// ReplacePlaceholders substitutes "#key#" tokens in text with values[key],
// scanning left to right so substituted text is never rescanned. Unknown
// keys are left in place.
func ReplacePlaceholders(text string, values map[string]string) (string, int) {
	if !strings.Contains(text, "#") {
		return text, 0
	}
	var b strings.Builder
	n := 0
	i := 0
	for {
		lo := strings.IndexByte(text[i:], '#')
		if lo < 0 {
			break
		}
		lo += i
		hi := strings.IndexByte(text[lo+1:], '#')
		if hi < 0 {
			break
		}
		hi += lo + 1
		key := text[lo+1 : hi]
		if v, ok := values[key]; ok && key != "" {
			b.WriteString(text[i:lo])
			b.WriteString(v)
			i = hi + 1
			n++
			continue
		}
		// The closing '#' may open the next placeholder.
		b.WriteString(text[i:hi])
		i = hi
	}
	b.WriteString(text[i:])
	return b.String(), n
}
