package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Block is one body element of a composed document: a paragraph made of
// Runs, or a table when Rows is set (one run per cell).
type Block struct {
	Runs []string
	Rows [][]string
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// Compose writes a minimal DOCX package holding blocks. Every run gets its
// own w:r so callers can build multi-run paragraphs.
func Compose(w io.Writer, blocks []Block) error {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	for _, b := range blocks {
		if len(b.Rows) > 0 {
			body.WriteString("<w:tbl>")
			for _, row := range b.Rows {
				body.WriteString("<w:tr>")
				for _, cell := range row {
					body.WriteString("<w:tc>")
					writeParagraph(&body, []string{cell})
					body.WriteString("</w:tc>")
				}
				body.WriteString("</w:tr>")
			}
			body.WriteString("</w:tbl>")
			continue
		}
		writeParagraph(&body, b.Runs)
	}
	body.WriteString("<w:sectPr/></w:body></w:document>")

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{"_rels/.rels", []byte(packageRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("compose %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("compose %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

// ComposeFile writes a composed document to path.
func ComposeFile(path string, blocks []Block) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Compose(&buf, blocks); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeParagraph(buf *bytes.Buffer, runs []string) {
	buf.WriteString("<w:p>")
	for _, r := range runs {
		buf.WriteString(`<w:r><w:t xml:space="preserve">`)
		xml.EscapeText(buf, []byte(r))
		buf.WriteString("</w:t></w:r>")
	}
	buf.WriteString("</w:p>")
}
