package docx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func composeDoc(t *testing.T, blocks []Block) *Document {
	t.Helper()
	var buf bytes.Buffer
	if err := Compose(&buf, blocks); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	doc, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return doc
}

func runTexts(t *testing.T, doc *Document) []string {
	t.Helper()
	runs, err := doc.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Text
	}
	return out
}

func TestFill_PlaceholderIsRunLocal(t *testing.T) {
	doc := composeDoc(t, []Block{{Runs: []string{"Name: #first#", " #last#."}}})
	filled, n, err := doc.Fill(map[string]string{"first": "Ann", "last": "Lee"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if n != 2 {
		t.Errorf("replaced %d placeholders, want 2", n)
	}
	got := runTexts(t, filled)
	if len(got) != 2 || got[0] != "Name: Ann" || got[1] != " Lee." {
		t.Errorf("runs = %q", got)
	}
}

func TestFill_UnknownPlaceholderUntouched(t *testing.T) {
	doc := composeDoc(t, []Block{{Runs: []string{"#known# and #unknown#"}}})
	filled, _, err := doc.Fill(map[string]string{"known": "K"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got := runTexts(t, filled); got[0] != "K and #unknown#" {
		t.Errorf("run = %q", got[0])
	}
}

func TestFill_TableCells(t *testing.T) {
	doc := composeDoc(t, []Block{
		{Runs: []string{"Header"}},
		{Rows: [][]string{{"Need", "#mr_rec_needs___1#"}, {"Hospital", "#hos_name#"}}},
	})
	filled, _, err := doc.Fill(map[string]string{"mr_rec_needs___1": "☑", "hos_name": "A&B Medical"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	runs, err := filled.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if runs[0].InTable {
		t.Error("paragraph run reported as table cell")
	}
	if !runs[2].InTable || runs[2].Text != "☑" {
		t.Errorf("cell run = %+v", runs[2])
	}
	if runs[4].Text != "A&B Medical" {
		t.Errorf("escaped value round-trip = %q", runs[4].Text)
	}
}

func TestFill_NoMatchKeepsBytes(t *testing.T) {
	doc := composeDoc(t, []Block{{Runs: []string{"plain text", "#nothing#"}}})
	filled, n, err := doc.Fill(map[string]string{"other": "x"})
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if n != 0 {
		t.Errorf("replaced %d, want 0", n)
	}
	if !bytes.Equal(doc.part("word/document.xml"), filled.part("word/document.xml")) {
		t.Error("document.xml changed without any replacement")
	}
}

func TestFillPart_WhitespaceAndLineBreaks(t *testing.T) {
	const head = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r>`
	const tail = `</w:r></w:p></w:body></w:document>`
	values := map[string]string{"first": "", "name": "Ann", "pad": " x ", "addr": "1 Main St\nApt 2"}

	tests := []struct {
		name, in, want string
	}{
		{"trailing space gains preserve", `<w:t>Name: #first#</w:t>`, `<w:t xml:space="preserve">Name: </w:t>`},
		{"plain value keeps tag", `<w:t>#name#</w:t>`, `<w:t>Ann</w:t>`},
		{"existing preserve not duplicated", `<w:t xml:space="preserve">#pad#</w:t>`, `<w:t xml:space="preserve"> x </w:t>`},
		{"newline becomes break", `<w:t>#addr#</w:t>`,
			`<w:t xml:space="preserve">1 Main St</w:t><w:br/><w:t xml:space="preserve">Apt 2</w:t>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n, err := fillPart([]byte(head+tt.in+tail), values)
			if err != nil {
				t.Fatalf("fillPart: %v", err)
			}
			if n != 1 {
				t.Errorf("replaced %d, want 1", n)
			}
			if got := string(out); got != head+tt.want+tail {
				t.Errorf("part = %s, want %s", got[len(head):len(got)-len(tail)], tt.want)
			}
			if _, err := scanSpans(out); err != nil {
				t.Errorf("filled part is not well formed: %v", err)
			}
		})
	}
}

func TestReplacePlaceholders(t *testing.T) {
	vals := map[string]string{"b": "B", "loop": "#b#"}
	cases := []struct {
		in, want string
		n        int
	}{
		{"#a #b#", "#a B", 1},
		{"#b##b#", "BB", 2},
		{"#loop#", "#b#", 1},
		{"no tokens", "no tokens", 0},
		{"##", "##", 0},
		{"trailing #b", "trailing #b", 0},
	}
	for _, c := range cases {
		got, n := ReplacePlaceholders(c.in, vals)
		if got != c.want || n != c.n {
			t.Errorf("ReplacePlaceholders(%q) = %q,%d want %q,%d", c.in, got, n, c.want, c.n)
		}
	}
}

func TestFiller_WritesPartitionedOutput(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "mother_template.docx")
	if err := ComposeFile(tmpl, []Block{{Runs: []string{"Case #mg_idpreg#"}}}); err != nil {
		t.Fatalf("ComposeFile: %v", err)
	}

	f := NewFiller(filepath.Join(dir, "output"))
	f.Now = func() time.Time { return time.Date(2025, 1, 1, 14, 5, 0, 0, time.Local) }

	out, err := f.Fill(tmpl, "first_request", map[string]string{"mg_idpreg": "R1"}, 0)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := filepath.Join(dir, "output", "2025010114", "first_request", "R1_0.docx")
	if out != want {
		t.Errorf("path = %s, want %s", out, want)
	}
	doc, err := Open(out)
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	if got := runTexts(t, doc); got[0] != "Case R1" {
		t.Errorf("run = %q", got[0])
	}
}

func TestFiller_Errors(t *testing.T) {
	dir := t.TempDir()
	f := NewFiller(dir)

	_, err := f.Fill(filepath.Join(dir, "missing.docx"), "first_request", map[string]string{"mg_idpreg": "R1"}, 0)
	var tnf *TemplateNotFoundError
	if !errors.As(err, &tnf) {
		t.Errorf("expected TemplateNotFoundError, got %v", err)
	}

	tmpl := filepath.Join(dir, "t.docx")
	if err := ComposeFile(tmpl, []Block{{Runs: []string{"x"}}}); err != nil {
		t.Fatalf("ComposeFile: %v", err)
	}
	_, err = f.Fill(tmpl, "first_request", map[string]string{"mg_idpreg": "  "}, 0)
	var mk *MissingKeyError
	if !errors.As(err, &mk) || mk.Key != "mg_idpreg" {
		t.Errorf("expected MissingKeyError, got %v", err)
	}
}

func TestOpen_NotADocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	os.WriteFile(path, []byte("not a zip"), 0644)
	if _, err := Open(path); err == nil {
		t.Fatal("expected error for invalid package")
	}
}

func TestOutputPath_SanitizesID(t *testing.T) {
	got := OutputPath("out", time.Date(2025, 3, 4, 5, 0, 0, 0, time.UTC), "second_request", "A/B", 2, "pdf")
	want := filepath.Join("out", "2025030405", "second_request", "A_B_2.pdf")
	if got != want {
		t.Errorf("OutputPath = %s, want %s", got, want)
	}
}
