package csvlog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestLogger_AppendsUnderHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "log.csv")
	l, err := Open(path, GeneralColumns)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Log(Row{"record": "R1", "status": "success", "details": "a, b \"quoted\""})
	l.Log(Row{"record": "R2", "unknown": "ignored"})

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "record" || rows[0][4] != "details" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][4] != `a, b "quoted"` {
		t.Errorf("details = %q", rows[1][4])
	}
	if len(rows[2]) != len(GeneralColumns) || rows[2][3] != "" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestOpen_ExistingFileKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	l, _ := Open(path, DocumentColumns)
	l.Log(Row{"record": "R1"})

	l2, err := Open(path, DocumentColumns)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	l2.Log(Row{"record": "R2"})
	if rows := readAll(t, path); len(rows) != 3 {
		t.Errorf("rows = %d, want 3 (one header)", len(rows))
	}
}

func TestPathsAndOpenSet(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	g, p, e := Paths(dir, now)
	if g != filepath.Join(dir, "logs_20250102_030405.csv") {
		t.Errorf("general = %s", g)
	}
	if p != filepath.Join(dir, "pdfs", "logs_20250102.csv") {
		t.Errorf("pdf = %s", p)
	}
	if e != filepath.Join(dir, "extended_records", "logs_20250102.csv") {
		t.Errorf("extended = %s", e)
	}

	set, err := OpenSet(dir, now)
	if err != nil {
		t.Fatalf("OpenSet: %v", err)
	}
	for _, l := range []*Logger{set.General, set.PDF, set.Extended} {
		if _, err := os.Stat(l.Path()); err != nil {
			t.Errorf("%s not created: %v", l.Path(), err)
		}
	}
}
