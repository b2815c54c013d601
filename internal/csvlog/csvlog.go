// Package csvlog appends processing events to CSV files an operator can
// open in a spreadsheet.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Column sets of the general and document logs.
var (
	GeneralColumns  = []string{"record", "timestamp", "username", "status", "details"}
	DocumentColumns = []string{"record", "timestamp", "username", "request_type", "process_type", "status", "details"}
)

// Row is one log line keyed by column name. Missing columns are written
// empty and unknown keys are ignored.
type Row map[string]string

// Logger appends rows to one CSV file. The header is written when the file
// is created.
type Logger struct {
	path    string
	columns []string
	mu      sync.Mutex
}

// Open prepares the file at path, creating parent directories and the
// header row as needed.
func Open(path string, columns []string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create log: %w", err)
		}
		w := csv.NewWriter(f)
		w.Write(columns)
		w.Flush()
		if err := errors.Join(w.Error(), f.Close()); err != nil {
			return nil, fmt.Errorf("write log header: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	return &Logger{path: path, columns: columns}, nil
}

func (l *Logger) Path() string { return l.path }

// Log appends one row.
func (l *Logger) Log(row Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	rec := make([]string, len(l.columns))
	for i, c := range l.columns {
		rec[i] = row[c]
	}
	w := csv.NewWriter(f)
	w.Write(rec)
	w.Flush()
	return errors.Join(w.Error(), f.Close())
}

// Set is the three logs of one run.
type Set struct {
	General  *Logger
	PDF      *Logger
	Extended *Logger
}

// Paths of the logs for a run started at now:
// logs_<YYYYMMDD_HHMMSS>.csv, pdfs/logs_<YYYYMMDD>.csv and
// extended_records/logs_<YYYYMMDD>.csv under dir.
func Paths(dir string, now time.Time) (general, pdf, extended string) {
	day := now.Format("20060102")
	return filepath.Join(dir, "logs_"+now.Format("20060102_150405")+".csv"),
		filepath.Join(dir, "pdfs", "logs_"+day+".csv"),
		filepath.Join(dir, "extended_records", "logs_"+day+".csv")
}

// OpenSet opens the run's logs under dir.
func OpenSet(dir string, now time.Time) (*Set, error) {
	gp, pp, ep := Paths(dir, now)
	general, err := Open(gp, GeneralColumns)
	if err != nil {
		return nil, err
	}
	pdf, err := Open(pp, DocumentColumns)
	if err != nil {
		return nil, err
	}
	extended, err := Open(ep, DocumentColumns)
	if err != nil {
		return nil, err
	}
	return &Set{General: general, PDF: pdf, Extended: extended}, nil
}
