package parquetio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/mrrequest/internal/model"
)

// Write stores records at path as a Parquet file and returns the row count.
func Write(path string, records []model.ProcessingRecord) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create parquet file: %w", err)
	}

	rows := make([]model.ProcessingRow, len(records))
	for i := range records {
		rows[i] = records[i].ToRow()
	}

	w := parquet.NewGenericWriter[model.ProcessingRow](f)
	if _, err := w.Write(rows); err != nil {
		w.Close()
		f.Close()
		return 0, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close parquet file: %w", err)
	}
	return len(rows), nil
}
