// Package pdf converts filled DOCX documents to PDF.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Converter turns the DOCX at docxPath into a PDF and returns its path.
type Converter interface {
	Convert(ctx context.Context, docxPath string) (string, error)
}

// ConversionError carries the converter's output when it fails.
type ConversionError struct {
	Path   string
	Output string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("convert %s: %v", e.Path, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Soffice converts with a headless LibreOffice. The PDF is written beside
// the DOCX with the same base name.
type Soffice struct {
	Binary  string
	Timeout time.Duration
}

// NewSoffice returns a converter running binary, "soffice" when empty.
func NewSoffice(binary string) *Soffice {
	if binary == "" {
		binary = "soffice"
	}
	return &Soffice{Binary: binary, Timeout: 2 * time.Minute}
}

// PDFPath is where a converter places the PDF for docxPath.
func PDFPath(docxPath string) string {
	return strings.TrimSuffix(docxPath, filepath.Ext(docxPath)) + ".pdf"
}

func (s *Soffice) Convert(ctx context.Context, docxPath string) (string, error) {
	if _, err := os.Stat(docxPath); err != nil {
		return "", &ConversionError{Path: docxPath, Err: err}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	outDir := filepath.Dir(docxPath)
	cmd := exec.CommandContext(ctx, s.Binary,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", &ConversionError{Path: docxPath, Output: strings.TrimSpace(out.String()), Err: err}
	}

	pdfPath := PDFPath(docxPath)
	if _, err := os.Stat(pdfPath); err != nil {
		return "", &ConversionError{
			Path:   docxPath,
			Output: strings.TrimSpace(out.String()),
			Err:    errors.New("converter produced no pdf"),
		}
	}
	return pdfPath, nil
}
