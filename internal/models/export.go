package models

import (
	"fmt"
	"strings"
	"time"
)

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts "csv" or "pdf" in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case ExportFormatCSV, ExportFormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// AttainmentExport is a rendered report file available through a signed URL.
type AttainmentExport struct {
	ID         string       `db:"id" json:"id"`
	OfferingID string       `db:"offering_id" json:"offeringId"`
	Format     ExportFormat `db:"format" json:"format"`
	FilePath   string       `db:"file_path" json:"-"`
	CreatedBy  string       `db:"created_by" json:"createdBy"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
	ExpiresAt  time.Time    `db:"expires_at" json:"expiresAt"`
}

// ExportLink is returned to clients after an export is rendered.
type ExportLink struct {
	ExportID  string       `json:"exportId"`
	Format    ExportFormat `json:"format"`
	URL       string       `json:"url"`
	ExpiresAt time.Time    `json:"expiresAt"`
}
