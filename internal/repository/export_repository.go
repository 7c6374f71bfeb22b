package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// ExportRepository persists metadata of rendered report files.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs the repository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an export row.
func (r *ExportRepository) Create(ctx context.Context, export *models.AttainmentExport) error {
	if export.ID == "" {
		export.ID = uuid.NewString()
	}
	if export.CreatedAt.IsZero() {
		export.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attainment_exports (id, offering_id, format, file_path, created_by, created_at, expires_at)
VALUES (:id, :offering_id, :format, :file_path, :created_by, :created_at, :expires_at)`
	if _, err := r.db.NamedExecContext(ctx, query, export); err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	return nil
}

// FindByID returns an export row.
func (r *ExportRepository) FindByID(ctx context.Context, id string) (*models.AttainmentExport, error) {
	const query = `SELECT id, offering_id, format, file_path, created_by, created_at, expires_at FROM attainment_exports WHERE id = $1`
	var export models.AttainmentExport
	if err := r.db.GetContext(ctx, &export, query, id); err != nil {
		return nil, fmt.Errorf("get export: %w", err)
	}
	return &export, nil
}

// DeleteExpired removes rows that expired before the cutoff and returns their file paths.
func (r *ExportRepository) DeleteExpired(ctx context.Context, before time.Time) ([]string, error) {
	const query = `DELETE FROM attainment_exports WHERE expires_at < $1 RETURNING file_path`
	var paths []string
	if err := r.db.SelectContext(ctx, &paths, query, before); err != nil {
		return nil, fmt.Errorf("delete expired exports: %w", err)
	}
	return paths, nil
}
