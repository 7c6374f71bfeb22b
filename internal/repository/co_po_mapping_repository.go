package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// CoPoMappingRepository persists CO definitions and their PO/PSO strengths.
type CoPoMappingRepository struct {
	db *sqlx.DB
}

// NewCoPoMappingRepository constructs the repository.
func NewCoPoMappingRepository(db *sqlx.DB) *CoPoMappingRepository {
	return &CoPoMappingRepository{db: db}
}

// FindByOffering returns the mapping of one offering.
func (r *CoPoMappingRepository) FindByOffering(ctx context.Context, offeringID string) (*models.CoPoMapping, error) {
	const query = `SELECT id, offering_id, subject_code, subject_name, faculty_id, course_outcomes, created_at, updated_at
FROM co_po_mappings WHERE offering_id = $1`
	var mapping models.CoPoMapping
	if err := r.db.GetContext(ctx, &mapping, query, offeringID); err != nil {
		return nil, fmt.Errorf("get co-po mapping: %w", err)
	}
	return &mapping, nil
}

// List returns mappings, optionally restricted to one subject code.
func (r *CoPoMappingRepository) List(ctx context.Context, subjectCode string) ([]models.CoPoMapping, error) {
	query := `SELECT id, offering_id, subject_code, subject_name, faculty_id, course_outcomes, created_at, updated_at FROM co_po_mappings`
	var args []interface{}
	if subjectCode != "" {
		query += ` WHERE subject_code = $1`
		args = append(args, subjectCode)
	}
	query += ` ORDER BY subject_code, created_at DESC`

	var mappings []models.CoPoMapping
	if err := r.db.SelectContext(ctx, &mappings, query, args...); err != nil {
		return nil, fmt.Errorf("list co-po mappings: %w", err)
	}
	return mappings, nil
}

// Upsert creates or replaces the mapping of an offering.
func (r *CoPoMappingRepository) Upsert(ctx context.Context, mapping *models.CoPoMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	mapping.UpdatedAt = now
	const query = `INSERT INTO co_po_mappings (id, offering_id, subject_code, subject_name, faculty_id, course_outcomes, created_at, updated_at)
VALUES (:id, :offering_id, :subject_code, :subject_name, :faculty_id, :course_outcomes, :created_at, :updated_at)
ON CONFLICT (offering_id) DO UPDATE SET subject_name = EXCLUDED.subject_name, faculty_id = EXCLUDED.faculty_id,
course_outcomes = EXCLUDED.course_outcomes, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, mapping); err != nil {
		return fmt.Errorf("upsert co-po mapping: %w", err)
	}
	return nil
}
