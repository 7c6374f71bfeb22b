package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// AttainmentReportRepository stores the latest computed report per offering.
type AttainmentReportRepository struct {
	db *sqlx.DB
}

// NewAttainmentReportRepository constructs the repository.
func NewAttainmentReportRepository(db *sqlx.DB) *AttainmentReportRepository {
	return &AttainmentReportRepository{db: db}
}

// Save replaces the stored report of an offering. The write is refused with
// models.ErrInputsChanged when the offering's inputs version no longer matches
// report.InputsVersion; the share lock holds off version bumps until commit.
func (r *AttainmentReportRepository) Save(ctx context.Context, report *models.StoredAttainmentReport) (err error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CalculatedAt.IsZero() {
		report.CalculatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current int64
	if err = tx.GetContext(ctx, &current, `SELECT inputs_version FROM course_offerings WHERE id = $1 FOR SHARE`, report.OfferingID); err != nil {
		return fmt.Errorf("lock offering inputs: %w", err)
	}
	if current != report.InputsVersion {
		err = fmt.Errorf("save attainment report: %w", models.ErrInputsChanged)
		return err
	}

	const query = `INSERT INTO attainment_reports (id, offering_id, report, calculated_by, calculated_at, inputs_version)
VALUES (:id, :offering_id, :report, :calculated_by, :calculated_at, :inputs_version)
ON CONFLICT (offering_id) DO UPDATE SET report = EXCLUDED.report, calculated_by = EXCLUDED.calculated_by,
calculated_at = EXCLUDED.calculated_at, inputs_version = EXCLUDED.inputs_version`
	if _, err = tx.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("save attainment report: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit report tx: %w", err)
	}
	return nil
}

// FindByOffering returns the stored report of an offering.
func (r *AttainmentReportRepository) FindByOffering(ctx context.Context, offeringID string) (*models.StoredAttainmentReport, error) {
	const query = `SELECT id, offering_id, report, calculated_by, calculated_at, inputs_version FROM attainment_reports WHERE offering_id = $1`
	var report models.StoredAttainmentReport
	if err := r.db.GetContext(ctx, &report, query, offeringID); err != nil {
		return nil, fmt.Errorf("get attainment report: %w", err)
	}
	return &report, nil
}

// DeleteByOffering drops a stale report. Deleting a missing report is not an error.
func (r *AttainmentReportRepository) DeleteByOffering(ctx context.Context, offeringID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attainment_reports WHERE offering_id = $1`, offeringID); err != nil {
		return fmt.Errorf("delete attainment report: %w", err)
	}
	return nil
}
