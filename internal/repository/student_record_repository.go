package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// StudentRecordRepository persists per-offering student rosters and their marks.
type StudentRecordRepository struct {
	db *sqlx.DB
}

// NewStudentRecordRepository constructs the repository.
func NewStudentRecordRepository(db *sqlx.DB) *StudentRecordRepository {
	return &StudentRecordRepository{db: db}
}

// ListByOffering returns every student record of an offering ordered by roll number.
func (r *StudentRecordRepository) ListByOffering(ctx context.Context, offeringID string) ([]models.StudentRecord, error) {
	const query = `SELECT id, offering_id, roll_no, name, marks, created_at, updated_at
FROM student_records WHERE offering_id = $1 ORDER BY roll_no`
	var records []models.StudentRecord
	if err := r.db.SelectContext(ctx, &records, query, offeringID); err != nil {
		return nil, fmt.Errorf("list student records: %w", err)
	}
	return records, nil
}

// FindByRollNo fetches a single student record.
func (r *StudentRecordRepository) FindByRollNo(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error) {
	const query = `SELECT id, offering_id, roll_no, name, marks, created_at, updated_at
FROM student_records WHERE offering_id = $1 AND roll_no = $2`
	var record models.StudentRecord
	if err := r.db.GetContext(ctx, &record, query, offeringID, rollNo); err != nil {
		return nil, fmt.Errorf("get student record: %w", err)
	}
	return &record, nil
}

// UpsertRoster inserts new students and renames existing ones in a single transaction.
// Marks of existing students are left untouched.
func (r *StudentRecordRepository) UpsertRoster(ctx context.Context, offeringID string, students []models.StudentRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO student_records (id, offering_id, roll_no, name, marks, created_at, updated_at)
VALUES (:id, :offering_id, :roll_no, :name, :marks, :created_at, :updated_at)
ON CONFLICT (offering_id, roll_no) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range students {
		s := &students[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.OfferingID = offeringID
		if s.Marks == nil {
			s.Marks = models.FamilyMarks{}
		}
		s.CreatedAt = now
		s.UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, s); err != nil {
			return fmt.Errorf("upsert student %s: %w", s.RollNo, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

// ReplaceSitting rewrites one sitting of a family for a student. The row stays
// locked between read and write so sittings saved concurrently are all kept.
func (r *StudentRecordRepository) ReplaceSitting(ctx context.Context, offeringID, rollNo string, family models.AssessmentFamily, assessment string, entries []models.MarkEntry) (_ *models.StudentRecord, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin marks tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const selectQuery = `SELECT id, offering_id, roll_no, name, marks, created_at, updated_at
FROM student_records WHERE offering_id = $1 AND roll_no = $2 FOR UPDATE`
	var record models.StudentRecord
	if err = tx.GetContext(ctx, &record, selectQuery, offeringID, rollNo); err != nil {
		return nil, fmt.Errorf("lock student record: %w", err)
	}

	record.Marks = record.Marks.ReplaceSitting(family, assessment, entries)
	record.UpdatedAt = time.Now().UTC()
	const updateQuery = `UPDATE student_records SET marks = $1, updated_at = $2 WHERE id = $3`
	if _, err = tx.ExecContext(ctx, updateQuery, record.Marks, record.UpdatedAt, record.ID); err != nil {
		return nil, fmt.Errorf("update student marks: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit marks tx: %w", err)
	}
	return &record, nil
}
