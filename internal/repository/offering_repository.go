package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

const offeringColumns = `id, subject_code, academic_year, semester, branch, section, subject_name, faculty_id, config, created_at, updated_at, inputs_version`

// OfferingRepository manages persistence for course offerings.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs an OfferingRepository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// List returns offerings matching the filter, newest first.
func (r *OfferingRepository) List(ctx context.Context, filter models.OfferingFilter) ([]models.CourseOffering, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.SubjectCode != "" {
		add("subject_code", filter.SubjectCode)
	}
	if filter.AcademicYear != "" {
		add("academic_year", filter.AcademicYear)
	}
	if filter.Semester > 0 {
		add("semester", filter.Semester)
	}
	if filter.Branch != "" {
		add("branch", filter.Branch)
	}
	if filter.Section != "" {
		add("section", filter.Section)
	}
	if filter.FacultyID != "" {
		add("faculty_id", filter.FacultyID)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM course_offerings WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, offeringColumns, where, size, offset)
	var offerings []models.CourseOffering
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offerings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM course_offerings WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count offerings: %w", err)
	}
	return offerings, total, nil
}

// FindByID fetches an offering by ID.
func (r *OfferingRepository) FindByID(ctx context.Context, id string) (*models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_offerings WHERE id = $1`, offeringColumns)
	var offering models.CourseOffering
	if err := r.db.GetContext(ctx, &offering, query, id); err != nil {
		return nil, fmt.Errorf("get offering: %w", err)
	}
	return &offering, nil
}

// FindByKey fetches an offering by its composite key.
func (r *OfferingRepository) FindByKey(ctx context.Context, key models.CourseOfferingKey) (*models.CourseOffering, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_offerings
WHERE subject_code = $1 AND academic_year = $2 AND semester = $3 AND branch = $4 AND section = $5`, offeringColumns)
	var offering models.CourseOffering
	if err := r.db.GetContext(ctx, &offering, query, key.SubjectCode, key.AcademicYear, key.Semester, key.Branch, key.Section); err != nil {
		return nil, fmt.Errorf("get offering by key: %w", err)
	}
	return &offering, nil
}

// Create inserts a new offering.
func (r *OfferingRepository) Create(ctx context.Context, offering *models.CourseOffering) error {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if offering.CreatedAt.IsZero() {
		offering.CreatedAt = now
	}
	offering.UpdatedAt = now
	const query = `INSERT INTO course_offerings (id, subject_code, academic_year, semester, branch, section, subject_name, faculty_id, config, created_at, updated_at)
VALUES (:id, :subject_code, :academic_year, :semester, :branch, :section, :subject_name, :faculty_id, :config, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offering); err != nil {
		return fmt.Errorf("create offering: %w", err)
	}
	return nil
}

// UpdateConfig replaces the assessment configuration of an offering.
func (r *OfferingRepository) UpdateConfig(ctx context.Context, id string, cfg models.OfferingConfig) error {
	const query = `UPDATE course_offerings SET config = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, cfg, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update offering config: %w", err)
	}
	return expectAffected(res, "update offering config")
}

// BumpInputsVersion moves the offering's inputs version and returns the new value.
func (r *OfferingRepository) BumpInputsVersion(ctx context.Context, id string) (int64, error) {
	const query = `UPDATE course_offerings SET inputs_version = inputs_version + 1 WHERE id = $1 RETURNING inputs_version`
	var version int64
	if err := r.db.GetContext(ctx, &version, query, id); err != nil {
		return 0, fmt.Errorf("bump inputs version: %w", err)
	}
	return version, nil
}

// InputsVersion returns the current inputs version of an offering.
func (r *OfferingRepository) InputsVersion(ctx context.Context, id string) (int64, error) {
	var version int64
	if err := r.db.GetContext(ctx, &version, `SELECT inputs_version FROM course_offerings WHERE id = $1`, id); err != nil {
		return 0, fmt.Errorf("get inputs version: %w", err)
	}
	return version, nil
}
