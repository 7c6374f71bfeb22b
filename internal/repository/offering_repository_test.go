package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var offeringRowColumns = []string{"id", "subject_code", "academic_year", "semester", "branch", "section", "subject_name", "faculty_id", "config", "created_at", "updated_at", "inputs_version"}

func TestOfferingRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	config := []byte(`{"assessments":{"TCA":{"weightage":0.6,"coMapping":{"q1a":"CO1"}},"TES":{"weightage":0.4,"coMapping":{"q1a":"CO1"}}},"thresholds":{"thresholdPercentage":55}}`)
	rows := sqlmock.NewRows(offeringRowColumns).
		AddRow("off-1", "CS301", "2025-26", 5, "CSE", "A", "Compilers", "fac-1", config, time.Now(), time.Now(), 3)
	mock.ExpectQuery(regexp.QuoteMeta("FROM course_offerings WHERE id = $1")).
		WithArgs("off-1").
		WillReturnRows(rows)

	offering, err := repo.FindByID(context.Background(), "off-1")
	require.NoError(t, err)
	assert.Equal(t, "CS301", offering.SubjectCode)
	assert.Equal(t, 5, offering.Semester)
	assert.Equal(t, 0.6, offering.Config.Assessments[models.FamilyTCA].Weightage)
	assert.Equal(t, models.COIdentifier("CO1"), offering.Config.Assessments[models.FamilyTES].COMapping["q1a"])
	assert.Equal(t, 55.0, offering.Config.Thresholds.ThresholdPercentage)
	assert.Equal(t, int64(3), offering.InputsVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM course_offerings WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestOfferingRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM course_offerings WHERE 1=1 AND subject_code = $1 AND semester = $2 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("CS301", 5).
		WillReturnRows(sqlmock.NewRows(offeringRowColumns).
			AddRow("off-1", "CS301", "2025-26", 5, "CSE", "A", "Compilers", "fac-1", []byte(`{}`), time.Now(), time.Now(), 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_offerings WHERE 1=1 AND subject_code = $1 AND semester = $2")).
		WithArgs("CS301", 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	offerings, total, err := repo.List(context.Background(), models.OfferingFilter{SubjectCode: "CS301", Semester: 5})
	require.NoError(t, err)
	assert.Len(t, offerings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	mock.ExpectExec("INSERT INTO course_offerings").
		WithArgs(sqlmock.AnyArg(), "CS301", "2025-26", 5, "CSE", "A", "Compilers", "fac-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	offering := &models.CourseOffering{
		CourseOfferingKey: models.CourseOfferingKey{SubjectCode: "CS301", AcademicYear: "2025-26", Semester: 5, Branch: "CSE", Section: "A"},
		SubjectName:       "Compilers",
		FacultyID:         "fac-1",
	}
	require.NoError(t, repo.Create(context.Background(), offering))
	assert.NotEmpty(t, offering.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepositoryUpdateConfigMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_offerings SET config = $2")).
		WithArgs("off-9", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateConfig(context.Background(), "off-9", models.OfferingConfig{})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepositoryInputsVersion(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE course_offerings SET inputs_version = inputs_version + 1 WHERE id = $1 RETURNING inputs_version")).
		WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows([]string{"inputs_version"}).AddRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT inputs_version FROM course_offerings WHERE id = $1")).
		WithArgs("off-9").
		WillReturnError(sql.ErrNoRows)

	version, err := repo.BumpInputsVersion(context.Background(), "off-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)

	_, err = repo.InputsVersion(context.Background(), "off-9")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
