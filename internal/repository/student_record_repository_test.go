package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

func TestStudentRecordRepositoryListByOffering(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRecordRepository(db)

	marks := []byte(`{"TMS":[{"assessment":"Tutorial","question":1,"part":"a","maxMarks":10,"marksObtained":-1}]}`)
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_records WHERE offering_id = $1 ORDER BY roll_no")).
		WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "offering_id", "roll_no", "name", "marks", "created_at", "updated_at"}).
			AddRow("s-1", "off-1", "21CS001", "Asha", marks, time.Now(), time.Now()).
			AddRow("s-2", "off-1", "21CS002", "Ravi", nil, time.Now(), time.Now()))

	records, err := repo.ListByOffering(context.Background(), "off-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	tms := records[0].Marks[models.FamilyTMS]
	require.Len(t, tms, 1)
	assert.False(t, tms[0].Attempted())
	assert.Empty(t, records[1].Marks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRecordRepositoryUpsertRoster(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO student_records").
		WithArgs(sqlmock.AnyArg(), "off-1", "21CS001", "Asha", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO student_records").
		WithArgs(sqlmock.AnyArg(), "off-1", "21CS002", "Ravi", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.UpsertRoster(context.Background(), "off-1", []models.StudentRecord{
		{RollNo: "21CS001", Name: "Asha"},
		{RollNo: "21CS002", Name: "Ravi"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRecordRepositoryUpsertRosterRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO student_records").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.UpsertRoster(context.Background(), "off-1", []models.StudentRecord{{RollNo: "21CS001"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRecordRepositoryReplaceSittingLocksRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRecordRepository(db)

	stored := []byte(`{"TCA":[{"assessment":"CT1","question":1,"part":"a","maxMarks":10,"marksObtained":4},{"assessment":"CT2","question":1,"part":"a","maxMarks":10,"marksObtained":6}]}`)
	merged := []byte(`{"TCA":[{"assessment":"CT2","question":1,"part":"a","maxMarks":10,"marksObtained":6},{"assessment":"CT1","question":1,"part":"a","maxMarks":10,"marksObtained":7}]}`)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE offering_id = $1 AND roll_no = $2 FOR UPDATE")).
		WithArgs("off-1", "21CS001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "offering_id", "roll_no", "name", "marks", "created_at", "updated_at"}).
			AddRow("s-1", "off-1", "21CS001", "Asha", stored, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_records SET marks = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(merged, sqlmock.AnyArg(), "s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	record, err := repo.ReplaceSitting(context.Background(), "off-1", "21CS001", models.FamilyTCA, "CT1", []models.MarkEntry{
		{Assessment: "CT1", Question: 1, Part: "a", MaxMarks: 10, MarksObtained: 7},
	})
	require.NoError(t, err)
	require.Len(t, record.Marks[models.FamilyTCA], 2)
	assert.Equal(t, "CT2", record.Marks[models.FamilyTCA][0].Assessment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRecordRepositoryReplaceSittingUnknownStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRecordRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ReplaceSitting(context.Background(), "off-1", "21CS999", models.FamilyTES, "Survey", nil)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
