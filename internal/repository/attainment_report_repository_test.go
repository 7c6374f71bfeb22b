package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

func TestAttainmentReportRepositorySaveAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttainmentReportRepository(db)

	report := models.AttainmentReport{
		OfferingKey:       models.CourseOfferingKey{SubjectCode: "CS301"},
		ClassCOAttainment: map[models.COIdentifier]models.ClassCOAttainment{"CO1": {Level: 2.2, TargetLevel: 2, TargetMet: true}},
		POAttainment:      map[models.OutcomeID]float64{"PO1": 2.2},
	}
	payload, err := report.Value()
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT inputs_version FROM course_offerings WHERE id = $1 FOR SHARE")).
		WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows([]string{"inputs_version"}).AddRow(2))
	mock.ExpectExec("INSERT INTO attainment_reports").
		WithArgs(sqlmock.AnyArg(), "off-1", payload, "fac-1", sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Save(context.Background(), &models.StoredAttainmentReport{OfferingID: "off-1", Report: report, CalculatedBy: "fac-1", InputsVersion: 2}))

	mock.ExpectQuery(regexp.QuoteMeta("FROM attainment_reports WHERE offering_id = $1")).
		WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "offering_id", "report", "calculated_by", "calculated_at", "inputs_version"}).
			AddRow("r-1", "off-1", payload, "fac-1", time.Now(), 2))
	stored, err := repo.FindByOffering(context.Background(), "off-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.InputsVersion)
	assert.Equal(t, 2.2, stored.Report.POAttainment["PO1"])
	assert.True(t, stored.Report.ClassCOAttainment["CO1"].TargetMet)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttainmentReportRepositorySaveRefusesOutdatedInputs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttainmentReportRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR SHARE")).
		WithArgs("off-1").
		WillReturnRows(sqlmock.NewRows([]string{"inputs_version"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), &models.StoredAttainmentReport{OfferingID: "off-1", InputsVersion: 2})
	assert.ErrorIs(t, err, models.ErrInputsChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoPoMappingRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoPoMappingRepository(db)

	outcomes := []byte(`[{"coIdentifier":"CO1","targetAttainmentLevel":2,"poStrengths":{"PO1":3,"PSO2":1}}]`)
	mock.ExpectQuery(regexp.QuoteMeta("FROM co_po_mappings WHERE subject_code = $1 ORDER BY subject_code, created_at DESC")).
		WithArgs("CS301").
		WillReturnRows(sqlmock.NewRows([]string{"id", "offering_id", "subject_code", "subject_name", "faculty_id", "course_outcomes", "created_at", "updated_at"}).
			AddRow("m-1", "off-1", "CS301", "Compilers", "fac-1", outcomes, time.Now(), time.Now()))

	mappings, err := repo.List(context.Background(), "CS301")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Len(t, mappings[0].Outcomes, 1)
	assert.Equal(t, 1, mappings[0].Outcomes[0].POStrengths["PSO2"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoPoMappingRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCoPoMappingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (offering_id) DO UPDATE")).
		WithArgs(sqlmock.AnyArg(), "off-1", "CS301", "Compilers", "fac-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Upsert(context.Background(), &models.CoPoMapping{
		OfferingID:  "off-1",
		SubjectCode: "CS301",
		SubjectName: "Compilers",
		FacultyID:   "fac-1",
		Outcomes:    models.CoDefinitions{{COIdentifier: "CO1", TargetAttainmentLevel: 2}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportRepositoryDeleteExpired(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportRepository(db)

	cutoff := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM attainment_exports WHERE expires_at < $1 RETURNING file_path")).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow("attainment/off-1/a.csv"))

	paths, err := repo.DeleteExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []string{"attainment/off-1/a.csv"}, paths)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryLocalLockFallback(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	token, ok, err := repo.AcquireLock(ctx, "attainment:lock:off-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = repo.AcquireLock(ctx, "attainment:lock:off-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.ReleaseLock(ctx, "attainment:lock:off-1", "someone-else"))
	_, ok, _ = repo.AcquireLock(ctx, "attainment:lock:off-1", time.Minute)
	assert.False(t, ok)

	require.NoError(t, repo.ReleaseLock(ctx, "attainment:lock:off-1", token))
	_, ok, _ = repo.AcquireLock(ctx, "attainment:lock:off-1", time.Minute)
	assert.True(t, ok)

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "missing", &dest), appErrors.ErrCacheMiss)
}
