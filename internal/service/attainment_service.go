package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/attainment"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/jobs"
)

// JobTypeRecalculate is the queue job type for background recalculation.
const JobTypeRecalculate = "attainment.recalculate"

// Calculation triggers used as metric labels.
const (
	TriggerAPI = "api"
	TriggerJob = "job"
)

// systemActor is recorded as calculated_by for background runs.
const systemActor = "system"

// staleSaveAttempts bounds how often a calculation reloads after its inputs moved.
const staleSaveAttempts = 3

type offeringInputsStore interface {
	offeringReader
	InputsVersion(ctx context.Context, id string) (int64, error)
	BumpInputsVersion(ctx context.Context, id string) (int64, error)
}

type attainmentReportRepository interface {
	Save(ctx context.Context, report *models.StoredAttainmentReport) error
	FindByOffering(ctx context.Context, offeringID string) (*models.StoredAttainmentReport, error)
	DeleteByOffering(ctx context.Context, offeringID string) error
}

type studentRecordReader interface {
	ListByOffering(ctx context.Context, offeringID string) ([]models.StudentRecord, error)
	FindByRollNo(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error)
}

type coDefinitionReader interface {
	FindByOffering(ctx context.Context, offeringID string) (*models.CoPoMapping, error)
}

type attainmentEngine interface {
	Compute(in attainment.Input) (*models.AttainmentReport, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) (bool, error)
}

// AttainmentConfig tunes caching, locking and recalculation.
type AttainmentConfig struct {
	CacheTTL        time.Duration
	LockTTL         time.Duration
	AutoRecalculate bool
}

// AttainmentService loads offering snapshots, runs the pipeline and stores reports.
// At most one computation runs per offering at a time.
type AttainmentService struct {
	offerings offeringInputsStore
	records   studentRecordReader
	mappings  coDefinitionReader
	reports   attainmentReportRepository
	engine    attainmentEngine
	cache     *CacheService
	metrics   *MetricsService
	queue     jobEnqueuer
	cfg       AttainmentConfig
	logger    *zap.Logger
}

// NewAttainmentService constructs the attainment service.
func NewAttainmentService(
	offerings offeringInputsStore,
	records studentRecordReader,
	mappings coDefinitionReader,
	reports attainmentReportRepository,
	engine attainmentEngine,
	cache *CacheService,
	metrics *MetricsService,
	cfg AttainmentConfig,
	logger *zap.Logger,
) *AttainmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 2 * time.Minute
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	return &AttainmentService{
		offerings: offerings,
		records:   records,
		mappings:  mappings,
		reports:   reports,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
	}
}

// SetQueue attaches the background recalculation queue. The queue handler is this
// service's HandleRecalculationJob, so the two are wired after construction.
func (s *AttainmentService) SetQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Calculate computes and persists the report of an offering.
func (s *AttainmentService) Calculate(ctx context.Context, offeringID, actor string) (*models.StoredAttainmentReport, error) {
	return s.calculate(ctx, offeringID, actor, TriggerAPI)
}

func (s *AttainmentService) calculate(ctx context.Context, offeringID, actor, trigger string) (*models.StoredAttainmentReport, error) {
	start := time.Now()
	stored, outcome, err := s.lockedCalculate(ctx, offeringID, actor)
	s.metrics.ObserveComputation(trigger, outcome, time.Since(start))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordIssues(stored.Report.Issues)
	s.logger.Info("attainment calculated",
		zap.String("offering_id", offeringID),
		zap.String("trigger", trigger),
		zap.Int("students", stored.Report.Statistics.StudentCount),
		zap.Int("issues", len(stored.Report.Issues)),
		zap.Duration("duration", time.Since(start)),
	)
	return stored, nil
}

func (s *AttainmentService) lockedCalculate(ctx context.Context, offeringID, actor string) (*models.StoredAttainmentReport, string, error) {
	release, ok, err := s.cache.Lock(ctx, calculationLockKey(offeringID), s.cfg.LockTTL)
	if err != nil {
		return nil, ComputationFailed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire calculation lock")
	}
	if !ok {
		return nil, ComputationLocked, appErrors.Clone(appErrors.ErrLocked, "")
	}
	defer release()

	for attempt := 1; ; attempt++ {
		input, version, err := s.loadInput(ctx, offeringID)
		if err != nil {
			return nil, ComputationRejected, err
		}

		report, err := s.engine.Compute(input)
		if err != nil {
			return nil, ComputationRejected, translatePipelineError(err)
		}

		stored := &models.StoredAttainmentReport{
			OfferingID:    offeringID,
			Report:        *report,
			CalculatedBy:  actor,
			CalculatedAt:  time.Now().UTC(),
			InputsVersion: version,
		}
		err = s.reports.Save(ctx, stored)
		switch {
		case err == nil:
			_ = s.cache.Set(ctx, reportCacheKey(offeringID, version), stored, s.cfg.CacheTTL)
			return stored, ComputationSucceeded, nil
		case errors.Is(err, models.ErrInputsChanged) && attempt < staleSaveAttempts:
			s.logger.Debug("inputs changed during calculation, reloading", zap.String("offering_id", offeringID), zap.Int("attempt", attempt))
		case errors.Is(err, models.ErrInputsChanged):
			return nil, ComputationFailed, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "offering inputs keep changing, retry the calculation")
		default:
			return nil, ComputationFailed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attainment report")
		}
	}
}

// loadInput snapshots everything the pipeline needs for one offering, together with
// the inputs version read before any of it.
func (s *AttainmentService) loadInput(ctx context.Context, offeringID string) (attainment.Input, int64, error) {
	offering, err := s.offerings.FindByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attainment.Input{}, 0, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return attainment.Input{}, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	mapping, err := s.mappings.FindByOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attainment.Input{}, 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "course outcomes are not defined for this offering")
		}
		return attainment.Input{}, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load co mapping")
	}
	students, err := s.records.ListByOffering(ctx, offeringID)
	if err != nil {
		return attainment.Input{}, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student records")
	}
	return attainment.Input{
		Key:      offering.CourseOfferingKey,
		Config:   offering.Config,
		Outcomes: mapping.Outcomes,
		Students: students,
	}, offering.InputsVersion, nil
}

// translatePipelineError maps pipeline sentinels onto API errors.
func translatePipelineError(err error) error {
	switch {
	case errors.Is(err, attainment.ErrInvalidWeightConfig):
		return appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
	case errors.Is(err, attainment.ErrConfigMismatch):
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "attainment computation failed")
	}
}

// GetReport returns the stored report, served from cache when possible. A report
// computed from older inputs than the offering's current ones is not served.
func (s *AttainmentService) GetReport(ctx context.Context, offeringID string) (*models.StoredAttainmentReport, error) {
	version, err := s.offerings.InputsVersion(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}

	key := reportCacheKey(offeringID, version)
	var cached models.StoredAttainmentReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	stored, err := s.reports.FindByOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attainment has not been calculated for this offering")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attainment report")
	}
	if stored.InputsVersion != version {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attainment is out of date for this offering")
	}
	_ = s.cache.Set(ctx, key, stored, s.cfg.CacheTTL)
	return stored, nil
}

// Statistics returns the summary numbers with class CO and PO attainment.
func (s *AttainmentService) Statistics(ctx context.Context, offeringID string) (*models.StatisticsView, error) {
	stored, err := s.GetReport(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	return &models.StatisticsView{
		AttainmentStatistics: stored.Report.Statistics,
		COAttainment:         stored.Report.ClassCOAttainment,
		POAttainment:         stored.Report.POAttainment,
		CalculatedAt:         stored.CalculatedAt,
	}, nil
}

// StudentAttainment returns one student's CO rows from the stored report.
func (s *AttainmentService) StudentAttainment(ctx context.Context, offeringID, rollNo string) (*models.StudentAttainmentView, error) {
	record, err := s.records.FindByRollNo(ctx, offeringID, strings.ToUpper(strings.TrimSpace(rollNo)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in offering")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
	}

	view := &models.StudentAttainmentView{OfferingID: offeringID, Student: *record, COAttainment: []models.CoAttainment{}}
	stored, err := s.GetReport(ctx, offeringID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return view, nil
		}
		return nil, err
	}
	for _, row := range stored.Report.PerStudentCOAttainment {
		if row.StudentRollNo == record.RollNo {
			view.COAttainment = append(view.COAttainment, row)
		}
	}
	calculatedAt := stored.CalculatedAt
	view.CalculatedAt = &calculatedAt
	return view, nil
}

// MarkStale moves the offering's inputs version, drops the stored and cached report
// and, when enabled, schedules a background recalculation.
func (s *AttainmentService) MarkStale(ctx context.Context, offeringID, reason string) {
	// the bump comes first so a calculation holding older inputs cannot save after the delete
	version, err := s.offerings.BumpInputsVersion(ctx, offeringID)
	if err != nil {
		s.logger.Error("failed to bump inputs version", zap.String("offering_id", offeringID), zap.String("reason", reason), zap.Error(err))
	}
	if err := s.reports.DeleteByOffering(ctx, offeringID); err != nil {
		s.logger.Warn("failed to drop stale report", zap.String("offering_id", offeringID), zap.Error(err))
	}
	if version > 0 {
		_ = s.cache.Delete(ctx, reportCacheKey(offeringID, version-1))
	}

	if !s.cfg.AutoRecalculate {
		return
	}
	if _, err := s.ScheduleRecalculation(offeringID); err != nil {
		s.logger.Warn("failed to schedule recalculation", zap.String("offering_id", offeringID), zap.String("reason", reason), zap.Error(err))
	}
}

// ScheduleRecalculation enqueues a background run. It reports false when a run for
// the offering is already pending.
func (s *AttainmentService) ScheduleRecalculation(offeringID string) (bool, error) {
	if s.queue == nil {
		return false, fmt.Errorf("recalculation queue not configured")
	}
	accepted, err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Key:     offeringID,
		Type:    JobTypeRecalculate,
		Payload: offeringID,
	})
	if err != nil {
		return false, err
	}
	s.metrics.RecordRecalculationEnqueued(accepted)
	return accepted, nil
}

// HandleRecalculationJob is the queue handler. Data problems are logged and dropped;
// a held lock or an infrastructure failure is returned so the queue retries.
func (s *AttainmentService) HandleRecalculationJob(ctx context.Context, job jobs.Job) error {
	offeringID, ok := job.Payload.(string)
	if !ok || offeringID == "" {
		return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := s.calculate(ctx, offeringID, systemActor, TriggerJob)
	if err == nil {
		return nil
	}
	// configuration problems need a human, retrying will not fix them
	if errors.Is(err, appErrors.ErrInvalidWeights) || errors.Is(err, appErrors.ErrPreconditionFailed) || errors.Is(err, appErrors.ErrNotFound) {
		s.logger.Warn("recalculation skipped", zap.String("offering_id", offeringID), zap.Error(err))
		return nil
	}
	return err
}
