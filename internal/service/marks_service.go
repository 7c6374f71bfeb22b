package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/attainment"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

type studentRecordRepository interface {
	ListByOffering(ctx context.Context, offeringID string) ([]models.StudentRecord, error)
	FindByRollNo(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error)
	UpsertRoster(ctx context.Context, offeringID string, students []models.StudentRecord) error
	ReplaceSitting(ctx context.Context, offeringID, rollNo string, family models.AssessmentFamily, assessment string, entries []models.MarkEntry) (*models.StudentRecord, error)
}

type offeringReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseOffering, error)
}

// tesAssessmentLabel is the only sitting of the end-semester survey family.
const tesAssessmentLabel = "Survey"

var tmsSubTypes = map[string]string{
	strings.ToLower(models.TMSTutorial):     models.TMSTutorial,
	strings.ToLower(models.TMSMiniProject):  models.TMSMiniProject,
	strings.ToLower(models.TMSSurpriseTest): models.TMSSurpriseTest,
}

// MarksService handles rosters and raw mark entry.
type MarksService struct {
	records   studentRecordRepository
	offerings offeringReader
	stale     staleReportHandler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarksService constructs the marks service.
func NewMarksService(records studentRecordRepository, offerings offeringReader, stale staleReportHandler, validate *validator.Validate, logger *zap.Logger) *MarksService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{records: records, offerings: offerings, stale: stale, validator: validate, logger: logger}
}

// ImportRoster adds new students and renames existing ones. Existing marks are kept.
func (s *MarksService) ImportRoster(ctx context.Context, offeringID string, req dto.ImportRosterRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	if err := s.ensureOffering(ctx, offeringID); err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(req.Students))
	students := make([]models.StudentRecord, 0, len(req.Students))
	for _, line := range req.Students {
		rollNo := strings.ToUpper(strings.TrimSpace(line.RollNo))
		if _, dup := seen[rollNo]; dup {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("roll number %s listed twice", rollNo))
		}
		seen[rollNo] = struct{}{}
		students = append(students, models.StudentRecord{RollNo: rollNo, Name: strings.TrimSpace(line.Name)})
	}

	if err := s.records.UpsertRoster(ctx, offeringID, students); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import roster")
	}
	s.logger.Info("roster imported", zap.String("offering_id", offeringID), zap.Int("students", len(students)))
	if s.stale != nil {
		s.stale.MarkStale(ctx, offeringID, "roster imported")
	}
	return len(students), nil
}

// GetStudent returns one student record of an offering.
func (s *MarksService) GetStudent(ctx context.Context, offeringID, rollNo string) (*models.StudentRecord, error) {
	record, err := s.records.FindByRollNo(ctx, offeringID, strings.ToUpper(strings.TrimSpace(rollNo)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in offering")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student record")
	}
	return record, nil
}

// UpsertMarks replaces one sitting of a family for a student, keeping the family's
// other sittings (e.g. CT1 when CT2 is entered).
func (s *MarksService) UpsertMarks(ctx context.Context, offeringID, rollNo, rawFamily string, req dto.UpsertMarksRequest) (*models.StudentRecord, error) {
	family, err := models.ParseAssessmentFamily(rawFamily)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload")
	}
	label, err := assessmentLabel(family, req)
	if err != nil {
		return nil, err
	}

	entries := make([]models.MarkEntry, 0, len(req.Marks))
	seen := make(map[string]struct{}, len(req.Marks))
	for _, mark := range req.Marks {
		entry := models.MarkEntry{
			Assessment:    label,
			Question:      mark.Question,
			Part:          strings.ToLower(strings.TrimSpace(mark.Part)),
			MaxMarks:      mark.MaxMarks,
			MarksObtained: mark.MarksObtained,
		}
		if err := attainment.ValidateMark(entry); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status,
				fmt.Sprintf("%s: %v", models.PartKey(entry.Question, entry.Part), err))
		}
		key := models.PartKey(entry.Question, entry.Part)
		if _, dup := seen[key]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("part %s entered twice", key))
		}
		seen[key] = struct{}{}
		entries = append(entries, entry)
	}

	record, err := s.records.ReplaceSitting(ctx, offeringID, strings.ToUpper(strings.TrimSpace(rollNo)), family, label, entries)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found in offering")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save marks")
	}

	s.logger.Debug("marks updated",
		zap.String("offering_id", offeringID),
		zap.String("roll_no", record.RollNo),
		zap.String("family", string(family)),
		zap.String("assessment", label),
		zap.Int("entries", len(entries)),
	)
	if s.stale != nil {
		s.stale.MarkStale(ctx, offeringID, "marks updated")
	}
	return record, nil
}

func (s *MarksService) ensureOffering(ctx context.Context, offeringID string) error {
	if _, err := s.offerings.FindByID(ctx, offeringID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	return nil
}

// assessmentLabel resolves the sitting a marks payload belongs to.
func assessmentLabel(family models.AssessmentFamily, req dto.UpsertMarksRequest) (string, error) {
	switch family {
	case models.FamilyTMS:
		label, ok := tmsSubTypes[strings.ToLower(strings.TrimSpace(req.Assessment))]
		if !ok {
			return "", appErrors.Clone(appErrors.ErrValidation, "TMS marks need assessment Tutorial, MiniProject or SurpriseTest")
		}
		return label, nil
	case models.FamilyTCA:
		if req.AssessmentNumber != 1 && req.AssessmentNumber != 2 {
			return "", appErrors.Clone(appErrors.ErrValidation, "TCA marks need assessmentNumber 1 or 2")
		}
		return fmt.Sprintf("CT%d", req.AssessmentNumber), nil
	default:
		return tesAssessmentLabel, nil
	}
}
