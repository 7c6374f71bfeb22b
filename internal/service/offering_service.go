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

type offeringRepository interface {
	List(ctx context.Context, filter models.OfferingFilter) ([]models.CourseOffering, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseOffering, error)
	FindByKey(ctx context.Context, key models.CourseOfferingKey) (*models.CourseOffering, error)
	Create(ctx context.Context, offering *models.CourseOffering) error
	UpdateConfig(ctx context.Context, id string, cfg models.OfferingConfig) error
}

// staleReportHandler is told whenever inputs of an offering's report change.
type staleReportHandler interface {
	MarkStale(ctx context.Context, offeringID, reason string)
}

// OfferingService manages course offerings and their assessment configuration.
type OfferingService struct {
	repo      offeringRepository
	stale     staleReportHandler
	defaults  models.AttainmentThresholds
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOfferingService constructs the offering service.
func NewOfferingService(repo offeringRepository, stale staleReportHandler, defaults models.AttainmentThresholds, validate *validator.Validate, logger *zap.Logger) *OfferingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferingService{repo: repo, stale: stale, defaults: defaults, validator: validate, logger: logger}
}

// List returns offerings and pagination metadata.
func (s *OfferingService) List(ctx context.Context, filter models.OfferingFilter) ([]models.CourseOffering, *models.Pagination, error) {
	offerings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return offerings, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single offering.
func (s *OfferingService) Get(ctx context.Context, id string) (*models.CourseOffering, error) {
	offering, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	return offering, nil
}

// Authorize loads the offering and checks that the caller may modify it.
func (s *OfferingService) Authorize(ctx context.Context, id string, claims *models.JWTClaims) (*models.CourseOffering, error) {
	offering, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.CanManageOffering(offering.FacultyID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "offering belongs to another faculty member")
	}
	return offering, nil
}

// Create registers an offering. The key (subject, year, semester, branch, section) must be unused.
func (s *OfferingService) Create(ctx context.Context, req dto.CreateOfferingRequest) (*models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offering payload")
	}
	key := normalizeKey(req.CourseOfferingKey)
	if _, err := s.repo.FindByKey(ctx, key); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("offering %s already exists", key))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check offering key")
	}

	offering := &models.CourseOffering{
		CourseOfferingKey: key,
		SubjectName:       strings.TrimSpace(req.SubjectName),
		FacultyID:         req.FacultyID,
	}
	if req.Config != nil {
		if err := s.validateConfig(*req.Config); err != nil {
			return nil, err
		}
		offering.Config = *req.Config
	}
	if err := s.repo.Create(ctx, offering); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offering")
	}
	s.logger.Info("course offering created", zap.String("offering_id", offering.ID), zap.String("key", key.String()))
	return offering, nil
}

// UpdateConfig replaces the assessment configuration and marks the report stale.
func (s *OfferingService) UpdateConfig(ctx context.Context, id string, req dto.UpdateOfferingConfigRequest) (*models.CourseOffering, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment config payload")
	}
	cfg, err := buildOfferingConfig(req)
	if err != nil {
		return nil, err
	}
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateConfig(ctx, id, cfg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assessment config")
	}
	if s.stale != nil {
		s.stale.MarkStale(ctx, id, "config updated")
	}
	return s.Get(ctx, id)
}

// validateConfig rejects weightages and thresholds the pipeline would refuse.
func (s *OfferingService) validateConfig(cfg models.OfferingConfig) error {
	if _, err := attainment.NormalizeWeights(cfg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
	}
	if err := attainment.ValidateThresholds(cfg.Thresholds.Merge(s.defaults)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidWeights.Code, appErrors.ErrInvalidWeights.Status, err.Error())
	}
	return nil
}

func buildOfferingConfig(req dto.UpdateOfferingConfigRequest) (models.OfferingConfig, error) {
	cfg := models.OfferingConfig{
		Assessments: make(map[models.AssessmentFamily]models.AssessmentTypeConfig, len(req.Assessments)),
		Thresholds:  req.Thresholds,
	}
	for rawFamily, input := range req.Assessments {
		family, err := models.ParseAssessmentFamily(rawFamily)
		if err != nil {
			return models.OfferingConfig{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if _, dup := cfg.Assessments[family]; dup {
			return models.OfferingConfig{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("family %s configured twice", family))
		}
		mapping := make(map[string]models.COIdentifier, len(input.COMapping))
		for part, rawCO := range input.COMapping {
			co, err := models.ParseCOIdentifier(rawCO)
			if err != nil {
				return models.OfferingConfig{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %s: %v", family, part, err))
			}
			mapping[strings.ToLower(strings.TrimSpace(part))] = co
		}
		cfg.Assessments[family] = models.AssessmentTypeConfig{Weightage: input.Weightage, COMapping: mapping}
	}
	return cfg, nil
}

func normalizeKey(key models.CourseOfferingKey) models.CourseOfferingKey {
	return models.CourseOfferingKey{
		SubjectCode:  strings.ToUpper(strings.TrimSpace(key.SubjectCode)),
		AcademicYear: strings.TrimSpace(key.AcademicYear),
		Semester:     key.Semester,
		Branch:       strings.ToUpper(strings.TrimSpace(key.Branch)),
		Section:      strings.ToUpper(strings.TrimSpace(key.Section)),
	}
}
