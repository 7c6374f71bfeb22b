package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

type coPoMappingRepository interface {
	FindByOffering(ctx context.Context, offeringID string) (*models.CoPoMapping, error)
	List(ctx context.Context, subjectCode string) ([]models.CoPoMapping, error)
	Upsert(ctx context.Context, mapping *models.CoPoMapping) error
}

// CoMappingService manages course outcome definitions and their PO/PSO strengths.
type CoMappingService struct {
	repo      coPoMappingRepository
	offerings offeringReader
	stale     staleReportHandler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCoMappingService constructs the CO mapping service.
func NewCoMappingService(repo coPoMappingRepository, offerings offeringReader, stale staleReportHandler, validate *validator.Validate, logger *zap.Logger) *CoMappingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoMappingService{repo: repo, offerings: offerings, stale: stale, validator: validate, logger: logger}
}

// Upsert replaces the CO definition set of an offering.
func (s *CoMappingService) Upsert(ctx context.Context, offeringID string, req dto.UpsertCoMappingRequest) (*models.CoPoMapping, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid co mapping payload")
	}
	offering, err := s.offerings.FindByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}

	definitions, err := buildDefinitions(req.CourseOutcomes)
	if err != nil {
		return nil, err
	}

	mapping := &models.CoPoMapping{
		OfferingID:  offering.ID,
		SubjectCode: offering.SubjectCode,
		SubjectName: offering.SubjectName,
		FacultyID:   offering.FacultyID,
		Outcomes:    definitions,
	}
	if err := s.repo.Upsert(ctx, mapping); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save co mapping")
	}
	s.logger.Info("co mapping saved", zap.String("offering_id", offering.ID), zap.Int("outcomes", len(definitions)))
	if s.stale != nil {
		s.stale.MarkStale(ctx, offering.ID, "co mapping updated")
	}
	return mapping, nil
}

// Get returns the CO definitions of an offering.
func (s *CoMappingService) Get(ctx context.Context, offeringID string) (*models.CoPoMapping, error) {
	mapping, err := s.repo.FindByOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "co mapping not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load co mapping")
	}
	return mapping, nil
}

// List returns mappings of a subject, or every mapping when subjectCode is empty.
func (s *CoMappingService) List(ctx context.Context, subjectCode string) ([]models.CoPoMapping, error) {
	mappings, err := s.repo.List(ctx, strings.ToUpper(strings.TrimSpace(subjectCode)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list co mappings")
	}
	if mappings == nil {
		mappings = []models.CoPoMapping{}
	}
	return mappings, nil
}

func buildDefinitions(inputs []dto.CoDefinitionInput) (models.CoDefinitions, error) {
	definitions := make(models.CoDefinitions, 0, len(inputs))
	seen := make(map[models.COIdentifier]struct{}, len(inputs))
	for _, input := range inputs {
		co, err := models.ParseCOIdentifier(input.COIdentifier)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		if _, dup := seen[co]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s defined twice", co))
		}
		seen[co] = struct{}{}

		strengths := make(map[models.OutcomeID]int, len(input.POStrengths))
		for rawPO, strength := range input.POStrengths {
			po, err := models.ParseOutcomeID(rawPO)
			if err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: %v", co, err))
			}
			// Zero strength carries no correlation.
			if strength == 0 {
				continue
			}
			strengths[po] = strength
		}
		def := models.CoDefinition{COIdentifier: co, TargetAttainmentLevel: input.TargetAttainmentLevel, POStrengths: strengths}
		if err := def.Validate(); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		definitions = append(definitions, def)
	}
	return definitions, nil
}
