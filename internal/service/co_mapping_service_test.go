package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/dto"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
)

func TestCoMappingServiceUpsert(t *testing.T) {
	repo := &coMappingRepoStub{}
	stale := &staleStub{}
	svc := NewCoMappingService(repo, newOfferingRepoStub(sampleOffering()), stale, nil, zap.NewNop())

	mapping, err := svc.Upsert(context.Background(), "off-1", dto.UpsertCoMappingRequest{CourseOutcomes: []dto.CoDefinitionInput{
		{COIdentifier: "co1", TargetAttainmentLevel: 2, POStrengths: map[string]int{"po1": 3, "PO2": 0, "pso1": 1}},
		{COIdentifier: "CO2", TargetAttainmentLevel: 1.5},
	}})
	require.NoError(t, err)
	assert.Equal(t, "CS301", mapping.SubjectCode)
	assert.Equal(t, "fac-1", mapping.FacultyID)
	require.Len(t, mapping.Outcomes, 2)
	assert.Equal(t, models.COIdentifier("CO1"), mapping.Outcomes[0].COIdentifier)
	assert.Equal(t, map[models.OutcomeID]int{"PO1": 3, "PSO1": 1}, mapping.Outcomes[0].POStrengths)
	assert.Same(t, mapping, repo.mappings["off-1"])
	assert.Equal(t, []string{"off-1:co mapping updated"}, stale.calls)

	got, err := svc.Get(context.Background(), "off-1")
	require.NoError(t, err)
	assert.Same(t, mapping, got)
}

func TestCoMappingServiceUpsertRejectsInvalidOutcomes(t *testing.T) {
	svc := NewCoMappingService(&coMappingRepoStub{}, newOfferingRepoStub(sampleOffering()), nil, nil, zap.NewNop())

	cases := map[string][]dto.CoDefinitionInput{
		"bad identifier": {{COIdentifier: "outcome-1"}},
		"duplicate":      {{COIdentifier: "CO1"}, {COIdentifier: "co1"}},
		"unknown po":     {{COIdentifier: "CO1", POStrengths: map[string]int{"PO13": 1}}},
		"strength":       {{COIdentifier: "CO1", POStrengths: map[string]int{"PO1": 4}}},
		"target":         {{COIdentifier: "CO1", TargetAttainmentLevel: 3.5}},
		"empty":          {},
	}
	for name, outcomes := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), "off-1", dto.UpsertCoMappingRequest{CourseOutcomes: outcomes})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrorCode(t, err))
		})
	}
}

func TestCoMappingServiceGetAndList(t *testing.T) {
	repo := &coMappingRepoStub{mappings: map[string]*models.CoPoMapping{"off-1": sampleMapping()}}
	svc := NewCoMappingService(repo, newOfferingRepoStub(sampleOffering()), nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "off-2")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrorCode(t, err))

	mappings, err := svc.List(context.Background(), " cs301")
	require.NoError(t, err)
	assert.Len(t, mappings, 1)

	mappings, err = svc.List(context.Background(), "MA101")
	require.NoError(t, err)
	assert.NotNil(t, mappings)
	assert.Empty(t, mappings)
}
