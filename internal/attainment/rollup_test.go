package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

func TestRollupProgramOutcomes(t *testing.T) {
	defs := models.CoDefinitions{
		{COIdentifier: "CO1", POStrengths: map[models.OutcomeID]int{"PO1": 3, "PO2": 1}},
		{COIdentifier: "CO2", POStrengths: map[models.OutcomeID]int{"PO1": 1, "PSO1": 2}},
	}
	course := map[models.COIdentifier]float64{"CO1": 2.5, "CO2": 1.5}

	got := RollupProgramOutcomes(course, defs)
	assert.Equal(t, round2((2.5*3+1.5*1)/4), got["PO1"])
	assert.Equal(t, 2.5, got["PO2"])
	assert.Equal(t, 1.5, got["PSO1"])
	_, ok := got["PO3"]
	assert.False(t, ok)
	assert.Len(t, got, 3)
}

func TestRollupAbsentWithoutStrengths(t *testing.T) {
	defs := models.CoDefinitions{
		{COIdentifier: "CO1", POStrengths: map[models.OutcomeID]int{"PO1": 0}},
		{COIdentifier: "CO2"},
	}
	got := RollupProgramOutcomes(map[models.COIdentifier]float64{"CO1": 3, "CO2": 2}, defs)
	assert.Empty(t, got)
}

func TestRollupSkipsCOWithoutData(t *testing.T) {
	defs := models.CoDefinitions{
		{COIdentifier: "CO1", POStrengths: map[models.OutcomeID]int{"PO4": 2}},
		{COIdentifier: "CO2", POStrengths: map[models.OutcomeID]int{"PO4": 3, "PO5": 3}},
	}
	got := RollupProgramOutcomes(map[models.COIdentifier]float64{"CO1": 1.8}, defs)
	assert.Equal(t, 1.8, got["PO4"])
	_, ok := got["PO5"]
	assert.False(t, ok)
}

func TestRollupOrderInvariant(t *testing.T) {
	defs := models.CoDefinitions{
		{COIdentifier: "CO10", POStrengths: map[models.OutcomeID]int{"PO1": 2}},
		{COIdentifier: "CO2", POStrengths: map[models.OutcomeID]int{"PO1": 3}},
		{COIdentifier: "CO1", POStrengths: map[models.OutcomeID]int{"PO1": 1}},
	}
	reversed := models.CoDefinitions{defs[2], defs[1], defs[0]}
	course := map[models.COIdentifier]float64{"CO1": 1.1, "CO2": 2.7, "CO10": 2.3}

	assert.Equal(t, RollupProgramOutcomes(course, defs), RollupProgramOutcomes(course, reversed))
}
