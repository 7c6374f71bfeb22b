package attainment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

func TestCalculateCOPercentagesExcludesNotAttempted(t *testing.T) {
	items := []models.ScoredItem{
		{COTag: "CO1", MaxMarks: 10, MarksObtained: 8},
		{COTag: "CO1", MaxMarks: 10, MarksObtained: models.NotAttempted},
	}

	got := CalculateCOPercentages(items)
	co1, ok := got.Lookup("CO1")
	require.True(t, ok)
	assert.Equal(t, 80.0, co1.Percentage)
	assert.Equal(t, 10.0, co1.Max)
	assert.Equal(t, 1, co1.Attempted)
}

func TestCalculateCOPercentagesNoData(t *testing.T) {
	items := []models.ScoredItem{
		{COTag: "CO2", MaxMarks: 5, MarksObtained: models.NotAttempted},
		{COTag: "CO3", MaxMarks: 0, MarksObtained: 0},
		{COTag: "CO1", MaxMarks: 4, MarksObtained: 0},
	}

	got := CalculateCOPercentages(items)
	_, ok := got.Lookup("CO2")
	assert.False(t, ok)
	_, ok = got.Lookup("CO3")
	assert.False(t, ok)
	_, ok = got.Lookup("CO7")
	assert.False(t, ok)

	co1, ok := got.Lookup("CO1")
	require.True(t, ok)
	assert.Equal(t, 0.0, co1.Percentage)
	assert.Equal(t, []models.COIdentifier{"CO1", "CO2", "CO3"}, got.Outcomes())
}

func TestCalculateCOPercentagesBounded(t *testing.T) {
	items := []models.ScoredItem{
		{COTag: "CO1", MaxMarks: 3, MarksObtained: 3},
		{COTag: "CO1", MaxMarks: 7, MarksObtained: 0.5},
		{COTag: "CO2", MaxMarks: 2.5, MarksObtained: 2.5},
	}
	for co, p := range CalculateCOPercentages(items) {
		assert.False(t, p.NoData, co)
		assert.GreaterOrEqual(t, p.Percentage, 0.0)
		assert.LessOrEqual(t, p.Percentage, 100.0)
	}
}

func TestOverallPercentage(t *testing.T) {
	pct, ok := OverallPercentage([]models.ScoredItem{
		{COTag: "CO1", MaxMarks: 10, MarksObtained: 5},
		{COTag: "CO2", MaxMarks: 10, MarksObtained: 10},
		{COTag: "CO2", MaxMarks: 20, MarksObtained: models.NotAttempted},
	})
	require.True(t, ok)
	assert.Equal(t, 75.0, pct)

	_, ok = OverallPercentage(nil)
	assert.False(t, ok)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.2, round2(0.6*3+0.4*1))
	assert.Equal(t, 66.67, round2(200.0/3))
}
