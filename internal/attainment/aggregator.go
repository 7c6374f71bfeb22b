package attainment

import (
	"fmt"
	"math"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

const weightTolerance = 1e-6

// ValidateThresholds rejects thresholds that cannot produce a monotonic level scale.
func ValidateThresholds(t models.AttainmentThresholds) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"thresholdPercentage", t.ThresholdPercentage},
		{"targetStudentPercentage", t.TargetStudentPercentage},
		{"level2StudentPercentage", t.Level2StudentPercentage},
		{"studentLevel2Percentage", t.StudentLevel2Percentage},
		{"passPercentage", t.PassPercentage},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || f.value <= 0 || f.value > 100 {
			return fmt.Errorf("%w: %s %.2f outside (0,100]", ErrInvalidWeightConfig, f.name, f.value)
		}
	}
	if t.Level2StudentPercentage > t.TargetStudentPercentage {
		return fmt.Errorf("%w: level2StudentPercentage %.2f above targetStudentPercentage %.2f", ErrInvalidWeightConfig, t.Level2StudentPercentage, t.TargetStudentPercentage)
	}
	if t.StudentLevel2Percentage > t.ThresholdPercentage {
		return fmt.Errorf("%w: studentLevel2Percentage %.2f above thresholdPercentage %.2f", ErrInvalidWeightConfig, t.StudentLevel2Percentage, t.ThresholdPercentage)
	}
	return nil
}

// NormalizeWeights validates family weightages and returns them scaled to sum to 1.
// Weightages entered as percentages (summing to 100) are accepted and rescaled.
func NormalizeWeights(cfg models.OfferingConfig) (map[models.AssessmentFamily]float64, error) {
	families := cfg.Families()
	if len(families) == 0 {
		return nil, fmt.Errorf("%w: no assessment families configured", ErrInvalidWeightConfig)
	}
	sum := 0.0
	for _, f := range families {
		w := cfg.Assessments[f].Weightage
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: %s weightage %v", ErrInvalidWeightConfig, f, w)
		}
		sum += w
	}
	var scale float64
	switch {
	case math.Abs(sum-1) <= weightTolerance:
		scale = 1
	case math.Abs(sum-100) <= weightTolerance*100:
		scale = 100
	default:
		return nil, fmt.Errorf("%w: weightages sum to %.4f, want 1", ErrInvalidWeightConfig, sum)
	}
	out := make(map[models.AssessmentFamily]float64, len(families))
	for _, f := range families {
		out[f] = cfg.Assessments[f].Weightage / scale
	}
	return out, nil
}

// ClassLevel discretises the share of students clearing a CO into a level.
func ClassLevel(clearedPercentage float64, t models.AttainmentThresholds) int {
	switch {
	case clearedPercentage >= t.TargetStudentPercentage:
		return 3
	case clearedPercentage >= t.Level2StudentPercentage:
		return 2
	default:
		return 1
	}
}

// StudentLevel discretises an individual's combined CO percentage.
func StudentLevel(pct float64, t models.AttainmentThresholds) int {
	switch {
	case pct >= t.ThresholdPercentage:
		return 3
	case pct >= t.StudentLevel2Percentage:
		return 2
	default:
		return 1
	}
}

// ClassifyFamily computes Step A for one family and one CO from the percentages of
// the students that have data. An empty slice yields NoData.
func ClassifyFamily(percentages []float64, t models.AttainmentThresholds) models.FamilyCOAttainment {
	if len(percentages) == 0 {
		return models.FamilyCOAttainment{NoData: true}
	}
	cleared := 0
	for _, p := range percentages {
		if p >= t.ThresholdPercentage {
			cleared++
		}
	}
	share := 100 * float64(cleared) / float64(len(percentages))
	return models.FamilyCOAttainment{
		StudentsWithData:  len(percentages),
		StudentsCleared:   cleared,
		ClearedPercentage: round2(share),
		Level:             ClassLevel(share, t),
	}
}

// WeightedLevel computes Step B: the weighted mean of family levels, renormalised over
// families that have data and a non-zero weight. ok is false when no family qualifies.
// Families are visited in canonical order so the float sum is reproducible.
func WeightedLevel(levels map[models.AssessmentFamily]models.FamilyCOAttainment, weights map[models.AssessmentFamily]float64) (float64, bool) {
	values := make(map[models.AssessmentFamily]float64, len(levels))
	for f, l := range levels {
		if !l.NoData {
			values[f] = float64(l.Level)
		}
	}
	return weightedMean(values, weights)
}

// weightedMean averages values by weight over families with a non-zero weight.
func weightedMean(values map[models.AssessmentFamily]float64, weights map[models.AssessmentFamily]float64) (float64, bool) {
	var num, den float64
	for _, f := range models.AssessmentFamilies {
		v, ok := values[f]
		if !ok {
			continue
		}
		w := weights[f]
		if w <= 0 {
			continue
		}
		num += w * v
		den += w
	}
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}
