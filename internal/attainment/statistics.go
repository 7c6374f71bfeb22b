package attainment

import (
	"sort"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// assembleStatistics computes the display figures: per-family averages (broken down by
// assessment label) and the share of assessed students whose overall weighted score
// reaches the pass percentage.
func assembleStatistics(students []studentResult, weights map[models.AssessmentFamily]float64, t models.AttainmentThresholds) models.AttainmentStatistics {
	stats := models.AttainmentStatistics{StudentCount: len(students)}
	byFamily := map[models.AssessmentFamily]*models.FamilyAverages{
		models.FamilyTMS: &stats.TMSAverages,
		models.FamilyTCA: &stats.TCAAverages,
		models.FamilyTES: &stats.TESAverages,
	}

	for _, family := range models.AssessmentFamilies {
		if _, ok := weights[family]; !ok {
			continue
		}
		*byFamily[family] = familyAverages(family, students)
	}

	for _, s := range students {
		values := make(map[models.AssessmentFamily]float64, len(s.families))
		for family, fr := range s.families {
			if pct, ok := OverallPercentage(fr.normalized.Items); ok {
				values[family] = pct
			}
		}
		score, ok := weightedMean(values, weights)
		if !ok {
			continue
		}
		stats.AssessedCount++
		if score >= t.PassPercentage {
			stats.PassedCount++
		}
	}
	if stats.AssessedCount > 0 {
		stats.PassPercentage = round2(100 * float64(stats.PassedCount) / float64(stats.AssessedCount))
	}
	return stats
}

func familyAverages(family models.AssessmentFamily, students []studentResult) models.FamilyAverages {
	var avg models.FamilyAverages
	var total float64
	labelSums := make(map[string]float64)
	labelCounts := make(map[string]int)

	for _, s := range students {
		fr, ok := s.families[family]
		if !ok {
			continue
		}
		avg.AttemptedCount += fr.normalized.Attempted
		if pct, ok := OverallPercentage(fr.normalized.Items); ok {
			total += pct
			avg.StudentsScored++
		}
		byLabel := make(map[string][]models.ScoredItem)
		for _, item := range fr.normalized.Items {
			byLabel[item.Assessment] = append(byLabel[item.Assessment], item)
		}
		for _, label := range sortedLabels(byLabel) {
			if pct, ok := OverallPercentage(byLabel[label]); ok {
				labelSums[label] += pct
				labelCounts[label]++
			}
		}
	}

	if avg.StudentsScored > 0 {
		avg.Average = round2(total / float64(avg.StudentsScored))
	}
	if len(labelCounts) > 0 {
		avg.ByAssessment = make(map[string]float64, len(labelCounts))
		for label, n := range labelCounts {
			avg.ByAssessment[label] = round2(labelSums[label] / float64(n))
		}
	}
	return avg
}

func sortedLabels(m map[string][]models.ScoredItem) []string {
	out := make([]string, 0, len(m))
	for label := range m {
		if label == "" {
			continue
		}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
