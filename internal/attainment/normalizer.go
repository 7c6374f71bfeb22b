package attainment

import (
	"fmt"
	"math"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// maxAbsoluteMarks caps any single part; larger values are treated as entry errors.
const maxAbsoluteMarks = 100

// NormalizedMarks is the normaliser output for one student and one family.
type NormalizedMarks struct {
	Items     []models.ScoredItem
	Attempted int
	Skipped   []error
}

// Normalize converts raw marks of one family into CO-tagged scored items.
// Entries whose part is unmapped or whose CO is undefined are skipped and reported
// through Skipped; an impossible mark aborts with ErrInvalidWeightConfig.
func Normalize(family models.AssessmentFamily, entries []models.MarkEntry, cfg models.AssessmentTypeConfig, outcomes map[models.COIdentifier]struct{}) (NormalizedMarks, error) {
	out := NormalizedMarks{Items: make([]models.ScoredItem, 0, len(entries))}
	for _, entry := range entries {
		if err := ValidateMark(entry); err != nil {
			return NormalizedMarks{}, fmt.Errorf("%s q%d%s: %w", family, entry.Question, entry.Part, err)
		}
		item, err := scoreEntry(entry, cfg, outcomes)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Errorf("%s %s: %w", family, models.PartKey(entry.Question, entry.Part), err))
			continue
		}
		if item.Attempted() {
			out.Attempted++
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// ValidateMark rejects marks that cannot come from a real answer sheet.
func ValidateMark(entry models.MarkEntry) error {
	switch {
	case !finite(entry.MaxMarks) || !finite(entry.MarksObtained):
		return fmt.Errorf("%w: non-numeric marks %v of %v", ErrInvalidWeightConfig, entry.MarksObtained, entry.MaxMarks)
	case entry.MaxMarks < 0:
		return fmt.Errorf("%w: negative max marks %.2f", ErrInvalidWeightConfig, entry.MaxMarks)
	case entry.MaxMarks > maxAbsoluteMarks:
		return fmt.Errorf("%w: max marks %.2f above %d", ErrInvalidWeightConfig, entry.MaxMarks, maxAbsoluteMarks)
	case entry.Attempted() && entry.MarksObtained < 0:
		return fmt.Errorf("%w: negative marks %.2f", ErrInvalidWeightConfig, entry.MarksObtained)
	case entry.Attempted() && entry.MarksObtained > entry.MaxMarks:
		return fmt.Errorf("%w: marks %.2f exceed max %.2f", ErrInvalidWeightConfig, entry.MarksObtained, entry.MaxMarks)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func scoreEntry(entry models.MarkEntry, cfg models.AssessmentTypeConfig, outcomes map[models.COIdentifier]struct{}) (models.ScoredItem, error) {
	key := models.PartKey(entry.Question, entry.Part)
	co, ok := cfg.COMapping[key]
	if !ok {
		return models.ScoredItem{}, fmt.Errorf("%w: part %s has no CO mapping", ErrConfigMismatch, key)
	}
	canonical, err := models.ParseCOIdentifier(string(co))
	if err != nil {
		return models.ScoredItem{}, fmt.Errorf("%w: %v", ErrConfigMismatch, err)
	}
	if _, ok := outcomes[canonical]; !ok {
		return models.ScoredItem{}, fmt.Errorf("%w: %s is not a defined course outcome", ErrConfigMismatch, canonical)
	}
	return models.ScoredItem{
		COTag:         canonical,
		Assessment:    entry.Assessment,
		MaxMarks:      entry.MaxMarks,
		MarksObtained: entry.MarksObtained,
	}, nil
}
