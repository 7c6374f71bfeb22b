package attainment

import (
	"sort"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// RollupProgramOutcomes maps course-level CO attainment onto PO/PSO columns:
//
//	PO = Σ(courseCO × strength) / Σ strength, over COs with strength > 0
//
// COs missing from courseCO (no data) do not contribute. A column with no
// contributing CO is left out of the result instead of being reported as 0.
func RollupProgramOutcomes(courseCO map[models.COIdentifier]float64, definitions models.CoDefinitions) map[models.OutcomeID]float64 {
	defs := make(models.CoDefinitions, len(definitions))
	copy(defs, definitions)
	sort.SliceStable(defs, func(i, j int) bool { return models.LessCO(defs[i].COIdentifier, defs[j].COIdentifier) })

	out := make(map[models.OutcomeID]float64)
	for _, po := range models.ProgramOutcomes {
		var num, den float64
		for _, def := range defs {
			strength := def.POStrengths[po]
			if strength <= 0 {
				continue
			}
			level, ok := courseCO[def.COIdentifier]
			if !ok {
				continue
			}
			num += level * float64(strength)
			den += float64(strength)
		}
		if den > 0 {
			out[po] = round2(num / den)
		}
	}
	return out
}
