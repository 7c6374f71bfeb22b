package attainment

import (
	"math"
	"sort"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// COPercentage is one student's result for one CO within one family.
type COPercentage struct {
	Obtained   float64
	Max        float64
	Attempted  int
	Percentage float64
	NoData     bool
}

// FamilyPercentages maps each CO seen in a family to the student's percentage.
type FamilyPercentages map[models.COIdentifier]COPercentage

// CalculateCOPercentages sums attempted items per CO. A CO with no attempted items,
// or whose attempted items carry no marks at all, is NoData rather than 0%.
func CalculateCOPercentages(items []models.ScoredItem) FamilyPercentages {
	out := make(FamilyPercentages)
	for _, item := range items {
		acc := out[item.COTag]
		if item.Attempted() {
			acc.Obtained += item.MarksObtained
			acc.Max += item.MaxMarks
			acc.Attempted++
		}
		out[item.COTag] = acc
	}
	for co, acc := range out {
		acc.Percentage, acc.NoData = percentage(acc.Obtained, acc.Max)
		out[co] = acc
	}
	return out
}

// Lookup returns the CO result and whether it carries data.
func (f FamilyPercentages) Lookup(co models.COIdentifier) (COPercentage, bool) {
	p, ok := f[co]
	if !ok || p.NoData {
		return COPercentage{NoData: true}, false
	}
	return p, true
}

// Outcomes returns the COs present, in numeric order.
func (f FamilyPercentages) Outcomes() []models.COIdentifier {
	out := make([]models.COIdentifier, 0, len(f))
	for co := range f {
		out = append(out, co)
	}
	sort.Slice(out, func(i, j int) bool { return models.LessCO(out[i], out[j]) })
	return out
}

// OverallPercentage is 100 × Σobtained / Σmax over every attempted item, regardless of CO.
func OverallPercentage(items []models.ScoredItem) (float64, bool) {
	var obtained, max float64
	for _, item := range items {
		if !item.Attempted() {
			continue
		}
		obtained += item.MarksObtained
		max += item.MaxMarks
	}
	pct, noData := percentage(obtained, max)
	return pct, !noData
}

func percentage(obtained, max float64) (float64, bool) {
	if max <= 0 {
		return 0, true
	}
	pct := 100 * obtained / max
	return math.Min(100, math.Max(0, pct)), false
}

// round2 rounds half-to-even to two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
