package attainment

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// Input is an in-memory snapshot of one course offering.
type Input struct {
	Key      models.CourseOfferingKey
	Config   models.OfferingConfig
	Outcomes models.CoDefinitions
	Students []models.StudentRecord
}

// Engine runs the attainment pipeline. It holds no per-offering state and is safe
// for concurrent use across offerings.
type Engine struct {
	defaults models.AttainmentThresholds
	logger   *zap.Logger
}

// NewEngine constructs an engine with default thresholds applied to offerings that
// do not override them.
func NewEngine(defaults models.AttainmentThresholds, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{defaults: defaults, logger: logger}
}

// studentResult is the per-student intermediate state carried between stages.
type studentResult struct {
	record   models.StudentRecord
	families map[models.AssessmentFamily]familyResult
}

type familyResult struct {
	normalized  NormalizedMarks
	percentages FamilyPercentages
}

// Compute runs normaliser → calculator → aggregator → rollup → assembler.
// Only ErrInvalidWeightConfig aborts; malformed CO definitions, unmapped items and
// COs without data are recorded as report issues.
func (e *Engine) Compute(in Input) (*models.AttainmentReport, error) {
	thresholds := in.Config.Thresholds.Merge(e.defaults)
	if err := ValidateThresholds(thresholds); err != nil {
		return nil, err
	}
	weights, err := NormalizeWeights(in.Config)
	if err != nil {
		return nil, err
	}
	defs, outcomes, outcomeIssues := outcomeSet(in.Outcomes)
	for _, issue := range outcomeIssues {
		e.logger.Warn("dropping course outcome", zap.String("offering", in.Key.String()), zap.String("co", string(issue.COIdentifier)), zap.String("detail", issue.Detail))
	}

	report := &models.AttainmentReport{
		OfferingKey:            in.Key,
		PerStudentCOAttainment: []models.CoAttainment{},
		ClassCOAttainment:      make(map[models.COIdentifier]models.ClassCOAttainment),
	}

	students, issues, err := e.normalizeStudents(in, outcomes)
	if err != nil {
		return nil, err
	}
	report.Issues = append(outcomeIssues, issues...)

	courseLevels := make(map[models.COIdentifier]float64, len(defs))
	for _, def := range defs {
		classCO, perStudent := e.aggregateCO(def, students, weights, thresholds)
		report.ClassCOAttainment[def.COIdentifier] = classCO
		report.PerStudentCOAttainment = append(report.PerStudentCOAttainment, perStudent...)
		if classCO.NoData {
			err := fmt.Errorf("%w: %s has no usable marks", ErrInsufficientData, def.COIdentifier)
			e.logger.Info("course outcome without data", zap.String("offering", in.Key.String()), zap.String("co", string(def.COIdentifier)))
			report.Issues = append(report.Issues, models.AttainmentIssue{
				Kind:         models.IssueInsufficientData,
				COIdentifier: def.COIdentifier,
				Detail:       err.Error(),
			})
			continue
		}
		courseLevels[def.COIdentifier] = classCO.Level
	}
	sort.SliceStable(report.PerStudentCOAttainment, func(i, j int) bool {
		a, b := report.PerStudentCOAttainment[i], report.PerStudentCOAttainment[j]
		if a.StudentRollNo != b.StudentRollNo {
			return a.StudentRollNo < b.StudentRollNo
		}
		return models.LessCO(a.COIdentifier, b.COIdentifier)
	})

	report.POAttainment = RollupProgramOutcomes(courseLevels, defs)
	report.Statistics = assembleStatistics(students, weights, thresholds)
	return report, nil
}

func (e *Engine) normalizeStudents(in Input, outcomes map[models.COIdentifier]struct{}) ([]studentResult, []models.AttainmentIssue, error) {
	records := make([]models.StudentRecord, len(in.Students))
	copy(records, in.Students)
	sort.SliceStable(records, func(i, j int) bool { return records[i].RollNo < records[j].RollNo })

	var issues []models.AttainmentIssue
	mismatch := func(rollNo string, family models.AssessmentFamily, err error) {
		e.logger.Warn("skipping mark", zap.String("offering", in.Key.String()), zap.String("roll_no", rollNo), zap.String("family", string(family)), zap.Error(err))
		issues = append(issues, models.AttainmentIssue{
			Kind:          models.IssueConfigMismatch,
			StudentRollNo: rollNo,
			Family:        family,
			Detail:        err.Error(),
		})
	}

	families := in.Config.Families()
	seen := make(map[string]struct{}, len(records))
	students := make([]studentResult, 0, len(records))
	for _, record := range records {
		if _, dup := seen[record.RollNo]; dup {
			mismatch(record.RollNo, "", fmt.Errorf("%w: duplicate roll number", ErrConfigMismatch))
			continue
		}
		seen[record.RollNo] = struct{}{}

		for _, family := range unconfiguredFamilies(record.Marks, in.Config) {
			mismatch(record.RollNo, family, fmt.Errorf("%w: family %s is not configured", ErrConfigMismatch, family))
		}

		result := studentResult{record: record, families: make(map[models.AssessmentFamily]familyResult, len(families))}
		for _, family := range families {
			normalized, err := Normalize(family, record.Marks[family], in.Config.Assessments[family], outcomes)
			if err != nil {
				return nil, nil, fmt.Errorf("student %s: %w", record.RollNo, err)
			}
			for _, skipped := range normalized.Skipped {
				mismatch(record.RollNo, family, skipped)
			}
			result.families[family] = familyResult{
				normalized:  normalized,
				percentages: CalculateCOPercentages(normalized.Items),
			}
		}
		students = append(students, result)
	}
	return students, issues, nil
}

// unconfiguredFamilies lists families that carry marks but have no config, sorted.
func unconfiguredFamilies(marks models.FamilyMarks, cfg models.OfferingConfig) []models.AssessmentFamily {
	var out []models.AssessmentFamily
	for family, entries := range marks {
		if _, ok := cfg.Assessments[family]; !ok && len(entries) > 0 {
			out = append(out, family)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// aggregateCO runs Step A per family, Step B across families, and builds the
// per-student rows for one CO.
func (e *Engine) aggregateCO(def models.CoDefinition, students []studentResult, weights map[models.AssessmentFamily]float64, t models.AttainmentThresholds) (models.ClassCOAttainment, []models.CoAttainment) {
	co := def.COIdentifier
	familyLevels := make(map[models.AssessmentFamily]models.FamilyCOAttainment, len(weights))
	for _, family := range models.AssessmentFamilies {
		if _, ok := weights[family]; !ok {
			continue
		}
		var pcts []float64
		for _, s := range students {
			if p, ok := s.families[family].percentages.Lookup(co); ok {
				pcts = append(pcts, p.Percentage)
			}
		}
		familyLevels[family] = ClassifyFamily(pcts, t)
	}

	classCO := models.ClassCOAttainment{TargetLevel: def.TargetAttainmentLevel, Families: familyLevels}
	level, ok := WeightedLevel(familyLevels, weights)
	if !ok {
		classCO.NoData = true
		return classCO, nil
	}

	var rows []models.CoAttainment
	var sum float64
	for _, s := range students {
		values := make(map[models.AssessmentFamily]float64, len(s.families))
		for family, fr := range s.families {
			if p, ok := fr.percentages.Lookup(co); ok {
				values[family] = p.Percentage
			}
		}
		pct, ok := weightedMean(values, weights)
		if !ok {
			continue
		}
		sum += pct
		rows = append(rows, models.CoAttainment{
			COIdentifier:    co,
			StudentRollNo:   s.record.RollNo,
			Percentage:      round2(pct),
			AttainmentLevel: StudentLevel(pct, t),
		})
	}
	if len(rows) > 0 {
		classCO.AveragePercentage = round2(sum / float64(len(rows)))
	}
	classCO.Level = round2(level)
	classCO.TargetMet = def.TargetAttainmentLevel == 0 || level >= def.TargetAttainmentLevel
	return classCO, rows
}

// outcomeSet keeps the well-formed CO definitions. A malformed or repeated
// definition is dropped with an issue, so marks mapped to it are skipped too.
func outcomeSet(defs models.CoDefinitions) (models.CoDefinitions, map[models.COIdentifier]struct{}, []models.AttainmentIssue) {
	var issues []models.AttainmentIssue
	if len(defs) == 0 {
		issues = append(issues, models.AttainmentIssue{
			Kind:   models.IssueConfigMismatch,
			Detail: fmt.Errorf("%w: no course outcomes defined", ErrConfigMismatch).Error(),
		})
	}
	valid := make(models.CoDefinitions, 0, len(defs))
	set := make(map[models.COIdentifier]struct{}, len(defs))
	for _, def := range sortedDefinitions(defs) {
		err := def.Validate()
		if err == nil {
			if _, dup := set[def.COIdentifier]; dup {
				err = fmt.Errorf("%s defined twice", def.COIdentifier)
			}
		}
		if err != nil {
			issues = append(issues, models.AttainmentIssue{
				Kind:         models.IssueConfigMismatch,
				COIdentifier: def.COIdentifier,
				Detail:       fmt.Errorf("%w: %v", ErrConfigMismatch, err).Error(),
			})
			continue
		}
		set[def.COIdentifier] = struct{}{}
		valid = append(valid, def)
	}
	return valid, set, issues
}

func sortedDefinitions(defs models.CoDefinitions) models.CoDefinitions {
	out := make(models.CoDefinitions, len(defs))
	copy(out, defs)
	sort.SliceStable(out, func(i, j int) bool { return models.LessCO(out[i].COIdentifier, out[j].COIdentifier) })
	return out
}
