package models

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// COIdentifier names a course outcome, always in canonical "CO<n>" form.
type COIdentifier string

var coPattern = regexp.MustCompile(`^CO([1-9][0-9]*)$`)

// ParseCOIdentifier normalises raw tags such as "co1" or " CO 2 " into a COIdentifier.
func ParseCOIdentifier(raw string) (COIdentifier, error) {
	cleaned := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if !coPattern.MatchString(cleaned) {
		return "", fmt.Errorf("invalid course outcome identifier %q", raw)
	}
	return COIdentifier(cleaned), nil
}

// Ordinal returns the numeric part of the identifier (CO3 -> 3), or 0 if malformed.
func (c COIdentifier) Ordinal() int {
	m := coPattern.FindStringSubmatch(string(c))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// LessCO orders identifiers numerically so CO10 sorts after CO9.
func LessCO(a, b COIdentifier) bool {
	oa, ob := a.Ordinal(), b.Ordinal()
	if oa != ob {
		return oa < ob
	}
	return a < b
}

// OutcomeID names a program outcome (PO1..PO12) or program-specific outcome (PSO1..PSO4).
type OutcomeID string

// ProgramOutcomes lists every PO/PSO column in report order.
var ProgramOutcomes = []OutcomeID{
	"PO1", "PO2", "PO3", "PO4", "PO5", "PO6", "PO7", "PO8", "PO9", "PO10", "PO11", "PO12",
	"PSO1", "PSO2", "PSO3", "PSO4",
}

var outcomeIndex = func() map[OutcomeID]int {
	idx := make(map[OutcomeID]int, len(ProgramOutcomes))
	for i, id := range ProgramOutcomes {
		idx[id] = i
	}
	return idx
}()

// ParseOutcomeID normalises "po1"/"pso2" style keys.
func ParseOutcomeID(raw string) (OutcomeID, error) {
	id := OutcomeID(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := outcomeIndex[id]; !ok {
		return "", fmt.Errorf("unknown program outcome %q", raw)
	}
	return id, nil
}

// MaxStrength is the strongest CO→PO correlation level.
const MaxStrength = 3

// CoDefinition describes one course outcome and its correlation with program outcomes.
type CoDefinition struct {
	COIdentifier          COIdentifier      `json:"coIdentifier" yaml:"coIdentifier" validate:"required"`
	TargetAttainmentLevel float64           `json:"targetAttainmentLevel" yaml:"targetAttainmentLevel" validate:"gte=0,lte=3"`
	POStrengths           map[OutcomeID]int `json:"poStrengths" yaml:"poStrengths"`
}

// Validate checks identifier shape and strength bounds.
func (d CoDefinition) Validate() error {
	if _, err := ParseCOIdentifier(string(d.COIdentifier)); err != nil {
		return err
	}
	if d.TargetAttainmentLevel < 0 || d.TargetAttainmentLevel > 3 {
		return fmt.Errorf("%s: target attainment level %.2f outside 0..3", d.COIdentifier, d.TargetAttainmentLevel)
	}
	for po, strength := range d.POStrengths {
		if _, ok := outcomeIndex[po]; !ok {
			return fmt.Errorf("%s: unknown program outcome %q", d.COIdentifier, po)
		}
		if strength < 0 || strength > MaxStrength {
			return fmt.Errorf("%s: strength %d for %s outside 0..%d", d.COIdentifier, strength, po, MaxStrength)
		}
	}
	return nil
}

// CoPoMapping is the persisted CoDefinition set for a course offering.
type CoPoMapping struct {
	ID          string        `db:"id" json:"id"`
	OfferingID  string        `db:"offering_id" json:"offeringId"`
	SubjectCode string        `db:"subject_code" json:"subjectCode"`
	SubjectName string        `db:"subject_name" json:"subjectName"`
	FacultyID   string        `db:"faculty_id" json:"facultyId"`
	Outcomes    CoDefinitions `db:"course_outcomes" json:"courseOutcomes"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// CoDefinitions is stored as a JSONB array.
type CoDefinitions []CoDefinition

// Lookup indexes the definitions by identifier.
func (d CoDefinitions) Lookup() map[COIdentifier]CoDefinition {
	out := make(map[COIdentifier]CoDefinition, len(d))
	for _, def := range d {
		out[def.COIdentifier] = def
	}
	return out
}

// Value marshals the definitions for persistence.
func (d CoDefinitions) Value() (driver.Value, error) {
	if d == nil {
		d = CoDefinitions{}
	}
	return marshalJSONB("course outcomes", []CoDefinition(d))
}

// Scan unmarshals JSONB course outcomes.
func (d *CoDefinitions) Scan(value interface{}) error {
	*d = nil
	return unmarshalJSONB("course outcomes", value, (*[]CoDefinition)(d))
}
