package models

import (
	"database/sql/driver"
	"errors"
	"time"
)

// CoAttainment is a student's combined percentage and level for one course outcome.
type CoAttainment struct {
	COIdentifier    COIdentifier `json:"coIdentifier"`
	StudentRollNo   string       `json:"studentRollNo"`
	Percentage      float64      `json:"percentage"`
	AttainmentLevel int          `json:"attainmentLevel"`
}

// FamilyCOAttainment is the class-level result of one family for one CO.
type FamilyCOAttainment struct {
	StudentsWithData  int     `json:"studentsWithData"`
	StudentsCleared   int     `json:"studentsCleared"`
	ClearedPercentage float64 `json:"clearedPercentage"`
	Level             int     `json:"level"`
	NoData            bool    `json:"noData,omitempty"`
}

// ClassCOAttainment is the course-level attainment of one CO.
type ClassCOAttainment struct {
	AveragePercentage float64                                 `json:"averagePercentage"`
	Level             float64                                 `json:"level"`
	TargetLevel       float64                                 `json:"targetLevel"`
	TargetMet         bool                                    `json:"targetMet"`
	NoData            bool                                    `json:"noData,omitempty"`
	Families          map[AssessmentFamily]FamilyCOAttainment `json:"families,omitempty"`
}

// FamilyAverages summarises one family's marks across the class.
type FamilyAverages struct {
	Average        float64            `json:"average"`
	StudentsScored int                `json:"studentsScored"`
	AttemptedCount int                `json:"attemptedCount"`
	ByAssessment   map[string]float64 `json:"byAssessment,omitempty"`
}

// AttainmentStatistics are the display-oriented summary numbers.
type AttainmentStatistics struct {
	TMSAverages    FamilyAverages `json:"tmsAverages"`
	TCAAverages    FamilyAverages `json:"tcaAverages"`
	TESAverages    FamilyAverages `json:"tesAverages"`
	StudentCount   int            `json:"studentCount"`
	AssessedCount  int            `json:"assessedCount"`
	PassedCount    int            `json:"passedCount"`
	PassPercentage float64        `json:"passPercentage"`
}

// IssueKind classifies non-fatal data problems recorded in a report.
type IssueKind string

const (
	IssueConfigMismatch   IssueKind = "CONFIG_MISMATCH"
	IssueInsufficientData IssueKind = "INSUFFICIENT_DATA"
)

// AttainmentIssue records a skipped item or a CO without data.
type AttainmentIssue struct {
	Kind          IssueKind        `json:"kind"`
	StudentRollNo string           `json:"studentRollNo,omitempty"`
	Family        AssessmentFamily `json:"family,omitempty"`
	COIdentifier  COIdentifier     `json:"coIdentifier,omitempty"`
	Detail        string           `json:"detail"`
}

// AttainmentReport is the full output of one attainment computation.
type AttainmentReport struct {
	OfferingKey            CourseOfferingKey                  `json:"offeringKey"`
	PerStudentCOAttainment []CoAttainment                     `json:"perStudentCoAttainment"`
	ClassCOAttainment      map[COIdentifier]ClassCOAttainment `json:"classCoAttainment"`
	POAttainment           map[OutcomeID]float64              `json:"poAttainment"`
	Statistics             AttainmentStatistics               `json:"statistics"`
	Issues                 []AttainmentIssue                  `json:"issues,omitempty"`
}

// Value marshals the report for persistence.
func (r AttainmentReport) Value() (driver.Value, error) {
	return marshalJSONB("attainment report", r)
}

// Scan unmarshals a JSONB report.
func (r *AttainmentReport) Scan(value interface{}) error {
	*r = AttainmentReport{}
	return unmarshalJSONB("attainment report", value, r)
}

// StoredAttainmentReport is a persisted report for an offering. InputsVersion is
// the offering inputs version the report was computed from.
type StoredAttainmentReport struct {
	ID            string           `db:"id" json:"id"`
	OfferingID    string           `db:"offering_id" json:"offeringId"`
	Report        AttainmentReport `db:"report" json:"report"`
	CalculatedBy  string           `db:"calculated_by" json:"calculatedBy"`
	CalculatedAt  time.Time        `db:"calculated_at" json:"calculatedAt"`
	InputsVersion int64            `db:"inputs_version" json:"inputsVersion"`
}

// ErrInputsChanged reports that an offering's marks, roster or configuration moved
// after a calculation loaded them.
var ErrInputsChanged = errors.New("offering inputs changed during calculation")

// StudentAttainmentView is a single student's slice of a report.
type StudentAttainmentView struct {
	OfferingID   string         `json:"offeringId"`
	Student      StudentRecord  `json:"student"`
	COAttainment []CoAttainment `json:"coAttainment"`
	CalculatedAt *time.Time     `json:"calculatedAt,omitempty"`
}

// StatisticsView is the statistics endpoint payload.
type StatisticsView struct {
	AttainmentStatistics
	COAttainment map[COIdentifier]ClassCOAttainment `json:"coAttainment"`
	POAttainment map[OutcomeID]float64              `json:"poAttainment"`
	CalculatedAt time.Time                          `json:"calculatedAt"`
}
