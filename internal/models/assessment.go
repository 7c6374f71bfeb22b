package models

import (
	"database/sql/driver"
	"time"
)

// NotAttempted marks an item the student did not attempt.
const NotAttempted = -1

// MarkEntry is one raw question-part mark as entered by faculty.
type MarkEntry struct {
	// Assessment labels the sitting, e.g. "Tutorial", "CT1" or "Survey".
	Assessment    string  `json:"assessment" yaml:"assessment"`
	Question      int     `json:"question" yaml:"question" validate:"gte=1"`
	Part          string  `json:"part" yaml:"part" validate:"required"`
	MaxMarks      float64 `json:"maxMarks" yaml:"maxMarks" validate:"gte=0"`
	MarksObtained float64 `json:"marksObtained" yaml:"marksObtained"`
}

// Attempted reports whether the entry carries a real mark.
func (m MarkEntry) Attempted() bool {
	return m.MarksObtained != NotAttempted
}

// FamilyMarks holds every raw mark of a student, grouped by assessment family.
type FamilyMarks map[AssessmentFamily][]MarkEntry

// ReplaceSitting swaps the entries of one sitting within a family and keeps the
// family's other sittings in stored order.
func (m FamilyMarks) ReplaceSitting(family AssessmentFamily, assessment string, entries []MarkEntry) FamilyMarks {
	if m == nil {
		m = FamilyMarks{}
	}
	merged := make([]MarkEntry, 0, len(m[family])+len(entries))
	for _, existing := range m[family] {
		if existing.Assessment != assessment {
			merged = append(merged, existing)
		}
	}
	m[family] = append(merged, entries...)
	return m
}

// Value marshals marks for persistence.
func (m FamilyMarks) Value() (driver.Value, error) {
	if m == nil {
		m = FamilyMarks{}
	}
	return marshalJSONB("student marks", map[AssessmentFamily][]MarkEntry(m))
}

// Scan unmarshals JSONB marks.
func (m *FamilyMarks) Scan(value interface{}) error {
	*m = FamilyMarks{}
	return unmarshalJSONB("student marks", value, (*map[AssessmentFamily][]MarkEntry)(m))
}

// StudentRecord is one enrolled student's marks within a course offering.
type StudentRecord struct {
	ID         string      `db:"id" json:"id"`
	OfferingID string      `db:"offering_id" json:"offeringId"`
	RollNo     string      `db:"roll_no" json:"rollNo" yaml:"rollNo"`
	Name       string      `db:"name" json:"name" yaml:"name"`
	Marks      FamilyMarks `db:"marks" json:"marks" yaml:"marks"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updatedAt"`
}

// ScoredItem is a normalised mark tagged with the course outcome it measures.
type ScoredItem struct {
	COTag         COIdentifier `json:"coTag"`
	Assessment    string       `json:"assessment,omitempty"`
	MaxMarks      float64      `json:"maxMarks"`
	MarksObtained float64      `json:"marksObtained"`
}

// Attempted reports whether the item counts towards percentages.
func (s ScoredItem) Attempted() bool {
	return s.MarksObtained != NotAttempted
}
