package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// AssessmentFamily groups marks by how they were collected.
type AssessmentFamily string

const (
	// FamilyTMS covers tutorials, mini-projects and surprise tests.
	FamilyTMS AssessmentFamily = "TMS"
	// FamilyTCA covers continuous assessments (CT1/CT2).
	FamilyTCA AssessmentFamily = "TCA"
	// FamilyTES covers end-semester survey marks.
	FamilyTES AssessmentFamily = "TES"
)

// AssessmentFamilies lists families in canonical order.
var AssessmentFamilies = []AssessmentFamily{FamilyTMS, FamilyTCA, FamilyTES}

// ParseAssessmentFamily accepts "tms", "TCA" etc.
func ParseAssessmentFamily(raw string) (AssessmentFamily, error) {
	f := AssessmentFamily(strings.ToUpper(strings.TrimSpace(raw)))
	switch f {
	case FamilyTMS, FamilyTCA, FamilyTES:
		return f, nil
	}
	return "", fmt.Errorf("unknown assessment family %q", raw)
}

// TMS sub-types.
const (
	TMSTutorial     = "Tutorial"
	TMSMiniProject  = "MiniProject"
	TMSSurpriseTest = "SurpriseTest"
)

// CourseOfferingKey uniquely identifies one run of a course.
type CourseOfferingKey struct {
	SubjectCode  string `db:"subject_code" json:"subjectCode" yaml:"subjectCode" validate:"required"`
	AcademicYear string `db:"academic_year" json:"academicYear" yaml:"academicYear" validate:"required"`
	Semester     int    `db:"semester" json:"semester" yaml:"semester" validate:"required,gte=1,lte=12"`
	Branch       string `db:"branch" json:"branch" yaml:"branch" validate:"required"`
	Section      string `db:"section" json:"section" yaml:"section" validate:"required"`
}

// String renders the key in a stable, cache-friendly form.
func (k CourseOfferingKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", k.SubjectCode, k.AcademicYear, k.Semester, k.Branch, k.Section)
}

// PartKey builds the coMapping key for a question part, e.g. (1, "A") -> "q1a".
func PartKey(question int, part string) string {
	return fmt.Sprintf("q%d%s", question, strings.ToLower(strings.TrimSpace(part)))
}

// AssessmentTypeConfig holds the weightage and question→CO mapping of one family.
type AssessmentTypeConfig struct {
	Weightage float64                 `json:"weightage" yaml:"weightage"`
	COMapping map[string]COIdentifier `json:"coMapping" yaml:"coMapping"`
}

// AttainmentThresholds configures the class-level discretisation and pass statistics.
// Zero values are filled from service defaults.
type AttainmentThresholds struct {
	// ThresholdPercentage is the mark percentage a student must reach to count as clearing a CO.
	ThresholdPercentage float64 `json:"thresholdPercentage" yaml:"thresholdPercentage"`
	// TargetStudentPercentage is the share of students that must clear for level 3.
	TargetStudentPercentage float64 `json:"targetStudentPercentage" yaml:"targetStudentPercentage"`
	// Level2StudentPercentage is the share of students that must clear for level 2.
	Level2StudentPercentage float64 `json:"level2StudentPercentage" yaml:"level2StudentPercentage"`
	// StudentLevel2Percentage is the individual percentage for a per-student level 2.
	StudentLevel2Percentage float64 `json:"studentLevel2Percentage" yaml:"studentLevel2Percentage"`
	// PassPercentage is the overall weighted score needed to pass the course.
	PassPercentage float64 `json:"passPercentage" yaml:"passPercentage"`
}

// Merge fills unset fields from defaults.
func (t AttainmentThresholds) Merge(defaults AttainmentThresholds) AttainmentThresholds {
	if t.ThresholdPercentage == 0 {
		t.ThresholdPercentage = defaults.ThresholdPercentage
	}
	if t.TargetStudentPercentage == 0 {
		t.TargetStudentPercentage = defaults.TargetStudentPercentage
	}
	if t.Level2StudentPercentage == 0 {
		t.Level2StudentPercentage = defaults.Level2StudentPercentage
	}
	if t.StudentLevel2Percentage == 0 {
		t.StudentLevel2Percentage = defaults.StudentLevel2Percentage
	}
	if t.PassPercentage == 0 {
		t.PassPercentage = defaults.PassPercentage
	}
	return t
}

// OfferingConfig bundles per-family configs and optional threshold overrides.
type OfferingConfig struct {
	Assessments map[AssessmentFamily]AssessmentTypeConfig `json:"assessments" yaml:"assessments"`
	Thresholds  AttainmentThresholds                      `json:"thresholds" yaml:"thresholds"`
}

// Families returns the configured families in canonical order.
func (c OfferingConfig) Families() []AssessmentFamily {
	out := make([]AssessmentFamily, 0, len(c.Assessments))
	for _, f := range AssessmentFamilies {
		if _, ok := c.Assessments[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Value marshals the config for persistence.
func (c OfferingConfig) Value() (driver.Value, error) {
	if c.Assessments == nil {
		c.Assessments = map[AssessmentFamily]AssessmentTypeConfig{}
	}
	return marshalJSONB("offering config", c)
}

// Scan unmarshals a JSONB offering config.
func (c *OfferingConfig) Scan(value interface{}) error {
	*c = OfferingConfig{}
	return unmarshalJSONB("offering config", value, c)
}

// CourseOffering is one instance of a subject taught to a class-section.
type CourseOffering struct {
	ID string `db:"id" json:"id"`
	CourseOfferingKey
	SubjectName   string         `db:"subject_name" json:"subjectName"`
	FacultyID     string         `db:"faculty_id" json:"facultyId"`
	Config        OfferingConfig `db:"config" json:"config"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
	// InputsVersion moves on every marks, roster, config or CO change.
	InputsVersion int64          `db:"inputs_version" json:"inputsVersion"`
}

// OfferingFilter narrows offering listings.
type OfferingFilter struct {
	SubjectCode  string
	AcademicYear string
	Semester     int
	Branch       string
	Section      string
	FacultyID    string
	Page         int
	PageSize     int
}
