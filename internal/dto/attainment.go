package dto

import "github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"

// CreateOfferingRequest captures POST /offerings payload.
type CreateOfferingRequest struct {
	models.CourseOfferingKey
	SubjectName string                 `json:"subjectName" validate:"required"`
	FacultyID   string                 `json:"facultyId"`
	Config      *models.OfferingConfig `json:"config,omitempty"`
}

// OfferingListQuery binds the offering list filters.
type OfferingListQuery struct {
	SubjectCode  string `form:"subjectCode"`
	AcademicYear string `form:"academicYear"`
	Semester     int    `form:"semester"`
	Branch       string `form:"branch"`
	Section      string `form:"section"`
	FacultyID    string `form:"facultyId"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// AssessmentConfigInput is one family's weightage and question mapping.
type AssessmentConfigInput struct {
	Weightage float64           `json:"weightage" validate:"gte=0"`
	COMapping map[string]string `json:"coMapping"`
}

// UpdateOfferingConfigRequest replaces the assessment setup of an offering.
type UpdateOfferingConfigRequest struct {
	Assessments map[string]AssessmentConfigInput `json:"assessments" validate:"required,min=1,dive"`
	Thresholds  models.AttainmentThresholds      `json:"thresholds"`
}

// RosterStudent is one roster line.
type RosterStudent struct {
	RollNo string `json:"rollNo" validate:"required,max=32"`
	Name   string `json:"name" validate:"required"`
}

// ImportRosterRequest captures PUT /offerings/:id/roster payload.
type ImportRosterRequest struct {
	Students []RosterStudent `json:"students" validate:"required,min=1,dive"`
}

// MarkInput is one question-part mark. MarksObtained of -1 means not attempted.
type MarkInput struct {
	Question      int     `json:"question" validate:"gte=1"`
	Part          string  `json:"part" validate:"required,max=4"`
	MaxMarks      float64 `json:"maxMarks" validate:"gte=0"`
	MarksObtained float64 `json:"marksObtained" validate:"gte=-1"`
}

// UpsertMarksRequest replaces the marks of one sitting within a family. TMS needs a
// sub-type in Assessment, TCA needs AssessmentNumber 1 or 2, TES needs neither.
type UpsertMarksRequest struct {
	Assessment       string      `json:"assessment"`
	AssessmentNumber int         `json:"assessmentNumber"`
	Marks            []MarkInput `json:"marks" validate:"dive"`
}

// CoDefinitionInput is one course outcome as submitted by faculty.
type CoDefinitionInput struct {
	COIdentifier          string         `json:"coIdentifier" validate:"required"`
	TargetAttainmentLevel float64        `json:"targetAttainmentLevel" validate:"gte=0,lte=3"`
	POStrengths           map[string]int `json:"poStrengths"`
}

// UpsertCoMappingRequest captures PUT /offerings/:id/co-mapping payload.
type UpsertCoMappingRequest struct {
	CourseOutcomes []CoDefinitionInput `json:"courseOutcomes" validate:"required,min=1,dive"`
}

// ExportRequest captures POST /offerings/:id/attainment/export payload.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf CSV PDF"`
}

// RecalculationResponse is returned when a recalculation was scheduled.
type RecalculationResponse struct {
	OfferingID string `json:"offeringId"`
	Scheduled  bool   `json:"scheduled"`
}
