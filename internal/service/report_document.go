package service

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/export"
)

// BuildReportDocument lays a stored report out as exportable tables.
func BuildReportDocument(offering *models.CourseOffering, stored *models.StoredAttainmentReport) export.Document {
	report := stored.Report
	key := report.OfferingKey
	title := fmt.Sprintf("CO-PO Attainment: %s", key.SubjectCode)
	if offering != nil && offering.SubjectName != "" {
		title = fmt.Sprintf("CO-PO Attainment: %s %s", key.SubjectCode, offering.SubjectName)
	}

	doc := export.Document{
		Title: title,
		Subtitle: fmt.Sprintf("%s | Semester %d | %s-%s | calculated %s",
			key.AcademicYear, key.Semester, key.Branch, key.Section, stored.CalculatedAt.UTC().Format("2006-01-02 15:04 MST")),
		Tables: []export.Table{
			courseOutcomeTable(report),
			programOutcomeTable(report),
			statisticsTable(report.Statistics),
			studentTable(report),
		},
	}
	if len(report.Issues) > 0 {
		doc.Tables = append(doc.Tables, issueTable(report.Issues))
	}
	return doc
}

func courseOutcomeTable(report models.AttainmentReport) export.Table {
	headers := []string{"CO", "Average %", "Level", "Target", "Target Met"}
	for _, family := range models.AssessmentFamilies {
		headers = append(headers, string(family)+" Level")
	}

	cos := make([]models.COIdentifier, 0, len(report.ClassCOAttainment))
	for co := range report.ClassCOAttainment {
		cos = append(cos, co)
	}
	sort.Slice(cos, func(i, j int) bool { return models.LessCO(cos[i], cos[j]) })

	rows := make([][]string, 0, len(cos))
	for _, co := range cos {
		class := report.ClassCOAttainment[co]
		if class.NoData {
			rows = append(rows, []string{string(co), "-", "No data", formatNumber(class.TargetLevel), "-"})
			continue
		}
		row := []string{string(co), formatNumber(class.AveragePercentage), formatNumber(class.Level), formatNumber(class.TargetLevel), yesNo(class.TargetMet)}
		for _, family := range models.AssessmentFamilies {
			fam, ok := class.Families[family]
			switch {
			case !ok:
				row = append(row, "")
			case fam.NoData:
				row = append(row, "-")
			default:
				row = append(row, strconv.Itoa(fam.Level))
			}
		}
		rows = append(rows, row)
	}
	return export.Table{Title: "Course Outcome Attainment", Headers: headers, Rows: rows}
}

func programOutcomeTable(report models.AttainmentReport) export.Table {
	rows := make([][]string, 0, len(report.POAttainment))
	for _, po := range models.ProgramOutcomes {
		if value, ok := report.POAttainment[po]; ok {
			rows = append(rows, []string{string(po), formatNumber(value)})
		}
	}
	return export.Table{Title: "Program Outcome Attainment", Headers: []string{"Outcome", "Attainment"}, Rows: rows}
}

func statisticsTable(stats models.AttainmentStatistics) export.Table {
	return export.Table{
		Title:   "Statistics",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Students", strconv.Itoa(stats.StudentCount)},
			{"Assessed", strconv.Itoa(stats.AssessedCount)},
			{"Passed", strconv.Itoa(stats.PassedCount)},
			{"Pass %", formatNumber(stats.PassPercentage)},
			{"TMS average %", formatNumber(stats.TMSAverages.Average)},
			{"TCA average %", formatNumber(stats.TCAAverages.Average)},
			{"TES average %", formatNumber(stats.TESAverages.Average)},
		},
	}
}

func studentTable(report models.AttainmentReport) export.Table {
	rows := make([][]string, 0, len(report.PerStudentCOAttainment))
	for _, row := range report.PerStudentCOAttainment {
		rows = append(rows, []string{row.StudentRollNo, string(row.COIdentifier), formatNumber(row.Percentage), strconv.Itoa(row.AttainmentLevel)})
	}
	return export.Table{Title: "Student CO Attainment", Headers: []string{"Roll No", "CO", "Percentage", "Level"}, Rows: rows}
}

func issueTable(issues []models.AttainmentIssue) export.Table {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{string(issue.Kind), issue.StudentRollNo, string(issue.Family), string(issue.COIdentifier), issue.Detail})
	}
	return export.Table{Title: "Data Issues", Headers: []string{"Kind", "Student", "Family", "CO", "Detail"}, Rows: rows}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
