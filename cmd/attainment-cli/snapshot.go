package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/attainment"
	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
)

// snapshot is the on-disk form of one offering. JSON files parse too since YAML is a superset.
type snapshot struct {
	Offering models.CourseOfferingKey `yaml:"offering"`
	Config   models.OfferingConfig    `yaml:"config"`
	Outcomes models.CoDefinitions     `yaml:"courseOutcomes"`
	Students []models.StudentRecord   `yaml:"students"`
}

func loadSnapshot(path string) (attainment.Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return attainment.Input{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return parseSnapshot(raw)
}

func parseSnapshot(raw []byte) (attainment.Input, error) {
	var snap snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return attainment.Input{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Offering.SubjectCode == "" {
		return attainment.Input{}, fmt.Errorf("snapshot is missing offering.subjectCode")
	}

	// normalise the keys the same way the API does on write
	assessments := make(map[models.AssessmentFamily]models.AssessmentTypeConfig, len(snap.Config.Assessments))
	for family, cfg := range snap.Config.Assessments {
		parsed, err := models.ParseAssessmentFamily(string(family))
		if err != nil {
			return attainment.Input{}, err
		}
		mapping := make(map[string]models.COIdentifier, len(cfg.COMapping))
		for part, raw := range cfg.COMapping {
			co, err := models.ParseCOIdentifier(string(raw))
			if err != nil {
				return attainment.Input{}, fmt.Errorf("%s %s: %w", parsed, part, err)
			}
			mapping[strings.ToLower(strings.TrimSpace(part))] = co
		}
		assessments[parsed] = models.AssessmentTypeConfig{Weightage: cfg.Weightage, COMapping: mapping}
	}
	snap.Config.Assessments = assessments

	for i := range snap.Students {
		marks := make(models.FamilyMarks, len(snap.Students[i].Marks))
		for family, entries := range snap.Students[i].Marks {
			parsed, err := models.ParseAssessmentFamily(string(family))
			if err != nil {
				return attainment.Input{}, fmt.Errorf("student %s: %w", snap.Students[i].RollNo, err)
			}
			marks[parsed] = append(marks[parsed], entries...)
		}
		snap.Students[i].Marks = marks
	}

	return attainment.Input{
		Key:      snap.Offering,
		Config:   snap.Config,
		Outcomes: snap.Outcomes,
		Students: snap.Students,
	}, nil
}
