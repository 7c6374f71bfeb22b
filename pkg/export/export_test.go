package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	return Document{
		Title:    "CO Attainment",
		Subtitle: "CS301 2025-26",
		Tables: []Table{
			{Title: "Course outcomes", Headers: []string{"CO", "Level"}, Rows: [][]string{{"CO1", "2.20"}, {"CO2"}}},
			{Title: "Program outcomes", Headers: []string{"PO1", "PO2", "PO3", "PO4", "PO5", "PO6", "PO7", "PO8"}, Rows: [][]string{{"2.2", "-"}}},
		},
	}
}

func TestCSVExporterRendersTables(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDocument())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	assert.Equal(t, "CO Attainment,CS301 2025-26", lines[0])
	assert.Contains(t, lines, "Course outcomes")
	assert.Contains(t, lines, "CO1,2.20")
	assert.Contains(t, lines, "CO2,")
	assert.Contains(t, lines, "2.2,-,,,,,,")
}

func TestPDFExporterRendersDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportersRejectInvalidDocuments(t *testing.T) {
	_, err := NewCSVExporter().Render(Document{})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Document{Tables: []Table{{Title: "empty"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Document{Tables: []Table{{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}}}})
	assert.Error(t, err)
}
