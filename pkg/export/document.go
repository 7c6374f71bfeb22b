package export

import "fmt"

// Table is one titled grid of an exported document.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is an ordered set of tables rendered into a single file.
type Document struct {
	Title    string
	Subtitle string
	Tables   []Table
}

// Renderer turns a document into file bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

func (d Document) validate() error {
	if len(d.Tables) == 0 {
		return fmt.Errorf("document has no tables")
	}
	for i, t := range d.Tables {
		if len(t.Headers) == 0 {
			return fmt.Errorf("table %d (%s) requires at least one header", i, t.Title)
		}
		for j, row := range t.Rows {
			if len(row) > len(t.Headers) {
				return fmt.Errorf("table %s row %d has %d cells for %d headers", t.Title, j, len(row), len(t.Headers))
			}
		}
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
