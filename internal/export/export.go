// Package export renders a task collection as a downloadable document.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jbutlerdev/tasks/internal/models"
	"github.com/jung-kurt/gofpdf"
)

type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts the format names and a few common aliases.
// An empty string means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown"
	}
}

// Filename returns the attachment name for the document.
func (f Format) Filename() string {
	switch f {
	case FormatMarkdown:
		return "tasks.md"
	default:
		return "tasks." + string(f)
	}
}

// Render writes tasks in the requested format.
func Render(tasks []models.Task, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(tasks), nil
	case FormatCSV:
		return CSV(tasks)
	case FormatJSON:
		if tasks == nil {
			tasks = []models.Task{}
		}
		return json.MarshalIndent(tasks, "", "  ")
	case FormatPDF:
		return PDF(tasks)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Markdown groups tasks under Incomplete and Completed headings, keeping
// collection order inside each group.
func Markdown(tasks []models.Task) []byte {
	var buf bytes.Buffer
	buf.WriteString("# Tasks\n\n")

	groups := []struct {
		title     string
		completed bool
	}{
		{"Incomplete", false},
		{"Completed", true},
	}

	for _, g := range groups {
		var lines []string
		for _, task := range tasks {
			if task.Completed != g.completed {
				continue
			}
			box := " "
			if task.Completed {
				box = "x"
			}
			lines = append(lines, fmt.Sprintf("- [%s] **%s**: %s (%s)\n", box, task.Title, task.Description, task.CreatedAt))
		}
		if len(lines) == 0 {
			continue
		}
		buf.WriteString(fmt.Sprintf("## %s\n\n", g.title))
		for _, l := range lines {
			buf.WriteString(l)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func CSV(tasks []models.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"id", "title", "description", "completed", "createdAt"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := w.Write([]string{t.ID, t.Title, t.Description, strconv.FormatBool(t.Completed), t.CreatedAt}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return b.Bytes(), nil
}

// PDF renders a one-column report, one task per block.
func PDF(tasks []models.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(40, 6, "No tasks")
	}

	// Core fonts are cp1252; translate so accented titles survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("[%s] %s", t.StatusLabel(), t.Title)), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		pdf.SetFont("Arial", "I", 8)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("id %s, created %s", t.ID, t.CreatedAt)), "0", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
