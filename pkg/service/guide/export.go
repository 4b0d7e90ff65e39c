package guide

import (
	"bytes"
	"encoding/json"
	"html/template"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/readylab-io/waypoint/pkg/domain/model"
)

// Format selects the export rendering.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = goerr.New("unknown export format")

func (f Format) IsValid() bool {
	return f == FormatHTML || f == FormatJSON
}

// ContentType returns the MIME type of the rendered document.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	default:
		return "text/html; charset=utf-8"
	}
}

// Document is the exportable view of a guide's progress.
type Document struct {
	Title                string         `json:"title"`
	ProjectName          string         `json:"project_name"`
	GuideID              string         `json:"guide_id"`
	CompletedSections    []string       `json:"completed_sections"`
	TotalSections        int            `json:"total_sections"`
	CompletionPercentage int            `json:"completion_percentage"`
	FormData             map[string]any `json:"form_data,omitempty"`
	ExportedAt           time.Time      `json:"exported_at"`
}

// NewDocument builds a Document from a project and one of its guides. The
// completion percentage is recomputed from the section counts so a stale
// stored value never leaks into an export.
func NewDocument(project *model.Project, progress *model.GuideProgress, now time.Time) *Document {
	p := *progress
	p.Recompute()

	return &Document{
		Title:                p.Title,
		ProjectName:          project.Name,
		GuideID:              string(p.GuideID),
		CompletedSections:    append([]string{}, p.CompletedSections...),
		TotalSections:        p.TotalSections,
		CompletionPercentage: p.CompletionPercentage,
		FormData:             p.FormData,
		ExportedAt:           now,
	}
}

var htmlTmpl = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Project: {{.ProjectName}}</p>
<p>Completion: {{.CompletionPercentage}}% ({{len .CompletedSections}} of {{.TotalSections}} sections)</p>
<h2>Completed sections</h2>
<ul>
{{- range .CompletedSections}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- if .FormData}}
<h2>Responses</h2>
<dl>
{{- range $key, $value := .FormData}}
<dt>{{$key}}</dt>
<dd>{{$value}}</dd>
{{- end}}
</dl>
{{- end}}
<footer>Exported {{.ExportedAt.Format "2006-01-02 15:04 MST"}}</footer>
</body>
</html>
`))

// Render serializes the document in the requested format.
func Render(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal export document")
		}
		return data, nil

	case FormatHTML:
		var buf bytes.Buffer
		if err := htmlTmpl.Execute(&buf, doc); err != nil {
			return nil, goerr.Wrap(err, "failed to render export document")
		}
		return buf.Bytes(), nil

	default:
		return nil, goerr.Wrap(ErrUnknownFormat, "failed to render export", goerr.V("format", string(format)))
	}
}
