package init_proj

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed init_template/*
var initTemplateFS embed.FS

// ProjectData holds the template data for generated files
type ProjectData struct {
	ProjectName  string
	Identifier   string
	CxxStandard  int
	CMakeMinimum string
}

// NewProjectData derives template data for a project. The identifier is the
// project name with hyphens replaced by underscores, usable as a CMake target
// and a C++ namespace.
func NewProjectData(name string, cxxStandard int, cmakeMinimum string) ProjectData {
	return ProjectData{
		ProjectName:  name,
		Identifier:   strings.ReplaceAll(name, "-", "_"),
		CxxStandard:  cxxStandard,
		CMakeMinimum: cmakeMinimum,
	}
}

// TemplateProvider supplies the bodies of generated project files.
type TemplateProvider interface {
	BuildDescriptor(data ProjectData) (string, error)
	MainSource(data ProjectData) (string, error)
}

// EmbeddedTemplates renders the templates bundled with jtool.
type EmbeddedTemplates struct{}

func (EmbeddedTemplates) BuildDescriptor(data ProjectData) (string, error) {
	return render("init_template/CMakeLists.txt.tmpl", data)
}

func (EmbeddedTemplates) MainSource(data ProjectData) (string, error) {
	return render("init_template/main.cpp.tmpl", data)
}

func render(templatePath string, data ProjectData) (string, error) {
	content, err := initTemplateFS.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}
	tmpl := template.Must(template.New(templatePath).Option("missingkey=error").Parse(string(content)))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}
	return buf.String(), nil
}
