package techreview

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var embeddedScaffoldTemplates embed.FS

const (
	scaffoldTemplateDirectoryConstant     = "templates"
	scaffoldTemplateExtensionConstant     = ".tmpl"
	titleUnderlineRuneConstant            = "="
	scaffoldParseErrorTemplateConstant    = "unable to parse template for %s: %w"
	scaffoldRenderErrorTemplateConstant   = "unable to render template for %s: %w"
	scaffoldLookupErrorTemplateConstant   = "%w: %s"
	dependabotEncodeErrorTemplateConstant = "unable to encode dependabot configuration: %w"
	dependabotEcosystemConstant           = "pip"
	dependabotDirectoryConstant           = "/"
	dependabotIntervalConstant            = "daily"
	dependabotDependenciesLabelConstant   = "dependencies"
	dependabotMaintenanceLabelConstant    = "maintenance"
)

// ErrScaffoldTemplateNotFound indicates that a checklist file has no bundled
// template. It is a fatal configuration error.
var ErrScaffoldTemplateNotFound = errors.New("scaffold template not found")

// ScaffoldData carries the substitution values rendered into checklist
// templates.
type ScaffoldData struct {
	RepositoryName string
	ProjectName    string
	Product        string
	AuthorName     string
	AuthorEmail    string
	LicenseName    string
	URL            string
	YearSpan       string
	TitleUnderline string
}

// RenderScaffold renders the bundled template for the named checklist file.
func RenderScaffold(fileName string, scaffoldData ScaffoldData) (string, error) {
	templatePath := scaffoldTemplateDirectoryConstant + "/" + fileName + scaffoldTemplateExtensionConstant
	templateContent, readError := embeddedScaffoldTemplates.ReadFile(templatePath)
	if readError != nil {
		return "", fmt.Errorf(scaffoldLookupErrorTemplateConstant, ErrScaffoldTemplateNotFound, fileName)
	}

	scaffoldData.TitleUnderline = strings.Repeat(titleUnderlineRuneConstant, len(scaffoldData.ProjectName))

	parsedTemplate, parseError := template.New(fileName).Parse(string(templateContent))
	if parseError != nil {
		return "", fmt.Errorf(scaffoldParseErrorTemplateConstant, fileName, parseError)
	}

	renderedBuffer := &bytes.Buffer{}
	if renderError := parsedTemplate.Execute(renderedBuffer, scaffoldData); renderError != nil {
		return "", fmt.Errorf(scaffoldRenderErrorTemplateConstant, fileName, renderError)
	}
	return renderedBuffer.String(), nil
}

type dependabotConfiguration struct {
	Version int                `yaml:"version"`
	Updates []dependabotUpdate `yaml:"updates"`
}

type dependabotUpdate struct {
	PackageEcosystem string             `yaml:"package-ecosystem"`
	Directory        string             `yaml:"directory"`
	Schedule         dependabotSchedule `yaml:"schedule"`
	Labels           []string           `yaml:"labels"`
}

type dependabotSchedule struct {
	Interval string `yaml:"interval"`
}

// RenderDependabotConfiguration produces the default dependabot.yml content.
func RenderDependabotConfiguration() (string, error) {
	configuration := dependabotConfiguration{
		Version: 2,
		Updates: []dependabotUpdate{
			{
				PackageEcosystem: dependabotEcosystemConstant,
				Directory:        dependabotDirectoryConstant,
				Schedule:         dependabotSchedule{Interval: dependabotIntervalConstant},
				Labels:           []string{dependabotMaintenanceLabelConstant, dependabotDependenciesLabelConstant},
			},
		},
	}

	encodedConfiguration, encodeError := yaml.Marshal(configuration)
	if encodeError != nil {
		return "", fmt.Errorf(dependabotEncodeErrorTemplateConstant, encodeError)
	}
	return string(encodedConfiguration), nil
}
