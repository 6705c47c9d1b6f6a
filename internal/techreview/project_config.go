package techreview

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"
)

const (
	pyprojectFileNameConstant            = "pyproject.toml"
	setupFileNameConstant                = "setup.py"
	projectNamePatternConstant           = `^ansys-[a-z]+-[a-z]+$`
	semverPrefixConstant                 = "v"
	pyprojectParseErrorTemplateConstant  = "unable to parse %s: %w"
	findingMissingConfigurationConstant  = "pyproject.toml and setup.py files do not exist"
	findingNameConventionConstant        = "project name does not follow the ansys-{product}-{library} naming convention"
	findingVersionNotSemverConstant      = "project version does not follow semantic versioning"
	findingFieldMissingTemplateConstant  = "project %s %s does not exist in the pyproject.toml file"
	findingFieldMismatchTemplateConstant = "project %s %s does not match %q"
	authorsCategoryConstant              = "authors"
	maintainersCategoryConstant          = "maintainers"
	nameMetadataConstant                 = "name"
	emailMetadataConstant                = "email"
)

var projectNamePattern = regexp.MustCompile(projectNamePatternConstant)

type pyprojectDocument struct {
	Project pyprojectProject `toml:"project"`
}

type pyprojectProject struct {
	Name        string             `toml:"name"`
	Version     string             `toml:"version"`
	Authors     []pyprojectContact `toml:"authors"`
	Maintainers []pyprojectContact `toml:"maintainers"`
}

type pyprojectContact struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// ProjectConfigurationAudit is the outcome of inspecting the repository's
// packaging metadata.
type ProjectConfigurationAudit struct {
	ProjectName      string
	ProjectNameKnown bool
	Findings         []string
}

// ProjectConfigurationAuditor validates the repository's packaging metadata
// against the expected naming, versioning, and contact conventions.
type ProjectConfigurationAuditor struct {
	repositoryRoot string
}

// NewProjectConfigurationAuditor constructs an auditor rooted at the
// repository top level.
func NewProjectConfigurationAuditor(repositoryRoot string) *ProjectConfigurationAuditor {
	return &ProjectConfigurationAuditor{repositoryRoot: repositoryRoot}
}

// Audit inspects pyproject.toml when present, falls back to setup.py, and
// reports the project name along with every convention violation found.
// A repository without either file yields a finding but no fatal error.
func (auditor *ProjectConfigurationAuditor) Audit(expectations ContactExpectations) (ProjectConfigurationAudit, error) {
	pyprojectPath := filepath.Join(auditor.repositoryRoot, pyprojectFileNameConstant)
	if _, statError := os.Stat(pyprojectPath); statError == nil {
		return auditor.auditPyproject(pyprojectPath, expectations)
	}

	setupPath := filepath.Join(auditor.repositoryRoot, setupFileNameConstant)
	if _, statError := os.Stat(setupPath); statError == nil {
		// setup.py carries no parseable metadata; the repository folder name
		// stands in for the project name.
		return ProjectConfigurationAudit{
			ProjectName:      filepath.Base(auditor.repositoryRoot),
			ProjectNameKnown: true,
		}, nil
	}

	return ProjectConfigurationAudit{Findings: []string{findingMissingConfigurationConstant}}, nil
}

// ContactExpectations names the author and maintainer identity every project
// must declare.
type ContactExpectations struct {
	AuthorMaintainerName  string
	AuthorMaintainerEmail string
	NonCompliantName      bool
}

func (auditor *ProjectConfigurationAuditor) auditPyproject(pyprojectPath string, expectations ContactExpectations) (ProjectConfigurationAudit, error) {
	pyprojectContent, readError := os.ReadFile(pyprojectPath)
	if readError != nil {
		return ProjectConfigurationAudit{}, fmt.Errorf(pyprojectParseErrorTemplateConstant, pyprojectPath, readError)
	}

	var document pyprojectDocument
	if unmarshalError := toml.Unmarshal(pyprojectContent, &document); unmarshalError != nil {
		return ProjectConfigurationAudit{}, fmt.Errorf(pyprojectParseErrorTemplateConstant, pyprojectPath, unmarshalError)
	}

	audit := ProjectConfigurationAudit{
		ProjectName:      document.Project.Name,
		ProjectNameKnown: len(document.Project.Name) > 0,
	}

	if !expectations.NonCompliantName && !projectNamePattern.MatchString(document.Project.Name) {
		audit.Findings = append(audit.Findings, findingNameConventionConstant)
	}

	if len(document.Project.Version) > 0 && !semver.IsValid(semverPrefixConstant+document.Project.Version) {
		audit.Findings = append(audit.Findings, findingVersionNotSemverConstant)
	}

	audit.Findings = append(audit.Findings, auditContacts(authorsCategoryConstant, document.Project.Authors, expectations)...)
	audit.Findings = append(audit.Findings, auditContacts(maintainersCategoryConstant, document.Project.Maintainers, expectations)...)

	return audit, nil
}

func auditContacts(category string, contacts []pyprojectContact, expectations ContactExpectations) []string {
	if len(contacts) == 0 {
		return []string{
			fmt.Sprintf(findingFieldMissingTemplateConstant, category, nameMetadataConstant),
			fmt.Sprintf(findingFieldMissingTemplateConstant, category, emailMetadataConstant),
		}
	}

	var findings []string
	firstContact := contacts[0]

	switch {
	case len(firstContact.Name) == 0:
		findings = append(findings, fmt.Sprintf(findingFieldMissingTemplateConstant, category, nameMetadataConstant))
	case !strings.Contains(expectations.AuthorMaintainerName, firstContact.Name):
		findings = append(findings, fmt.Sprintf(findingFieldMismatchTemplateConstant, category, nameMetadataConstant, expectations.AuthorMaintainerName))
	}

	switch {
	case len(firstContact.Email) == 0:
		findings = append(findings, fmt.Sprintf(findingFieldMissingTemplateConstant, category, emailMetadataConstant))
	case !strings.Contains(expectations.AuthorMaintainerEmail, firstContact.Email):
		findings = append(findings, fmt.Sprintf(findingFieldMismatchTemplateConstant, category, emailMetadataConstant, expectations.AuthorMaintainerEmail))
	}

	return findings
}
