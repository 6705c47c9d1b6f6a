package techreview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	directoryPermissionsConstant      = os.FileMode(0o755)
	checklistFilePermissionsConstant  = os.FileMode(0o644)
	yearSpanTemplateConstant          = "%d - %d"
	singleYearSpanTemplateConstant    = "%d"
	directoryCreateErrorTemplate      = "unable to create directory %s: %w"
	checklistWriteErrorTemplate       = "unable to create %s: %w"
	checklistReadErrorTemplate        = "unable to read %s: %w"
	unknownLicenseFindingTemplate     = "license %q is not in the bundled SPDX catalog"
	licenseNameMissingFindingTemplate = "the LICENSE file content is missing %q"
	contributorsUnchangedFindingText  = "CONTRIBUTORS.md has not been updated from its template"
	auditStartedMessageConstant       = "technical review started"
	auditFinishedMessageConstant      = "technical review finished"
	logFieldAuditRootConstant         = "repository_root"
	logFieldCreatedItemCountConstant  = "created_items"
	logFieldFindingCountConstant      = "findings"
)

// ErrAuditRootResolverNotConfigured indicates the service was constructed
// without a repository root resolver.
var ErrAuditRootResolverNotConfigured = errors.New("repository root resolver not configured")

// RepositoryRootResolver locates the repository top level for a working
// directory.
type RepositoryRootResolver interface {
	ResolveRoot(executionContext context.Context, workingDirectory string) (string, error)
}

// AuditReporter receives human readable progress notifications during an
// audit.
type AuditReporter interface {
	ItemCreated(itemPath string)
	ComplianceIssue(message string)
}

// AuditOptions describes a single technical review request.
type AuditOptions struct {
	WorkingDirectory string
	Policy           ReviewPolicy
}

// ReviewPolicy carries the expected project identity for a review run.
type ReviewPolicy struct {
	Product               string
	AuthorMaintainerName  string
	AuthorMaintainerEmail string
	LicenseIdentifier     string
	URL                   string
	StartYear             int
	CurrentYear           int
	NonCompliantName      bool
}

// YearSpan renders the review's copyright span, collapsing identical years.
func (policy ReviewPolicy) YearSpan() string {
	if policy.StartYear == 0 || policy.StartYear == policy.CurrentYear {
		return fmt.Sprintf(singleYearSpanTemplateConstant, policy.CurrentYear)
	}
	return fmt.Sprintf(yearSpanTemplateConstant, policy.StartYear, policy.CurrentYear)
}

// AuditSummary aggregates the outcome of a technical review run.
type AuditSummary struct {
	CreatedItems []string
	Findings     []string
}

// Compliant reports whether the repository passed without scaffolding or
// findings.
func (summary AuditSummary) Compliant() bool {
	return len(summary.CreatedItems) == 0 && len(summary.Findings) == 0
}

// ServiceDependencies aggregates the collaborators required by the service.
type ServiceDependencies struct {
	Logger                 *zap.Logger
	RepositoryRootResolver RepositoryRootResolver
	Reporter               AuditReporter
}

// Service audits a repository against the technical review checklist,
// scaffolding missing structure from bundled templates.
type Service struct {
	logger                 *zap.Logger
	repositoryRootResolver RepositoryRootResolver
	reporter               AuditReporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryRootResolver == nil {
		return nil, ErrAuditRootResolverNotConfigured
	}

	serviceLogger := dependencies.Logger
	if serviceLogger == nil {
		serviceLogger = zap.NewNop()
	}

	serviceReporter := dependencies.Reporter
	if serviceReporter == nil {
		serviceReporter = silentAuditReporter{}
	}

	return &Service{
		logger:                 serviceLogger,
		repositoryRootResolver: dependencies.RepositoryRootResolver,
		reporter:               serviceReporter,
	}, nil
}

// Audit runs the full technical review: packaging metadata audit, directory
// and file scaffolding, and content checks. Scaffolding never overwrites an
// existing item.
func (service *Service) Audit(executionContext context.Context, options AuditOptions) (AuditSummary, error) {
	summary := AuditSummary{}

	repositoryRoot, rootError := service.repositoryRootResolver.ResolveRoot(executionContext, options.WorkingDirectory)
	if rootError != nil {
		return summary, rootError
	}

	service.logger.Debug(auditStartedMessageConstant, zap.String(logFieldAuditRootConstant, repositoryRoot))

	configurationAuditor := NewProjectConfigurationAuditor(repositoryRoot)
	configurationAudit, configurationError := configurationAuditor.Audit(ContactExpectations{
		AuthorMaintainerName:  options.Policy.AuthorMaintainerName,
		AuthorMaintainerEmail: options.Policy.AuthorMaintainerEmail,
		NonCompliantName:      options.Policy.NonCompliantName,
	})
	if configurationError != nil {
		return summary, configurationError
	}
	service.recordFindings(&summary, configurationAudit.Findings)

	if directoryError := service.ensureDirectories(repositoryRoot, &summary); directoryError != nil {
		return summary, directoryError
	}

	scaffoldData := ScaffoldData{
		RepositoryName: filepath.Base(repositoryRoot),
		ProjectName:    configurationAudit.ProjectName,
		Product:        options.Policy.Product,
		AuthorName:     options.Policy.AuthorMaintainerName,
		AuthorEmail:    options.Policy.AuthorMaintainerEmail,
		URL:            options.Policy.URL,
		YearSpan:       options.Policy.YearSpan(),
	}

	licenseName, licenseKnown := LicenseFullName(options.Policy.LicenseIdentifier)
	if !licenseKnown {
		service.recordFindings(&summary, []string{fmt.Sprintf(unknownLicenseFindingTemplate, options.Policy.LicenseIdentifier)})
	}
	scaffoldData.LicenseName = licenseName

	if fileError := service.ensureFiles(repositoryRoot, scaffoldData, configurationAudit.ProjectNameKnown, &summary); fileError != nil {
		return summary, fileError
	}

	if contentError := service.auditContents(repositoryRoot, scaffoldData, licenseName, &summary); contentError != nil {
		return summary, contentError
	}

	service.logger.Debug(
		auditFinishedMessageConstant,
		zap.Int(logFieldCreatedItemCountConstant, len(summary.CreatedItems)),
		zap.Int(logFieldFindingCountConstant, len(summary.Findings)),
	)

	return summary, nil
}

func (service *Service) ensureDirectories(repositoryRoot string, summary *AuditSummary) error {
	for _, directoryName := range RequiredDirectories() {
		directoryPath := filepath.Join(repositoryRoot, directoryName)
		if _, statError := os.Stat(directoryPath); statError == nil {
			continue
		}

		if createError := os.MkdirAll(directoryPath, directoryPermissionsConstant); createError != nil {
			return fmt.Errorf(directoryCreateErrorTemplate, directoryPath, createError)
		}
		gitkeepPath := filepath.Join(directoryPath, gitkeepFileNameConstant)
		if writeError := os.WriteFile(gitkeepPath, nil, checklistFilePermissionsConstant); writeError != nil {
			return fmt.Errorf(checklistWriteErrorTemplate, gitkeepPath, writeError)
		}

		summary.CreatedItems = append(summary.CreatedItems, directoryName)
		service.reporter.ItemCreated(directoryName)
	}
	return nil
}

func (service *Service) ensureFiles(repositoryRoot string, scaffoldData ScaffoldData, projectNameKnown bool, summary *AuditSummary) error {
	for _, fileName := range RequiredFiles() {
		// AUTHORS.md and README.rst substitute the project name; without
		// packaging metadata there is nothing to substitute.
		if !projectNameKnown && (fileName == authorsFileNameConstant || fileName == readmeRstFileNameConstant) {
			continue
		}

		if fileName == readmeRstFileNameConstant {
			markdownReadmePath := filepath.Join(repositoryRoot, readmeMarkdownFileNameConstant)
			if _, statError := os.Stat(markdownReadmePath); statError == nil {
				continue
			}
		}

		filePath := filepath.Join(repositoryRoot, fileName)
		if _, statError := os.Stat(filePath); statError == nil {
			continue
		}

		fileContent, renderError := RenderScaffold(fileName, scaffoldData)
		if renderError != nil {
			return renderError
		}
		if writeError := os.WriteFile(filePath, []byte(fileContent), checklistFilePermissionsConstant); writeError != nil {
			return fmt.Errorf(checklistWriteErrorTemplate, filePath, writeError)
		}

		summary.CreatedItems = append(summary.CreatedItems, fileName)
		service.reporter.ItemCreated(fileName)
	}

	if projectNameKnown {
		if dependabotError := service.ensureDependabotConfiguration(repositoryRoot, summary); dependabotError != nil {
			return dependabotError
		}
	}

	return nil
}

func (service *Service) ensureDependabotConfiguration(repositoryRoot string, summary *AuditSummary) error {
	dependabotRelativePath := filepath.Join(githubDirectoryNameConstant, dependabotFileNameConstant)
	dependabotPath := filepath.Join(repositoryRoot, dependabotRelativePath)
	if _, statError := os.Stat(dependabotPath); statError == nil {
		return nil
	}

	dependabotContent, renderError := RenderDependabotConfiguration()
	if renderError != nil {
		return renderError
	}

	if directoryError := os.MkdirAll(filepath.Dir(dependabotPath), directoryPermissionsConstant); directoryError != nil {
		return fmt.Errorf(directoryCreateErrorTemplate, filepath.Dir(dependabotPath), directoryError)
	}
	if writeError := os.WriteFile(dependabotPath, []byte(dependabotContent), checklistFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(checklistWriteErrorTemplate, dependabotPath, writeError)
	}

	summary.CreatedItems = append(summary.CreatedItems, dependabotRelativePath)
	service.reporter.ItemCreated(dependabotRelativePath)
	return nil
}

func (service *Service) auditContents(repositoryRoot string, scaffoldData ScaffoldData, licenseName string, summary *AuditSummary) error {
	contributorsPath := filepath.Join(repositoryRoot, contributorsFileNameConstant)
	contributorsContent, contributorsReadError := os.ReadFile(contributorsPath)
	if contributorsReadError == nil && !createdThisRun(summary, contributorsFileNameConstant) {
		templateContent, renderError := RenderScaffold(contributorsFileNameConstant, scaffoldData)
		if renderError != nil {
			return renderError
		}
		if string(contributorsContent) == templateContent {
			service.recordFindings(summary, []string{contributorsUnchangedFindingText})
		}
	}

	if len(licenseName) == 0 || createdThisRun(summary, licenseChecklistFileConstant) {
		return nil
	}
	licensePath := filepath.Join(repositoryRoot, licenseChecklistFileConstant)
	licenseContent, licenseReadError := os.ReadFile(licensePath)
	if licenseReadError != nil {
		if os.IsNotExist(licenseReadError) {
			return nil
		}
		return fmt.Errorf(checklistReadErrorTemplate, licensePath, licenseReadError)
	}
	if !strings.Contains(string(licenseContent), licenseName) {
		service.recordFindings(summary, []string{fmt.Sprintf(licenseNameMissingFindingTemplate, licenseName)})
	}

	return nil
}

func (service *Service) recordFindings(summary *AuditSummary, findings []string) {
	for _, finding := range findings {
		summary.Findings = append(summary.Findings, finding)
		service.reporter.ComplianceIssue(finding)
	}
}

func createdThisRun(summary *AuditSummary, itemName string) bool {
	for _, createdItem := range summary.CreatedItems {
		if createdItem == itemName {
			return true
		}
	}
	return false
}

type silentAuditReporter struct{}

func (silentAuditReporter) ItemCreated(string)     {}
func (silentAuditReporter) ComplianceIssue(string) {}
