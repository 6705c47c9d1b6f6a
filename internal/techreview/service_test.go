package techreview

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubRootResolver struct {
	root       string
	resolveErr error
}

func (resolver *stubRootResolver) ResolveRoot(context.Context, string) (string, error) {
	if resolver.resolveErr != nil {
		return "", resolver.resolveErr
	}
	return resolver.root, nil
}

type recordingAuditReporter struct {
	createdItems []string
	issues       []string
}

func (reporter *recordingAuditReporter) ItemCreated(itemPath string) {
	reporter.createdItems = append(reporter.createdItems, itemPath)
}

func (reporter *recordingAuditReporter) ComplianceIssue(message string) {
	reporter.issues = append(reporter.issues, message)
}

func defaultReviewPolicy() ReviewPolicy {
	return ReviewPolicy{
		Product:               "example",
		AuthorMaintainerName:  "ANSYS, Inc.",
		AuthorMaintainerEmail: "pyansys.core@ansys.com",
		LicenseIdentifier:     "MIT",
		URL:                   "https://dev.docs.pyansys.com/how-to/contributing.html",
		StartYear:             2023,
		CurrentYear:           2026,
	}
}

func newTestAuditService(t *testing.T, repositoryRoot string, reporter AuditReporter) *Service {
	t.Helper()
	service, serviceError := NewService(ServiceDependencies{
		RepositoryRootResolver: &stubRootResolver{root: repositoryRoot},
		Reporter:               reporter,
	})
	require.NoError(t, serviceError)
	return service
}

func scaffoldCompliantRepository(t *testing.T, repositoryRoot string) {
	t.Helper()
	writePyproject(t, repositoryRoot, compliantPyproject)

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	_, firstRunError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, firstRunError)

	// The generated CONTRIBUTORS.md must be edited before the audit passes.
	contributorsPath := filepath.Join(repositoryRoot, "CONTRIBUTORS.md")
	require.NoError(t, os.WriteFile(contributorsPath, []byte("# Contributors\n\n* Jamie Doe\n"), 0o644))
}

func TestNewServiceRequiresRootResolver(t *testing.T) {
	_, serviceError := NewService(ServiceDependencies{})
	require.ErrorIs(t, serviceError, ErrAuditRootResolverNotConfigured)
}

func TestAuditScaffoldsMissingStructure(t *testing.T) {
	repositoryRoot := t.TempDir()
	writePyproject(t, repositoryRoot, compliantPyproject)

	reporter := &recordingAuditReporter{}
	service := newTestAuditService(t, repositoryRoot, reporter)

	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.False(t, summary.Compliant())

	for _, directoryName := range RequiredDirectories() {
		require.DirExists(t, filepath.Join(repositoryRoot, directoryName))
		require.FileExists(t, filepath.Join(repositoryRoot, directoryName, ".gitkeep"))
	}
	for _, fileName := range RequiredFiles() {
		require.FileExists(t, filepath.Join(repositoryRoot, fileName))
	}
	require.FileExists(t, filepath.Join(repositoryRoot, ".github", "dependabot.yml"))
	require.Equal(t, summary.CreatedItems, reporter.createdItems)
}

func TestAuditPassesOnSecondRunAfterReview(t *testing.T) {
	repositoryRoot := t.TempDir()
	scaffoldCompliantRepository(t, repositoryRoot)

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.True(t, summary.Compliant())
	require.Empty(t, summary.CreatedItems)
	require.Empty(t, summary.Findings)
}

func TestAuditNeverOverwritesExistingFiles(t *testing.T) {
	repositoryRoot := t.TempDir()
	writePyproject(t, repositoryRoot, compliantPyproject)

	contributingPath := filepath.Join(repositoryRoot, "CONTRIBUTING.md")
	customContent := "# Custom contributing guide\n"
	require.NoError(t, os.WriteFile(contributingPath, []byte(customContent), 0o644))

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	_, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)

	preservedContent, readError := os.ReadFile(contributingPath)
	require.NoError(t, readError)
	require.Equal(t, customContent, string(preservedContent))
}

func TestAuditSubstitutesPolicyValuesIntoTemplates(t *testing.T) {
	repositoryRoot := t.TempDir()
	writePyproject(t, repositoryRoot, compliantPyproject)

	policy := defaultReviewPolicy()
	policy.Product = "mechanical"

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	_, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           policy,
	})
	require.NoError(t, auditError)

	contributingContent, readError := os.ReadFile(filepath.Join(repositoryRoot, "CONTRIBUTING.md"))
	require.NoError(t, readError)
	require.Contains(t, string(contributingContent), "mechanical")
	require.Contains(t, string(contributingContent), "ANSYS, Inc.")
	require.Contains(t, string(contributingContent), "ansys-example-library")

	licenseContent, licenseReadError := os.ReadFile(filepath.Join(repositoryRoot, "LICENSE"))
	require.NoError(t, licenseReadError)
	require.Contains(t, string(licenseContent), "MIT License")
	require.Contains(t, string(licenseContent), "2023 - 2026")
}

func TestAuditAcceptsMarkdownReadme(t *testing.T) {
	repositoryRoot := t.TempDir()
	scaffoldCompliantRepository(t, repositoryRoot)

	readmeRstPath := filepath.Join(repositoryRoot, "README.rst")
	require.NoError(t, os.Remove(readmeRstPath))
	require.NoError(t, os.WriteFile(filepath.Join(repositoryRoot, "README.md"), []byte("# ansys-example-library\n"), 0o644))

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.True(t, summary.Compliant())
	require.NoFileExists(t, readmeRstPath)
}

func TestAuditSkipsProjectScopedFilesWithoutMetadata(t *testing.T) {
	repositoryRoot := t.TempDir()

	reporter := &recordingAuditReporter{}
	service := newTestAuditService(t, repositoryRoot, reporter)

	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.False(t, summary.Compliant())
	require.Contains(t, summary.Findings, "pyproject.toml and setup.py files do not exist")

	require.NoFileExists(t, filepath.Join(repositoryRoot, "AUTHORS.md"))
	require.NoFileExists(t, filepath.Join(repositoryRoot, "README.rst"))
	require.NoFileExists(t, filepath.Join(repositoryRoot, ".github", "dependabot.yml"))
	require.FileExists(t, filepath.Join(repositoryRoot, "CONTRIBUTING.md"))
}

func TestAuditFlagsUnchangedContributorsFile(t *testing.T) {
	repositoryRoot := t.TempDir()
	scaffoldCompliantRepository(t, repositoryRoot)

	templateContent, renderError := RenderScaffold("CONTRIBUTORS.md", ScaffoldData{})
	require.NoError(t, renderError)
	require.NoError(t, os.WriteFile(filepath.Join(repositoryRoot, "CONTRIBUTORS.md"), []byte(templateContent), 0o644))

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.Contains(t, summary.Findings, "CONTRIBUTORS.md has not been updated from its template")
}

func TestAuditFlagsLicenseMissingFullName(t *testing.T) {
	repositoryRoot := t.TempDir()
	scaffoldCompliantRepository(t, repositoryRoot)

	require.NoError(t, os.WriteFile(filepath.Join(repositoryRoot, "LICENSE"), []byte("custom license text\n"), 0o644))

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           defaultReviewPolicy(),
	})
	require.NoError(t, auditError)
	require.Contains(t, summary.Findings, `the LICENSE file content is missing "MIT License"`)
}

func TestAuditFlagsUnknownLicenseIdentifier(t *testing.T) {
	repositoryRoot := t.TempDir()
	scaffoldCompliantRepository(t, repositoryRoot)

	policy := defaultReviewPolicy()
	policy.LicenseIdentifier = "NotALicense"

	service := newTestAuditService(t, repositoryRoot, &recordingAuditReporter{})
	summary, auditError := service.Audit(context.Background(), AuditOptions{
		WorkingDirectory: repositoryRoot,
		Policy:           policy,
	})
	require.NoError(t, auditError)
	require.Contains(t, summary.Findings, `license "NotALicense" is not in the bundled SPDX catalog`)
}
