package licenseheader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaterializeWritesDefaultsOnce(t *testing.T) {
	repositoryRoot := t.TempDir()
	reporter := &recordingReporter{}
	manager := NewAssetManager(repositoryRoot, reporter)
	specification := testSpecification()

	require.NoError(t, manager.Materialize(specification))
	require.FileExists(t, filepath.Join(repositoryRoot, ".reuse", "templates", "ansys.tmpl"))
	require.FileExists(t, filepath.Join(repositoryRoot, "LICENSES", "MIT.txt"))
	require.Len(t, reporter.createdItems, 2)

	require.NoError(t, manager.Materialize(specification))
	require.Len(t, reporter.createdItems, 2)
}

func TestCleanupRemovesOnlyUnmodifiedAssets(t *testing.T) {
	repositoryRoot := t.TempDir()
	manager := NewAssetManager(repositoryRoot, nil)
	specification := testSpecification()

	require.NoError(t, manager.Materialize(specification))

	licensePath := filepath.Join(repositoryRoot, "LICENSES", "MIT.txt")
	require.NoError(t, os.WriteFile(licensePath, []byte("customized license"), 0o644))

	require.NoError(t, manager.Cleanup(specification))
	require.FileExists(t, licensePath)
	require.NoDirExists(t, filepath.Join(repositoryRoot, ".reuse"))
}

func TestRenderTemplatePrefersRepositoryCustomization(t *testing.T) {
	repositoryRoot := t.TempDir()
	templateDirectory := filepath.Join(repositoryRoot, ".reuse", "templates")
	require.NoError(t, os.MkdirAll(templateDirectory, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(templateDirectory, "ansys.tmpl"),
		[]byte("custom {{ .YearRange }} {{ .LicenseIdentifier }}\n"),
		0o644,
	))

	manager := NewAssetManager(repositoryRoot, nil)
	rendered, renderError := manager.RenderTemplate(testSpecification())
	require.NoError(t, renderError)
	require.Equal(t, "custom 2023 - 2026 MIT\n", rendered)
}

func TestRenderTemplateFailsForUnknownTemplate(t *testing.T) {
	manager := NewAssetManager(t.TempDir(), nil)
	specification := testSpecification()
	specification.TemplateName = "unknown"

	_, renderError := manager.RenderTemplate(specification)
	require.ErrorIs(t, renderError, ErrTemplateNotFound)
}

func TestLicenseFileRefresherUpdatesStaleSpan(t *testing.T) {
	repositoryRoot := t.TempDir()
	licensePath := writeTestFile(t, repositoryRoot, "LICENSE",
		"MIT License\n\nCopyright (c) 2020 ANSYS, Inc. All rights reserved.\n")

	refresher := NewLicenseFileRefresher(repositoryRoot)
	refreshed, refreshError := refresher.Refresh(2026)
	require.NoError(t, refreshError)
	require.True(t, refreshed)

	refreshedContent, readError := os.ReadFile(licensePath)
	require.NoError(t, readError)
	require.Contains(t, string(refreshedContent), "Copyright (c) 2020 - 2026 ANSYS, Inc. All rights reserved.")

	refreshedAgain, secondRefreshError := refresher.Refresh(2026)
	require.NoError(t, secondRefreshError)
	require.False(t, refreshedAgain)
}

func TestLicenseFileRefresherToleratesMissingFile(t *testing.T) {
	refresher := NewLicenseFileRefresher(t.TempDir())
	refreshed, refreshError := refresher.Refresh(2026)
	require.NoError(t, refreshError)
	require.False(t, refreshed)
}
